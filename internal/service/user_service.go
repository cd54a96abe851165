package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/squirrelip/squirrel_server/internal/model"
	"github.com/squirrelip/squirrel_server/internal/model/dto"
	"github.com/squirrelip/squirrel_server/internal/repository"
)

var ErrNothingToUpdate = errors.New("No fields to update")

type UserService struct {
	userRepo *repository.UserRepository
	patents  *PatentService
}

func NewUserService(userRepo *repository.UserRepository, patents *PatentService) *UserService {
	return &UserService{
		userRepo: userRepo,
		patents:  patents,
	}
}

// UpdateProfile applies the fields present in req and returns the stored user.
func (s *UserService) UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*model.User, error) {
	user, err := s.userRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	fields := profileFields(req)
	if len(fields) == 0 {
		return nil, ErrNothingToUpdate
	}

	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		fields["email"] = email
		if email != user.Email {
			exists, err := s.userRepo.ExistsByEmail(email)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, ErrEmailExists
			}
		}
	}

	if err := s.userRepo.UpdateFields(userID, fields); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	return s.userRepo.GetByUserID(userID)
}

// DeleteAccount removes the user with their listings and every related
// interaction, then purges the listings' stored files.
func (s *UserService) DeleteAccount(userID string) error {
	patents, err := s.userRepo.DeleteCascade(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if s.patents != nil {
		s.patents.PurgeFiles(patents...)
	}
	return nil
}

func profileFields(req *dto.UpdateProfileRequest) map[string]interface{} {
	fields := map[string]interface{}{}
	set := func(column string, v *string) {
		if v != nil {
			fields[column] = *v
		}
	}

	set("first_name", req.FirstName)
	set("last_name", req.LastName)
	set("email", req.Email)
	set("mobile", req.Mobile)
	set("country", req.Country)
	set("state", req.State)
	set("city", req.City)
	set("pincode", req.Pincode)
	set("org_logo", req.OrgLogo)
	set("org_name", req.OrgName)
	set("org_type", req.OrgType)
	set("org_email", req.OrgEmail)
	set("org_contact", req.OrgContact)
	set("job_title", req.JobTitle)
	set("org_location", req.OrgLocation)
	set("username", req.Username)
	set("linkedin", req.LinkedIn)
	set("facebook", req.Facebook)
	set("twitter", req.Twitter)
	set("avatar", req.Avatar)
	return fields
}
