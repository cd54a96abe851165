package repository

import (
	"gorm.io/gorm"

	"github.com/squirrelip/squirrel_server/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetByUserID(userID string) (*model.User, error) {
	var user model.User
	err := r.db.Where("user_id = ?", userID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) UpdateFields(userID string, fields map[string]interface{}) error {
	return r.db.Model(&model.User{}).Where("user_id = ?", userID).Updates(fields).Error
}

// DeleteCascade removes the account, every patent it owns and every
// interaction that names the user on either side or targets one of those
// patents. Returns the patents that were removed so their files can be purged.
func (r *UserRepository) DeleteCascade(userID string) ([]*model.Patent, error) {
	var patents []*model.Patent
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Find(&patents).Error; err != nil {
			return err
		}

		patentIDs := make([]string, 0, len(patents))
		for _, p := range patents {
			patentIDs = append(patentIDs, p.PatentID)
		}

		q := tx.Where("from_user_id = ? OR to_user_id = ?", userID, userID)
		if len(patentIDs) > 0 {
			q = tx.Where("from_user_id = ? OR to_user_id = ? OR patent_id IN ?", userID, userID, patentIDs)
		}
		if err := q.Delete(&model.Interaction{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).Delete(&model.Patent{}).Error; err != nil {
			return err
		}

		res := tx.Where("user_id = ?", userID).Delete(&model.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return patents, nil
}
