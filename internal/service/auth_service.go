package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/squirrelip/squirrel_server/config"
	"github.com/squirrelip/squirrel_server/internal/model"
	"github.com/squirrelip/squirrel_server/internal/model/dto"
	"github.com/squirrelip/squirrel_server/internal/pkg/jwt"
	"github.com/squirrelip/squirrel_server/internal/repository"
)

var (
	ErrEmailExists        = errors.New("User already exists with this email")
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrUserNotFound       = errors.New("User not found")
)

type AuthService struct {
	userRepo *repository.UserRepository
	notifier Notifier
	cfg      *config.JWTConfig
}

func NewAuthService(userRepo *repository.UserRepository, notifier Notifier, cfg *config.JWTConfig) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		notifier: notifier,
		cfg:      cfg,
	}
}

// Register creates the account and signs the caller in.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.LoginResponse, error) {
	email := normalizeEmail(req.Email)
	exists, err := s.userRepo.ExistsByEmail(email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		UserID:       uuid.NewString(),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		Mobile:       strings.TrimSpace(req.Mobile),
		Country:      req.Country,
		State:        req.State,
		City:         req.City,
		Pincode:      req.Pincode,
		PasswordHash: string(hashedPassword),
		JoinedAt:     time.Now(),
	}
	if err := s.userRepo.Create(user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	token, err := s.GenerateToken(user.UserID)
	if err != nil {
		return nil, err
	}

	s.notifier.UserRegistered(ctx, user)

	return &dto.LoginResponse{Token: token, User: user}, nil
}

func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.GenerateToken(user.UserID)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{Token: token, User: user}, nil
}

// CurrentUser resolves an authenticated id to its account.
func (s *AuthService) CurrentUser(userID string) (*model.User, error) {
	user, err := s.userRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) GenerateToken(userID string) (string, error) {
	return jwt.GenerateToken(userID, s.cfg.Secret, s.cfg.ExpireHours)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
