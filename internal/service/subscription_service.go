package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/squirrelip/squirrel_server/internal/model"
	"github.com/squirrelip/squirrel_server/internal/model/dto"
	"github.com/squirrelip/squirrel_server/internal/pkg/email"
	"github.com/squirrelip/squirrel_server/internal/repository"
)

var (
	ErrInvalidEmailFormat = errors.New("Invalid email format")
	ErrMissingFields      = errors.New("All fields are required")
	ErrAlreadySubscribed  = errors.New("Email already subscribed")
)

type SubscriptionService struct {
	repo     *repository.SubscriptionRepository
	notifier Notifier
}

func NewSubscriptionService(repo *repository.SubscriptionRepository, notifier Notifier) *SubscriptionService {
	return &SubscriptionService{repo: repo, notifier: notifier}
}

// Subscribe stores the request and notifies only when a new row was written.
func (s *SubscriptionService) Subscribe(ctx context.Context, req *dto.SubscribeRequest) (*model.Subscription, error) {
	sub := &model.Subscription{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		OrgName:   strings.TrimSpace(req.OrgName),
		Mobile:    strings.TrimSpace(req.Mobile),
		Message:   strings.TrimSpace(req.Message),
		Email:     normalizeEmail(req.Email),
	}

	if !email.ValidAddress(sub.Email) {
		return nil, ErrInvalidEmailFormat
	}
	for _, v := range []string{sub.FirstName, sub.LastName, sub.OrgName, sub.Mobile, sub.Message} {
		if v == "" {
			return nil, ErrMissingFields
		}
	}

	if err := s.repo.Create(sub); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadySubscribed
		}
		return nil, err
	}

	s.notifier.SubscriptionCreated(ctx, sub)
	return sub, nil
}
