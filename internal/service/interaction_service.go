package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/squirrelip/squirrel_server/config"
	"github.com/squirrelip/squirrel_server/internal/model"
	"github.com/squirrelip/squirrel_server/internal/model/dto"
	"github.com/squirrelip/squirrel_server/internal/repository"
)

var (
	ErrInvalidInteractionKind = errors.New("Invalid interaction type")
	ErrMissingInteractionData = errors.New("from.userId, to.userId and patentDetails.patentId are required")
	ErrNotInteractionActor    = errors.New("You can only record interactions as yourself")
	ErrSelfInteraction        = errors.New("You cannot interact with your own patent")
)

type InteractionService struct {
	repo          *repository.InteractionRepository
	notifier      Notifier
	enquirySticky bool
	logger        *zap.Logger
}

func NewInteractionService(
	repo *repository.InteractionRepository,
	notifier Notifier,
	cfg *config.InteractionConfig,
	logger *zap.Logger,
) *InteractionService {
	return &InteractionService{
		repo:          repo,
		notifier:      notifier,
		enquirySticky: cfg.EnquirySticky,
		logger:        logger,
	}
}

// Toggle records or flips the caller's interaction of the given kind. An
// enquiry that becomes active on this call triggers the enquiry mails after
// the write has committed.
func (s *InteractionService) Toggle(ctx context.Context, actorID string, kind model.InteractionKind, req *dto.ToggleInteractionRequest) (*repository.ToggleResult, error) {
	if !kind.Valid() {
		return nil, ErrInvalidInteractionKind
	}
	if req.From.UserID == "" || req.To.UserID == "" || req.PatentDetails.PatentID == "" {
		return nil, ErrMissingInteractionData
	}
	if req.From.UserID != actorID {
		return nil, ErrNotInteractionActor
	}
	if req.From.UserID == req.To.UserID {
		return nil, ErrSelfInteraction
	}

	flip := !(kind == model.KindEnquiry && s.enquirySticky)
	result, err := s.repo.Toggle(&model.Interaction{
		Kind:          kind,
		From:          req.From,
		To:            req.To,
		PatentDetails: req.PatentDetails,
	}, flip)
	if err != nil {
		return nil, err
	}

	if kind == model.KindEnquiry && result.Interaction.Flag && (result.Created || result.Flipped) {
		s.notifier.EnquiryCreated(ctx, result.Interaction)
	}

	s.logger.Debug("interaction toggled",
		zap.String("kind", string(kind)),
		zap.String("from", req.From.UserID),
		zap.String("patent", req.PatentDetails.PatentID),
		zap.Bool("active", result.Interaction.Flag))

	return result, nil
}

func (s *InteractionService) DoerPatentIDs(kind model.InteractionKind, userID string) ([]string, error) {
	if !kind.Valid() {
		return nil, ErrInvalidInteractionKind
	}
	return s.repo.DoerPatentIDs(kind, userID)
}

func (s *InteractionService) ReceivedPatentIDs(kind model.InteractionKind, userID string) ([]string, error) {
	if !kind.Valid() {
		return nil, ErrInvalidInteractionKind
	}
	return s.repo.ReceivedPatentIDs(kind, userID)
}

// ReceivedSummary loads the three receiver views concurrently.
func (s *InteractionService) ReceivedSummary(ctx context.Context, userID string) (*dto.ReceivedSummary, error) {
	summary := &dto.ReceivedSummary{}
	targets := map[model.InteractionKind]*[]string{
		model.KindWishlist:   &summary.Wishlist,
		model.KindEnquiry:    &summary.Enquiry,
		model.KindImpression: &summary.Impression,
	}

	g, ctx := errgroup.WithContext(ctx)
	for kind, dst := range targets {
		kind, dst := kind, dst
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ids, err := s.repo.ReceivedPatentIDs(kind, userID)
			if err != nil {
				return err
			}
			*dst = ids
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}
