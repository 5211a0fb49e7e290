package services

import (
	"context"
	"time"

	"socialgram-backend/application/ports"
	"socialgram-backend/domain/core/valueobjects"
	"socialgram-backend/domain/events"
	pkgerrors "socialgram-backend/pkg/errors"

	"go.uber.org/zap"
)

// GraphService applies follow/unfollow edges. The edge is stored redundantly
// as actor.following and target.followers; the repository writes both halves
// in one transaction so a reader never observes half an edge.
type GraphService struct {
	accounts ports.AccountRepository
	eventBus ports.EventBus
	logger   *zap.Logger
}

// NewGraphService creates a new graph service
func NewGraphService(
	accounts ports.AccountRepository,
	eventBus ports.EventBus,
	logger *zap.Logger,
) *GraphService {
	return &GraphService{
		accounts: accounts,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Follow adds the actor→target edge.
// Fails with InvalidOperation on self-follow, NotFound when either side is
// absent, Conflict when the edge already exists.
func (s *GraphService) Follow(ctx context.Context, actorID, targetID string) error {
	aid, tid, err := s.parsePair(actorID, targetID)
	if err != nil {
		return err
	}

	actor, err := s.accounts.GetByID(ctx, aid)
	if err != nil {
		return err
	}
	if _, err := s.accounts.GetByID(ctx, tid); err != nil {
		return err
	}

	if err := actor.CanFollow(targetID); err != nil {
		return err
	}

	// The conditional transact re-checks the duplicate-edge rule, so two
	// concurrent follows of the same pair cannot both apply
	if err := s.accounts.Follow(ctx, aid, tid); err != nil {
		return err
	}

	s.publish(ctx, events.NewAccountFollowed(actorID, targetID, time.Now()))

	s.logger.Info("Follow edge created",
		zap.String("actorID", actorID),
		zap.String("targetID", targetID),
	)
	return nil
}

// Unfollow removes the actor→target edge.
// Fails with InvalidOperation when the actor is not currently following.
func (s *GraphService) Unfollow(ctx context.Context, actorID, targetID string) error {
	aid, tid, err := s.parsePair(actorID, targetID)
	if err != nil {
		return err
	}

	actor, err := s.accounts.GetByID(ctx, aid)
	if err != nil {
		return err
	}
	if _, err := s.accounts.GetByID(ctx, tid); err != nil {
		return err
	}

	if err := actor.CanUnfollow(targetID); err != nil {
		return err
	}

	if err := s.accounts.Unfollow(ctx, aid, tid); err != nil {
		return err
	}

	s.publish(ctx, events.NewAccountUnfollowed(actorID, targetID, time.Now()))

	s.logger.Info("Follow edge removed",
		zap.String("actorID", actorID),
		zap.String("targetID", targetID),
	)
	return nil
}

// Followers returns the summaries of accounts following the given account
func (s *GraphService) Followers(ctx context.Context, accountID string) ([]AccountSummary, error) {
	return s.connections(ctx, accountID, func(ids []string, _ []string) []string { return ids })
}

// Following returns the summaries of accounts the given account follows
func (s *GraphService) Following(ctx context.Context, accountID string) ([]AccountSummary, error) {
	return s.connections(ctx, accountID, func(_ []string, ids []string) []string { return ids })
}

func (s *GraphService) connections(ctx context.Context, accountID string, pick func(followers, following []string) []string) ([]AccountSummary, error) {
	id, err := valueobjects.NewAccountIDFromString(accountID)
	if err != nil {
		return nil, pkgerrors.NewValidationError("invalid account ID")
	}

	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ids := pick(account.Followers(), account.Following())
	joined, err := s.accounts.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]AccountSummary, 0, len(ids))
	for _, cid := range ids {
		summaries = append(summaries, summaryFor(cid, joined))
	}
	return summaries, nil
}

func (s *GraphService) parsePair(actorID, targetID string) (valueobjects.AccountID, valueobjects.AccountID, error) {
	aid, err := valueobjects.NewAccountIDFromString(actorID)
	if err != nil {
		return valueobjects.AccountID{}, valueobjects.AccountID{}, pkgerrors.NewValidationError("invalid account ID")
	}
	tid, err := valueobjects.NewAccountIDFromString(targetID)
	if err != nil {
		return valueobjects.AccountID{}, valueobjects.AccountID{}, pkgerrors.NewValidationError("invalid account ID")
	}
	return aid, tid, nil
}

func (s *GraphService) publish(ctx context.Context, event events.DomainEvent) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event",
			zap.String("eventType", event.GetEventType()),
			zap.Error(err),
		)
	}
}
