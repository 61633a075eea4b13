package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/sheet-analytics/internal/cache"
	"github.com/spec-kit/sheet-analytics/internal/domain"
	"github.com/spec-kit/sheet-analytics/internal/events"
	"github.com/spec-kit/sheet-analytics/internal/repository"
	apperrors "github.com/spec-kit/sheet-analytics/pkg/util"
)

const statsCacheTTL = 30 * time.Second

// AdminStats summarizes platform usage for the admin dashboard.
type AdminStats struct {
	TotalUsers    int64 `json:"total_users"`
	TotalDatasets int64 `json:"total_datasets"`
}

// AdminService serves platform moderation operations.
type AdminService struct {
	users      repository.UserRepository
	datasets   repository.DatasetRepository
	store      *cache.Cache
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAdminService builds the service.
func NewAdminService(users repository.UserRepository, datasets repository.DatasetRepository, store *cache.Cache, dispatcher events.Dispatcher, logger *zap.Logger) *AdminService {
	return &AdminService{
		users:      users,
		datasets:   datasets,
		store:      store,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Stats returns user and dataset counts, cached briefly.
func (s *AdminService) Stats(ctx context.Context) (*AdminStats, error) {
	const key = "admin:stats"

	var cached AdminStats
	if err := s.store.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("stats cache read failed", zap.Error(err))
	}

	userCount, err := s.users.Count(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	datasetCount, err := s.datasets.Count(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	stats := &AdminStats{TotalUsers: userCount, TotalDatasets: datasetCount}
	if err := s.store.Set(ctx, key, stats, statsCacheTTL); err != nil {
		s.logger.Warn("stats cache write failed", zap.Error(err))
	}
	return stats, nil
}

// ListUsers returns all accounts.
func (s *AdminService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// ModerateInput carries the fields an admin may change on an account.
type ModerateInput struct {
	Role   string
	Status string
}

// ModerateUser updates role and/or status. Deactivating an account is the
// revocation lever: the user's outstanding tokens fail the next guard check.
func (s *AdminService) ModerateUser(ctx context.Context, actorID, targetID string, in ModerateInput) (*domain.User, error) {
	if in.Role == "" && in.Status == "" {
		return nil, apperrors.NewValidationError("nothing to update", nil)
	}

	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.MapError(err)
	}

	if in.Role != "" {
		role, ok := domain.ParseRole(in.Role)
		if !ok {
			return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": in.Role})
		}
		user.Role = role
	}
	if in.Status != "" {
		status, ok := domain.ParseUserStatus(in.Status)
		if !ok {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": in.Status})
		}
		user.Status = status
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventUserModerated,
			UserID:    actorID,
			Timestamp: time.Now(),
			Payload: events.UserModeratedPayload{
				TargetUserID: user.ID,
				Role:         user.Role,
				Status:       user.Status,
			},
		})
	}
	return user, nil
}
