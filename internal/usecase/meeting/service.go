package meeting

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/secondbrain-ai/deal-intel/errors"
	"github.com/secondbrain-ai/deal-intel/internal/domain/entities"
	"github.com/secondbrain-ai/deal-intel/internal/domain/repositories"
)

// Service exposes broker-scoped meeting queries
type Service interface {
	// List returns the broker's meetings honoring the filters
	List(ctx context.Context, brokerID uuid.UUID, filters repositories.MeetingFilters) ([]*entities.Meeting, int64, error)

	// Get returns one meeting by its raw ID string. A malformed ID and a
	// meeting owned by another broker produce distinct errors.
	Get(ctx context.Context, brokerID uuid.UUID, rawID string) (*entities.Meeting, error)

	// Stats aggregates completed deal intelligence for the broker
	Stats(ctx context.Context, brokerID uuid.UUID) (*repositories.CRMStats, error)
}

type service struct {
	meetingRepo repositories.MeetingRepository
	logger      *zap.Logger
}

// NewService creates the meeting query service
func NewService(meetingRepo repositories.MeetingRepository, logger *zap.Logger) Service {
	return &service{
		meetingRepo: meetingRepo,
		logger:      logger,
	}
}

// List returns the broker's meetings honoring the filters
func (s *service) List(ctx context.Context, brokerID uuid.UUID, filters repositories.MeetingFilters) ([]*entities.Meeting, int64, error) {
	meetings, total, err := s.meetingRepo.ListByBroker(ctx, brokerID, filters)
	if err != nil {
		return nil, 0, apperrors.ErrDBQueryFailed(err)
	}
	return meetings, total, nil
}

// Get returns one meeting scoped to its owner
func (s *service) Get(ctx context.Context, brokerID uuid.UUID, rawID string) (*entities.Meeting, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, apperrors.ErrInvalidMeetingID()
	}

	meeting, err := s.meetingRepo.FindByIDForBroker(ctx, id, brokerID)
	if err != nil {
		if err == entities.ErrMeetingNotFound {
			return nil, apperrors.ErrMeetingNotFound()
		}
		return nil, apperrors.ErrDBQueryFailed(err)
	}
	return meeting, nil
}

// Stats aggregates completed deal intelligence for the broker
func (s *service) Stats(ctx context.Context, brokerID uuid.UUID) (*repositories.CRMStats, error) {
	stats, err := s.meetingRepo.StatsByBroker(ctx, brokerID)
	if err != nil {
		return nil, apperrors.ErrDBQueryFailed(err)
	}
	return stats, nil
}
