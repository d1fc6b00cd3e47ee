package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/secondbrain-ai/deal-intel/internal/domain/entities"
)

// MeetingFilters narrows a meeting listing
type MeetingFilters struct {
	Search           string // matches title, client name or transcript, case-insensitive
	Status           entities.MeetingStatus
	ConversationType string
	SortBy           string // "created_at" or "deal_probability_score"
	SortDesc         bool
	Limit            int
	Offset           int
}

// CRMStats aggregates completed deal intelligence for one broker
type CRMStats struct {
	TotalDeals             int64   `json:"totalDeals"`
	Buyers                 int64   `json:"buyers"`
	Sellers                int64   `json:"sellers"`
	HighProbabilityDeals   int64   `json:"highProbabilityDeals"`
	AverageDealProbability float64 `json:"avgProbability"`
}

// MeetingRepository defines the interface for meeting data access
type MeetingRepository interface {
	// Create creates a new meeting record
	Create(ctx context.Context, meeting *entities.Meeting) error

	// FindByID finds a meeting by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)

	// FindByIDForBroker finds a meeting by ID scoped to its owner
	FindByIDForBroker(ctx context.Context, id, brokerID uuid.UUID) (*entities.Meeting, error)

	// ListByBroker returns a broker's meetings honoring the filters
	ListByBroker(ctx context.Context, brokerID uuid.UUID, filters MeetingFilters) ([]*entities.Meeting, int64, error)

	// CountByBroker counts all meetings ever created by a broker
	CountByBroker(ctx context.Context, brokerID uuid.UUID) (int64, error)

	// Update persists the full meeting record
	Update(ctx context.Context, meeting *entities.Meeting) error

	// StatsByBroker aggregates completed deal intelligence for a broker
	StatsByBroker(ctx context.Context, brokerID uuid.UUID) (*CRMStats, error)
}

// CalendarEventRepository defines the interface for follow-up event data access
type CalendarEventRepository interface {
	// Create creates a follow-up event
	Create(ctx context.Context, event *entities.CalendarEvent) error

	// ListByBroker returns events for a broker ordered by event date
	ListByBroker(ctx context.Context, brokerID uuid.UUID, limit, offset int) ([]*entities.CalendarEvent, error)

	// FindByMeeting returns events scheduled from a specific meeting
	FindByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*entities.CalendarEvent, error)
}
