package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/secondbrain-ai/deal-intel/internal/domain/entities"
)

// CalendarEventRepository implements follow-up event persistence using GORM
type CalendarEventRepository struct {
	db *gorm.DB
}

// NewCalendarEventRepository creates a new calendar event repository
func NewCalendarEventRepository(db *gorm.DB) *CalendarEventRepository {
	return &CalendarEventRepository{
		db: db,
	}
}

// Create creates a follow-up event
func (r *CalendarEventRepository) Create(ctx context.Context, event *entities.CalendarEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create calendar event: %w", err)
	}
	return nil
}

// ListByBroker returns events for a broker ordered by event date
func (r *CalendarEventRepository) ListByBroker(ctx context.Context, brokerID uuid.UUID, limit, offset int) ([]*entities.CalendarEvent, error) {
	var events []*entities.CalendarEvent
	query := r.db.WithContext(ctx).
		Where("broker_id = ?", brokerID).
		Order("event_date ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}
	return events, nil
}

// FindByMeeting returns events scheduled from a specific meeting
func (r *CalendarEventRepository) FindByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*entities.CalendarEvent, error) {
	var events []*entities.CalendarEvent
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("event_date ASC").
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to find calendar events: %w", err)
	}
	return events, nil
}
