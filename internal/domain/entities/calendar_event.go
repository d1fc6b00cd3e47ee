package entities

import (
	"time"

	"github.com/google/uuid"
)

// CalendarEventStatus represents the lifecycle of a follow-up event
type CalendarEventStatus string

const (
	CalendarEventScheduled CalendarEventStatus = "scheduled"
	CalendarEventCompleted CalendarEventStatus = "completed"
	CalendarEventCancelled CalendarEventStatus = "cancelled"
)

// CalendarEvent is a follow-up reminder scheduled from extracted deal intelligence
type CalendarEvent struct {
	ID          uuid.UUID           `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	BrokerID    uuid.UUID           `json:"broker_id" gorm:"column:broker_id;type:uuid;not null;index"`
	MeetingID   uuid.UUID           `json:"meeting_id" gorm:"type:uuid;not null;index"`
	Title       string              `json:"title" gorm:"type:varchar(255);not null"`
	Description *string             `json:"description,omitempty" gorm:"type:text"`
	EventDate   time.Time           `json:"event_date" gorm:"type:timestamp;not null;index"`
	Status      CalendarEventStatus `json:"status" gorm:"type:varchar(50);not null;default:'scheduled'"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewCalendarEvent creates a scheduled follow-up event for a meeting
func NewCalendarEvent(brokerID, meetingID uuid.UUID, title string, description *string, eventDate time.Time) *CalendarEvent {
	now := time.Now()
	return &CalendarEvent{
		ID:          uuid.New(),
		BrokerID:    brokerID,
		MeetingID:   meetingID,
		Title:       title,
		Description: description,
		EventDate:   eventDate,
		Status:      CalendarEventScheduled,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// TableName specifies the table name for GORM
func (CalendarEvent) TableName() string {
	return "calendar_events"
}
