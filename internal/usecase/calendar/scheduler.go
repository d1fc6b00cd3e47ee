package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/secondbrain-ai/deal-intel/internal/domain/entities"
	"github.com/secondbrain-ai/deal-intel/internal/domain/repositories"
)

// Scheduler creates follow-up calendar events from extracted intelligence.
// Scheduling is strictly best effort: a nil event and nil error means
// nothing was scheduled, and the pipeline result is never affected.
type Scheduler interface {
	ScheduleFollowUp(ctx context.Context, brokerID, meetingID uuid.UUID, payload map[string]interface{}) *entities.CalendarEvent
}

// Sentinel values a provider emits when no follow-up date was determined
var dateSentinels = map[string]bool{
	"":                 true,
	"Under Evaluation": true,
	"Not mentioned":    true,
}

// followUpDateLayout parses dates like 01-Mar-2026; the weekday suffix
// "(Sunday)" is dropped before parsing.
const followUpDateLayout = "02-Jan-2006"

type scheduler struct {
	eventRepo repositories.CalendarEventRepository
	logger    *zap.Logger
}

// NewScheduler creates the follow-up scheduler
func NewScheduler(eventRepo repositories.CalendarEventRepository, logger *zap.Logger) Scheduler {
	return &scheduler{
		eventRepo: eventRepo,
		logger:    logger,
	}
}

// ScheduleFollowUp creates a calendar event when the payload carries a
// parseable follow-up date. Any failure is logged and swallowed.
func (s *scheduler) ScheduleFollowUp(ctx context.Context, brokerID, meetingID uuid.UUID, payload map[string]interface{}) *entities.CalendarEvent {
	dateStr, _ := payload["follow_up_date"].(string)
	if dateSentinels[dateStr] {
		if s.logger != nil {
			s.logger.Debug("no follow-up date to schedule",
				zap.String("meeting_id", meetingID.String()),
			)
		}
		return nil
	}

	fields := strings.Fields(dateStr)
	if len(fields) == 0 {
		return nil
	}
	eventDate, err := time.Parse(followUpDateLayout, fields[0])
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("invalid follow-up date format",
				zap.String("follow_up_date", dateStr),
				zap.String("meeting_id", meetingID.String()),
			)
		}
		return nil
	}

	event := entities.NewCalendarEvent(brokerID, meetingID, buildTitle(payload), buildDescription(payload), eventDate)
	if err := s.eventRepo.Create(ctx, event); err != nil {
		if s.logger != nil {
			s.logger.Error("failed to schedule follow-up event",
				zap.String("meeting_id", meetingID.String()),
				zap.Error(err),
			)
		}
		return nil
	}

	if s.logger != nil {
		s.logger.Info("scheduled follow-up event",
			zap.String("meeting_id", meetingID.String()),
			zap.Time("event_date", eventDate),
		)
	}
	return event
}

func buildTitle(payload map[string]interface{}) string {
	summary, _ := payload["summary"].(string)
	if summary == "" {
		return "Follow-up: Meeting Follow-up"
	}
	if len(summary) > 50 {
		summary = summary[:50]
	}
	return "Follow-up: " + summary
}

func buildDescription(payload map[string]interface{}) *string {
	purpose, _ := payload["purpose"].(string)
	if purpose == "" {
		purpose = "General Follow-up"
	}

	nextSteps := "N/A"
	if points, ok := payload["action_points"].([]interface{}); ok && len(points) > 0 {
		parts := make([]string, 0, len(points))
		for _, p := range points {
			if str, ok := p.(string); ok {
				parts = append(parts, str)
			}
		}
		if len(parts) > 0 {
			nextSteps = strings.Join(parts, ", ")
		}
	} else if action, ok := payload["suggestedAction"].(string); ok && action != "" {
		nextSteps = action
	}

	desc := fmt.Sprintf("Automated follow-up scheduled from meeting intelligence.\nPurpose: %s\nNext Steps: %s", purpose, nextSteps)
	return &desc
}
