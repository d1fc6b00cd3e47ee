package meeting

import (
	"time"

	"github.com/secondbrain-ai/deal-intel/internal/domain/entities"
)

// MeetingResponse represents a deal-intelligence record in responses
type MeetingResponse struct {
	ID                   string                 `json:"id"`
	Title                string                 `json:"title"`
	AudioURL             *string                `json:"audio_url,omitempty"`
	IsSample             bool                   `json:"is_sample"`
	Profile              string                 `json:"profile"`
	Status               string                 `json:"status"`
	Transcript           *string                `json:"transcript,omitempty"`
	Speakers             []entities.Speaker     `json:"speakers,omitempty"`
	Intelligence         map[string]interface{} `json:"intelligence,omitempty"`
	LongTranscript       bool                   `json:"long_transcript"`
	ConversationType     *string                `json:"conversation_type,omitempty"`
	DealProbabilityScore *int                   `json:"deal_probability_score,omitempty"`
	ClientName           *string                `json:"client_name,omitempty"`
	CreatedAt            time.Time              `json:"created_at"`
	UpdatedAt            time.Time              `json:"updated_at"`
}

// ListMeetingsResponse represents a paginated meetings listing
type ListMeetingsResponse struct {
	Meetings []*MeetingResponse `json:"meetings"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}
