package entities

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MeetingStatus represents the processing status of a recorded meeting
type MeetingStatus string

const (
	MeetingStatusTranscribeGenerating   MeetingStatus = "transcribe-generating"   // STT in progress
	MeetingStatusSpeakersGenerating     MeetingStatus = "speakers-generating"     // Transcript stored, resolving speaker roles
	MeetingStatusIntelligenceGenerating MeetingStatus = "intelligence-generating" // Speakers stored, extracting deal intelligence
	MeetingStatusCompleted              MeetingStatus = "completed"               // All processing done
	MeetingStatusFailed                 MeetingStatus = "failed"                  // Processing failed at some stage
)

// IsTerminal reports whether no further pipeline stage will touch the record
func (s MeetingStatus) IsTerminal() bool {
	return s == MeetingStatusCompleted || s == MeetingStatusFailed
}

// IsValid checks if the status is a known value
func (s MeetingStatus) IsValid() bool {
	switch s {
	case MeetingStatusTranscribeGenerating, MeetingStatusSpeakersGenerating,
		MeetingStatusIntelligenceGenerating, MeetingStatusCompleted, MeetingStatusFailed:
		return true
	}
	return false
}

// ExtractionProfile selects which LLM output shape the pipeline expects
type ExtractionProfile string

const (
	ProfileDeal     ExtractionProfile = "deal"     // Direct deal fields plus speakers
	ProfileStrategy ExtractionProfile = "strategy" // Strategy-report shape, remapped to deal fields
)

// IsValid checks if the extraction profile is a known value
func (p ExtractionProfile) IsValid() bool {
	return p == ProfileDeal || p == ProfileStrategy
}

// Speaker is one resolved participant of the conversation
type Speaker struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	Name string `json:"name,omitempty"`
}

// SpeakerList is the JSONB column holding resolved speakers.
// May be null when speaker resolution produced nothing usable.
type SpeakerList []Speaker

// Scan implements sql.Scanner interface for GORM
func (s *SpeakerList) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, s)
}

// Value implements driver.Valuer interface for GORM
func (s SpeakerList) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Meeting represents one recorded sales conversation and everything
// the pipeline derived from it
type Meeting struct {
	ID       uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	BrokerID uuid.UUID         `json:"broker_id" gorm:"column:broker_id;type:uuid;not null;index"`
	Title    string            `json:"title" gorm:"type:varchar(255);not null"`
	AudioURL *string           `json:"audio_url,omitempty" gorm:"type:text"`
	IsSample bool              `json:"is_sample" gorm:"default:false;not null"`
	Profile  ExtractionProfile `json:"profile" gorm:"type:varchar(50);not null;default:'deal'"`
	Status   MeetingStatus     `json:"status" gorm:"type:varchar(50);not null;index;default:'transcribe-generating'"`

	// Pipeline outputs. Transcript holds the working transcript text:
	// serialized diarized entries, or the resolver's rewrite when available.
	Transcript     *string        `json:"transcript,omitempty" gorm:"type:text"`
	Speakers       SpeakerList    `json:"speakers,omitempty" gorm:"type:jsonb"`
	Intelligence   datatypes.JSON `json:"intelligence,omitempty" gorm:"type:jsonb"`
	LongTranscript bool           `json:"long_transcript" gorm:"default:false;not null"`

	// Deal fields promoted out of the intelligence blob for querying
	ConversationType     *string `json:"conversation_type,omitempty" gorm:"type:varchar(100);index"`
	DealProbabilityScore *int    `json:"deal_probability_score,omitempty" gorm:"type:integer"`
	ClientName           *string `json:"client_name,omitempty" gorm:"type:varchar(255)"`

	LastError *string `json:"last_error,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Well-known conversation types used by the CRM stats aggregation
const (
	ConversationBuyer  = "Buyer"
	ConversationSeller = "Seller"
	ConversationOther  = "General"
)

// NewMeeting creates a new meeting record in its initial pipeline state
func NewMeeting(brokerID uuid.UUID, title string, audioURL *string, isSample bool, profile ExtractionProfile) *Meeting {
	if !profile.IsValid() {
		profile = ProfileDeal
	}
	now := time.Now()
	return &Meeting{
		ID:        uuid.New(),
		BrokerID:  brokerID,
		Title:     title,
		AudioURL:  audioURL,
		IsSample:  isSample,
		Profile:   profile,
		Status:    MeetingStatusTranscribeGenerating,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MarkSpeakersGenerating advances the record past transcription
func (m *Meeting) MarkSpeakersGenerating() {
	m.Status = MeetingStatusSpeakersGenerating
	m.UpdatedAt = time.Now()
}

// MarkIntelligenceGenerating advances the record past speaker resolution
func (m *Meeting) MarkIntelligenceGenerating() {
	m.Status = MeetingStatusIntelligenceGenerating
	m.UpdatedAt = time.Now()
}

// Complete stores the final transcript, intelligence blob and promoted
// deal fields, and marks processing done
func (m *Meeting) Complete(transcript string, blob datatypes.JSON, longTranscript bool, convType *string, score *int, clientName *string) {
	m.Transcript = &transcript
	m.Intelligence = blob
	m.LongTranscript = longTranscript
	m.ConversationType = convType
	m.DealProbabilityScore = score
	m.ClientName = clientName
	m.Status = MeetingStatusCompleted
	m.UpdatedAt = time.Now()
}

// MarkFailed records the failure reason and parks the record
func (m *Meeting) MarkFailed(errMsg string) {
	m.Status = MeetingStatusFailed
	m.LastError = &errMsg
	m.UpdatedAt = time.Now()
}

// TableName specifies the table name for GORM
func (Meeting) TableName() string {
	return "meetings"
}
