package presenter

import (
	"encoding/json"

	meetingDTO "github.com/secondbrain-ai/deal-intel/internal/adapter/dto/meeting"
	"github.com/secondbrain-ai/deal-intel/internal/domain/entities"
)

// ToMeetingResponse converts a Meeting entity to MeetingResponse DTO
func ToMeetingResponse(m *entities.Meeting) *meetingDTO.MeetingResponse {
	if m == nil {
		return nil
	}

	var intelligence map[string]interface{}
	if len(m.Intelligence) > 0 {
		json.Unmarshal(m.Intelligence, &intelligence)
	}

	return &meetingDTO.MeetingResponse{
		ID:                   m.ID.String(),
		Title:                m.Title,
		AudioURL:             m.AudioURL,
		IsSample:             m.IsSample,
		Profile:              string(m.Profile),
		Status:               string(m.Status),
		Transcript:           m.Transcript,
		Speakers:             m.Speakers,
		Intelligence:         intelligence,
		LongTranscript:       m.LongTranscript,
		ConversationType:     m.ConversationType,
		DealProbabilityScore: m.DealProbabilityScore,
		ClientName:           m.ClientName,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

// ToMeetingListResponse converts a meetings page to its listing DTO
func ToMeetingListResponse(meetings []*entities.Meeting, total int64, page, pageSize int) *meetingDTO.ListMeetingsResponse {
	items := make([]*meetingDTO.MeetingResponse, 0, len(meetings))
	for _, m := range meetings {
		items = append(items, ToMeetingResponse(m))
	}

	return &meetingDTO.ListMeetingsResponse{
		Meetings: items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
}
