package meeting

// CreateMeetingRequest represents the request to submit a recorded conversation.
// It binds from multipart form fields or a JSON body; the recording file itself
// is read from the multipart part named "recording".
type CreateMeetingRequest struct {
	Title      string `json:"title" form:"title"`
	FromSample bool   `json:"fromSample" form:"fromSample"`
	UsePrompt  string `json:"usePrompt" form:"usePrompt" validate:"omitempty,oneof=deal strategy"`
}

// ListMeetingsRequest represents query parameters for listing meetings
type ListMeetingsRequest struct {
	Search   string `query:"search"`
	Status   string `query:"status" validate:"omitempty,oneof=transcribe-generating speakers-generating intelligence-generating completed failed"`
	Type     string `query:"type"`
	SortBy   string `query:"sortBy" validate:"omitempty,oneof=created_at deal_probability_score"`
	Order    string `query:"order" validate:"omitempty,oneof=asc desc"`
	Page     int    `query:"page" validate:"omitempty,min=1"`
	PageSize int    `query:"page_size" validate:"omitempty,min=1,max=100"`
}
