package stt

import (
	"context"
	"strings"
)

// sampleScript is a canned broker-client conversation used in sample mode
// so demos and tests never touch a real STT vendor.
var sampleScript = []Entry{
	{Speaker: "Speaker 0", Text: "Good morning! Thanks for coming in. You mentioned on the phone you are looking for a three bedroom apartment?"},
	{Speaker: "Speaker 1", Text: "Yes, a 3BHK. We are a family of three and we want to move within the next two months."},
	{Speaker: "Speaker 0", Text: "Understood. What budget range are you comfortable with?"},
	{Speaker: "Speaker 1", Text: "Somewhere between eighty and ninety five lakhs. We will need a home loan for part of it."},
	{Speaker: "Speaker 0", Text: "That works for the Shela area. Any preference on floor or vastu?"},
	{Speaker: "Speaker 1", Text: "Floor does not matter much. Vastu matters to my wife, so east facing would be nice. We also need two parking spots."},
	{Speaker: "Speaker 0", Text: "Noted. There is a builder scheme running this month that could help with the down payment. Shall I arrange a site visit this weekend?"},
	{Speaker: "Speaker 1", Text: "Saturday works. The price still feels a bit high though, my wife is not fully convinced yet."},
	{Speaker: "Speaker 0", Text: "Let us do the visit first. I will also check how negotiable the builder is and call you after three days about the loan approval."},
}

// SampleTranscriber returns the canned sample script without calling any vendor
type SampleTranscriber struct{}

// NewSampleTranscriber creates the sample-mode transcriber
func NewSampleTranscriber() *SampleTranscriber {
	return &SampleTranscriber{}
}

// Transcribe ignores the audio URL and returns the sample conversation
func (t *SampleTranscriber) Transcribe(ctx context.Context, audioURL string) (*Result, error) {
	entries := make([]Entry, len(sampleScript))
	copy(entries, sampleScript)

	var sb strings.Builder
	for i, e := range entries {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(e.Speaker)
		sb.WriteString(": ")
		sb.WriteString(e.Text)
	}

	return &Result{Entries: entries, Text: sb.String()}, nil
}
