package stt

import (
	"context"
	"encoding/json"
)

// Entry is one speaker-tagged utterance of a diarized transcript
type Entry struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// Result is the output of a transcription attempt. Entries carries the
// diarized form when the vendor produced one; Text always carries the flat
// transcript. Truncated is set when the hard character cap was applied.
type Result struct {
	Entries   []Entry `json:"entries,omitempty"`
	Text      string  `json:"text"`
	Truncated bool    `json:"truncated"`
}

// HasDiarization reports whether speaker-tagged entries are present
func (r *Result) HasDiarization() bool {
	return len(r.Entries) > 0
}

// SerializeEntries renders the diarized entries as a JSON string for
// downstream LLM consumption. Falls back to the flat text when empty.
func (r *Result) SerializeEntries() string {
	if !r.HasDiarization() {
		return r.Text
	}
	b, err := json.Marshal(r.Entries)
	if err != nil {
		return r.Text
	}
	return string(b)
}

// Transcriber turns an audio artifact reference into a diarized transcript
type Transcriber interface {
	Transcribe(ctx context.Context, audioURL string) (*Result, error)
}
