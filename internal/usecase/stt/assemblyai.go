package stt

import (
	"context"
	"fmt"
	"strings"

	"github.com/secondbrain-ai/deal-intel/pkg/ai"
)

// AssemblyAITranscriber is the primary transcription vendor
type AssemblyAITranscriber struct {
	client *ai.AssemblyAIClient
}

// NewAssemblyAITranscriber creates the primary transcriber
func NewAssemblyAITranscriber(client *ai.AssemblyAIClient) *AssemblyAITranscriber {
	return &AssemblyAITranscriber{client: client}
}

// Transcribe submits the audio URL and polls until completion
func (t *AssemblyAITranscriber) Transcribe(ctx context.Context, audioURL string) (*Result, error) {
	if t.client == nil {
		return nil, fmt.Errorf("assemblyai client not configured")
	}

	cleanURL := strings.TrimSpace(audioURL)
	if cleanURL == "" {
		return nil, fmt.Errorf("audio URL is required")
	}

	utterances, text, err := t.client.TranscribeFromURL(ctx, cleanURL)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(utterances))
	for _, u := range utterances {
		entries = append(entries, Entry{
			Speaker: speakerLabel(u.Speaker),
			Text:    u.Text,
		})
	}

	return &Result{Entries: entries, Text: text}, nil
}

// speakerLabel normalizes vendor speaker tags to "Speaker X"
func speakerLabel(raw string) string {
	if raw == "" {
		return "Speaker"
	}
	if strings.HasPrefix(raw, "Speaker ") {
		return raw
	}
	return "Speaker " + raw
}
