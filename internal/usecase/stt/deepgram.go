package stt

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/secondbrain-ai/deal-intel/pkg/ai"
)

// DeepgramTranscriber is the secondary transcription vendor.
// The audio is fetched from blob storage and streamed to Deepgram.
type DeepgramTranscriber struct {
	client     *ai.DeepgramClient
	httpClient *http.Client
}

// NewDeepgramTranscriber creates the fallback transcriber
func NewDeepgramTranscriber(client *ai.DeepgramClient) *DeepgramTranscriber {
	return &DeepgramTranscriber{
		client:     client,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

// Transcribe downloads the audio and runs Deepgram prerecorded transcription
func (t *DeepgramTranscriber) Transcribe(ctx context.Context, audioURL string) (*Result, error) {
	if t.client == nil {
		return nil, fmt.Errorf("deepgram client not configured")
	}

	cleanURL := strings.TrimSpace(audioURL)
	if cleanURL == "" {
		return nil, fmt.Errorf("audio URL is required")
	}

	req, err := http.NewRequestWithContext(ctx, "GET", cleanURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("audio fetch returned status %d", resp.StatusCode)
	}

	utterances, text, err := t.client.TranscribeAudio(ctx, resp.Body, resp.Header.Get("Content-Type"))
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
