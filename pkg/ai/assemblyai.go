package ai

import (
	"context"
	"fmt"
	"io"
	"os"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/secondbrain-ai/deal-intel/pkg/config"
)

// AssemblyAIClient wraps the AssemblyAI SDK for diarized transcription
type AssemblyAIClient struct {
	client *aai.Client
}

// NewAssemblyAIClient creates an AssemblyAI client using the provided config.
// If cfg is nil, falls back to environment variables.
func NewAssemblyAIClient(cfg *config.STTConfig) *AssemblyAIClient {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.AssemblyAIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("ASSEMBLYAI_API_KEY")
	}
	return &AssemblyAIClient{
		client: aai.NewClient(apiKey),
	}
}

// Utterance is one diarized segment of a transcript
type Utterance struct {
	Speaker string
	Text    string
	StartMs int64
	EndMs   int64
}

// Upload streams raw audio to AssemblyAI and returns a temporary URL
func (c *AssemblyAIClient) Upload(ctx context.Context, audio io.Reader) (string, error) {
	url, err := c.client.Upload(ctx, audio)
	if err != nil {
		return "", fmt.Errorf("assemblyai upload: %w", err)
	}
	return url, nil
}

// TranscribeFromURL submits an audio URL and polls until the transcript completes.
// Speaker labels are always requested.
func (c *AssemblyAIClient) TranscribeFromURL(ctx context.Context, audioURL string) ([]Utterance, string, error) {
	transcript, err := c.client.Transcripts.TranscribeFromURL(ctx, audioURL, &aai.TranscriptOptionalParams{
		SpeakerLabels: aai.Bool(true),
	})
	if err != nil {
		return nil, "", fmt.Errorf("assemblyai transcribe: %w", err)
	}

	if transcript.Status == aai.TranscriptStatusError {
		msg := "unknown error"
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return nil, "", fmt.Errorf("assemblyai transcript failed: %s", msg)
	}

	var text string
	if transcript.Text != nil {
		text = *transcript.Text
	}

	utterances := make([]Utterance, 0, len(transcript.Utterances))
	for _, u := range transcript.Utterances {
		entry := Utterance{}
		if u.Speaker != nil {
			entry.Speaker = *u.Speaker
		}
		if u.Text != nil {
			entry.Text = *u.Text
		}
		if u.Start != nil {
			entry.StartMs = *u.Start
		}
		if u.End != nil {
			entry.EndMs = *u.End
		}
		utterances = append(utterances, entry)
	}

	return utterances, text, nil
}
