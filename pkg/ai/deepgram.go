package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/secondbrain-ai/deal-intel/pkg/config"
)

// DeepgramClient is a minimal client for Deepgram prerecorded transcription
type DeepgramClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewDeepgramClient creates a Deepgram client using values from the provided config.
// Pass a nil config to fall back to environment variables.
func NewDeepgramClient(cfg *config.STTConfig) *DeepgramClient {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.DeepgramKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("DEEPGRAM_API_KEY")
	}

	var base string
	if cfg != nil && cfg.DeepgramURL != "" {
		base = cfg.DeepgramURL
	} else {
		base = os.Getenv("DEEPGRAM_BASE_URL")
		if base == "" {
			base = "https://api.deepgram.com"
		}
	}

	return &DeepgramClient{
		apiKey:  apiKey,
		baseURL: base,
		client:  &http.Client{Timeout: 5 * time.Minute},
	}
}

type deepgramResponse struct {
	Results struct {
		Utterances []struct {
			Speaker    int     `json:"speaker"`
			Transcript string  `json:"transcript"`
			Start      float64 `json:"start"`
			End        float64 `json:"end"`
		} `json:"utterances"`
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// TranscribeAudio sends raw audio to Deepgram and returns diarized utterances
// plus the full transcript text.
func (d *DeepgramClient) TranscribeAudio(ctx context.Context, audio io.Reader, contentType string) ([]Utterance, string, error) {
	endpoint := d.baseURL + "/v1/listen?model=nova-2&diarize=true&utterances=true&punctuate=true"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, audio)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Authorization", "Token "+d.apiKey)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, "", fmt.Errorf("deepgram returned status %d", resp.StatusCode)
	}

	var dr deepgramResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return nil, "", err
	}

	utterances := make([]Utterance, 0, len(dr.Results.Utterances))
	for _, u := range dr.Results.Utterances {
		utterances = append(utterances, Utterance{
			Speaker: fmt.Sprintf("%d", u.Speaker),
			Text:    u.Transcript,
			StartMs: int64(u.Start * 1000),
			EndMs:   int64(u.End * 1000),
		})
	}

	var text string
	if len(dr.Results.Channels) > 0 && len(dr.Results.Channels[0].Alternatives) > 0 {
		text = dr.Results.Channels[0].Alternatives[0].Transcript
	}

	return utterances, text, nil
}
