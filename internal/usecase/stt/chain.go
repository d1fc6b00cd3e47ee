package stt

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/secondbrain-ai/deal-intel/pkg/taskcontext"
)

// Chain tries an ordered list of transcribers until one succeeds.
// The primary vendor is retried with exponential backoff before falling
// through; if every vendor fails the chain raises and the pipeline fails.
type Chain struct {
	transcribers []Transcriber
	maxRetries   int
	maxChars     int
	logger       *zap.Logger
}

// NewChain builds a fallback chain over the given transcribers
func NewChain(logger *zap.Logger, maxRetries, maxChars int, transcribers ...Transcriber) *Chain {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if maxChars <= 0 {
		maxChars = 12000
	}
	return &Chain{
		transcribers: transcribers,
		maxRetries:   maxRetries,
		maxChars:     maxChars,
		logger:       logger,
	}
}

// Transcribe runs the chain and applies the hard character cap
func (c *Chain) Transcribe(ctx context.Context, audioURL string) (*Result, error) {
	if len(c.transcribers) == 0 {
		return nil, fmt.Errorf("no transcribers configured")
	}

	var lastErr error
	for i, t := range c.transcribers {
		result, err := c.attempt(ctx, t, audioURL, i == 0)
		if err == nil {
			return c.cap(result), nil
		}
		lastErr = err
		if c.logger != nil {
			c.logger.Warn("transcriber failed, trying next vendor",
				zap.Int("vendor_index", i),
				zap.Error(err),
			)
		}
	}
	return nil, fmt.Errorf("all transcription vendors failed: %w", lastErr)
}

// attempt runs one transcriber, with retry only for the primary vendor
func (c *Chain) attempt(ctx context.Context, t Transcriber, audioURL string, isPrimary bool) (*Result, error) {
	if !isPrimary {
		return t.Transcribe(ctx, audioURL)
	}

	var result *Result
	operation := func() error {
		r, err := t.Transcribe(ctx, audioURL)
		if err != nil {
			if !taskcontext.IsRetryableError(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		result = r
		return nil
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 2 * time.Second
	expBackoff.MaxInterval = 30 * time.Second
	policy := backoff.WithContext(
		backoff.WithMaxRetries(expBackoff, uint64(c.maxRetries)),
		ctx,
	)

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return result, nil
}

// cap enforces the hard character limit on the flat transcript and trims
// entries until the serialized form fits. The limit counts runes, not bytes,
// so multilingual transcripts are never cut mid-character.
func (c *Chain) cap(result *Result) *Result {
	if utf8.RuneCountInString(result.Text) > c.maxChars {
		result.Text = trimRunes(result.Text, c.maxChars)
		result.Truncated = true
	}

	for len(result.Entries) > 0 && utf8.RuneCountInString(result.SerializeEntries()) > c.maxChars {
		result.Entries = result.Entries[:len(result.Entries)-1]
		result.Truncated = true
	}

	return result
}

// trimRunes cuts s after n runes on a rune boundary
func trimRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
