package stt

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"go.uber.org/zap"
)

type stubTranscriber struct {
	result *Result
	err    error
	calls  int
}

func (s *stubTranscriber) Transcribe(ctx context.Context, audioURL string) (*Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func TestChainPrimarySucceeds(t *testing.T) {
	primary := &stubTranscriber{result: &Result{Text: "hello"}}
	fallback := &stubTranscriber{result: &Result{Text: "never"}}

	chain := NewChain(zap.NewNop(), 1, 100, primary, fallback)

	result, err := chain.Transcribe(context.Background(), "http://audio")
	if err != nil {
		t.Fatalf("transcribe failed: %v", err)
	}
	if result.Text != "hello" {
		t.Fatalf("unexpected text %q", result.Text)
	}
	if fallback.calls != 0 {
		t.Fatalf("fallback should not run, got %d calls", fallback.calls)
	}
}

func TestChainFallsThroughToNextVendor(t *testing.T) {
	primary := &stubTranscriber{err: fmt.Errorf("service unavailable")}
	fallback := &stubTranscriber{result: &Result{Text: "recovered"}}

	chain := NewChain(zap.NewNop(), 1, 100, primary, fallback)

	result, err := chain.Transcribe(context.Background(), "http://audio")
	if err != nil {
		t.Fatalf("transcribe failed: %v", err)
	}
	if result.Text != "recovered" {
		t.Fatalf("unexpected text %q", result.Text)
	}
	if primary.calls < 2 {
		t.Fatalf("primary should be retried, got %d calls", primary.calls)
	}
}

func TestChainDoesNotRetryPermanentError(t *testing.T) {
	primary := &stubTranscriber{err: fmt.Errorf("status 400: invalid audio format")}
	fallback := &stubTranscriber{result: &Result{Text: "recovered"}}

	chain := NewChain(zap.NewNop(), 3, 100, primary, fallback)

	result, err := chain.Transcribe(context.Background(), "http://audio")
	if err != nil {
		t.Fatalf("transcribe failed: %v", err)
	}
	if result.Text != "recovered" {
		t.Fatalf("unexpected text %q", result.Text)
	}
	if primary.calls != 1 {
		t.Fatalf("client error should not be retried, got %d calls", primary.calls)
	}
}

func TestChainAllVendorsFail(t *testing.T) {
	primary := &stubTranscriber{err: fmt.Errorf("down")}
	fallback := &stubTranscriber{err: fmt.Errorf("also down")}

	chain := NewChain(zap.NewNop(), 1, 100, primary, fallback)

	_, err := chain.Transcribe(context.Background(), "http://audio")
	if err == nil {
		t.Fatal("expected error when every vendor fails")
	}
	if !strings.Contains(err.Error(), "all transcription vendors failed") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestChainCapsLongTranscript(t *testing.T) {
	long := strings.Repeat("a", 200)
	primary := &stubTranscriber{result: &Result{Text: long}}

	chain := NewChain(zap.NewNop(), 1, 100, primary)

	result, err := chain.Transcribe(context.Background(), "http://audio")
	if err != nil {
		t.Fatalf("transcribe failed: %v", err)
	}
	if len(result.Text) != 100 {
		t.Fatalf("expected capped text of 100 chars, got %d", len(result.Text))
	}
	if !result.Truncated {
		t.Fatal("expected Truncated to be set")
	}
}

func TestChainCapKeepsRuneBoundaries(t *testing.T) {
	long := strings.Repeat("क", 40)
	primary := &stubTranscriber{result: &Result{Text: long}}

	chain := NewChain(zap.NewNop(), 1, 25, primary)

	result, err := chain.Transcribe(context.Background(), "http://audio")
	if err != nil {
		t.Fatalf("transcribe failed: %v", err)
	}
	if !utf8.ValidString(result.Text) {
		t.Fatalf("capped transcript is invalid UTF-8 (len=%d)", len(result.Text))
	}
	if got := utf8.RuneCountInString(result.Text); got != 25 {
		t.Fatalf("expected 25 characters after cap, got %d", got)
	}
	if !result.Truncated {
		t.Fatal("expected Truncated to be set")
	}
}

func TestChainCapsDiarizedEntries(t *testing.T) {
	entries := make([]Entry, 0, 20)
	for i := 0; i < 20; i++ {
		entries = append(entries, Entry{Speaker: "Speaker 0", Text: strings.Repeat("x", 50)})
	}
	primary := &stubTranscriber{result: &Result{Entries: entries, Text: "short"}}

	chain := NewChain(zap.NewNop(), 1, 200, primary)

	result, err := chain.Transcribe(context.Background(), "http://audio")
	if err != nil {
		t.Fatalf("transcribe failed: %v", err)
	}
	if len(result.Entries) >= 20 {
		t.Fatalf("expected entries to be trimmed, got %d", len(result.Entries))
	}
	if len(result.SerializeEntries()) > 200 {
		t.Fatalf("serialized entries still over cap: %d", len(result.SerializeEntries()))
	}
	if !result.Truncated {
		t.Fatal("expected Truncated to be set")
	}
}
