package intel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/secondbrain-ai/deal-intel/internal/domain/entities"
	"github.com/secondbrain-ai/deal-intel/pkg/ai"
	"github.com/secondbrain-ai/deal-intel/pkg/config"
)

func TestExtractWithoutKeyReturnsMockData(t *testing.T) {
	client := ai.NewGroqClient(&config.GroqConfig{APIKey: ""})
	if client.HasKey() {
		t.Skip("GROQ_API_KEY set in environment")
	}
	e := NewGroqExtractor(client, 0, zap.NewNop())

	payload, truncated, err := e.Extract(context.Background(), "short transcript", entities.ProfileDeal)
	require.NoError(t, err)
	assert.False(t, truncated)
	assert.Equal(t, "Buyer", StringField(payload, "conversationType"))

	score, ok := IntField(payload, "dealProbabilityScore")
	require.True(t, ok)
	assert.Equal(t, 65, score)
}

func TestExtractStrategyMockShape(t *testing.T) {
	e := NewGroqExtractor(nil, 0, zap.NewNop())

	payload, _, err := e.Extract(context.Background(), "short transcript", entities.ProfileStrategy)
	require.NoError(t, err)
	assert.Equal(t, "Under Evaluation", StringField(payload, "client_name"))
	assert.Equal(t, "Under Evaluation", StringField(payload, "follow_up_date"))

	score, ok := IntField(payload, "deal_score")
	require.True(t, ok)
	assert.Equal(t, 65, score)
}

func TestExtractTruncatesLongTranscript(t *testing.T) {
	var captured string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := make([]byte, r.ContentLength)
		r.Body.Read(body)
		captured = string(body)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"choices":[{"message":{"content":"{\"conversationType\":\"Seller\"}"}}]}`))
	}))
	defer ts.Close()

	client := ai.NewGroqClient(&config.GroqConfig{APIKey: "test-key", BaseURL: ts.URL})
	e := NewGroqExtractor(client, 100, zap.NewNop())

	long := strings.Repeat("a", 500)
	payload, truncated, err := e.Extract(context.Background(), long, entities.ProfileDeal)
	require.NoError(t, err)
	assert.True(t, truncated)
	assert.Equal(t, "Seller", StringField(payload, "conversationType"))
	assert.NotContains(t, captured, strings.Repeat("a", 101))
}

func TestExtractTruncationKeepsRuneBoundaries(t *testing.T) {
	var captured string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := make([]byte, r.ContentLength)
		r.Body.Read(body)
		captured = string(body)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"choices":[{"message":{"content":"{\"conversationType\":\"Buyer\"}"}}]}`))
	}))
	defer ts.Close()

	client := ai.NewGroqClient(&config.GroqConfig{APIKey: "test-key", BaseURL: ts.URL})
	e := NewGroqExtractor(client, 50, zap.NewNop())

	long := strings.Repeat("ग्राहक", 30)
	_, truncated, err := e.Extract(context.Background(), long, entities.ProfileDeal)
	require.NoError(t, err)
	assert.True(t, truncated)
	assert.NotContains(t, captured, string(utf8.RuneError), "a split rune reached the prompt")
	assert.Contains(t, captured, trimRunes(long, 50))
	assert.NotContains(t, captured, trimRunes(long, 51))
}

func TestExtractProviderErrorFallsBackToMock(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := ai.NewGroqClient(&config.GroqConfig{APIKey: "test-key", BaseURL: ts.URL})
	e := NewGroqExtractor(client, 0, zap.NewNop())

	payload, _, err := e.Extract(context.Background(), "transcript", entities.ProfileDeal)
	require.NoError(t, err)
	assert.Equal(t, "Buyer", StringField(payload, "conversationType"))
}

func TestExtractUnparseableResponseFallsBackToMock(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"choices":[{"message":{"content":"sorry, not json"}}]}`))
	}))
	defer ts.Close()

	client := ai.NewGroqClient(&config.GroqConfig{APIKey: "test-key", BaseURL: ts.URL})
	e := NewGroqExtractor(client, 0, zap.NewNop())

	payload, _, err := e.Extract(context.Background(), "transcript", entities.ProfileStrategy)
	require.NoError(t, err)
	assert.Equal(t, "Under Evaluation", StringField(payload, "client_name"))
}
