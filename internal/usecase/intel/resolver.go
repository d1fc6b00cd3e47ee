package intel

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/secondbrain-ai/deal-intel/pkg/ai"
)

// SpeakerResolver rewrites a diarized transcript with inferred speaker
// names and roles. Resolution is best effort: a nil result means the
// caller keeps its working transcript unchanged.
type SpeakerResolver interface {
	Resolve(ctx context.Context, serializedEntries string) (*string, error)
}

const resolverSystemPrompt = "You are a conversation analyst for real estate sales calls. " +
	"Return ONLY the rewritten transcript text, no JSON, no markdown."

const resolverUserPromptFmt = `The following is a diarized sales call transcript as a JSON array
of {"speaker","text"} entries. Infer who each speaker is (broker or client,
and their name if mentioned) and rewrite the transcript as plain text with
one line per utterance in the form "Name (Role): text". Keep every utterance
and its order. If a name is never mentioned keep the original speaker label.

Transcript:
%s`

// GroqSpeakerResolver resolves speakers using the Groq LLM
type GroqSpeakerResolver struct {
	client *ai.GroqClient
	logger *zap.Logger
}

// NewGroqSpeakerResolver creates the LLM-backed speaker resolver
func NewGroqSpeakerResolver(client *ai.GroqClient, logger *zap.Logger) *GroqSpeakerResolver {
	return &GroqSpeakerResolver{client: client, logger: logger}
}

// Resolve asks the model for a name-mapped transcript. Returns nil without
// error when the client is unconfigured or the answer is unusable.
func (r *GroqSpeakerResolver) Resolve(ctx context.Context, serializedEntries string) (*string, error) {
	if r.client == nil || !r.client.HasKey() {
		return nil, nil
	}
	if serializedEntries == "" {
		return nil, nil
	}

	prompt := fmt.Sprintf(resolverUserPromptFmt, serializedEntries)
	content, err := r.client.Complete(ctx, resolverSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("speaker resolution failed: %w", err)
	}
	if content == "" {
		return nil, nil
	}

	return &content, nil
}
