package intel

import (
	"context"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/secondbrain-ai/deal-intel/internal/domain/entities"
	"github.com/secondbrain-ai/deal-intel/pkg/ai"
)

// Extractor turns a transcript into a profile-shaped intelligence payload.
// Extraction never fails hard: when the provider is disabled or errors, a
// deterministic mock payload keeps the pipeline completable in degraded mode.
type Extractor interface {
	Extract(ctx context.Context, transcript string, profile entities.ExtractionProfile) (map[string]interface{}, bool, error)
}

const extractorSystemPrompt = "You are a real estate deal intelligence engine. Return strictly valid JSON only."

const dealPromptFmt = `Analyze the following transcript and extract structured intelligence.

Transcript:
"""
%s
"""

Return JSON structure:
{
  "conversationType": "Buyer" | "Seller" | "General",
  "clientProfile": {
    "budgetRange": "string",
    "loanRequirement": "string",
    "familySize": "string",
    "urgency": "string"
  },
  "interestSignals": {
    "preference": "string",
    "floorPreference": "string",
    "vastuImportance": "string",
    "locationPriority": "string",
    "parkingRequirement": "string"
  },
  "financialIntelligence": {
    "expectedRent": "string",
    "builderScheme": "string",
    "negotiationPossibility": "string",
    "discountProbability": "string",
    "holdingPeriod": "string"
  },
  "dealProbabilityScore": number,
  "keyConcerns": ["string"],
  "suggestedAction": "string",
  "speakers": [
    { "id": "string", "role": "string", "name": "string" }
  ]
}

Rules:
- If missing data use "Not mentioned"
- Score dealProbabilityScore 0-100
- No markdown`

const strategyPromptFmt = `Analyze the following sales call transcript as an investment strategy report.

Transcript:
"""
%s
"""

Return JSON structure:
{
  "purpose": "string",
  "summary": "string",
  "budget": "string",
  "risk_assessment": "string",
  "deal_score": number,
  "client_name": "string",
  "follow_up_date": "string",
  "action_points": ["string"]
}

Rules:
- If the client is not yet determined use "Under Evaluation"
- follow_up_date format: DD-MMM-YYYY (Weekday), e.g. 01-Mar-2026 (Sunday),
  or "Under Evaluation" when none was agreed
- Score deal_score 0-100
- No markdown`

// DefaultMaxChars caps transcripts before extraction to avoid context overflow
const DefaultMaxChars = 12000

// GroqExtractor extracts deal intelligence using the Groq LLM
type GroqExtractor struct {
	client   *ai.GroqClient
	parser   *Parser
	maxChars int
	logger   *zap.Logger
}

// NewGroqExtractor creates the LLM-backed extractor
func NewGroqExtractor(client *ai.GroqClient, maxChars int, logger *zap.Logger) *GroqExtractor {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &GroqExtractor{
		client:   client,
		parser:   NewParser(),
		maxChars: maxChars,
		logger:   logger,
	}
}

// Extract runs the profile prompt against the model, falling back to mock
// data when the provider is unavailable or returns garbage.
func (e *GroqExtractor) Extract(ctx context.Context, transcript string, profile entities.ExtractionProfile) (map[string]interface{}, bool, error) {
	truncated := utf8.RuneCountInString(transcript) > e.maxChars
	if truncated {
		transcript = trimRunes(transcript, e.maxChars)
		if e.logger != nil {
			e.logger.Warn("transcript too long, truncating before extraction",
				zap.Int("max_chars", e.maxChars),
			)
		}
	}

	if e.client == nil || !e.client.HasKey() {
		if e.logger != nil {
			e.logger.Warn("extraction provider disabled, returning mock data")
		}
		return MockPayload(profile), truncated, nil
	}

	prompt := dealPromptFmt
	if profile == entities.ProfileStrategy {
		prompt = strategyPromptFmt
	}

	content, err := e.client.CompleteJSON(ctx, extractorSystemPrompt, fmt.Sprintf(prompt, transcript))
	if err != nil {
		if e.logger != nil {
			e.logger.Error("extraction provider failed, returning mock data", zap.Error(err))
		}
		return MockPayload(profile), truncated, nil
	}

	payload, err := e.parser.ParseJSONResponse(content)
	if err != nil {
		if e.logger != nil {
			e.logger.Error("extraction response unparseable, returning mock data", zap.Error(err))
		}
		return MockPayload(profile), truncated, nil
	}

	return payload, truncated, nil
}

// MockPayload returns the deterministic degraded-mode payload for a profile
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

func MockPayload(profile entities.ExtractionProfile) map[string]interface{} {
	if profile == entities.ProfileStrategy {
		return map[string]interface{}{
			"purpose":         "Residential purchase",
			"summary":         "Client evaluating a 3BHK purchase in Shela with partial loan funding.",
			"budget":          "₹80L–₹95L",
			"risk_assessment": "Medium",
			"deal_score":      float64(65),
			"client_name":     "Under Evaluation",
			"follow_up_date":  "Under Evaluation",
			"action_points":   []interface{}{"Arrange site visit", "Check loan approval progress"},
		}
	}

	return map[string]interface{}{
		"conversationType": entities.ConversationBuyer,
		"clientProfile": map[string]interface{}{
			"budgetRange":     "₹80L–₹95L",
			"loanRequirement": "Required",
			"familySize":      "3",
			"urgency":         "Immediate",
		},
		"interestSignals": map[string]interface{}{
			"preference":         "3BHK",
			"floorPreference":    "Any",
			"vastuImportance":    "Medium",
			"locationPriority":   "Shela",
			"parkingRequirement": "2",
		},
		"financialIntelligence": map[string]interface{}{
			"expectedRent":           "₹30k",
			"builderScheme":          "Standard",
			"negotiationPossibility": "High",
			"discountProbability":    "Medium",
			"holdingPeriod":          "3 years",
		},
		"dealProbabilityScore": float64(65),
		"keyConcerns":          []interface{}{"Price too high", "Wife not convinced"},
		"suggestedAction":      "Call after 3 days to check on bank loan approval progress.",
		"speakers": []interface{}{
			map[string]interface{}{"id": "Speaker 0", "role": "Broker", "name": "Not mentioned"},
			map[string]interface{}{"id": "Speaker 1", "role": "Client", "name": "Not mentioned"},
		},
	}
}
