package intel

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Parser handles parsing and validation of LLM extraction responses
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParseJSONResponse parses the model output into a generic payload.
// Markdown code fences around the JSON are stripped first.
func (p *Parser) ParseJSONResponse(raw string) (map[string]interface{}, error) {
	cleaned := extractJSON(raw)

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return payload, nil
}

// StringField reads a string field from the payload, empty when absent
func StringField(payload map[string]interface{}, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

// IntField reads a numeric field from the payload, rounding floats
func IntField(payload map[string]interface{}, key string) (int, bool) {
	switch v := payload[key].(type) {
	case float64:
		return int(v + 0.5), true
	case int:
		return v, true
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return int(f + 0.5), true
		}
	}
	return 0, false
}

// ClampScore forces a deal probability score into [0, 100]
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// extractJSON extracts JSON content from markdown code blocks or plain text
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}
