package intel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONResponse(t *testing.T) {
	p := NewParser()

	payload, err := p.ParseJSONResponse(`{"conversationType":"Buyer","dealProbabilityScore":72}`)
	require.NoError(t, err)
	assert.Equal(t, "Buyer", StringField(payload, "conversationType"))

	score, ok := IntField(payload, "dealProbabilityScore")
	require.True(t, ok)
	assert.Equal(t, 72, score)
}

func TestParseJSONResponseStripsCodeFences(t *testing.T) {
	p := NewParser()

	payload, err := p.ParseJSONResponse("```json\n{\"purpose\":\"Residential purchase\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "Residential purchase", StringField(payload, "purpose"))

	payload, err = p.ParseJSONResponse("```\n{\"purpose\":\"Rental\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "Rental", StringField(payload, "purpose"))
}

func TestParseJSONResponseRejectsGarbage(t *testing.T) {
	p := NewParser()

	_, err := p.ParseJSONResponse("I could not process this transcript, sorry.")
	assert.Error(t, err)
}

func TestIntFieldRoundsFloats(t *testing.T) {
	payload := map[string]interface{}{"deal_score": 64.7}

	score, ok := IntField(payload, "deal_score")
	require.True(t, ok)
	assert.Equal(t, 65, score)

	_, ok = IntField(payload, "missing")
	assert.False(t, ok)

	payload["deal_score"] = "not a number"
	_, ok = IntField(payload, "deal_score")
	assert.False(t, ok)
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, ClampScore(-5))
	assert.Equal(t, 100, ClampScore(140))
	assert.Equal(t, 65, ClampScore(65))
}
