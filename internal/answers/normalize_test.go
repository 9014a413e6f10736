package answers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLegacyFiltersGuidelines(t *testing.T) {
	payload := Normalize(`[
		{"correct_answer":"Paris","ai_reasoning":"capital city"},
		{"guidelines":"answer in one word"},
		{"correct_answer":"42"},
		null
	]`)

	assert.Equal(t, VariantLegacy, payload.Variant)
	assert.Equal(t, "legacy", payload.Type)
	assert.Empty(t, payload.TopReasoning)
	assert.Empty(t, payload.Guidelines)

	require.Len(t, payload.Answers, 2)
	assert.Equal(t, "Paris", payload.Answers[0].CorrectAnswer)
	assert.Equal(t, "capital city", payload.Answers[0].AIReasoning)
	assert.Equal(t, "42", payload.Answers[1].CorrectAnswer)
}

func TestNormalizeStructured(t *testing.T) {
	payload := Normalize(`{
		"type":"cloze",
		"guidelines":"fill every blank",
		"ai_reasoning":"ignored for non-table payloads",
		"questions":[{"correct_answer":"a"},{"correct_answer":"b","ai_reasoning":"why b"}]
	}`)

	assert.Equal(t, VariantStructured, payload.Variant)
	assert.Equal(t, "cloze", payload.Type)
	assert.Equal(t, "fill every blank", payload.Guidelines)
	// ai_reasoning only surfaces at top level for type == "table".
	assert.Empty(t, payload.TopReasoning)

	require.Len(t, payload.Answers, 2)
	assert.Equal(t, "why b", payload.Answers[1].AIReasoning)
}

func TestNormalizeTablePromotesReasoning(t *testing.T) {
	payload := Normalize(`{
		"type":"table",
		"ai_reasoning":"whole-question reasoning",
		"questions":[{"correct_answer":"x"}]
	}`)

	assert.Equal(t, "table", payload.Type)
	assert.Equal(t, "whole-question reasoning", payload.TopReasoning)
}

func TestNormalizeStructuredWithoutQuestions(t *testing.T) {
	payload := Normalize(`{"type":"cloze"}`)
	assert.Equal(t, VariantStructured, payload.Variant)
	assert.Empty(t, payload.Answers)
}

func TestNormalizeMalformed(t *testing.T) {
	for _, input := range []string{"", "not json", `{"type":`, "42", `"scalar"`} {
		payload := Normalize(input)
		assert.Equal(t, VariantNone, payload.Variant, input)
		assert.Empty(t, payload.Type, input)
		assert.Empty(t, payload.TopReasoning, input)
		assert.Empty(t, payload.Guidelines, input)
		assert.Empty(t, payload.Answers, input)
	}
}

func TestAtDegradesOnMismatchedCounts(t *testing.T) {
	payload := Normalize(`[{"correct_answer":"only one"}]`)

	d, ok := payload.At(0)
	require.True(t, ok)
	assert.Equal(t, "only one", d.CorrectAnswer)

	_, ok = payload.At(1)
	assert.False(t, ok)
	_, ok = payload.At(-1)
	assert.False(t, ok)
}
