package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imdat1/Course-Helper/internal/cloze"
	"github.com/imdat1/Course-Helper/internal/upstream"
)

func TestRenderBindsWidgetsPositionally(t *testing.T) {
	q := upstream.Question{
		ID:           "q1",
		QuestionText: `<p>Capital: {1:MC:%100%Paris~%0%London}, population: {2:NUMERICAL:2100000}</p>`,
		AnswersJSON:  `[{"correct_answer":"Paris","ai_reasoning":"It is the capital."},{"correct_answer":"2100000"}]`,
	}

	rendered := Renderer{}.Render(q)

	require.Len(t, rendered.Widgets, 2)
	assert.Contains(t, rendered.HTML, `data-cloze="0"`)
	assert.Contains(t, rendered.HTML, `data-cloze="1"`)

	mc := rendered.Widgets[0]
	assert.Equal(t, cloze.KindMultipleChoice, mc.Kind)
	assert.True(t, mc.HasAnswerKey)
	assert.Equal(t, "Paris", mc.CorrectAnswer)
	assert.Equal(t, "It is the capital.", mc.AIReasoning)
	require.Len(t, mc.Options, 2)
	assert.True(t, mc.Options[0].Correct)

	num := rendered.Widgets[1]
	assert.Equal(t, cloze.KindNumerical, num.Kind)
	assert.True(t, num.HasAnswerKey)
	assert.Empty(t, num.Options)
}

func TestRenderShortAnswerListDegrades(t *testing.T) {
	q := upstream.Question{
		ID:           "q1",
		QuestionText: `{1:SHORTANSWER:x} and {2:SHORTANSWER:y}`,
		AnswersJSON:  `[{"correct_answer":"first"}]`,
	}

	rendered := Renderer{}.Render(q)

	require.Len(t, rendered.Widgets, 2)
	assert.True(t, rendered.Widgets[0].HasAnswerKey)
	assert.False(t, rendered.Widgets[1].HasAnswerKey)
	assert.Empty(t, rendered.Widgets[1].CorrectAnswer)
}

func TestRenderMalformedAnswersNoKey(t *testing.T) {
	q := upstream.Question{
		ID:           "q1",
		QuestionText: `{1:MC:%100%A~B}`,
		AnswersJSON:  `{not json`,
	}

	rendered := Renderer{}.Render(q)

	require.Len(t, rendered.Widgets, 1)
	assert.False(t, rendered.Widgets[0].HasAnswerKey)
	assert.Empty(t, rendered.Type)
}

func TestRenderTablePayloadPromotesReasoning(t *testing.T) {
	q := upstream.Question{
		ID:           "q1",
		QuestionText: `<table><tr><td>{1:SHORTANSWER:a}</td></tr></table>`,
		AnswersJSON:  `{"type":"table","ai_reasoning":"overall","questions":[{"correct_answer":"a","ai_reasoning":"per-cell"}]}`,
	}

	rendered := Renderer{}.Render(q)

	assert.Equal(t, "overall", rendered.TopReasoning)
	require.Len(t, rendered.Widgets, 1)
	// Per-placeholder reasoning is suppressed for table payloads.
	assert.Empty(t, rendered.Widgets[0].AIReasoning)
}

func TestWidgetViewHidesAnswerKey(t *testing.T) {
	w := Widget{
		Slot:          0,
		Kind:          cloze.KindMultipleChoice,
		Options:       []cloze.Option{{Text: "Paris", Correct: true}, {Text: "London"}},
		HasAnswerKey:  true,
		CorrectAnswer: "Paris",
		AIReasoning:   "hidden until submit",
		Status:        SlotUnanswered,
	}

	view := w.View()
	assert.Equal(t, []string{"Paris", "London"}, view.Options)
	assert.Empty(t, view.Reasoning)

	w.Status = SlotSubmitted
	assert.Equal(t, "hidden until submit", w.View().Reasoning)
}

func TestGrade(t *testing.T) {
	cases := []struct {
		name    string
		widget  Widget
		answer  string
		correct *bool
	}{
		{"exact", Widget{HasAnswerKey: true, CorrectAnswer: "Paris"}, "Paris", boolPtr(true)},
		{"case insensitive", Widget{HasAnswerKey: true, CorrectAnswer: "Paris"}, "pArIs", boolPtr(true)},
		{"trimmed", Widget{HasAnswerKey: true, CorrectAnswer: " Paris "}, "  paris", boolPtr(true)},
		{"wrong", Widget{HasAnswerKey: true, CorrectAnswer: "Paris"}, "London", boolPtr(false)},
		{"no key", Widget{HasAnswerKey: false}, "anything", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Grade(tc.widget, tc.answer)
			if tc.correct == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tc.correct, *got)
		})
	}
}

func boolPtr(b bool) *bool { return &b }
