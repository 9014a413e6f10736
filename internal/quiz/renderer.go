// Package quiz turns raw backend questions into interactive views: markup
// preprocessing, cloze scanning, answer-key binding and the per-session
// submission state machine with local grading.
package quiz

import (
	"strings"

	"github.com/imdat1/Course-Helper/internal/answers"
	"github.com/imdat1/Course-Helper/internal/cloze"
	"github.com/imdat1/Course-Helper/internal/markup"
	"github.com/imdat1/Course-Helper/internal/upstream"
)

// Renderer builds display-ready questions from raw backend records.
type Renderer struct{}

// Render preprocesses the question markup, scans its cloze placeholders and
// binds widget i to normalized answer descriptor i. A descriptor list shorter
// than the placeholder count degrades to "no answer key" for the tail; a
// longer one simply leaves the extra descriptors unused.
func (Renderer) Render(q upstream.Question) RenderedQuestion {
	text := markup.ReplacePluginImages(q.QuestionText, q.ImagesJSON)
	html, tokens := cloze.ScanDocument(text)
	payload := answers.Normalize(q.AnswersJSON)

	rendered := RenderedQuestion{
		ID:           q.ID,
		HTML:         html,
		Type:         payload.Type,
		Guidelines:   payload.Guidelines,
		TopReasoning: payload.TopReasoning,
		Widgets:      make([]Widget, 0, len(tokens)),
	}

	for _, tok := range tokens {
		w := Widget{
			Slot:    tok.Position,
			Kind:    tok.Kind(),
			Options: tok.Options(),
			Status:  SlotUnanswered,
		}
		if desc, ok := payload.At(tok.Position); ok {
			w.CorrectAnswer = desc.CorrectAnswer
			w.HasAnswerKey = strings.TrimSpace(desc.CorrectAnswer) != ""
			// Table payloads carry one question-level reasoning blob
			// instead of per-placeholder reasoning.
			if payload.Type != answers.TypeTable {
				w.AIReasoning = desc.AIReasoning
			}
		}
		rendered.Widgets = append(rendered.Widgets, w)
	}
	return rendered
}

// Grade compares a submitted answer against the slot's answer key: trimmed,
// case-insensitive, binary. Returns nil when the slot has no answer key.
func Grade(w Widget, answer string) *bool {
	if !w.HasAnswerKey {
		return nil
	}
	correct := strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(w.CorrectAnswer))
	return &correct
}
