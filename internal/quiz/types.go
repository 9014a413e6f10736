package quiz

import (
	"errors"

	"github.com/google/uuid"

	"github.com/imdat1/Course-Helper/internal/cloze"
)

var (
	ErrSessionNotFound  = errors.New("quiz session not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrSlotNotFound     = errors.New("slot not found")
	ErrAlreadySubmitted = errors.New("slot already submitted")
)

// SlotStatus is the submission state of one widget.
type SlotStatus string

const (
	SlotUnanswered SlotStatus = "unanswered"
	SlotSubmitted  SlotStatus = "submitted"
)

// Widget is one interactive input bound to a cloze placeholder. The full
// record lives in the Redis view session; CorrectAnswer and AIReasoning are
// server-side only and never leave through View.
type Widget struct {
	Slot          int            `json:"slot"`
	Kind          cloze.Kind     `json:"kind"`
	Options       []cloze.Option `json:"options,omitempty"`
	HasAnswerKey  bool           `json:"has_answer_key"`
	CorrectAnswer string         `json:"correct_answer,omitempty"` // server-side only
	AIReasoning   string         `json:"ai_reasoning,omitempty"`   // server-side only
	Status        SlotStatus     `json:"status"`
	Answer        string         `json:"answer,omitempty"`
	Correct       *bool          `json:"correct,omitempty"`
}

// WidgetView is the client-facing projection of a widget. Reasoning appears
// only once the slot has been submitted.
type WidgetView struct {
	Slot         int        `json:"slot"`
	Kind         cloze.Kind `json:"kind"`
	Options      []string   `json:"options,omitempty"`
	HasAnswerKey bool       `json:"has_answer_key"`
	Status       SlotStatus `json:"status"`
	Answer       string     `json:"answer,omitempty"`
	Correct      *bool      `json:"correct,omitempty"`
	Reasoning    string     `json:"reasoning,omitempty"`
}

// View projects the widget for clients, stripping answer key material.
func (w Widget) View() WidgetView {
	v := WidgetView{
		Slot:         w.Slot,
		Kind:         w.Kind,
		HasAnswerKey: w.HasAnswerKey,
		Status:       w.Status,
		Answer:       w.Answer,
		Correct:      w.Correct,
	}
	for _, opt := range w.Options {
		v.Options = append(v.Options, opt.Text)
	}
	if w.Status == SlotSubmitted {
		v.Reasoning = w.AIReasoning
	}
	return v
}

// RenderedQuestion is one question prepared for display: preprocessed markup
// with widget anchors plus the widgets bound to its answer key.
type RenderedQuestion struct {
	ID           string   `json:"id"`
	HTML         string   `json:"html"`
	Type         string   `json:"type,omitempty"`
	Guidelines   string   `json:"guidelines,omitempty"`
	TopReasoning string   `json:"top_reasoning,omitempty"`
	Widgets      []Widget `json:"widgets"`
}

// QuestionView is the client-facing projection of a rendered question.
// Question-level reasoning for "table" payloads is always visible,
// independent of widget state.
type QuestionView struct {
	ID           string       `json:"id"`
	HTML         string       `json:"html"`
	Type         string       `json:"type,omitempty"`
	Guidelines   string       `json:"guidelines,omitempty"`
	TopReasoning string       `json:"top_reasoning,omitempty"`
	Widgets      []WidgetView `json:"widgets"`
}

// View projects the question for clients.
func (q RenderedQuestion) View() QuestionView {
	v := QuestionView{
		ID:           q.ID,
		HTML:         q.HTML,
		Type:         q.Type,
		Guidelines:   q.Guidelines,
		TopReasoning: q.TopReasoning,
		Widgets:      make([]WidgetView, 0, len(q.Widgets)),
	}
	for _, w := range q.Widgets {
		v.Widgets = append(v.Widgets, w.View())
	}
	return v
}

// ViewSession is the per-client quiz view with its submission state. One
// Redis record per session; nothing is shared between sessions.
type ViewSession struct {
	SessionID uuid.UUID          `json:"session_id"`
	CourseID  string             `json:"course_id"`
	FileID    string             `json:"file_id"`
	Title     string             `json:"title,omitempty"`
	Questions []RenderedQuestion `json:"questions"`
}

func (s *ViewSession) question(questionID string) (*RenderedQuestion, error) {
	for i := range s.Questions {
		if s.Questions[i].ID == questionID {
			return &s.Questions[i], nil
		}
	}
	return nil, ErrQuestionNotFound
}

// SessionView is the client-facing projection of a view session.
type SessionView struct {
	SessionID uuid.UUID      `json:"session_id"`
	CourseID  string         `json:"course_id"`
	FileID    string         `json:"file_id"`
	Title     string         `json:"title,omitempty"`
	Questions []QuestionView `json:"questions"`
}

// View projects the session for clients.
func (s *ViewSession) View() SessionView {
	v := SessionView{
		SessionID: s.SessionID,
		CourseID:  s.CourseID,
		FileID:    s.FileID,
		Title:     s.Title,
		Questions: make([]QuestionView, 0, len(s.Questions)),
	}
	for _, q := range s.Questions {
		v.Questions = append(v.Questions, q.View())
	}
	return v
}

// SubmitRequest carries one answer for one widget slot.
type SubmitRequest struct {
	Answer string `json:"answer"`
}

// SubmitResult reports the graded outcome of a submission. Correct is nil
// when the slot has no answer key.
type SubmitResult struct {
	Slot      int        `json:"slot"`
	Status    SlotStatus `json:"status"`
	Answer    string     `json:"answer"`
	Correct   *bool      `json:"correct,omitempty"`
	Reasoning string     `json:"reasoning,omitempty"`
}
