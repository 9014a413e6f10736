package quiz

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/imdat1/Course-Helper/internal/upstream"
)

// QuestionSource fetches quiz material from the course backend.
type QuestionSource interface {
	QuizQuestions(ctx context.Context, courseID, fileID string) ([]upstream.Question, error)
	UploadedFiles(ctx context.Context, courseID string) ([]upstream.UploadedFile, error)
}

// QuestionCache caches raw question lists between views.
type QuestionCache interface {
	Get(ctx context.Context, courseID, fileID string) ([]upstream.Question, error)
	Set(ctx context.Context, courseID, fileID string, questions []upstream.Question) error
}

// ViewStore persists view sessions for the lifetime of a quiz attempt.
type ViewStore interface {
	Save(ctx context.Context, session *ViewSession) error
	Get(ctx context.Context, id uuid.UUID) (*ViewSession, error)
}

// Service renders quiz views and runs the per-session submission state
// machine.
type Service struct {
	source   QuestionSource
	cache    QuestionCache
	store    ViewStore
	renderer Renderer
	logger   zerolog.Logger
}

// NewService creates the quiz view service.
func NewService(source QuestionSource, cache QuestionCache, store ViewStore, logger zerolog.Logger) *Service {
	return &Service{
		source: source,
		cache:  cache,
		store:  store,
		logger: logger.With().Str("component", "quiz_service").Logger(),
	}
}

// Open fetches the question list for a course source file, renders every
// question and opens a fresh view session. Each question renders
// independently; a question with broken markup or answer payload degrades on
// its own without failing the view.
func (s *Service) Open(ctx context.Context, courseID, fileID string) (*SessionView, error) {
	questions, err := s.questions(ctx, courseID, fileID)
	if err != nil {
		return nil, err
	}

	session := &ViewSession{
		SessionID: uuid.New(),
		CourseID:  courseID,
		FileID:    fileID,
		Title:     s.title(ctx, courseID, fileID),
		Questions: make([]RenderedQuestion, 0, len(questions)),
	}
	for _, q := range questions {
		session.Questions = append(session.Questions, s.renderer.Render(q))
	}

	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save view session: %w", err)
	}

	view := session.View()
	return &view, nil
}

// Submit records one answer for one widget slot and grades it locally.
// Submitted slots stay submitted; only Reset moves them back.
func (s *Service) Submit(ctx context.Context, sessionID uuid.UUID, questionID string, slot int, answer string) (*SubmitResult, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	question, err := session.question(questionID)
	if err != nil {
		return nil, err
	}
	if slot < 0 || slot >= len(question.Widgets) {
		return nil, ErrSlotNotFound
	}

	w := &question.Widgets[slot]
	if w.Status == SlotSubmitted {
		return nil, ErrAlreadySubmitted
	}

	w.Answer = answer
	w.Correct = Grade(*w, answer)
	w.Status = SlotSubmitted

	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save view session: %w", err)
	}

	return &SubmitResult{
		Slot:      w.Slot,
		Status:    w.Status,
		Answer:    w.Answer,
		Correct:   w.Correct,
		Reasoning: w.AIReasoning,
	}, nil
}

// Reset returns every slot of a question to unanswered, dropping answers and
// verdicts.
func (s *Service) Reset(ctx context.Context, sessionID uuid.UUID, questionID string) (*QuestionView, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	question, err := session.question(questionID)
	if err != nil {
		return nil, err
	}
	for i := range question.Widgets {
		question.Widgets[i].Status = SlotUnanswered
		question.Widgets[i].Answer = ""
		question.Widgets[i].Correct = nil
	}

	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save view session: %w", err)
	}

	view := question.View()
	return &view, nil
}

func (s *Service) questions(ctx context.Context, courseID, fileID string) ([]upstream.Question, error) {
	cached, err := s.cache.Get(ctx, courseID, fileID)
	if err != nil {
		s.logger.Warn().Err(err).Msg("question cache read failed")
	}
	if cached != nil {
		return cached, nil
	}

	questions, err := s.source.QuizQuestions(ctx, courseID, fileID)
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}
	if err := s.cache.Set(ctx, courseID, fileID, questions); err != nil {
		s.logger.Warn().Err(err).Msg("question cache write failed")
	}
	return questions, nil
}

// title resolves the quiz title from uploaded-file metadata. Best effort: a
// metadata fetch failure just leaves the view untitled.
func (s *Service) title(ctx context.Context, courseID, fileID string) string {
	files, err := s.source.UploadedFiles(ctx, courseID)
	if err != nil {
		s.logger.Warn().Err(err).Str("course_id", courseID).Msg("uploaded files lookup failed")
		return ""
	}
	for _, f := range files {
		if f.FileID == fileID {
			return f.Filename
		}
	}
	return ""
}
