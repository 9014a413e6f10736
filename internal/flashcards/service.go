// Package flashcards serves course flash cards and grades free-text answers
// through the backend's AI evaluation endpoint.
package flashcards

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/imdat1/Course-Helper/internal/upstream"
)

var (
	ErrCardNotFound     = errors.New("flash card not found")
	ErrEvaluationFailed = errors.New("evaluation failed")
)

// Backend is the slice of the upstream client the service needs.
type Backend interface {
	CourseDetail(ctx context.Context, courseID string) (*upstream.Course, error)
	EvaluateFlashCard(ctx context.Context, courseID string, req upstream.EvaluateRequest) (*upstream.EvaluationResult, error)
}

// CheckRequest is one free-text answer for one card.
type CheckRequest struct {
	CardID int64  `json:"card_id"`
	Answer string `json:"answer"`
}

// CheckResult is the AI verdict for one card.
type CheckResult struct {
	CardID         int64  `json:"card_id"`
	Verdict        string `json:"verdict"`
	Score          string `json:"score,omitempty"`
	Feedback       string `json:"feedback,omitempty"`
	SourceFileName string `json:"source_file_name,omitempty"`
}

// Service exposes flash card listing and answer checking.
type Service struct {
	backend Backend
	logger  zerolog.Logger
}

// NewService creates the flash card service.
func NewService(backend Backend, logger zerolog.Logger) *Service {
	return &Service{
		backend: backend,
		logger:  logger.With().Str("component", "flashcards_service").Logger(),
	}
}

// List returns the flash cards of a course.
func (s *Service) List(ctx context.Context, courseID string) ([]upstream.FlashCard, error) {
	course, err := s.backend.CourseDetail(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("fetch course: %w", err)
	}
	return course.FlashCards, nil
}

// Check grades one answer against its card. An evaluation failure is scoped
// to the card: it surfaces as ErrEvaluationFailed and leaves every other
// card checkable.
func (s *Service) Check(ctx context.Context, courseID string, req CheckRequest) (*CheckResult, error) {
	course, err := s.backend.CourseDetail(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("fetch course: %w", err)
	}

	var card *upstream.FlashCard
	for i := range course.FlashCards {
		if course.FlashCards[i].ID == req.CardID {
			card = &course.FlashCards[i]
			break
		}
	}
	if card == nil {
		return nil, ErrCardNotFound
	}

	result, err := s.backend.EvaluateFlashCard(ctx, courseID, upstream.EvaluateRequest{
		Question:       card.Question,
		ExpectedAnswer: card.Answer,
		UserAnswer:     req.Answer,
	})
	if err != nil {
		s.logger.Warn().Err(err).Int64("card_id", req.CardID).Msg("flash card evaluation failed")
		return nil, fmt.Errorf("%w: %v", ErrEvaluationFailed, err)
	}

	return &CheckResult{
		CardID:         req.CardID,
		Verdict:        result.Evaluation.Verdict,
		Score:          result.Evaluation.Score.String(),
		Feedback:       result.Evaluation.Feedback,
		SourceFileName: result.SourceFileName,
	}, nil
}
