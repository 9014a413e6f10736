package quiz

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imdat1/Course-Helper/internal/upstream"
)

type stubSource struct {
	questions   []upstream.Question
	files       []upstream.UploadedFile
	fetchCalls  int
	questionErr error
}

func (s *stubSource) QuizQuestions(_ context.Context, _, _ string) ([]upstream.Question, error) {
	s.fetchCalls++
	return s.questions, s.questionErr
}

func (s *stubSource) UploadedFiles(_ context.Context, _ string) ([]upstream.UploadedFile, error) {
	return s.files, nil
}

type stubCache struct {
	data map[string][]upstream.Question
}

func newStubCache() *stubCache {
	return &stubCache{data: make(map[string][]upstream.Question)}
}

func (c *stubCache) Get(_ context.Context, courseID, fileID string) ([]upstream.Question, error) {
	return c.data[courseID+":"+fileID], nil
}

func (c *stubCache) Set(_ context.Context, courseID, fileID string, questions []upstream.Question) error {
	c.data[courseID+":"+fileID] = questions
	return nil
}

type memStore struct {
	sessions map[uuid.UUID]*ViewSession
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[uuid.UUID]*ViewSession)}
}

func (m *memStore) Save(_ context.Context, session *ViewSession) error {
	m.sessions[session.SessionID] = session
	return nil
}

func (m *memStore) Get(_ context.Context, id uuid.UUID) (*ViewSession, error) {
	return m.sessions[id], nil
}

func newTestService(source *stubSource) (*Service, *stubCache, *memStore) {
	cache := newStubCache()
	store := newMemStore()
	return NewService(source, cache, store, zerolog.Nop()), cache, store
}

func TestOpenRendersAndCaches(t *testing.T) {
	source := &stubSource{
		questions: []upstream.Question{{
			ID:           "q1",
			QuestionText: `Answer: {1:SHORTANSWER:x}`,
			AnswersJSON:  `[{"correct_answer":"42"}]`,
		}},
		files: []upstream.UploadedFile{{FileID: "f1", Filename: "Algebra Quiz"}},
	}
	svc, cache, _ := newTestService(source)

	view, err := svc.Open(context.Background(), "c1", "f1")
	require.NoError(t, err)
	assert.Equal(t, "Algebra Quiz", view.Title)
	require.Len(t, view.Questions, 1)
	require.Len(t, view.Questions[0].Widgets, 1)
	assert.Equal(t, SlotUnanswered, view.Questions[0].Widgets[0].Status)
	assert.NotEmpty(t, cache.data["c1:f1"])

	// Second open serves from cache.
	_, err = svc.Open(context.Background(), "c1", "f1")
	require.NoError(t, err)
	assert.Equal(t, 1, source.fetchCalls)
}

func TestOpenFetchError(t *testing.T) {
	source := &stubSource{questionErr: errors.New("backend down")}
	svc, _, _ := newTestService(source)

	_, err := svc.Open(context.Background(), "c1", "f1")
	assert.Error(t, err)
}

func TestSubmitGradesAndLocksSlot(t *testing.T) {
	source := &stubSource{
		questions: []upstream.Question{{
			ID:           "q1",
			QuestionText: `Answer: {1:SHORTANSWER:x}`,
			AnswersJSON:  `[{"correct_answer":"Paris","ai_reasoning":"capital of France"}]`,
		}},
	}
	svc, _, _ := newTestService(source)

	view, err := svc.Open(context.Background(), "c1", "f1")
	require.NoError(t, err)

	result, err := svc.Submit(context.Background(), view.SessionID, "q1", 0, " paris ")
	require.NoError(t, err)
	assert.Equal(t, SlotSubmitted, result.Status)
	require.NotNil(t, result.Correct)
	assert.True(t, *result.Correct)
	assert.Equal(t, "capital of France", result.Reasoning)

	// Submitted slots are locked until reset.
	_, err = svc.Submit(context.Background(), view.SessionID, "q1", 0, "London")
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
}

func TestSubmitUnknownTargets(t *testing.T) {
	source := &stubSource{
		questions: []upstream.Question{{
			ID:           "q1",
			QuestionText: `{1:SHORTANSWER:x}`,
			AnswersJSON:  `[]`,
		}},
	}
	svc, _, _ := newTestService(source)

	view, err := svc.Open(context.Background(), "c1", "f1")
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), uuid.New(), "q1", 0, "a")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.Submit(context.Background(), view.SessionID, "missing", 0, "a")
	assert.ErrorIs(t, err, ErrQuestionNotFound)

	_, err = svc.Submit(context.Background(), view.SessionID, "q1", 5, "a")
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestResetUnlocksAllSlots(t *testing.T) {
	source := &stubSource{
		questions: []upstream.Question{{
			ID:           "q1",
			QuestionText: `{1:SHORTANSWER:a} and {2:SHORTANSWER:b}`,
			AnswersJSON:  `[{"correct_answer":"x"},{"correct_answer":"y"}]`,
		}},
	}
	svc, _, _ := newTestService(source)

	view, err := svc.Open(context.Background(), "c1", "f1")
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), view.SessionID, "q1", 0, "x")
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), view.SessionID, "q1", 1, "wrong")
	require.NoError(t, err)

	reset, err := svc.Reset(context.Background(), view.SessionID, "q1")
	require.NoError(t, err)
	for _, w := range reset.Widgets {
		assert.Equal(t, SlotUnanswered, w.Status)
		assert.Empty(t, w.Answer)
		assert.Nil(t, w.Correct)
	}

	// Slots accept answers again after reset.
	result, err := svc.Submit(context.Background(), view.SessionID, "q1", 0, "y")
	require.NoError(t, err)
	require.NotNil(t, result.Correct)
	assert.False(t, *result.Correct)
}

func TestSubmitNoAnswerKey(t *testing.T) {
	source := &stubSource{
		questions: []upstream.Question{{
			ID:           "q1",
			QuestionText: `{1:SHORTANSWER:x}`,
			AnswersJSON:  `not json at all`,
		}},
	}
	svc, _, _ := newTestService(source)

	view, err := svc.Open(context.Background(), "c1", "f1")
	require.NoError(t, err)

	result, err := svc.Submit(context.Background(), view.SessionID, "q1", 0, "anything")
	require.NoError(t, err)
	assert.Equal(t, SlotSubmitted, result.Status)
	assert.Nil(t, result.Correct)
}
