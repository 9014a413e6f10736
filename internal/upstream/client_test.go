package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second, zerolog.Nop())
}

func TestQuizQuestionsForwardsBearer(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/courses/7/questions/f1", r.URL.Path)
		json.NewEncoder(w).Encode([]Question{{ID: "q1", QuestionText: "text"}})
	})

	ctx := WithToken(context.Background(), "backend-token")
	questions, err := client.QuizQuestions(ctx, "7", "f1")
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "q1", questions[0].ID)
	assert.Equal(t, "Bearer backend-token", gotAuth)
}

func TestStartSimilarQuizAcceptsBothIDSpellings(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"task_id":"t-42","status":"PENDING"}`))
	})

	task, err := client.StartSimilarQuiz(context.Background(), "7", "f1")
	require.NoError(t, err)
	assert.Equal(t, Task{TaskID: "t-42", Status: StatusPending}, task)
}

func TestTaskStatusCamelCase(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"taskId":"t-1","status":"SUCCESS"}`))
	})

	task, err := client.TaskStatus(context.Background(), "7", "t-1")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, task.Status)
}

func TestDownloadExportNotReady(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"task_id":"t-1","status":"PENDING"}`))
	})

	_, _, err := client.DownloadExport(context.Background(), "7", "t-1")
	assert.ErrorIs(t, err, ErrExportNotReady)
}

func TestDownloadExportBinary(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.Header().Set("Content-Disposition", `attachment; filename=moodle_quiz_export_t-1.xml`)
		w.Write([]byte("<quiz/>"))
	})

	data, name, err := client.DownloadExport(context.Background(), "7", "t-1")
	require.NoError(t, err)
	assert.Equal(t, "<quiz/>", string(data))
	assert.Equal(t, "moodle_quiz_export_t-1.xml", name)
}

func TestUnauthorizedMapsToSentinel(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.UploadedFiles(context.Background(), "7")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestEvaluateFlashCard(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req EvaluateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "What is Go?", req.Question)
		json.NewEncoder(w).Encode(EvaluationResult{
			Evaluation:     Evaluation{Verdict: "Correct", Score: "0.9", Feedback: "good"},
			SourceFileName: "intro.pdf",
		})
	})

	result, err := client.EvaluateFlashCard(context.Background(), "7", EvaluateRequest{Question: "What is Go?"})
	require.NoError(t, err)
	assert.Equal(t, "Correct", result.Evaluation.Verdict)
	assert.Equal(t, "intro.pdf", result.SourceFileName)
}
