// Package upstream is the HTTP client for the remote course backend, the
// single owner of courses, materials, questions and export jobs. The
// companion service is a pure consumer of this JSON API.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var (
	// ErrUnauthorized maps the backend's 401 so callers can distinguish a
	// stale session from an upstream outage.
	ErrUnauthorized = errors.New("upstream rejected credentials")
	// ErrExportNotReady is the non-fatal "content not available yet"
	// signal from the export download endpoint.
	ErrExportNotReady = errors.New("export not ready")
)

// Client talks to the course backend REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient builds a backend client. baseURL has no trailing slash; a nil
// httpClient gets a sane default timeout.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With().Str("component", "upstream_client").Logger(),
	}
}

// QuizQuestions fetches the ordered question list for a course source file.
func (c *Client) QuizQuestions(ctx context.Context, courseID, fileID string) ([]Question, error) {
	var questions []Question
	err := c.getJSON(ctx, fmt.Sprintf("/courses/%s/questions/%s", courseID, fileID), &questions)
	return questions, err
}

// UploadedFiles fetches material metadata for a course.
func (c *Client) UploadedFiles(ctx context.Context, courseID string) ([]UploadedFile, error) {
	var files []UploadedFile
	err := c.getJSON(ctx, fmt.Sprintf("/courses/%s/uploaded-files", courseID), &files)
	return files, err
}

// CourseDetail fetches one course including its flash cards.
func (c *Client) CourseDetail(ctx context.Context, courseID string) (*Course, error) {
	var course Course
	if err := c.getJSON(ctx, "/courses/"+courseID, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// StartSimilarQuiz asks the backend to generate a derivative quiz from the
// given source file. Returns the new export task, normally PENDING.
func (c *Client) StartSimilarQuiz(ctx context.Context, courseID, fileID string) (Task, error) {
	var wire taskWire
	err := c.postJSON(ctx, fmt.Sprintf("/courses/%s/quizzes/%s/generate-similar", courseID, fileID), nil, &wire)
	return wire.task(), err
}

// ExportTasks fetches every export task recorded for a course source file.
func (c *Client) ExportTasks(ctx context.Context, courseID, fileID string) ([]Task, error) {
	var wires []taskWire
	if err := c.getJSON(ctx, fmt.Sprintf("/courses/%s/quizzes/%s/exports", courseID, fileID), &wires); err != nil {
		return nil, err
	}
	tasks := make([]Task, 0, len(wires))
	for _, w := range wires {
		tasks = append(tasks, w.task())
	}
	return tasks, nil
}

// TaskStatus fetches the current status of one background task.
func (c *Client) TaskStatus(ctx context.Context, courseID, taskID string) (Task, error) {
	var wire taskWire
	err := c.getJSON(ctx, fmt.Sprintf("/courses/%s/task-status/%s", courseID, taskID), &wire)
	return wire.task(), err
}

// DownloadExport fetches the exported quiz document. The backend answers with
// the binary payload once the task succeeded and with a JSON status body
// before that; the latter surfaces as ErrExportNotReady.
func (c *Client) DownloadExport(ctx context.Context, courseID, taskID string) ([]byte, string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/courses/%s/quizzes/exports/%s/download", courseID, taskID), nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if err := statusErr(resp.StatusCode); err != nil {
		return nil, "", err
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		// Task not finished yet; the body is {task_id, status}.
		var wire taskWire
		if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
			return nil, "", fmt.Errorf("decode download status: %w", err)
		}
		if wire.task().Status != StatusSuccess {
			return nil, "", ErrExportNotReady
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return data, downloadFilename(resp.Header.Get("Content-Disposition"), taskID), nil
}

// EvaluateFlashCard grades a free-text answer through the AI pipeline.
func (c *Client) EvaluateFlashCard(ctx context.Context, courseID string, req EvaluateRequest) (*EvaluationResult, error) {
	var result EvaluationResult
	if err := c.postJSON(ctx, fmt.Sprintf("/courses/%s/flashcards/evaluate", courseID), req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Login exchanges user credentials for a backend bearer token.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	var result LoginResult
	if err := c.postJSON(ctx, "/auth/login", creds, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.doJSON(req, out)
}

func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := statusErr(resp.StatusCode); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", req.URL.Path, err)
	}
	return nil
}

func statusErr(code int) error {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrUnauthorized
	case code >= 300:
		return fmt.Errorf("upstream status %d", code)
	default:
		return nil
	}
}

// downloadFilename pulls the filename out of Content-Disposition, falling
// back to a deterministic name derived from the task id.
func downloadFilename(disposition, taskID string) string {
	if disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if name := params["filename"]; name != "" {
				return name
			}
		}
	}
	return "quiz_export_" + taskID + ".xml"
}
