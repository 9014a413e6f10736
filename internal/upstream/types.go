package upstream

import "encoding/json"

// Task statuses reported by the backend for asynchronous jobs (uploads and
// quiz exports alike).
const (
	StatusPending = "PENDING"
	StatusSuccess = "SUCCESS"
	StatusFailure = "FAILURE"
)

// Question is one quiz/flashcard question record as the backend stores it.
// The client never mutates it; the interesting fields are the raw markup and
// the two JSON side channels decoded downstream.
type Question struct {
	ID           string `json:"id"`
	FileID       string `json:"fileId,omitempty"`
	QuestionText string `json:"questionText"`
	AnswersJSON  string `json:"answersJson"`
	ImagesJSON   string `json:"imagesJson"`
}

// UploadedFile is per-course learning-material metadata.
type UploadedFile struct {
	FileID           string `json:"fileId"`
	Filename         string `json:"filename"`
	Type             string `json:"type"`
	Status           string `json:"status"`
	ProcessingTaskID string `json:"processingTaskId,omitempty"`
}

// FlashCard is a question/answer pair generated from course material.
type FlashCard struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Course is the course detail record; only the fields the companion reads.
type Course struct {
	ID         int64       `json:"id"`
	Title      string      `json:"title"`
	FlashCards []FlashCard `json:"flashCards"`
}

// Task is an asynchronous backend job reference.
type Task struct {
	TaskID string `json:"taskId"`
	Status string `json:"status"`
}

// taskWire tolerates both field spellings the backend and the pipeline use.
type taskWire struct {
	TaskID    string `json:"taskId"`
	AltTaskID string `json:"task_id"`
	Status    string `json:"status"`
}

func (w taskWire) task() Task {
	id := w.TaskID
	if id == "" {
		id = w.AltTaskID
	}
	return Task{TaskID: id, Status: w.Status}
}

// Evaluation is the AI verdict for a free-text flashcard answer.
type Evaluation struct {
	Verdict  string      `json:"verdict"`
	Score    json.Number `json:"score,omitempty"`
	Feedback string      `json:"feedback,omitempty"`
}

// EvaluationResult wraps the verdict with the source file it was grounded on.
type EvaluationResult struct {
	Evaluation     Evaluation `json:"evaluation"`
	SourceFileName string     `json:"sourceFileName,omitempty"`
}

// EvaluateRequest carries one flashcard answer to the evaluation collaborator.
type EvaluateRequest struct {
	Question       string `json:"question"`
	ExpectedAnswer string `json:"expectedAnswer"`
	UserAnswer     string `json:"userAnswer"`
}

// Credentials for the backend login proxy.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is the backend's auth response.
type LoginResult struct {
	Token    string      `json:"token"`
	UserID   json.Number `json:"userId"`
	Username string      `json:"username"`
}
