package ws

import "encoding/json"

// MessageType constants for WebSocket protocol.
const (
	// Server -> Client
	TypeTaskUpdate = "task_update"
	TypeError      = "error"
	TypePong       = "pong"

	// Client -> Server
	TypePing = "ping"
)

// Message wraps all WebSocket payloads with a type tag.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// TaskUpdatePayload announces a background task status change for a course.
type TaskUpdatePayload struct {
	CourseID string `json:"course_id"`
	TaskID   string `json:"task_id"`
	Kind     string `json:"kind"` // "export" or "processing"
	Status   string `json:"status"`
	Terminal bool   `json:"terminal"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
