package export

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/imdat1/Course-Helper/internal/server"
	httperrors "github.com/imdat1/Course-Helper/pkg/http/errors"
	"github.com/imdat1/Course-Helper/pkg/http/ws"
)

// HubNotifier broadcasts task transitions to the course's WebSocket
// subscribers.
type HubNotifier struct {
	hub    *ws.Hub
	logger zerolog.Logger
}

// NewHubNotifier creates a hub-backed notifier.
func NewHubNotifier(hub *ws.Hub, logger zerolog.Logger) *HubNotifier {
	return &HubNotifier{hub: hub, logger: logger}
}

// NotifyTask implements Notifier.
func (n *HubNotifier) NotifyTask(courseID, taskID string, kind Kind, status string, terminal bool) {
	payload, err := json.Marshal(ws.TaskUpdatePayload{
		CourseID: courseID,
		TaskID:   taskID,
		Kind:     string(kind),
		Status:   status,
		Terminal: terminal,
	})
	if err != nil {
		n.logger.Error().Err(err).Msg("marshal task update")
		return
	}
	n.hub.BroadcastToCourse(courseID, ws.Message{Type: ws.TypeTaskUpdate, Payload: payload})
}

// EventsHandler serves the per-course task event stream.
type EventsHandler struct {
	hub    *ws.Hub
	logger zerolog.Logger
}

// NewEventsHandler creates the WebSocket events handler.
func NewEventsHandler(hub *ws.Hub, logger zerolog.Logger) *EventsHandler {
	return &EventsHandler{
		hub:    hub,
		logger: logger.With().Str("component", "events_ws").Logger(),
	}
}

// Serve handles GET /ws/courses/{courseID}/events
func (h *EventsHandler) Serve(w http.ResponseWriter, r *http.Request) {
	courseID := r.PathValue("courseID")
	if courseID == "" {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Course id required")
		return
	}

	conn, err := server.WSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := ws.NewConnection(conn, h.logger)
	clientID := h.hub.Register(c)
	h.hub.Subscribe(courseID, clientID)

	go c.WritePump()
	c.ReadPump(func(msg ws.Message) error {
		if msg.Type == ws.TypePing {
			return c.Send(ws.Message{Type: ws.TypePong})
		}
		return nil
	})

	h.hub.Unregister(clientID)
}
