package quiz

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/imdat1/Course-Helper/internal/upstream"
	httperrors "github.com/imdat1/Course-Helper/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for quiz views.
type HTTPHandlers struct {
	service *Service
	logger  zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for quiz endpoints.
func NewHTTPHandlers(service *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		service: service,
		logger:  logger.With().Str("component", "quiz_http").Logger(),
	}
}

// Open handles GET /v1/courses/{courseID}/quizzes/{fileID}
func (h *HTTPHandlers) Open(w http.ResponseWriter, r *http.Request) {
	courseID := r.PathValue("courseID")
	fileID := r.PathValue("fileID")
	if courseID == "" || fileID == "" {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Course and file id required")
		return
	}

	view, err := h.service.Open(r.Context(), courseID, fileID)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			httperrors.RespondUnauthorized(w, httperrors.ErrCodeUnauthorized, "Backend rejected credentials")
			return
		}
		h.logger.Error().Err(err).Str("course_id", courseID).Str("file_id", fileID).Msg("quiz view failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeQuizFetchFailed, "Failed to load quiz")
		return
	}

	h.respondJSON(w, http.StatusOK, view)
}

// Submit handles POST /v1/quiz-sessions/{sessionID}/questions/{questionID}/answers/{slot}
func (h *HTTPHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.PathValue("sessionID"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid session id")
		return
	}
	slot, err := strconv.Atoi(r.PathValue("slot"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid slot")
		return
	}

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	result, err := h.service.Submit(r.Context(), sessionID, r.PathValue("questionID"), slot, req.Answer)
	if err != nil {
		h.respondServiceError(w, err, "submit failed")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// Reset handles POST /v1/quiz-sessions/{sessionID}/questions/{questionID}/reset
func (h *HTTPHandlers) Reset(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.PathValue("sessionID"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid session id")
		return
	}

	view, err := h.service.Reset(r.Context(), sessionID, r.PathValue("questionID"))
	if err != nil {
		h.respondServiceError(w, err, "reset failed")
		return
	}

	h.respondJSON(w, http.StatusOK, view)
}

func (h *HTTPHandlers) respondServiceError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeSessionNotFound, "Quiz session not found or expired")
	case errors.Is(err, ErrQuestionNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeQuestionNotFound, "Question not found")
	case errors.Is(err, ErrSlotNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeSlotNotFound, "Slot not found")
	case errors.Is(err, ErrAlreadySubmitted):
		httperrors.RespondError(w, http.StatusConflict, httperrors.ErrCodeAlreadySubmitted, "Slot already submitted")
	default:
		h.logger.Error().Err(err).Msg(msg)
		httperrors.RespondInternalError(w, "Quiz session update failed")
	}
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
