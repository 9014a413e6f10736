package flashcards

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/imdat1/Course-Helper/internal/upstream"
	httperrors "github.com/imdat1/Course-Helper/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for flash cards.
type HTTPHandlers struct {
	service *Service
	logger  zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for flash card endpoints.
func NewHTTPHandlers(service *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		service: service,
		logger:  logger.With().Str("component", "flashcards_http").Logger(),
	}
}

// List handles GET /v1/courses/{courseID}/flashcards
func (h *HTTPHandlers) List(w http.ResponseWriter, r *http.Request) {
	courseID := r.PathValue("courseID")

	cards, err := h.service.List(r.Context(), courseID)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			httperrors.RespondUnauthorized(w, httperrors.ErrCodeUnauthorized, "Backend rejected credentials")
			return
		}
		h.logger.Error().Err(err).Str("course_id", courseID).Msg("flash card list failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeFlashcardsFetchFailed, "Failed to load flash cards")
		return
	}
	if cards == nil {
		cards = []upstream.FlashCard{}
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"course_id":   courseID,
		"flash_cards": cards,
	})
}

// Check handles POST /v1/courses/{courseID}/flashcards/check
func (h *HTTPHandlers) Check(w http.ResponseWriter, r *http.Request) {
	courseID := r.PathValue("courseID")

	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	result, err := h.service.Check(r.Context(), courseID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrCardNotFound):
			httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "Flash card not found")
		case errors.Is(err, ErrEvaluationFailed):
			httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeEvaluationFailed, "Answer evaluation failed")
		case errors.Is(err, upstream.ErrUnauthorized):
			httperrors.RespondUnauthorized(w, httperrors.ErrCodeUnauthorized, "Backend rejected credentials")
		default:
			h.logger.Error().Err(err).Str("course_id", courseID).Msg("flash card check failed")
			httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeFlashcardsFetchFailed, "Failed to check answer")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
