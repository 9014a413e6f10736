package export

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/imdat1/Course-Helper/internal/upstream"
	httperrors "github.com/imdat1/Course-Helper/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for export jobs and uploaded files.
type HTTPHandlers struct {
	service *Service
	logger  zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for export endpoints.
func NewHTTPHandlers(service *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		service: service,
		logger:  logger.With().Str("component", "export_http").Logger(),
	}
}

// Start handles POST /v1/courses/{courseID}/quizzes/{fileID}/exports
func (h *HTTPHandlers) Start(w http.ResponseWriter, r *http.Request) {
	courseID := r.PathValue("courseID")
	fileID := r.PathValue("fileID")

	task, err := h.service.Start(r.Context(), courseID, fileID)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			httperrors.RespondUnauthorized(w, httperrors.ErrCodeUnauthorized, "Backend rejected credentials")
			return
		}
		h.logger.Error().Err(err).Str("course_id", courseID).Str("file_id", fileID).Msg("export start failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeExportStartFailed, "Failed to start export")
		return
	}

	h.respondJSON(w, http.StatusAccepted, task)
}

// List handles GET /v1/courses/{courseID}/quizzes/{fileID}/exports
func (h *HTTPHandlers) List(w http.ResponseWriter, r *http.Request) {
	courseID := r.PathValue("courseID")
	fileID := r.PathValue("fileID")

	tasks, err := h.service.List(r.Context(), courseID, fileID)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			httperrors.RespondUnauthorized(w, httperrors.ErrCodeUnauthorized, "Backend rejected credentials")
			return
		}
		h.logger.Error().Err(err).Str("course_id", courseID).Str("file_id", fileID).Msg("export list failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeExportListFailed, "Failed to list exports")
		return
	}
	if tasks == nil {
		tasks = []upstream.Task{}
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"course_id": courseID,
		"file_id":   fileID,
		"tasks":     tasks,
	})
}

// Download handles GET /v1/courses/{courseID}/exports/{taskID}/download
func (h *HTTPHandlers) Download(w http.ResponseWriter, r *http.Request) {
	courseID := r.PathValue("courseID")
	taskID := r.PathValue("taskID")

	data, filename, err := h.service.Download(r.Context(), courseID, taskID)
	if err != nil {
		switch {
		case errors.Is(err, upstream.ErrExportNotReady):
			httperrors.RespondError(w, http.StatusConflict, httperrors.ErrCodeExportNotReady, "Export is not ready yet")
		case errors.Is(err, upstream.ErrUnauthorized):
			httperrors.RespondUnauthorized(w, httperrors.ErrCodeUnauthorized, "Backend rejected credentials")
		default:
			h.logger.Error().Err(err).Str("task_id", taskID).Msg("export download failed")
			httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeDownloadFailed, "Failed to download export")
		}
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Files handles GET /v1/courses/{courseID}/files
func (h *HTTPHandlers) Files(w http.ResponseWriter, r *http.Request) {
	courseID := r.PathValue("courseID")

	files, err := h.service.Files(r.Context(), courseID)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			httperrors.RespondUnauthorized(w, httperrors.ErrCodeUnauthorized, "Backend rejected credentials")
			return
		}
		h.logger.Error().Err(err).Str("course_id", courseID).Msg("file list failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeUpstreamError, "Failed to list files")
		return
	}
	if files == nil {
		files = []upstream.UploadedFile{}
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"course_id": courseID,
		"files":     files,
	})
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
