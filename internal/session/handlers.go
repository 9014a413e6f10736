package session

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/imdat1/Course-Helper/internal/upstream"
	httperrors "github.com/imdat1/Course-Helper/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for session management.
type HTTPHandlers struct {
	backend *upstream.Client
	store   *Store
	tokens  *TokenManager
	logger  zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for session endpoints.
func NewHTTPHandlers(backend *upstream.Client, store *Store, tokens *TokenManager, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		backend: backend,
		store:   store,
		tokens:  tokens,
		logger:  logger.With().Str("component", "session_handlers").Logger(),
	}
}

// Login handles POST /v1/auth/login. Credentials go straight to the backend;
// on success the backend token is stored server-side and the client gets a
// companion token referencing it.
func (h *HTTPHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req upstream.Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if req.Username == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "Username required", "username")
		return
	}
	if req.Password == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "Password required", "password")
		return
	}

	result, err := h.backend.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			httperrors.RespondUnauthorized(w, httperrors.ErrCodeLoginFailed, "Invalid username or password")
			return
		}
		h.logger.Error().Err(err).Msg("backend login failed")
		httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeUpstreamError, "Login service unavailable")
		return
	}

	sessionID, err := h.store.SetSession(r.Context(), Record{
		UpstreamToken: result.Token,
		UserID:        result.UserID.String(),
		Username:      result.Username,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("session store failed")
		httperrors.RespondInternalError(w, "Failed to create session")
		return
	}

	token, err := h.tokens.Generate(sessionID, result.UserID.String(), result.Username)
	if err != nil {
		h.logger.Error().Err(err).Msg("session token signing failed")
		httperrors.RespondInternalError(w, "Failed to create session")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"token":    token,
		"user_id":  result.UserID.String(),
		"username": result.Username,
	})
}

// Logout handles POST /v1/auth/logout. Dropping the stored record invalidates
// every copy of the companion token at once.
func (h *HTTPHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	if err := h.store.Clear(r.Context(), claims.SessionID); err != nil {
		h.logger.Error().Err(err).Msg("session clear failed")
		httperrors.RespondInternalError(w, "Failed to end session")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Logged out",
	})
}

// Me handles GET /v1/auth/me.
func (h *HTTPHandlers) Me(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": claims.SessionID.String(),
		"user_id":    claims.UserID,
		"username":   claims.Username,
	})
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
