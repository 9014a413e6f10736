package server

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/imdat1/Course-Helper/internal/config"
	"github.com/imdat1/Course-Helper/internal/flashcards"
	"github.com/imdat1/Course-Helper/internal/logging"
	"github.com/imdat1/Course-Helper/internal/quiz"
	"github.com/imdat1/Course-Helper/internal/session"
)

// WSUpgrader handles WebSocket upgrades (configure CORS/security as needed).
var WSUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: implement proper origin checking for production
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ExportHandlers groups the export endpoints, passed as plain handlers so the
// server package stays import-cycle free (the export package uses WSUpgrader).
type ExportHandlers struct {
	Start    http.HandlerFunc
	List     http.HandlerFunc
	Download http.HandlerFunc
	Files    http.HandlerFunc
	Events   http.HandlerFunc
}

// NewHTTPServer wires all routes for the API service. The session middleware
// wraps the whole mux; routes that need a live session add RequireSession.
func NewHTTPServer(
	cfg *config.App,
	logger zerolog.Logger,
	redisClient *redis.Client,
	sessionMW func(http.Handler) http.Handler,
	sessionHandlers *session.HTTPHandlers,
	quizHandlers *quiz.HTTPHandlers,
	flashcardHandlers *flashcards.HTTPHandlers,
	exportHandlers ExportHandlers,
) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/ping", func(w http.ResponseWriter, r *http.Request) {
		if err := redisClient.Ping(r.Context()).Err(); err != nil {
			reqLogger := logging.FromContext(r.Context())
			reqLogger.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	// Session endpoints
	mux.HandleFunc("POST /v1/auth/login", sessionHandlers.Login)
	mux.Handle("POST /v1/auth/logout", session.RequireSession(http.HandlerFunc(sessionHandlers.Logout)))
	mux.Handle("GET /v1/auth/me", session.RequireSession(http.HandlerFunc(sessionHandlers.Me)))

	// Quiz views
	mux.Handle("GET /v1/courses/{courseID}/quizzes/{fileID}", session.RequireSession(http.HandlerFunc(quizHandlers.Open)))
	mux.Handle("POST /v1/quiz-sessions/{sessionID}/questions/{questionID}/answers/{slot}", session.RequireSession(http.HandlerFunc(quizHandlers.Submit)))
	mux.Handle("POST /v1/quiz-sessions/{sessionID}/questions/{questionID}/reset", session.RequireSession(http.HandlerFunc(quizHandlers.Reset)))

	// Flash cards
	mux.Handle("GET /v1/courses/{courseID}/flashcards", session.RequireSession(http.HandlerFunc(flashcardHandlers.List)))
	mux.Handle("POST /v1/courses/{courseID}/flashcards/check", session.RequireSession(http.HandlerFunc(flashcardHandlers.Check)))

	// Export jobs and uploaded files
	mux.Handle("POST /v1/courses/{courseID}/quizzes/{fileID}/exports", session.RequireSession(exportHandlers.Start))
	mux.Handle("GET /v1/courses/{courseID}/quizzes/{fileID}/exports", session.RequireSession(exportHandlers.List))
	mux.Handle("GET /v1/courses/{courseID}/exports/{taskID}/download", session.RequireSession(exportHandlers.Download))
	mux.Handle("GET /v1/courses/{courseID}/files", session.RequireSession(exportHandlers.Files))

	// WebSocket task event stream
	mux.HandleFunc("GET /ws/courses/{courseID}/events", exportHandlers.Events)

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: requestContext(logger, sessionMW(mux)),
	}
}

// requestContext seeds each request with a request-scoped logger.
func requestContext(logger zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqLogger := logger.With().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()
		next.ServeHTTP(w, r.WithContext(logging.IntoContext(r.Context(), reqLogger)))
	})
}
