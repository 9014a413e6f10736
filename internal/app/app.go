package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/imdat1/Course-Helper/internal/config"
	"github.com/imdat1/Course-Helper/internal/export"
	"github.com/imdat1/Course-Helper/internal/flashcards"
	"github.com/imdat1/Course-Helper/internal/logging"
	"github.com/imdat1/Course-Helper/internal/quiz"
	"github.com/imdat1/Course-Helper/internal/server"
	"github.com/imdat1/Course-Helper/internal/session"
	"github.com/imdat1/Course-Helper/internal/upstream"
	"github.com/imdat1/Course-Helper/pkg/http/ws"
)

// Application aggregates shared infrastructure (Redis, upstream client, HTTP
// server, task poller).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	redis  *redis.Client
	http   *http.Server
	poller *export.Poller
}

// New bootstraps config, logger, Redis, the upstream client and every service
// behind the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	backend := upstream.NewClient(cfg.Backend.BaseURL, cfg.Backend.HTTPTimeout, logger)

	// Session brokering
	tokenMgr := session.NewTokenManager(session.TokenConfig{
		Secret: []byte(cfg.Security.JWTSecret),
		TTL:    cfg.Security.SessionTTL,
		Issuer: cfg.Name,
	})
	sessionStore := session.NewStore(redisClient, cfg.Security.SessionTTL)
	sessionHandlers := session.NewHTTPHandlers(backend, sessionStore, tokenMgr, logger)
	sessionMW := session.Middleware(tokenMgr, sessionStore, logger)

	// Quiz views
	questionCache := quiz.NewCache(redisClient, cfg.Quiz.QuestionCacheTTL)
	viewStore := quiz.NewSessionStore(redisClient, cfg.Quiz.ViewTTL)
	quizSvc := quiz.NewService(backend, questionCache, viewStore, logger)
	quizHandlers := quiz.NewHTTPHandlers(quizSvc, logger)

	// Flash cards
	flashcardSvc := flashcards.NewService(backend, logger)
	flashcardHandlers := flashcards.NewHTTPHandlers(flashcardSvc, logger)

	// Export jobs + task events
	wsHub := ws.NewHub(logger)
	notifier := export.NewHubNotifier(wsHub, logger)
	poller := export.NewPoller(backend, notifier, export.PollConfig{
		BaseInterval: cfg.Poll.BaseInterval,
		MaxInterval:  cfg.Poll.MaxInterval,
		MaxDuration:  cfg.Poll.MaxDuration,
	}, logger)
	exportSvc := export.NewService(backend, poller, logger)
	exportHandlers := export.NewHTTPHandlers(exportSvc, logger)
	eventsHandler := export.NewEventsHandler(wsHub, logger)

	apiServer := server.NewHTTPServer(cfg, logger, redisClient, sessionMW,
		sessionHandlers, quizHandlers, flashcardHandlers,
		server.ExportHandlers{
			Start:    exportHandlers.Start,
			List:     exportHandlers.List,
			Download: exportHandlers.Download,
			Files:    exportHandlers.Files,
			Events:   eventsHandler.Serve,
		})

	return &Application{
		cfg:    cfg,
		logger: logger,
		redis:  redisClient,
		http:   apiServer,
		poller: poller,
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	a.poller.Stop()

	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}
