package export

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/imdat1/Course-Helper/internal/upstream"
)

// Backend is the slice of the upstream client the export service needs.
type Backend interface {
	StartSimilarQuiz(ctx context.Context, courseID, fileID string) (upstream.Task, error)
	ExportTasks(ctx context.Context, courseID, fileID string) ([]upstream.Task, error)
	UploadedFiles(ctx context.Context, courseID string) ([]upstream.UploadedFile, error)
	DownloadExport(ctx context.Context, courseID, taskID string) ([]byte, string, error)
}

// Service manages export job lifecycles: start, resume after client reloads,
// download, plus watching uploaded-file processing tasks.
type Service struct {
	backend Backend
	poller  *Poller
	logger  zerolog.Logger
}

// NewService creates the export service.
func NewService(backend Backend, poller *Poller, logger zerolog.Logger) *Service {
	return &Service{
		backend: backend,
		poller:  poller,
		logger:  logger.With().Str("component", "export_service").Logger(),
	}
}

// Start asks the backend to generate a similar quiz and attaches a poller to
// the new task immediately.
func (s *Service) Start(ctx context.Context, courseID, fileID string) (upstream.Task, error) {
	task, err := s.backend.StartSimilarQuiz(ctx, courseID, fileID)
	if err != nil {
		return upstream.Task{}, fmt.Errorf("start export: %w", err)
	}
	if task.Status != upstream.StatusSuccess && task.Status != upstream.StatusFailure {
		s.poller.Watch(courseID, task.TaskID, KindExport)
	}
	return task, nil
}

// List re-fetches the export tasks for a source file. Pending tasks resume
// polling; the poller dedupes by task id so repeated lists are harmless.
func (s *Service) List(ctx context.Context, courseID, fileID string) ([]upstream.Task, error) {
	tasks, err := s.backend.ExportTasks(ctx, courseID, fileID)
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	for _, task := range tasks {
		if task.Status == upstream.StatusPending {
			s.poller.Watch(courseID, task.TaskID, KindExport)
		}
	}
	return tasks, nil
}

// Download fetches the exported document. upstream.ErrExportNotReady passes
// through untouched so callers can keep waiting.
func (s *Service) Download(ctx context.Context, courseID, taskID string) ([]byte, string, error) {
	return s.backend.DownloadExport(ctx, courseID, taskID)
}

// Files lists the uploaded files of a course and attaches the poller to any
// file whose processing task is still pending.
func (s *Service) Files(ctx context.Context, courseID string) ([]upstream.UploadedFile, error) {
	files, err := s.backend.UploadedFiles(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	for _, f := range files {
		if f.Status == upstream.StatusPending && f.ProcessingTaskID != "" {
			s.poller.Watch(courseID, f.ProcessingTaskID, KindProcessing)
		}
	}
	return files, nil
}
