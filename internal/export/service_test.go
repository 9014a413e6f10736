package export

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imdat1/Course-Helper/internal/upstream"
)

type stubBackend struct {
	startTask upstream.Task
	tasks     []upstream.Task
	files     []upstream.UploadedFile
	download  []byte
	filename  string
	err       error
}

func (s *stubBackend) StartSimilarQuiz(_ context.Context, _, _ string) (upstream.Task, error) {
	return s.startTask, s.err
}

func (s *stubBackend) ExportTasks(_ context.Context, _, _ string) ([]upstream.Task, error) {
	return s.tasks, s.err
}

func (s *stubBackend) UploadedFiles(_ context.Context, _ string) ([]upstream.UploadedFile, error) {
	return s.files, s.err
}

func (s *stubBackend) DownloadExport(_ context.Context, _, _ string) ([]byte, string, error) {
	return s.download, s.filename, s.err
}

type noopNotifier struct{}

func (noopNotifier) NotifyTask(_, _ string, _ Kind, _ string, _ bool) {}

func newTestService(backend *stubBackend, source StatusSource) (*Service, *Poller) {
	poller := NewPoller(source, noopNotifier{}, PollConfig{
		BaseInterval: 50 * time.Millisecond,
		MaxInterval:  50 * time.Millisecond,
		MaxDuration:  time.Minute,
	}, zerolog.Nop())
	return NewService(backend, poller, zerolog.Nop()), poller
}

func TestStartAttachesPoller(t *testing.T) {
	backend := &stubBackend{startTask: upstream.Task{TaskID: "t1", Status: upstream.StatusPending}}
	source := &scriptedSource{script: []any{upstream.StatusPending}}
	svc, poller := newTestService(backend, source)
	defer poller.Stop()

	task, err := svc.Start(context.Background(), "c1", "f1")
	require.NoError(t, err)
	assert.Equal(t, "t1", task.TaskID)

	// The task is already being watched.
	assert.False(t, poller.Watch("c1", "t1", KindExport))
}

func TestListResumesPendingTasks(t *testing.T) {
	backend := &stubBackend{tasks: []upstream.Task{
		{TaskID: "done", Status: upstream.StatusSuccess},
		{TaskID: "failed", Status: upstream.StatusFailure},
		{TaskID: "pending", Status: upstream.StatusPending},
	}}
	source := &scriptedSource{script: []any{upstream.StatusPending}}
	svc, poller := newTestService(backend, source)
	defer poller.Stop()

	tasks, err := svc.List(context.Background(), "c1", "f1")
	require.NoError(t, err)
	assert.Len(t, tasks, 3)

	// Only the pending task got a watcher; terminal ones are left alone.
	assert.False(t, poller.Watch("c1", "pending", KindExport))
	assert.True(t, poller.Watch("c1", "done", KindExport))
}

func TestFilesWatchesProcessingTasks(t *testing.T) {
	backend := &stubBackend{files: []upstream.UploadedFile{
		{FileID: "f1", Status: upstream.StatusSuccess},
		{FileID: "f2", Status: upstream.StatusPending, ProcessingTaskID: "p1"},
		{FileID: "f3", Status: upstream.StatusPending}, // no task id
	}}
	source := &scriptedSource{script: []any{upstream.StatusPending}}
	svc, poller := newTestService(backend, source)
	defer poller.Stop()

	files, err := svc.Files(context.Background(), "c1")
	require.NoError(t, err)
	assert.Len(t, files, 3)

	assert.False(t, poller.Watch("c1", "p1", KindProcessing))
}

func TestDownloadPassesThroughNotReady(t *testing.T) {
	backend := &stubBackend{err: upstream.ErrExportNotReady}
	source := &scriptedSource{script: []any{upstream.StatusPending}}
	svc, poller := newTestService(backend, source)
	defer poller.Stop()

	_, _, err := svc.Download(context.Background(), "c1", "t1")
	assert.ErrorIs(t, err, upstream.ErrExportNotReady)
}
