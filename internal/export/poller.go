// Package export drives quiz export jobs and uploaded-file processing tasks:
// starting jobs upstream, polling their status with bounded backoff and
// pushing transitions to subscribed clients.
package export

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/imdat1/Course-Helper/internal/upstream"
)

// StatusSource checks one task's status upstream.
type StatusSource interface {
	TaskStatus(ctx context.Context, courseID, taskID string) (upstream.Task, error)
}

// Notifier receives task status transitions, terminal ones included.
type Notifier interface {
	NotifyTask(courseID, taskID string, kind Kind, status string, terminal bool)
}

// PollConfig bounds the per-task polling loop.
type PollConfig struct {
	// BaseInterval is the first wait between checks; the first check itself
	// happens immediately.
	BaseInterval time.Duration
	// MaxInterval caps the exponential backoff.
	MaxInterval time.Duration
	// MaxDuration is the total polling budget per task; exhausting it marks
	// the task TIMED_OUT locally.
	MaxDuration time.Duration
}

func (c PollConfig) withDefaults() PollConfig {
	if c.BaseInterval <= 0 {
		c.BaseInterval = 3 * time.Second
	}
	if c.MaxInterval <= 0 {
		c.MaxInterval = 30 * time.Second
	}
	if c.MaxDuration <= 0 {
		c.MaxDuration = 15 * time.Minute
	}
	return c
}

var errStillPending = errors.New("task still pending")

// Poller runs one polling goroutine per watched task. Loops are strictly
// sequential per task, independent across tasks, and all derive from the
// poller's root context so Stop cancels everything.
type Poller struct {
	source   StatusSource
	notifier Notifier
	cfg      PollConfig
	logger   zerolog.Logger

	root   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	active map[string]struct{} // task id -> watched
}

// NewPoller creates a task poller. Stop must be called on shutdown.
func NewPoller(source StatusSource, notifier Notifier, cfg PollConfig, logger zerolog.Logger) *Poller {
	root, cancel := context.WithCancel(context.Background())
	return &Poller{
		source:   source,
		notifier: notifier,
		cfg:      cfg.withDefaults(),
		logger:   logger.With().Str("component", "task_poller").Logger(),
		root:     root,
		cancel:   cancel,
		active:   make(map[string]struct{}),
	}
}

// Watch starts polling a task. Watching an already-watched task is a no-op,
// so re-listing exports after a client reload resumes cleanly. Reports
// whether a new loop was started.
func (p *Poller) Watch(courseID, taskID string, kind Kind) bool {
	if taskID == "" {
		return false
	}

	p.mu.Lock()
	if _, ok := p.active[taskID]; ok {
		p.mu.Unlock()
		return false
	}
	p.active[taskID] = struct{}{}
	p.mu.Unlock()

	p.wg.Add(1)
	go p.loop(courseID, taskID, kind)
	return true
}

// Stop cancels every polling loop and waits for them to exit.
func (p *Poller) Stop() {
	p.cancel()
	p.wg.Wait()
}

func (p *Poller) loop(courseID, taskID string, kind Kind) {
	defer p.wg.Done()
	defer func() {
		p.mu.Lock()
		delete(p.active, taskID)
		p.mu.Unlock()
	}()

	logger := p.logger.With().Str("course_id", courseID).Str("task_id", taskID).Str("kind", string(kind)).Logger()

	backoff := retry.WithCappedDuration(p.cfg.MaxInterval, retry.NewExponential(p.cfg.BaseInterval))
	backoff = retry.WithMaxDuration(p.cfg.MaxDuration, backoff)

	var last string
	err := retry.Do(p.root, backoff, func(ctx context.Context) error {
		task, err := p.source.TaskStatus(ctx, courseID, taskID)
		if err != nil {
			// Transient: the task is still owned upstream, keep trying
			// within the budget.
			pollErrors.Inc()
			logger.Warn().Err(err).Msg("status check failed")
			return retry.RetryableError(err)
		}

		pollTicks.Inc()
		if task.Status != last {
			last = task.Status
			terminal := task.Status == upstream.StatusSuccess || task.Status == upstream.StatusFailure
			p.notifier.NotifyTask(courseID, taskID, kind, task.Status, terminal)
		}

		switch task.Status {
		case upstream.StatusSuccess, upstream.StatusFailure:
			taskOutcomes.WithLabelValues(string(kind), task.Status).Inc()
			logger.Info().Str("status", task.Status).Msg("task finished")
			return nil
		default:
			return retry.RetryableError(errStillPending)
		}
	})
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		// Shutdown, not an outcome.
		return
	}

	// Budget exhausted without a terminal answer from the backend.
	taskOutcomes.WithLabelValues(string(kind), StatusTimedOut).Inc()
	logger.Warn().Dur("budget", p.cfg.MaxDuration).Msg("task polling timed out")
	p.notifier.NotifyTask(courseID, taskID, kind, StatusTimedOut, true)
}
