package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// ErrUnknownJob is returned by RunNow for a name that was never added.
var ErrUnknownJob = errors.New("scheduler: unknown job")

// Job is a unit of periodic work. The context is cancelled when the
// scheduler stops or the job exceeds its timeout.
type Job func(ctx context.Context) error

// Scheduler runs jobs on cron schedules. A job that is still running when
// its next tick fires is skipped for that tick.
type Scheduler struct {
	cron    *cron.Cron
	logger  zerolog.Logger
	mu      sync.Mutex
	jobs    map[string]Job
	timeout time.Duration
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a Scheduler. Each run is bounded by timeout.
func New(logger zerolog.Logger, timeout time.Duration) *Scheduler {
	logger = logger.With().Str("component", "scheduler").Logger()
	cl := cronLogger{logger: logger}
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger:  logger,
		jobs:    make(map[string]Job),
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Add registers job under name with a standard five-field cron spec.
func (s *Scheduler) Add(name, spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() { s.run(name, job) })
	if err != nil {
		return fmt.Errorf("scheduler: invalid spec %q for %s: %w", spec, name, err)
	}

	s.mu.Lock()
	s.jobs[name] = job
	s.mu.Unlock()

	s.logger.Info().Str("job", name).Str("spec", spec).Msg("job scheduled")
	return nil
}

// RunNow runs the named job once, outside its schedule, and returns its error.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	job, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return job(ctx)
}

func (s *Scheduler) run(name string, job Job) {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	start := time.Now()
	if err := job(ctx); err != nil {
		s.logger.Error().Err(err).Str("job", name).Dur("duration", time.Since(start)).Msg("job failed")
		return
	}

	s.logger.Info().Str("job", name).Dur("duration", time.Since(start)).Msg("job completed")
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for them to return or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
