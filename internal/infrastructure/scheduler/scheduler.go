// Package scheduler runs periodic maintenance jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JobStatus represents the outcome of the last run of a job
type JobStatus string

const (
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Job is a named unit of work triggered by a standard 5-field cron expression
// or a descriptor such as "@hourly"
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

// JobRun records the last execution of a job
type JobRun struct {
	Name       string
	Status     JobStatus
	StartedAt  time.Time
	FinishedAt time.Time
	Error      string
}

// Duration returns how long the run took
func (r JobRun) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// EntryInfo describes a registered job and when it fires next
type EntryInfo struct {
	Name string
	Spec string
	Next time.Time
	Prev time.Time
}

// Config holds scheduler configuration
type Config struct {
	// JobTimeout bounds a single run; zero means no timeout
	JobTimeout time.Duration
	// Location for evaluating schedules, defaults to time.Local
	Location *time.Location
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		JobTimeout: 10 * time.Minute,
		Location:   time.Local,
	}
}

// Scheduler runs registered jobs on their cron schedules. A job is skipped
// while its previous run is still in progress.
type Scheduler struct {
	config Config
	cron   *cron.Cron
	logger *zap.Logger

	mu        sync.Mutex
	isRunning bool
	ctx       context.Context
	cancel    context.CancelFunc
	jobs      map[string]Job
	entries   map[string]cron.EntryID
	runs      map[string]JobRun
}

// New creates a scheduler
func New(config Config, logger *zap.Logger) *Scheduler {
	if config.Location == nil {
		config.Location = time.Local
	}
	cl := cronLogger{logger: logger.Named("cron")}
	return &Scheduler{
		config: config,
		cron: cron.New(
			cron.WithLocation(config.Location),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger:  logger,
		ctx:     context.Background(),
		jobs:    make(map[string]Job),
		entries: make(map[string]cron.EntryID),
		runs:    make(map[string]JobRun),
	}
}

// Register adds a job. Names must be unique and the cron expression must parse.
func (s *Scheduler) Register(job Job) error {
	if job.Name == "" || job.Run == nil {
		return fmt.Errorf("%w: job needs a name and a run function", ErrInvalidJob)
	}
	if _, err := cron.ParseStandard(job.Spec); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidSchedule, job.Spec, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[job.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, job.Name)
	}

	name := job.Name
	id, err := s.cron.AddFunc(job.Spec, func() {
		_ = s.execute(s.runContext(), name)
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidSchedule, job.Spec, err)
	}
	s.jobs[name] = job
	s.entries[name] = id

	s.logger.Info("Scheduled job registered",
		zap.String("job", name),
		zap.String("spec", job.Spec),
	)
	return nil
}

// Start starts firing jobs. Jobs run with a context derived from ctx.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	count := len(s.jobs)
	s.mu.Unlock()

	s.cron.Start()

	s.logger.Info("Job scheduler started",
		zap.Int("jobs", count),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop stops firing jobs, cancels running ones and waits for them to return
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	cancel := s.cancel
	s.mu.Unlock()

	done := s.cron.Stop()
	if cancel != nil {
		cancel()
	}

	select {
	case <-done.Done():
		s.logger.Info("Job scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Job scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether the scheduler is started
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// RunNow executes a registered job immediately on the calling goroutine
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	_, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	return s.execute(ctx, name)
}

// LastRun returns the last recorded run of a job
func (s *Scheduler) LastRun(name string) (JobRun, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[name]
	return run, ok
}

// Entries lists registered jobs sorted by name
func (s *Scheduler) Entries() []EntryInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	infos := make([]EntryInfo, 0, len(s.entries))
	for name, id := range s.entries {
		entry := s.cron.Entry(id)
		infos = append(infos, EntryInfo{
			Name: name,
			Spec: s.jobs[name].Spec,
			Next: entry.Next,
			Prev: entry.Prev,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

func (s *Scheduler) runContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

// execute runs one job with the configured timeout and records the outcome
func (s *Scheduler) execute(ctx context.Context, name string) error {
	s.mu.Lock()
	job := s.jobs[name]
	run := JobRun{Name: name, Status: JobStatusRunning, StartedAt: time.Now()}
	s.runs[name] = run
	s.mu.Unlock()

	if s.config.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.JobTimeout)
		defer cancel()
	}

	s.logger.Debug("Running scheduled job", zap.String("job", name))
	err := job.Run(ctx)

	run.FinishedAt = time.Now()
	if err != nil {
		run.Status = JobStatusFailed
		run.Error = err.Error()
		s.logger.Error("Scheduled job failed",
			zap.String("job", name),
			zap.Duration("duration", run.Duration()),
			zap.Error(err),
		)
	} else {
		run.Status = JobStatusCompleted
		s.logger.Info("Scheduled job completed",
			zap.String("job", name),
			zap.Duration("duration", run.Duration()),
		)
	}

	s.mu.Lock()
	s.runs[name] = run
	s.mu.Unlock()
	return err
}

// cronLogger routes cron's internal logging to zap
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
