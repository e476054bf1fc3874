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

// JobStatus represents the outcome of a job's last run
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// JobFunc is the body of a scheduled job
type JobFunc func(ctx context.Context) error

// JobState is a snapshot of one registered job
type JobState struct {
	Name        string     `json:"name"`
	Schedule    string     `json:"schedule"`
	Status      JobStatus  `json:"status"`
	Error       string     `json:"error,omitempty"`
	LastRunAt   *time.Time `json:"last_run_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	NextRunAt   *time.Time `json:"next_run_at,omitempty"`
}

type job struct {
	name     string
	schedule string
	fn       JobFunc
	entryID  cron.EntryID

	mu    sync.Mutex
	state JobState
}

func (j *job) snapshot() JobState {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// Config holds scheduler settings
type Config struct {
	Location   *time.Location
	JobTimeout time.Duration
}

// Scheduler runs background jobs on cron schedules. Overlapping runs of the
// same job are skipped and a panicking job is recovered.
type Scheduler struct {
	cron   *cron.Cron
	config Config
	logger *zap.Logger

	mu      sync.Mutex
	jobs    map[string]*job
	running bool
}

// New creates a scheduler evaluating schedules in cfg.Location
func New(cfg Config, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 5 * time.Minute
	}
	cl := newCronLogger(logger)
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(cfg.Location),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		config: cfg,
		logger: logger,
		jobs:   make(map[string]*job),
	}
}

// Register adds a job with a standard five-field cron expression
func (s *Scheduler) Register(name, schedule string, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("%w: job %s registered twice", ErrInvalidConfig, name)
	}

	j := &job{
		name:     name,
		schedule: schedule,
		fn:       fn,
		state:    JobState{Name: name, Schedule: schedule, Status: JobStatusPending},
	}
	id, err := s.cron.AddFunc(schedule, func() { s.run(context.Background(), j) })
	if err != nil {
		return fmt.Errorf("%w: job %s schedule %q: %v", ErrInvalidConfig, name, schedule, err)
	}
	j.entryID = id
	s.jobs[name] = j

	s.logger.Info("scheduled job registered",
		zap.String("job", name),
		zap.String("schedule", schedule),
	)
	return nil
}

// Start begins running registered jobs
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrAlreadyRunning
	}
	s.cron.Start()
	s.running = true
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.jobs)))
	return nil
}

// Stop stops scheduling and waits for running jobs until ctx is done
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Trigger runs a job immediately, outside its schedule
func (s *Scheduler) Trigger(ctx context.Context, name string) error {
	s.mu.Lock()
	j, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	return s.run(ctx, j)
}

// Jobs returns a snapshot of every registered job, sorted by name
func (s *Scheduler) Jobs() []JobState {
	s.mu.Lock()
	defer s.mu.Unlock()

	states := make([]JobState, 0, len(s.jobs))
	for _, j := range s.jobs {
		state := j.snapshot()
		if entry := s.cron.Entry(j.entryID); entry.Valid() && !entry.Next.IsZero() {
			next := entry.Next
			state.NextRunAt = &next
		}
		states = append(states, state)
	}
	sort.Slice(states, func(a, b int) bool { return states[a].Name < states[b].Name })
	return states
}

func (s *Scheduler) run(parent context.Context, j *job) error {
	ctx, cancel := context.WithTimeout(parent, s.config.JobTimeout)
	defer cancel()

	started := time.Now()
	j.mu.Lock()
	j.state.Status = JobStatusRunning
	j.state.LastRunAt = &started
	j.state.Error = ""
	j.mu.Unlock()

	err := j.fn(ctx)

	completed := time.Now()
	j.mu.Lock()
	j.state.CompletedAt = &completed
	if err != nil {
		j.state.Status = JobStatusFailed
		j.state.Error = err.Error()
	} else {
		j.state.Status = JobStatusSuccess
	}
	j.mu.Unlock()

	fields := []zap.Field{
		zap.String("job", j.name),
		zap.Duration("duration", completed.Sub(started)),
	}
	if err != nil {
		s.logger.Error("scheduled job failed", append(fields, zap.Error(err))...)
		return err
	}
	s.logger.Debug("scheduled job succeeded", fields...)
	return nil
}
