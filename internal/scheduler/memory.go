package scheduler

import (
	"context"
	"errors"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-publisher/pkg/interfaces"
	"github.com/google/uuid"
)

// ErrRunAtRequired rejects job specs without an execution instant.
var ErrRunAtRequired = errors.New("scheduler: run_at is required")

const defaultMaxAttempts = 3

// Option customises the in-memory scheduler.
type Option func(*memoryScheduler)

// WithClock overrides the internal clock, used mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *memoryScheduler) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithDefaultMaxAttempts sets the retry budget applied when a spec leaves
// MaxAttempts unset.
func WithDefaultMaxAttempts(limit int) Option {
	return func(s *memoryScheduler) {
		if limit > 0 {
			s.attempts = limit
		}
	}
}

// NewInMemory creates a deterministic scheduler for embedded use and tests.
// Publish and archive jobs carry content-derived keys, so re-scheduling
// replaces the pending entry instead of stacking duplicates.
func NewInMemory(opts ...Option) interfaces.Scheduler {
	s := &memoryScheduler{
		clock:    time.Now,
		attempts: defaultMaxAttempts,
		jobs:     map[string]*interfaces.Job{},
		byKey:    map[string]string{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type memoryScheduler struct {
	mu       sync.Mutex
	clock    func() time.Time
	attempts int
	jobs     map[string]*interfaces.Job
	byKey    map[string]string
}

func (s *memoryScheduler) Enqueue(_ context.Context, spec interfaces.JobSpec) (*interfaces.Job, error) {
	if spec.RunAt.IsZero() {
		return nil, ErrRunAtRequired
	}

	now := s.clock()
	job := &interfaces.Job{
		JobSpec:   spec,
		ID:        uuid.NewString(),
		Status:    interfaces.JobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	job.Payload = maps.Clone(spec.Payload)
	if job.MaxAttempts <= 0 {
		job.MaxAttempts = s.attempts
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if job.Key != "" {
		if prior, ok := s.byKey[job.Key]; ok {
			delete(s.jobs, prior)
		}
		s.byKey[job.Key] = job.ID
	}
	s.jobs[job.ID] = job

	return snapshot(job), nil
}

func (s *memoryScheduler) Cancel(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finish(id, interfaces.JobStatusCanceled)
}

func (s *memoryScheduler) CancelByKey(_ context.Context, key string) error {
	if key == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byKey[key]
	if !ok {
		return interfaces.ErrJobNotFound
	}
	return s.finish(id, interfaces.JobStatusCanceled)
}

func (s *memoryScheduler) Get(_ context.Context, id string) (*interfaces.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, interfaces.ErrJobNotFound
	}
	return snapshot(job), nil
}

func (s *memoryScheduler) GetByKey(_ context.Context, key string) (*interfaces.Job, error) {
	if key == "" {
		return nil, interfaces.ErrJobNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byKey[key]
	if !ok {
		return nil, interfaces.ErrJobNotFound
	}
	job, ok := s.jobs[id]
	if !ok {
		return nil, interfaces.ErrJobNotFound
	}
	return snapshot(job), nil
}

func (s *memoryScheduler) ListDue(_ context.Context, until time.Time, limit int) ([]*interfaces.Job, error) {
	s.mu.Lock()
	due := make([]*interfaces.Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		if job.Status == interfaces.JobStatusPending && !job.RunAt.After(until) {
			due = append(due, snapshot(job))
		}
	}
	s.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool {
		if due[i].RunAt.Equal(due[j].RunAt) {
			return due[i].CreatedAt.Before(due[j].CreatedAt)
		}
		return due[i].RunAt.Before(due[j].RunAt)
	})
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (s *memoryScheduler) MarkDone(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finish(id, interfaces.JobStatusCompleted)
}

func (s *memoryScheduler) MarkFailed(_ context.Context, id string, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return interfaces.ErrJobNotFound
	}
	job.Attempt++
	job.UpdatedAt = s.clock()
	job.LastError = ""
	if cause != nil {
		job.LastError = cause.Error()
	}
	job.Status = interfaces.JobStatusPending
	if job.MaxAttempts > 0 && job.Attempt >= job.MaxAttempts {
		job.Status = interfaces.JobStatusFailed
	}
	return nil
}

// finish moves a job into a terminal status and releases its key. Callers
// hold the lock.
func (s *memoryScheduler) finish(id string, status interfaces.JobStatus) error {
	job, ok := s.jobs[id]
	if !ok {
		return interfaces.ErrJobNotFound
	}
	job.Status = status
	job.UpdatedAt = s.clock()
	if job.Key != "" && s.byKey[job.Key] == job.ID {
		delete(s.byKey, job.Key)
	}
	return nil
}

func snapshot(job *interfaces.Job) *interfaces.Job {
	clone := *job
	clone.Payload = maps.Clone(job.Payload)
	return &clone
}
