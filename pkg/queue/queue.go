// Package queue runs background jobs with retries.
//
//	type PersistNotification struct { Title string }
//	func (j *PersistNotification) Handle(ctx context.Context) error { ... }
//
//	queue.Register("notifications.persist", func() queue.Job { return &PersistNotification{repo: repo} })
//	queue.Dispatch(ctx, &PersistNotification{Title: "New Order Received"})
//
// Jobs are serialised to JSON, so anything a job needs at run time that is
// not data (repositories, clients) must be injected by its factory.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/foodhub/pkg/logger"
	"github.com/shashiranjanraj/foodhub/pkg/metrics"
)

// Job is the interface every queued job must satisfy.
type Job interface {
	Handle(ctx context.Context) error
}

// Named lets a job choose its registry name instead of its Go type name.
type Named interface {
	JobName() string
}

// FailedJob holds a job whose retries were exhausted.
type FailedJob struct {
	Type     string
	Job      Job
	Err      error
	FailedAt time.Time
	Attempts int
}

// Driver is the queue storage backend.
type Driver interface {
	Push(ctx context.Context, payload []byte) error
	Pop(ctx context.Context) ([]byte, error)
}

var ErrUnregistered = errors.New("queue: job type not registered")

// ─── Manager ──────────────────────────────────────────────────────────────────

type Manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job
	failed   []FailedJob
	maxRetry int
	backoff  func(attempt int) time.Duration
	timeout  time.Duration
}

var defaultManager = &Manager{
	registry: map[string]func() Job{},
	maxRetry: 3,
	driver:   NewMemoryDriver(1000),
	backoff:  func(attempt int) time.Duration { return time.Duration(attempt) * time.Second },
	timeout:  30 * time.Second,
}

// SetDriver swaps the backend (memory or Redis).
func SetDriver(d Driver) {
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	defaultManager.driver = d
}

// SetMaxRetry sets how many attempts a job gets before it is recorded as failed.
func SetMaxRetry(n int) {
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	if n < 1 {
		n = 1
	}
	defaultManager.maxRetry = n
}

// SetBackoff overrides the delay between attempts.
func SetBackoff(f func(attempt int) time.Duration) {
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	defaultManager.backoff = f
}

// Register makes a job type available for deserialisation by name.
func Register(name string, factory func() Job) {
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	defaultManager.registry[name] = factory
}

// ─── Dispatch ─────────────────────────────────────────────────────────────────

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
	Queued  time.Time       `json:"queued_at"`
}

// NameOf returns the registry name used for job.
func NameOf(job Job) string {
	if n, ok := job.(Named); ok {
		return n.JobName()
	}
	return fmt.Sprintf("%T", job)
}

// Dispatch pushes job onto the queue.
func Dispatch(ctx context.Context, job Job) error {
	return defaultManager.push(ctx, job)
}

func (m *Manager) push(ctx context.Context, job Job) error {
	typeName := NameOf(job)

	m.mu.RLock()
	_, known := m.registry[typeName]
	d := m.driver
	m.mu.RUnlock()
	if !known {
		return fmt.Errorf("%w: %s", ErrUnregistered, typeName)
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal job %s: %w", typeName, err)
	}

	env, err := json.Marshal(envelope{Type: typeName, Payload: payload, Queued: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("queue: marshal envelope: %w", err)
	}

	return d.Push(ctx, env)
}

// ─── Workers ──────────────────────────────────────────────────────────────────

// StartWorkers launches n workers that run until ctx is cancelled. The
// returned WaitGroup completes once every worker has exited.
func StartWorkers(ctx context.Context, n int) *sync.WaitGroup {
	if n < 1 {
		n = 1
	}
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defaultManager.work(ctx)
		}()
	}
	logger.Info("queue: workers started", "count", n)
	return &wg
}

func (m *Manager) work(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		m.mu.RLock()
		d := m.driver
		m.mu.RUnlock()

		raw, err := d.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("queue: pop failed", "error", err)
			sleep(ctx, 500*time.Millisecond)
			continue
		}
		if raw == nil {
			continue
		}

		m.process(ctx, raw)
	}
}

func (m *Manager) process(ctx context.Context, raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Type]
	m.mu.RUnlock()
	if !ok {
		logger.Warn("queue: unregistered job type", "type", env.Type)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		logger.Error("queue: unmarshal payload", "type", env.Type, "error", err)
		return
	}

	m.runWithRetry(ctx, job, env.Type)
}

func (m *Manager) runWithRetry(ctx context.Context, job Job, typeName string) {
	m.mu.RLock()
	maxRetry, backoff, timeout := m.maxRetry, m.backoff, m.timeout
	m.mu.RUnlock()

	var lastErr error
	for attempt := 1; attempt <= maxRetry; attempt++ {
		start := time.Now()
		lastErr = safeHandle(ctx, job, timeout)
		if lastErr == nil {
			metrics.RecordQueueJob(typeName, "success", start)
			logger.Debug("queue: job processed", "type", typeName, "attempt", attempt)
			return
		}

		metrics.RecordQueueJob(typeName, "retry", start)
		logger.Warn("queue: job failed", "type", typeName, "attempt", attempt, "error", lastErr)
		if attempt < maxRetry {
			if !sleep(ctx, backoff(attempt)) {
				break
			}
		}
	}

	metrics.QueueJobsProcessed.WithLabelValues(typeName, "failed").Inc()
	m.persistFailed(job, typeName, lastErr, maxRetry)
	logger.Error("queue: job exhausted retries", "type", typeName, "error", lastErr)
}

func safeHandle(ctx context.Context, job Job, timeout time.Duration) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("queue: job panicked: %v", r)
		}
	}()

	jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	return job.Handle(jobCtx)
}

// sleep waits for d or until ctx is done; it reports whether d elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// FailedJobs returns a snapshot of the in-memory failed-job list.
func FailedJobs() []FailedJob {
	defaultManager.mu.RLock()
	defer defaultManager.mu.RUnlock()
	out := make([]FailedJob, len(defaultManager.failed))
	copy(out, defaultManager.failed)
	return out
}
