// Package schedule runs periodic maintenance tasks inside `foodhub
// schedule:run` or the API process.
//
//	schedule.Hourly().Name("notifications:backfill").WithoutOverlapping().Run(backfill)
//	schedule.Cron("30 3 * * *").Name("cleanup").Run(cleanup)
//	schedule.Start(ctx)
package schedule

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/foodhub/pkg/logger"
)

// Task is a scheduled unit of work. Its context is cancelled on shutdown.
type Task func(ctx context.Context) error

type entry struct {
	id        string
	interval  time.Duration
	cronExpr  string
	task      Task
	noOverlap bool

	mu      sync.Mutex
	lastRun time.Time
	running bool
}

// Schedule configures one entry before Run registers it.
type Schedule struct{ e *entry }

var (
	regMu   sync.Mutex
	entries []*entry
	wg      sync.WaitGroup
)

// Every starts a builder for an n-unit interval.
func Every(n int) *Frequency { return &Frequency{n: n} }

// EveryMinute runs once a minute.
func EveryMinute() *Schedule { return Every(1).Minutes() }

// Hourly runs once an hour.
func Hourly() *Schedule { return Every(1).Hours() }

// Daily runs every 24 hours.
func Daily() *Schedule { return Every(24).Hours() }

// Cron schedules with a 5-field expression (minute hour dom month dow).
// Fields accept *, n, */step, a-b and comma lists.
func Cron(expr string) *Schedule { return &Schedule{e: &entry{cronExpr: expr}} }

// Frequency is the interval builder returned by Every.
type Frequency struct{ n int }

func (f *Frequency) Seconds() *Schedule { return f.every(time.Second) }
func (f *Frequency) Minutes() *Schedule { return f.every(time.Minute) }
func (f *Frequency) Hours() *Schedule   { return f.every(time.Hour) }

func (f *Frequency) every(unit time.Duration) *Schedule {
	return &Schedule{e: &entry{interval: time.Duration(f.n) * unit}}
}

// Name sets the identifier used in logs and List.
func (s *Schedule) Name(id string) *Schedule {
	s.e.id = id
	return s
}

// WithoutOverlapping skips a tick while the previous run is still going.
func (s *Schedule) WithoutOverlapping() *Schedule {
	s.e.noOverlap = true
	return s
}

// Run registers fn.
func (s *Schedule) Run(fn Task) {
	regMu.Lock()
	defer regMu.Unlock()
	s.e.task = fn
	if s.e.id == "" {
		s.e.id = fmt.Sprintf("task-%d", len(entries)+1)
	}
	entries = append(entries, s.e)
}

// Reset removes every registered entry.
func Reset() {
	regMu.Lock()
	entries = nil
	regMu.Unlock()
}

// Start ticks once a second until ctx is done.
func Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		logger.Info("schedule: started", "tasks", len(List()))
		for {
			select {
			case <-ctx.Done():
				logger.Info("schedule: stopped")
				return
			case now := <-ticker.C:
				RunDue(ctx, now)
			}
		}
	}()
}

// Wait blocks until every dispatched task has returned.
func Wait() { wg.Wait() }

// RunDue dispatches every entry due at now and returns how many started.
func RunDue(ctx context.Context, now time.Time) int {
	regMu.Lock()
	current := append([]*entry(nil), entries...)
	regMu.Unlock()

	started := 0
	for _, e := range current {
		if e.due(now) && e.dispatch(ctx, now) {
			started++
		}
	}
	return started
}

func (e *entry) due(now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cronExpr != "" {
		// At most once per matching minute.
		if !e.lastRun.IsZero() && e.lastRun.Truncate(time.Minute).Equal(now.Truncate(time.Minute)) {
			return false
		}
		return matchCron(e.cronExpr, now)
	}
	return e.lastRun.IsZero() || now.Sub(e.lastRun) >= e.interval
}

func (e *entry) dispatch(ctx context.Context, now time.Time) bool {
	e.mu.Lock()
	if e.noOverlap && e.running {
		e.mu.Unlock()
		logger.Warn("schedule: skipping overlapping run", "task", e.id)
		return false
	}
	e.running = true
	e.lastRun = now
	e.mu.Unlock()

	wg.Add(1)
	go func() {
		defer wg.Done()
		start := time.Now()
		defer func() {
			e.mu.Lock()
			e.running = false
			e.mu.Unlock()
			if r := recover(); r != nil {
				logger.Error("schedule: task panicked", "task", e.id, "panic", r)
			}
		}()

		if err := e.task(ctx); err != nil {
			logger.Error("schedule: task failed", "task", e.id, "error", err)
			return
		}
		logger.Info("schedule: task finished", "task", e.id, "duration", time.Since(start).String())
	}()
	return true
}

// List describes the registered entries for `foodhub schedule:list`.
func List() []string {
	regMu.Lock()
	defer regMu.Unlock()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		freq := e.cronExpr
		if freq == "" {
			freq = "every " + e.interval.String()
		}
		out = append(out, fmt.Sprintf("%s  [%s]", e.id, freq))
	}
	return out
}

// ─── Cron matching ────────────────────────────────────────────────────────────

func matchCron(expr string, t time.Time) bool {
	f := strings.Fields(expr)
	if len(f) != 5 {
		return false
	}
	return matchField(f[0], t.Minute()) &&
		matchField(f[1], t.Hour()) &&
		matchField(f[2], t.Day()) &&
		matchField(f[3], int(t.Month())) &&
		matchField(f[4], int(t.Weekday()))
}

func matchField(field string, val int) bool {
	for _, part := range strings.Split(field, ",") {
		if matchPart(part, val) {
			return true
		}
	}
	return false
}

func matchPart(part string, val int) bool {
	switch {
	case part == "*":
		return true
	case strings.HasPrefix(part, "*/"):
		step, err := strconv.Atoi(part[2:])
		return err == nil && step > 0 && val%step == 0
	case strings.Contains(part, "-"):
		lo, hi, ok := strings.Cut(part, "-")
		if !ok {
			return false
		}
		a, err1 := strconv.Atoi(lo)
		b, err2 := strconv.Atoi(hi)
		return err1 == nil && err2 == nil && val >= a && val <= b
	default:
		n, err := strconv.Atoi(part)
		return err == nil && n == val
	}
}
