package batch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunStatus is the state of one recorded batch run.
type RunStatus string

const (
	StatusRunning   RunStatus = "running"
	StatusCompleted RunStatus = "completed"
	StatusNoInput   RunStatus = "no_input"
	StatusFailed    RunStatus = "failed"
)

// Run tracks one batch run started through the API.
type Run struct {
	mu sync.Mutex

	ID         string
	Status     RunStatus
	Report     *Report
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// RunSnapshot is a read-only, JSON-safe copy of a run.
type RunSnapshot struct {
	ID         string     `json:"run_id"`
	Status     RunStatus  `json:"status"`
	Report     *Report    `json:"report,omitempty"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

func (r *Run) finish(report *Report, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Report = report
	r.FinishedAt = time.Now()
	switch {
	case err != nil:
		r.Status = StatusFailed
		r.Error = err.Error()
	case report != nil && report.NoInput:
		r.Status = StatusNoInput
	default:
		r.Status = StatusCompleted
	}
}

// Snapshot returns a copy of the run state.
func (r *Run) Snapshot() RunSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := RunSnapshot{
		ID:        r.ID,
		Status:    r.Status,
		Report:    r.Report,
		Error:     r.Error,
		StartedAt: r.StartedAt,
	}
	if !r.FinishedAt.IsZero() {
		t := r.FinishedAt
		snap.FinishedAt = &t
	}
	return snap
}

// History is a thread-safe in-memory registry of runs with TTL eviction.
// Only one run executes at a time.
type History struct {
	mu   sync.Mutex
	runs map[string]*Run
	ttl  time.Duration

	running sync.Mutex
}

func NewHistory(ttl time.Duration) *History {
	return &History{
		runs: make(map[string]*Run),
		ttl:  ttl,
	}
}

// NewRunID returns a time-ordered identifier for a run.
func NewRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Execute runs the batch synchronously and records the outcome. ok is false
// when another run is still in progress; nothing is recorded in that case.
func (h *History) Execute(ctx context.Context, runner *Runner) (snap RunSnapshot, ok bool) {
	if !h.running.TryLock() {
		return RunSnapshot{}, false
	}
	defer h.running.Unlock()

	run := &Run{
		ID:        NewRunID(),
		Status:    StatusRunning,
		StartedAt: time.Now(),
	}
	h.put(run)

	report, err := runner.Run(ctx)
	run.finish(report, err)
	return run.Snapshot(), true
}

func (h *History) put(run *Run) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.runs[run.ID] = run
}

// Get returns a run by ID, or nil.
func (h *History) Get(id string) *Run {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.runs[id]
}

// Cleanup removes finished runs older than the TTL.
func (h *History) Cleanup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	now := time.Now()
	for id, run := range h.runs {
		run.mu.Lock()
		expired := !run.FinishedAt.IsZero() && now.Sub(run.FinishedAt) > h.ttl
		run.mu.Unlock()
		if expired {
			delete(h.runs, id)
		}
	}
}

// Len returns the number of recorded runs.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.runs)
}
