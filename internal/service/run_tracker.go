package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"feedgen/internal/domain"
)

// RunTracker starts generation runs in the background and keeps their status.
// At most one run is active at a time.
type RunTracker struct {
	svc    GenerationService
	base   context.Context
	logger *zap.Logger

	mu     sync.RWMutex
	runs   map[uuid.UUID]*domain.Run
	active bool
	wg     sync.WaitGroup
}

// NewRunTracker creates a RunTracker. Runs inherit base, so canceling it stops
// any run in flight.
func NewRunTracker(base context.Context, svc GenerationService, logger *zap.Logger) *RunTracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RunTracker{
		svc:    svc,
		base:   base,
		logger: logger,
		runs:   make(map[uuid.UUID]*domain.Run),
	}
}

// Start launches a run and returns immediately. It fails with
// domain.ErrRunInProgress while another run is active.
func (t *RunTracker) Start() (*domain.Run, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active {
		return nil, domain.ErrRunInProgress
	}

	run := &domain.Run{
		ID:        uuid.New(),
		Status:    domain.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	t.runs[run.ID] = run
	t.active = true

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		summary, err := t.svc.Run(t.base)
		t.finish(run.ID, summary, err)
	}()

	t.logger.Info("service.RunTracker.Start: run started", zap.String("run_id", run.ID.String()))
	cp := *run
	return &cp, nil
}

// Get returns a snapshot of the run with the given id.
func (t *RunTracker) Get(id uuid.UUID) (*domain.Run, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	run, ok := t.runs[id]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	cp := *run
	return &cp, nil
}

// Wait blocks until every started run has finished.
func (t *RunTracker) Wait() {
	t.wg.Wait()
}

func (t *RunTracker) finish(id uuid.UUID, summary *domain.RunSummary, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	run := t.runs[id]
	now := time.Now().UTC()
	run.FinishedAt = &now
	run.Summary = summary
	if err != nil {
		run.Status = domain.RunStatusFailed
		run.Error = err.Error()
		t.logger.Error("service.RunTracker: run failed", zap.String("run_id", id.String()), zap.Error(err))
	} else {
		run.Status = domain.RunStatusCompleted
		t.logger.Info("service.RunTracker: run completed", zap.String("run_id", id.String()))
	}
	t.active = false
}
