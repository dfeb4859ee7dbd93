package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Task is one refresh pass for a dataset. A returned error means the pass
// produced no update this cycle; it never stops the loop.
type Task func(ctx context.Context) error

// Loop runs a Task once at start and then on a fixed interval. Loops are
// independent of each other: each owns a disjoint output file, so no
// cross-loop synchronization is needed.
type Loop struct {
	name     string
	interval time.Duration
	task     Task
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewLoop creates a refresh loop for one dataset.
func NewLoop(name string, interval time.Duration, task Task, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		name:     name,
		interval: interval,
		task:     task,
		logger:   logger,
	}
}

// Name returns the dataset name this loop refreshes.
func (l *Loop) Name() string { return l.name }

// Start begins the loop. The first pass runs immediately.
func (l *Loop) Start(ctx context.Context) error {
	l.ctx, l.cancel = context.WithCancel(ctx)

	l.wg.Add(1)
	go l.run()

	l.logger.Info("refresh loop started",
		"dataset", l.name,
		"interval", l.interval,
	)

	return nil
}

// Stop gracefully shuts down the loop, waiting for an in-flight pass.
func (l *Loop) Stop(ctx context.Context) error {
	if l.cancel != nil {
		l.cancel()
	}

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		l.logger.Info("refresh loop stopped", "dataset", l.name)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) run() {
	defer l.wg.Done()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	// First pass immediately so consumers never wait a full interval for
	// initial data.
	l.runOnce()

	for {
		select {
		case <-l.ctx.Done():
			return
		case <-ticker.C:
			l.runOnce()
		}
	}
}

// runOnce executes one pass. The loop is the outermost failure boundary for
// its dataset: errors and panics are logged, never propagated.
func (l *Loop) runOnce() {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("refresh pass panicked",
				"dataset", l.name,
				"panic", fmt.Sprint(r),
			)
		}
	}()

	if err := l.task(l.ctx); err != nil {
		l.logger.Warn("refresh pass failed",
			"dataset", l.name,
			"duration", time.Since(start),
			"err", err,
		)
		return
	}

	l.logger.Info("refresh pass complete",
		"dataset", l.name,
		"duration", time.Since(start),
	)
}

// Group manages a set of loops as one unit for process wiring.
type Group struct {
	loops []*Loop
}

// NewGroup creates a group over the given loops.
func NewGroup(loops ...*Loop) *Group {
	return &Group{loops: loops}
}

// Start starts every loop. On failure, already-started loops are stopped.
func (g *Group) Start(ctx context.Context) error {
	for i, l := range g.loops {
		if err := l.Start(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				g.loops[j].Stop(ctx)
			}
			return fmt.Errorf("start %s loop: %w", l.name, err)
		}
	}
	return nil
}

// Stop stops every loop, returning the first error encountered.
func (g *Group) Stop(ctx context.Context) error {
	var firstErr error
	for _, l := range g.loops {
		if err := l.Stop(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("stop %s loop: %w", l.name, err)
		}
	}
	return firstErr
}
