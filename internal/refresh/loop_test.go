package refresh

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestLoop_RunsImmediatelyThenOnInterval(t *testing.T) {
	var passes atomic.Int32
	task := func(ctx context.Context) error {
		passes.Add(1)
		return nil
	}

	l := NewLoop("test", 50*time.Millisecond, task, nil)

	ctx := context.Background()
	if err := l.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// First pass fires at start, then at least one tick within 130ms.
	time.Sleep(130 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := l.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if got := passes.Load(); got < 2 {
		t.Errorf("passes = %d, want >= 2", got)
	}
}

func TestLoop_SurvivesTaskError(t *testing.T) {
	var passes atomic.Int32
	task := func(ctx context.Context) error {
		passes.Add(1)
		return errors.New("upstream down")
	}

	l := NewLoop("test", 30*time.Millisecond, task, nil)

	ctx := context.Background()
	if err := l.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := l.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if got := passes.Load(); got < 2 {
		t.Errorf("passes = %d, want >= 2 (loop must keep rescheduling after errors)", got)
	}
}

func TestLoop_SurvivesTaskPanic(t *testing.T) {
	var passes atomic.Int32
	task := func(ctx context.Context) error {
		passes.Add(1)
		panic("boom")
	}

	l := NewLoop("test", 30*time.Millisecond, task, nil)

	ctx := context.Background()
	if err := l.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := l.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if got := passes.Load(); got < 2 {
		t.Errorf("passes = %d, want >= 2 (loop must survive panics)", got)
	}
}

func TestLoop_StopCancelsTaskContext(t *testing.T) {
	started := make(chan struct{})
	task := func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}

	l := NewLoop("test", time.Hour, task, nil)

	ctx := context.Background()
	if err := l.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	<-started

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := l.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
}

func TestGroup_StartStop(t *testing.T) {
	var a, b atomic.Int32
	g := NewGroup(
		NewLoop("a", time.Hour, func(ctx context.Context) error { a.Add(1); return nil }, nil),
		NewLoop("b", time.Hour, func(ctx context.Context) error { b.Add(1); return nil }, nil),
	)

	ctx := context.Background()
	if err := g.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	time.Sleep(50 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := g.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if a.Load() != 1 || b.Load() != 1 {
		t.Errorf("passes = %d/%d, want 1/1", a.Load(), b.Load())
	}
}
