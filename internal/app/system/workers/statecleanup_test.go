package workers_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/workers"
	"go.uber.org/zap"
)

type fakeRemover struct {
	calls atomic.Int32
	err   error
}

func (f *fakeRemover) CleanupExpired(ctx context.Context) (int64, error) {
	f.calls.Add(1)
	return 2, f.err
}

func TestStateCleanup_RunOnce(t *testing.T) {
	f := &fakeRemover{}
	w := workers.NewStateCleanup(f, zap.NewNop(), time.Hour)
	w.RunOnce()
	if got := f.calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}

	f.err = errors.New("boom")
	w.RunOnce()
	if got := f.calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestStateCleanup_TicksUntilStopped(t *testing.T) {
	f := &fakeRemover{}
	w := workers.NewStateCleanup(f, zap.NewNop(), 5*time.Millisecond)
	w.Start()

	deadline := time.Now().Add(2 * time.Second)
	for f.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	w.Stop()
	w.Stop()

	if f.calls.Load() < 2 {
		t.Fatalf("expected at least 2 ticks, got %d", f.calls.Load())
	}
	after := f.calls.Load()
	time.Sleep(30 * time.Millisecond)
	if f.calls.Load() != after {
		t.Error("worker kept running after Stop")
	}
}
