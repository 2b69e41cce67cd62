package timer

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestManager_OneShot(t *testing.T) {
	m := NewManager()
	defer m.Stop()

	var fired atomic.Int32
	m.Schedule(10*time.Millisecond, 0, func() {
		fired.Add(1)
	})

	deadline := time.Now().Add(time.Second)
	for fired.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if fired.Load() != 1 {
		t.Fatalf("expected the task to fire once, got %d", fired.Load())
	}

	// One-shot tasks do not repeat.
	time.Sleep(50 * time.Millisecond)
	if fired.Load() != 1 {
		t.Fatalf("one-shot task fired %d times", fired.Load())
	}
}

func TestManager_Interval(t *testing.T) {
	m := NewManager()
	defer m.Stop()

	var fired atomic.Int32
	m.Schedule(5*time.Millisecond, 10*time.Millisecond, func() {
		fired.Add(1)
	})

	deadline := time.Now().Add(time.Second)
	for fired.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if fired.Load() < 3 {
		t.Fatalf("expected at least 3 firings, got %d", fired.Load())
	}
}

func TestManager_Cancel(t *testing.T) {
	m := NewManager()
	defer m.Stop()

	var fired atomic.Int32
	id := m.Schedule(50*time.Millisecond, 0, func() {
		fired.Add(1)
	})
	m.Cancel(id)

	time.Sleep(100 * time.Millisecond)
	if fired.Load() != 0 {
		t.Fatal("cancelled task should not fire")
	}
}
