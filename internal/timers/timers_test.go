package timers

import (
	"testing"
	"time"
)

func TestAdvance_RunsDueTasksInOrder(t *testing.T) {
	s := New()
	g := s.Group()
	var order []int

	g.After(300*time.Millisecond, func() { order = append(order, 3) })
	g.After(100*time.Millisecond, func() { order = append(order, 1) })
	g.After(200*time.Millisecond, func() { order = append(order, 2) })

	if ran := s.Advance(250 * time.Millisecond); ran != 2 {
		t.Fatalf("Advance ran %d tasks, want 2", ran)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("order = %v, want [1 2]", order)
	}

	s.Advance(50 * time.Millisecond)
	if len(order) != 3 || order[2] != 3 {
		t.Fatalf("order = %v, want [1 2 3]", order)
	}
	if s.Now() != 300*time.Millisecond {
		t.Errorf("Now = %v, want 300ms", s.Now())
	}
}

func TestAdvance_SameDeadlineKeepsInsertionOrder(t *testing.T) {
	s := New()
	g := s.Group()
	var order []string

	g.After(time.Second, func() { order = append(order, "a") })
	g.After(time.Second, func() { order = append(order, "b") })
	g.After(time.Second, func() { order = append(order, "c") })

	s.Advance(time.Second)
	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Errorf("order = %v, want [a b c]", order)
	}
}

func TestAdvance_ChainedTasks(t *testing.T) {
	s := New()
	g := s.Group()
	var at []time.Duration

	g.After(100*time.Millisecond, func() {
		at = append(at, s.Now())
		g.After(100*time.Millisecond, func() {
			at = append(at, s.Now())
		})
	})

	s.Advance(time.Second)
	if len(at) != 2 {
		t.Fatalf("ran %d tasks, want 2", len(at))
	}
	if at[0] != 100*time.Millisecond || at[1] != 200*time.Millisecond {
		t.Errorf("ran at %v, want [100ms 200ms]", at)
	}
	if s.Now() != time.Second {
		t.Errorf("Now = %v, want 1s", s.Now())
	}
}

func TestGroup_CancelDropsPendingTasks(t *testing.T) {
	s := New()
	old := s.Group()
	fresh := s.Group()
	oldRan, freshRan := false, false

	old.After(time.Second, func() { oldRan = true })
	fresh.After(time.Second, func() { freshRan = true })

	old.Cancel()
	if old.Pending() != 0 {
		t.Errorf("cancelled group pending = %d, want 0", old.Pending())
	}

	s.Advance(2 * time.Second)
	if oldRan {
		t.Error("task from cancelled group ran")
	}
	if !freshRan {
		t.Error("task from live group did not run")
	}
}

func TestGroup_AfterOnCancelledGroup(t *testing.T) {
	s := New()
	g := s.Group()
	g.Cancel()

	ran := false
	task := g.After(0, func() { ran = true })
	if task.Stop() {
		t.Error("task on cancelled group should already be stopped")
	}

	s.Advance(time.Second)
	if ran {
		t.Error("task scheduled on a cancelled group ran")
	}
	if s.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", s.Pending())
	}
}

func TestGroup_CancelFromInsideTask(t *testing.T) {
	s := New()
	g := s.Group()
	second := false

	g.After(100*time.Millisecond, func() { g.Cancel() })
	g.After(100*time.Millisecond, func() { second = true })

	s.Advance(time.Second)
	if second {
		t.Error("task ran after its group was cancelled mid-advance")
	}
}

func TestTask_Stop(t *testing.T) {
	s := New()
	g := s.Group()
	ran := false

	task := g.After(time.Second, func() { ran = true })
	if !task.Stop() {
		t.Error("Stop() on pending task = false, want true")
	}
	if task.Stop() {
		t.Error("second Stop() = true, want false")
	}
	if g.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", g.Pending())
	}

	s.Advance(2 * time.Second)
	if ran {
		t.Error("stopped task ran")
	}
}

func TestNext(t *testing.T) {
	s := New()
	if _, ok := s.Next(); ok {
		t.Fatal("Next() on empty scheduler reported a task")
	}

	g := s.Group()
	first := g.After(500*time.Millisecond, func() {})
	g.After(800*time.Millisecond, func() {})

	s.Advance(200 * time.Millisecond)
	d, ok := s.Next()
	if !ok || d != 300*time.Millisecond {
		t.Errorf("Next() = %v, %v; want 300ms, true", d, ok)
	}

	first.Stop()
	d, ok = s.Next()
	if !ok || d != 600*time.Millisecond {
		t.Errorf("Next() after stop = %v, %v; want 600ms, true", d, ok)
	}
}

func TestAdvance_NegativeIsZero(t *testing.T) {
	s := New()
	s.Advance(-time.Second)
	if s.Now() != 0 {
		t.Errorf("Now = %v, want 0", s.Now())
	}
}
