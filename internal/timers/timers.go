// Package timers holds delayed one-shot callbacks on a virtual clock.
//
// A Scheduler never sleeps. Its owner moves time forward with Advance, which
// runs every task that became due, in deadline order. Tasks belong to a Group;
// cancelling the group drops all of its pending tasks at once, which is how a
// scene makes sure nothing it scheduled outlives it.
package timers

import (
	"container/heap"
	"time"
)

type Scheduler struct {
	now   time.Duration
	seq   uint64
	queue taskQueue
}

func New() *Scheduler {
	return &Scheduler{}
}

// Now is the virtual time elapsed since the scheduler was created.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Group returns a new, empty task group.
func (s *Scheduler) Group() *Group {
	return &Group{s: s}
}

// Advance moves the clock forward by d and runs the tasks that fall due.
// It returns the number of tasks run.
func (s *Scheduler) Advance(d time.Duration) int {
	if d < 0 {
		d = 0
	}
	target := s.now + d
	ran := 0
	for s.queue.Len() > 0 {
		t := s.queue[0]
		if t.at > target {
			break
		}
		heap.Pop(&s.queue)
		if t.stopped {
			continue
		}
		t.stopped = true
		t.group.live--
		s.now = t.at
		t.fn()
		ran++
	}
	s.now = target
	return ran
}

// Next reports how long until the earliest live task is due.
func (s *Scheduler) Next() (time.Duration, bool) {
	for s.queue.Len() > 0 {
		t := s.queue[0]
		if t.stopped {
			heap.Pop(&s.queue)
			continue
		}
		return t.at - s.now, true
	}
	return 0, false
}

// Pending counts live tasks across all groups.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.queue {
		if !t.stopped {
			n++
		}
	}
	return n
}

func (s *Scheduler) push(g *Group, d time.Duration, fn func()) *Task {
	if d < 0 {
		d = 0
	}
	s.seq++
	t := &Task{at: s.now + d, seq: s.seq, fn: fn, group: g}
	heap.Push(&s.queue, t)
	g.live++
	return t
}

// Group owns tasks for one scene.
type Group struct {
	s         *Scheduler
	live      int
	cancelled bool
}

// After schedules fn to run once, d after the current virtual time.
// On a cancelled group it returns a stopped task and fn never runs.
func (g *Group) After(d time.Duration, fn func()) *Task {
	if g.cancelled {
		return &Task{stopped: true, group: g}
	}
	return g.s.push(g, d, fn)
}

// Cancel stops every pending task and refuses new ones.
func (g *Group) Cancel() {
	if g.cancelled {
		return
	}
	g.cancelled = true
	for _, t := range g.s.queue {
		if t.group == g && !t.stopped {
			t.stopped = true
		}
	}
	g.live = 0
}

func (g *Group) Cancelled() bool {
	return g.cancelled
}

func (g *Group) Pending() int {
	return g.live
}

type Task struct {
	at      time.Duration
	seq     uint64
	fn      func()
	group   *Group
	stopped bool
	index   int
}

// Stop prevents the task from running. It reports whether the task was
// still pending.
func (t *Task) Stop() bool {
	if t.stopped {
		return false
	}
	t.stopped = true
	t.group.live--
	return true
}

type taskQueue []*Task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].at == q[j].at {
		return q[i].seq < q[j].seq
	}
	return q[i].at < q[j].at
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x any) {
	t := x.(*Task)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}
