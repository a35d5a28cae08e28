// Package lifecycle runs deferred work on the frame clock. Tasks are owned
// by the scheduler and can be cancelled individually or all at once, which
// is what a global reset needs.
package lifecycle

import (
	"container/heap"
	"time"
)

// TaskID identifies a scheduled task. The zero value is never issued.
type TaskID uint64

type task struct {
	id    TaskID
	due   time.Time
	seq   uint64
	fn    func()
	index int
}

type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}
	return q[i].due.Before(q[j].due)
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x any) {
	t := x.(*task)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}

// Scheduler is not safe for concurrent use; it belongs to the frame loop.
type Scheduler struct {
	queue  taskQueue
	byID   map[TaskID]*task
	nextID TaskID
	seq    uint64
}

func NewScheduler() *Scheduler {
	return &Scheduler{byID: make(map[TaskID]*task)}
}

// After schedules fn to run on the first Run at or after now+d.
func (s *Scheduler) After(now time.Time, d time.Duration, fn func()) TaskID {
	s.nextID++
	s.seq++
	t := &task{id: s.nextID, due: now.Add(d), seq: s.seq, fn: fn}
	heap.Push(&s.queue, t)
	s.byID[t.id] = t
	return t.id
}

// Cancel drops a pending task. It reports false if the task already ran
// or was cancelled.
func (s *Scheduler) Cancel(id TaskID) bool {
	t, ok := s.byID[id]
	if !ok {
		return false
	}
	heap.Remove(&s.queue, t.index)
	delete(s.byID, id)
	return true
}

// CancelAll drops every pending task without running it.
func (s *Scheduler) CancelAll() {
	s.queue = s.queue[:0]
	clear(s.byID)
}

// Run fires every task due at now, earliest first, and returns how many
// ran. Tasks scheduled by a running task wait for the next Run.
func (s *Scheduler) Run(now time.Time) int {
	var due []*task
	for s.queue.Len() > 0 && !s.queue[0].due.After(now) {
		t := heap.Pop(&s.queue).(*task)
		delete(s.byID, t.id)
		due = append(due, t)
	}
	for _, t := range due {
		t.fn()
	}
	return len(due)
}

// Pending is the number of tasks waiting to run.
func (s *Scheduler) Pending() int { return s.queue.Len() }
