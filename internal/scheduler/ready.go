package scheduler

import "github.com/kernelsim/kernelsim/internal/list"

// readyStructure is the ready-queue discipline: a plain FIFO for
// round-robin, priority-indexed FIFOs for strict priority.
type readyStructure interface {
	Enqueue(id TaskId, priority Priority)
	Remove(id TaskId, priority Priority) bool
	SelectNext() (TaskId, bool)
	All() []TaskId
}

type roundRobinReady struct {
	q *list.Queue[TaskId]
}

func newRoundRobinReady() *roundRobinReady {
	return &roundRobinReady{q: &list.Queue[TaskId]{}}
}

func (r *roundRobinReady) Enqueue(id TaskId, _ Priority) {
	r.q.EnqueueUnique(id)
}

func (r *roundRobinReady) Remove(id TaskId, _ Priority) bool {
	return r.q.Remove(id)
}

func (r *roundRobinReady) SelectNext() (TaskId, bool) {
	return r.q.Peek()
}

func (r *roundRobinReady) All() []TaskId {
	return r.q.All()
}

type priorityReady struct {
	buckets map[Priority]*list.Queue[TaskId]
}

func newPriorityReady() *priorityReady {
	buckets := make(map[Priority]*list.Queue[TaskId], len(allPriorities))
	for _, p := range allPriorities {
		buckets[p] = &list.Queue[TaskId]{}
	}
	return &priorityReady{buckets: buckets}
}

func (r *priorityReady) Enqueue(id TaskId, priority Priority) {
	r.buckets[priority].EnqueueUnique(id)
}

func (r *priorityReady) Remove(id TaskId, priority Priority) bool {
	return r.buckets[priority].Remove(id)
}

func (r *priorityReady) SelectNext() (TaskId, bool) {
	for _, p := range allPriorities {
		if id, ok := r.buckets[p].Peek(); ok {
			return id, true
		}
	}
	return InvalidTaskID, false
}

func (r *priorityReady) All() []TaskId {
	var out []TaskId
	for _, p := range allPriorities {
		out = append(out, r.buckets[p].All()...)
	}
	return out
}
