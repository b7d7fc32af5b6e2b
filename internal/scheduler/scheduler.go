// Package scheduler implements task lifecycle management and two
// ready-queue disciplines (round-robin, strict priority) with preemptive
// time quanta.
package scheduler

import (
	"log/slog"
	"time"
)

// ContextSwitchHook is invoked on every context switch. It is informational
// only and cannot fail.
type ContextSwitchHook func(from, to TaskId)

// Scheduler tracks task control blocks and the currently running task. It
// is not internally synchronized; callers (the kernel façade's single
// driver thread) must serialize access.
type Scheduler struct {
	tasks         map[TaskId]*TCB
	nextId        TaskId
	currentTaskId TaskId
	discipline    Type
	ready         readyStructure
	tickCount     uint64
	onSwitch      ContextSwitchHook
}

// New constructs an empty Scheduler under the given discipline.
func New(discipline Type) *Scheduler {
	s := &Scheduler{
		tasks:         make(map[TaskId]*TCB),
		nextId:        1,
		currentTaskId: InvalidTaskID,
		discipline:    discipline,
	}
	s.ready = s.newReadyStructure()
	return s
}

func (s *Scheduler) newReadyStructure() readyStructure {
	if s.discipline == PriorityScheduling {
		return newPriorityReady()
	}
	return newRoundRobinReady()
}

// SetContextSwitchHook registers a hook invoked on every context switch.
func (s *Scheduler) SetContextSwitchHook(hook ContextSwitchHook) {
	s.onSwitch = hook
}

// CreateTask allocates a fresh id, constructs a TCB in Ready, enqueues it,
// and returns the id. Never fails.
func (s *Scheduler) CreateTask(name string, entry Entry, priority Priority) TaskId {
	id := s.nextId
	s.nextId++

	task := newTCB(id, name, entry, priority, InvalidTaskID)
	task.State = Ready
	s.tasks[id] = task
	s.ready.Enqueue(id, priority)

	slog.Debug("task created", "id", id, "name", name, "priority", priority)
	return id
}

// TerminateTask sets the task's state to Terminated and removes it from the
// ready structures. If the terminated task was current, the scheduler
// immediately reschedules. Unknown ids return false.
func (s *Scheduler) TerminateTask(id TaskId) bool {
	task, ok := s.tasks[id]
	if !ok {
		return false
	}

	task.State = Terminated
	s.ready.Remove(id, task.Priority)

	if s.currentTaskId == id {
		s.currentTaskId = InvalidTaskID
		s.Schedule()
	}

	slog.Info("task terminated", "id", id)
	return true
}

// BlockTask transitions a Running or Ready task to Blocked. Rescheduling
// happens if the current task was blocked. Returns false for any other
// state or unknown id.
func (s *Scheduler) BlockTask(id TaskId) bool {
	task, ok := s.tasks[id]
	if !ok {
		return false
	}
	if task.State != Running && task.State != Ready {
		return false
	}

	wasCurrent := s.currentTaskId == id
	s.ready.Remove(id, task.Priority)
	task.State = Blocked

	if wasCurrent {
		s.currentTaskId = InvalidTaskID
		s.Schedule()
	}

	slog.Debug("task blocked", "id", id)
	return true
}

// UnblockTask transitions a Blocked task to Ready and enqueues it. Returns
// false for any other state or unknown id.
func (s *Scheduler) UnblockTask(id TaskId) bool {
	task, ok := s.tasks[id]
	if !ok {
		return false
	}
	if task.State != Blocked {
		return false
	}

	task.State = Ready
	s.ready.Enqueue(id, task.Priority)

	slog.Debug("task unblocked", "id", id)
	return true
}

// Schedule selects the next task to run. If none are runnable, or the
// selection is the currently running task, it has no effect. Under strict
// priority, a running task is only displaced by a ready task of equal or
// higher priority.
func (s *Scheduler) Schedule() {
	next, ok := s.ready.SelectNext()
	if !ok || next == s.currentTaskId {
		return
	}

	current, hasCurrent := s.tasks[s.currentTaskId]
	if hasCurrent && current.State == Running && s.discipline == PriorityScheduling &&
		current.Priority > s.tasks[next].Priority {
		return
	}

	if hasCurrent && current.State == Running {
		current.State = Ready
		s.ready.Enqueue(current.Id, current.Priority)
	}

	if s.onSwitch != nil {
		s.onSwitch(s.currentTaskId, next)
	}

	nextTask := s.tasks[next]
	s.currentTaskId = next
	nextTask.State = Running
	nextTask.LastScheduledAt = time.Now()
	nextTask.TimeSliceRemaining = TimeQuantumMs
	s.ready.Remove(next, nextTask.Priority)

	slog.Debug("context switch", "to", next)
}

// Tick advances the global tick counter and the current task's accounting.
// When the remaining time-slice reaches zero, it reschedules.
func (s *Scheduler) Tick() {
	s.tickCount++

	current, ok := s.tasks[s.currentTaskId]
	if !ok {
		s.Schedule()
		return
	}

	current.TimeSliceRemaining--
	current.CpuTimeMs++

	if current.TimeSliceRemaining <= 0 {
		s.Schedule()
	}
}

// Yield voluntarily surrenders the remainder of the current task's
// time-slice and reschedules.
func (s *Scheduler) Yield() {
	if current, ok := s.tasks[s.currentTaskId]; ok {
		current.TimeSliceRemaining = 0
	}
	s.Schedule()
}

// GetCurrentTask returns the currently running task's id, or
// InvalidTaskID if none.
func (s *Scheduler) GetCurrentTask() TaskId {
	return s.currentTaskId
}

// GetTask returns the TCB for id, if it exists.
func (s *Scheduler) GetTask(id TaskId) (*TCB, bool) {
	task, ok := s.tasks[id]
	return task, ok
}

// SetSchedulerType switches the ready-queue discipline, re-placing every
// task currently in Ready into the new structure.
func (s *Scheduler) SetSchedulerType(discipline Type) {
	if discipline == s.discipline {
		return
	}

	s.discipline = discipline
	newReady := s.newReadyStructure()

	for id, task := range s.tasks {
		if task.State == Ready {
			newReady.Enqueue(id, task.Priority)
		}
	}
	s.ready = newReady

	slog.Info("scheduler discipline changed", "discipline", discipline)
}

// TickCount returns the number of ticks delivered so far.
func (s *Scheduler) TickCount() uint64 {
	return s.tickCount
}

// RecordPageAllocated records that a virtual page was allocated to a task,
// for the TCB's bookkeeping set. The memory manager owns the page table
// itself; this is purely informational bookkeeping on the TCB.
func (s *Scheduler) RecordPageAllocated(id TaskId, page uint32, bytes int) bool {
	task, ok := s.tasks[id]
	if !ok {
		return false
	}
	task.AllocatedPages[page] = struct{}{}
	task.MemoryUsageBytes += bytes
	return true
}

// RecordPageFreed undoes RecordPageAllocated.
func (s *Scheduler) RecordPageFreed(id TaskId, page uint32, bytes int) bool {
	task, ok := s.tasks[id]
	if !ok {
		return false
	}
	if _, present := task.AllocatedPages[page]; !present {
		return false
	}
	delete(task.AllocatedPages, page)
	task.MemoryUsageBytes -= bytes
	return true
}
