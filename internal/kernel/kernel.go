// Package kernel bundles one scheduler, memory manager, heap allocator,
// IPC manager and interrupt controller into a single constructible
// context. There is deliberately no package-level kernel instance: every
// caller builds and owns its own Kernel.
package kernel

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kernelsim/kernelsim/internal/heap"
	"github.com/kernelsim/kernelsim/internal/interrupt"
	"github.com/kernelsim/kernelsim/internal/ipc"
	"github.com/kernelsim/kernelsim/internal/kconfig"
	"github.com/kernelsim/kernelsim/internal/memmgr"
	"github.com/kernelsim/kernelsim/internal/scheduler"
)

// Kernel is the explicit, non-global context that owns every subsystem.
type Kernel struct {
	Scheduler  *scheduler.Scheduler
	Memory     *memmgr.MemoryManager
	Heap       *heap.Allocator
	IPC        *ipc.Manager
	Interrupts *interrupt.Controller
	Timer      *interrupt.Timer

	// IdleTaskID is the always-present, lowest-priority task created at
	// boot. It occupies a slot in the round-robin rotation like any other
	// task; under strict priority it only ever runs when nothing else is
	// ready.
	IdleTaskID scheduler.TaskId
}

// New constructs a Kernel from cfg and wires the timer interrupt to the
// scheduler's preemption tick, the one glue path between those two
// subsystems.
func New(cfg kconfig.Config) *Kernel {
	discipline := scheduler.RoundRobin
	if cfg.SchedulerAlgorithm == "priority" {
		discipline = scheduler.PriorityScheduling
	}

	k := &Kernel{
		Scheduler:  scheduler.New(discipline),
		Memory:     memmgr.New(cfg.TotalPhysicalFrames),
		Heap:       heap.New(cfg.HeapArenaSize),
		IPC:        ipc.New(),
		Interrupts: interrupt.New(),
	}
	k.Timer = interrupt.NewTimer(k.Interrupts)
	k.Interrupts.RegisterHandler(interrupt.TimerInterruptNumber, "scheduler-tick", func(any) {
		k.Scheduler.Tick()
	})

	k.IdleTaskID = k.CreateTask("idle", nil, scheduler.Idle)
	slog.Debug("idle task created", "id", k.IdleTaskID)

	slog.Info("kernel initialized",
		"scheduler", cfg.SchedulerAlgorithm,
		"total_physical_frames", cfg.TotalPhysicalFrames,
		"heap_arena_size", cfg.HeapArenaSize,
	)
	return k
}

// TimerTick drives the timer driver, which raises the timer interrupt,
// which the registered handler forwards into the scheduler's Tick.
func (k *Kernel) TimerTick() {
	k.Timer.Tick()
}

// CreateTask spawns a task and brings its address space and mailbox up
// together, so a live TaskId always has both.
func (k *Kernel) CreateTask(name string, entry scheduler.Entry, priority scheduler.Priority) scheduler.TaskId {
	id := k.Scheduler.CreateTask(name, entry, priority)
	k.Memory.CreateAddressSpace(uint32(id))
	k.IPC.RegisterTask(uint32(id))
	slog.Debug("task created", "id", id, "name", name, "priority", priority)
	return id
}

// TerminateTask tears a task down everywhere: scheduler, address space
// and mailbox.
func (k *Kernel) TerminateTask(id scheduler.TaskId) bool {
	if !k.Scheduler.TerminateTask(id) {
		return false
	}
	k.Memory.DestroyAddressSpace(uint32(id))
	k.IPC.UnregisterTask(uint32(id))
	slog.Debug("task terminated", "id", id)
	return true
}

// AllocatePage allocates a page for id's address space and records the
// usage against its TCB.
func (k *Kernel) AllocatePage(id scheduler.TaskId, page memmgr.PageNumber, protection memmgr.Protection) (uintptr, bool) {
	addr, ok := k.Memory.AllocatePage(uint32(id), page, protection)
	if !ok {
		return 0, false
	}
	k.Scheduler.RecordPageAllocated(id, uint32(page), memmgr.PageSize)
	return addr, true
}

// FreePage frees a page from id's address space and reverses the usage
// bookkeeping on its TCB.
func (k *Kernel) FreePage(id scheduler.TaskId, page memmgr.PageNumber) bool {
	if !k.Memory.FreePage(uint32(id), page) {
		return false
	}
	k.Scheduler.RecordPageFreed(id, uint32(page), memmgr.PageSize)
	return true
}

// Report renders a plain-text summary of the scheduler, memory, heap and
// timer counters, for printing at the end of a run. IPC and interrupt
// controller state are not included.
func (k *Kernel) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "kernel report\n")
	fmt.Fprintf(&b, "  scheduler: ticks=%d\n", k.Scheduler.TickCount())
	fmt.Fprintf(&b, "  memory: free_frames=%d used_frames=%d page_faults=%d\n",
		k.Memory.GetFreeFrameCount(), k.Memory.GetUsedFrameCount(), k.Memory.PageFaultCount())
	fmt.Fprintf(&b, "  heap: used=%d free=%d total=%d double_frees=%d\n",
		k.Heap.GetUsedMemory(), k.Heap.GetFreeMemory(), k.Heap.GetTotalMemory(), k.Heap.DoubleFreeCount())
	fmt.Fprintf(&b, "  timer: ticks=%d\n", k.Timer.Ticks())
	return b.String()
}
