// Command kernelsim boots the in-process microkernel simulator and runs
// a fixed sequence of demonstration routines exercising the scheduler,
// virtual memory manager, heap allocator, IPC layer and interrupt
// controller.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kernelsim/kernelsim/internal/heap"
	"github.com/kernelsim/kernelsim/internal/ipc"
	"github.com/kernelsim/kernelsim/internal/kconfig"
	"github.com/kernelsim/kernelsim/internal/kernel"
	"github.com/kernelsim/kernelsim/internal/klog"
	"github.com/kernelsim/kernelsim/internal/memmgr"
	"github.com/kernelsim/kernelsim/internal/scheduler"
)

func main() {
	cfg := kconfig.Default()
	if len(os.Args) > 1 {
		if err := kconfig.Load(os.Args[1], &cfg); err != nil {
			slog.Error("failed to load config, continuing with defaults", "path", os.Args[1], "err", err)
		}
	}

	if err := klog.Init(cfg.LogPath, cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	k := kernel.New(cfg)
	slog.Info("kernel booted")

	demos := []struct {
		name string
		run  func(*kernel.Kernel)
	}{
		{"scheduling", demoScheduling},
		{"virtual-memory", demoVirtualMemory},
		{"heap-allocator", demoHeapAllocator},
		{"message-passing", demoMessagePassing},
		{"interrupts-and-timer", demoInterruptsAndTimer},
	}

	for _, d := range demos {
		select {
		case <-ctx.Done():
			slog.Info("shutdown requested, stopping before remaining demos")
			return
		default:
		}
		slog.Info("running demonstration", "name", d.name)
		d.run(k)
	}

	fmt.Print(k.Report())
	slog.Info("all demonstrations complete, kernel shutting down")
}

func demoScheduling(k *kernel.Kernel) {
	k.TerminateTask(k.IdleTaskID)

	low := k.CreateTask("logger", nil, scheduler.Low)
	normal := k.CreateTask("worker", nil, scheduler.Normal)
	high := k.CreateTask("watchdog", nil, scheduler.High)

	k.Scheduler.SetSchedulerType(scheduler.RoundRobin)
	k.Scheduler.Schedule()
	slog.Info("round-robin: first scheduled", "task", k.Scheduler.GetCurrentTask())
	k.Scheduler.Yield()
	slog.Info("round-robin: rotated to", "task", k.Scheduler.GetCurrentTask())

	k.Scheduler.SetSchedulerType(scheduler.PriorityScheduling)
	k.Scheduler.Schedule()
	slog.Info("priority: highest-priority task selected", "task", k.Scheduler.GetCurrentTask(), "expected", high)

	k.TerminateTask(low)
	k.TerminateTask(normal)
	k.TerminateTask(high)
}

func demoVirtualMemory(k *kernel.Kernel) {
	task := k.CreateTask("mapper", nil, scheduler.Normal)

	addr, ok := k.AllocatePage(task, 0, memmgr.ReadWrite)
	slog.Info("page allocated", "task", task, "addr", addr, "ok", ok)

	if !k.Memory.HandlePageFault(uint32(task), 7) {
		slog.Warn("unexpected page fault failure")
	}
	frame, ok := k.Memory.TranslateAddress(uint32(task), 7)
	slog.Info("page fault resolved", "frame", frame, "ok", ok)

	usage, _ := k.Memory.GetTaskMemoryUsage(uint32(task))
	slog.Info("task memory usage", "bytes", usage)

	k.FreePage(task, 0)
	k.TerminateTask(task)
}

func demoHeapAllocator(k *kernel.Kernel) {
	a := k.Heap
	p1 := a.Allocate(128)
	p2 := a.Allocate(256)
	p3 := a.Allocate(64)

	slog.Info("heap allocated three blocks", "used", a.GetUsedMemory(), "free", a.GetFreeMemory())

	a.Free(p1)
	a.Free(p3)
	a.Free(p2)
	slog.Info("heap freed and coalesced", "used", a.GetUsedMemory(), "free", a.GetFreeMemory())

	merged := a.Allocate(128 + 256 + 64 + 2*heap.HeaderSize)
	slog.Info("allocation into coalesced block", "ptr", merged, "succeeded", merged != heap.NullPtr)
	a.Free(merged)
}

func demoMessagePassing(k *kernel.Kernel) {
	sender := k.CreateTask("client", nil, scheduler.Normal)
	receiver := k.CreateTask("server", nil, scheduler.Normal)

	id := k.IPC.SendAsync(uint32(sender), uint32(receiver), ipc.Data, []byte("hello"))
	slog.Info("message sent", "id", id)

	msg, ok := k.IPC.ReceiveMessage(uint32(receiver), false)
	slog.Info("message received", "ok", ok, "payload", string(msg.Payload))

	go func() {
		req, ok := k.IPC.ReceiveMessage(uint32(receiver), true)
		if !ok {
			return
		}
		k.IPC.SendReply(uint32(receiver), uint32(req.Sender), []byte("ack"))
	}()

	reply, ok := k.IPC.SendAndWaitReply(uint32(sender), uint32(receiver), []byte("ping"), 500*time.Millisecond)
	slog.Info("request/reply completed", "ok", ok, "payload", string(reply.Payload))

	_, timedOut := k.IPC.SendAndWaitReply(uint32(sender), uint32(receiver), []byte("unanswered"), 50*time.Millisecond)
	slog.Info("request/reply timeout demonstrated", "got_reply", timedOut)

	k.TerminateTask(sender)
	k.TerminateTask(receiver)
}

func demoInterruptsAndTimer(k *kernel.Kernel) {
	a := k.CreateTask("A", nil, scheduler.Normal)
	b := k.CreateTask("B", nil, scheduler.Normal)
	k.Scheduler.Schedule()

	for i := 0; i < scheduler.TimeQuantumMs; i++ {
		k.TimerTick()
	}
	slog.Info("timer preemption demonstrated", "current", k.Scheduler.GetCurrentTask(), "expected", b)

	k.Interrupts.DisableInterrupts()
	before := k.Timer.Ticks()
	k.TimerTick()
	slog.Info("tick while interrupts disabled", "advanced", k.Timer.Ticks() != before)
	k.Interrupts.EnableInterrupts()

	k.TerminateTask(a)
	k.TerminateTask(b)
}
