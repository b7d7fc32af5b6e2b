// Package memmgr implements per-task virtual page tables over a global
// physical-frame pool, with lazy allocation on page fault.
package memmgr

import (
	"log/slog"

	"github.com/Workiva/go-datastructures/bitarray"
)

// MemoryManager owns every task's page table and the global frame pool. It
// is not internally synchronized; callers must serialize access.
type MemoryManager struct {
	totalFrames uint64
	frames      bitarray.BitArray
	pageTables  map[uint32]*PageTable
	faultCount  uint64
}

// New constructs a MemoryManager with totalFrames physical frames, all
// free.
func New(totalFrames int) *MemoryManager {
	return &MemoryManager{
		totalFrames: uint64(totalFrames),
		frames:      bitarray.NewBitArray(uint64(totalFrames)),
		pageTables:  make(map[uint32]*PageTable),
	}
}

// CreateAddressSpace creates an empty page table for task. Fails if one
// already exists.
func (m *MemoryManager) CreateAddressSpace(task uint32) bool {
	if _, exists := m.pageTables[task]; exists {
		return false
	}
	m.pageTables[task] = newPageTable(task)
	slog.Debug("address space created", "task", task)
	return true
}

// DestroyAddressSpace frees every present frame belonging to task, then
// removes its page table.
func (m *MemoryManager) DestroyAddressSpace(task uint32) bool {
	table, exists := m.pageTables[task]
	if !exists {
		return false
	}

	for _, entry := range table.Entries {
		if entry.Present {
			m.clearFrame(entry.Frame)
		}
	}
	delete(m.pageTables, task)

	slog.Debug("address space destroyed", "task", task)
	return true
}

// AllocatePage requires an existing page table and an absent or
// non-present entry for virtualPage. It allocates the first free frame
// (ascending scan), writes a fresh PTE, and returns the simulated physical
// address.
func (m *MemoryManager) AllocatePage(task uint32, virtualPage PageNumber, protection Protection) (uintptr, bool) {
	table, exists := m.pageTables[task]
	if !exists {
		return 0, false
	}
	if entry, present := table.Entries[virtualPage]; present && entry.Present {
		return 0, false
	}

	frame, ok := m.allocateFrame()
	if !ok {
		return 0, false
	}

	table.Entries[virtualPage] = PageTableEntry{
		Frame:      frame,
		Present:    true,
		Dirty:      false,
		Accessed:   false,
		Protection: protection,
	}

	addr := uintptr(frame) * PageSize
	slog.Debug("page allocated", "task", task, "page", virtualPage, "frame", frame)
	return addr, true
}

// FreePage requires an existing present entry for virtualPage; it clears
// the frame bit and removes the entry.
func (m *MemoryManager) FreePage(task uint32, virtualPage PageNumber) bool {
	table, exists := m.pageTables[task]
	if !exists {
		return false
	}
	entry, present := table.Entries[virtualPage]
	if !present || !entry.Present {
		return false
	}

	m.clearFrame(entry.Frame)
	delete(table.Entries, virtualPage)

	slog.Debug("page freed", "task", task, "page", virtualPage, "frame", entry.Frame)
	return true
}

// TranslateAddress performs a present-only lookup, marking the entry
// accessed on hit.
func (m *MemoryManager) TranslateAddress(task uint32, virtualPage PageNumber) (FrameNumber, bool) {
	table, exists := m.pageTables[task]
	if !exists {
		return 0, false
	}
	entry, present := table.Entries[virtualPage]
	if !present || !entry.Present {
		return 0, false
	}

	entry.Accessed = true
	table.Entries[virtualPage] = entry
	return entry.Frame, true
}

// HandlePageFault increments the fault counter and attempts to allocate
// virtualPage with default (read/write) protection.
func (m *MemoryManager) HandlePageFault(task uint32, virtualPage PageNumber) bool {
	m.faultCount++
	_, ok := m.AllocatePage(task, virtualPage, ReadWrite)
	return ok
}

// SetProtection replaces the protection bits of an existing present entry.
func (m *MemoryManager) SetProtection(task uint32, virtualPage PageNumber, protection Protection) bool {
	table, exists := m.pageTables[task]
	if !exists {
		return false
	}
	entry, present := table.Entries[virtualPage]
	if !present || !entry.Present {
		return false
	}
	entry.Protection = protection
	table.Entries[virtualPage] = entry
	return true
}

// GetProtection returns the protection bits of an existing present entry.
func (m *MemoryManager) GetProtection(task uint32, virtualPage PageNumber) (Protection, bool) {
	table, exists := m.pageTables[task]
	if !exists {
		return None, false
	}
	entry, present := table.Entries[virtualPage]
	if !present || !entry.Present {
		return None, false
	}
	return entry.Protection, true
}

// GetFreeFrameCount returns the number of unallocated physical frames.
func (m *MemoryManager) GetFreeFrameCount() int {
	return int(m.totalFrames) - m.usedFrameCount()
}

// GetUsedFrameCount returns the number of allocated physical frames.
func (m *MemoryManager) GetUsedFrameCount() int {
	return m.usedFrameCount()
}

func (m *MemoryManager) usedFrameCount() int {
	used := 0
	for i := uint64(0); i < m.totalFrames; i++ {
		set, _ := m.frames.GetBit(i)
		if set {
			used++
		}
	}
	return used
}

// GetTaskMemoryUsage returns the number of bytes mapped (present pages *
// PageSize) for task.
func (m *MemoryManager) GetTaskMemoryUsage(task uint32) (int, bool) {
	table, exists := m.pageTables[task]
	if !exists {
		return 0, false
	}
	count := 0
	for _, entry := range table.Entries {
		if entry.Present {
			count++
		}
	}
	return count * PageSize, true
}

// PageFaultCount returns the cumulative number of page faults handled.
func (m *MemoryManager) PageFaultCount() uint64 {
	return m.faultCount
}

// allocateFrame performs the O(n) first-fit ascending scan required for
// deterministic, reproducible allocation.
func (m *MemoryManager) allocateFrame() (FrameNumber, bool) {
	for i := uint64(0); i < m.totalFrames; i++ {
		set, _ := m.frames.GetBit(i)
		if !set {
			_ = m.frames.SetBit(i)
			return FrameNumber(i), true
		}
	}
	return 0, false
}

func (m *MemoryManager) clearFrame(frame FrameNumber) {
	_ = m.frames.ClearBit(uint64(frame))
}
