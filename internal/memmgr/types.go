package memmgr

// PageNumber identifies a virtual page within a task's address space.
type PageNumber uint32

// FrameNumber identifies a physical frame in the global frame pool.
type FrameNumber uint32

// PageSize is the simulated page size in bytes.
const PageSize = 4096

// TotalPhysicalFrames is the simulated physical RAM size in frames
// (4 MiB of simulated RAM at PageSize bytes per frame).
const TotalPhysicalFrames = 1024

// Protection is a bitfield over read/write/execute permissions.
type Protection int

const (
	None    Protection = 0
	Read    Protection = 1
	Write   Protection = 2
	Execute Protection = 4

	ReadWrite = Read | Write
)

// PageTableEntry describes the mapping for one virtual page.
type PageTableEntry struct {
	Frame      FrameNumber
	Present    bool
	Dirty      bool
	Accessed   bool
	Protection Protection
}

// PageTable is one task's virtual page number -> PageTableEntry mapping.
// The memory manager exclusively owns page tables, keyed by owner task id.
type PageTable struct {
	Owner   uint32
	Entries map[PageNumber]PageTableEntry
}

func newPageTable(owner uint32) *PageTable {
	return &PageTable{
		Owner:   owner,
		Entries: make(map[PageNumber]PageTableEntry),
	}
}
