// Package heap implements a first-fit allocator over a fixed-size byte
// arena, using an index-based intrusive free list (offsets into the arena,
// never raw pointers into a reallocatable buffer).
package heap

import "log/slog"

// HeaderSize is the bookkeeping overhead charged against the arena for
// every block's header.
const HeaderSize = 32

// alignment payload sizes are rounded up to.
const alignment = 8

// NullPtr is returned by allocate on failure or a zero-size request. Free
// accepts it as a no-op; Reallocate treats it as a plain allocation.
const NullPtr = -1

// blockHeader describes one block of the arena. next/prev are header
// offsets into the arena; -1 means no neighbour.
type blockHeader struct {
	offset int
	size   int // payload size in bytes, excluding this header
	free   bool
	next   int
	prev   int
}

// Allocator manages a caller-supplied fixed-size byte arena.
type Allocator struct {
	arena      []byte
	headers    map[int]*blockHeader
	headOffset int
	doubleFree uint64
}

// New constructs an Allocator over a fresh arena of arenaSize bytes,
// starting as one large free block.
func New(arenaSize int) *Allocator {
	a := &Allocator{
		arena:   make([]byte, arenaSize),
		headers: make(map[int]*blockHeader),
	}

	payload := arenaSize - HeaderSize
	if payload < 0 {
		payload = 0
	}
	a.headers[0] = &blockHeader{offset: 0, size: payload, free: true, next: -1, prev: -1}
	return a
}

// Allocate rounds size up to a multiple of 8 and returns the first
// sufficiently large free block, splitting off the remainder when it is
// large enough to host another block. Returns NullPtr for a zero-size
// request or exhaustion.
func (a *Allocator) Allocate(size int) int {
	if size == 0 {
		return NullPtr
	}
	adjusted := roundUp(size)

	header := a.firstFit(adjusted)
	if header == nil {
		slog.Warn("heap exhausted", "requested", size)
		return NullPtr
	}

	if header.size-adjusted >= HeaderSize+alignment {
		a.split(header, adjusted)
	}

	header.free = false
	return header.offset
}

// Free marks the block free, detects double-frees without modifying state,
// and coalesces with both neighbours.
func (a *Allocator) Free(ptr int) {
	if ptr == NullPtr {
		return
	}
	header, ok := a.headers[ptr]
	if !ok {
		return
	}
	if header.free {
		a.doubleFree++
		slog.Warn("double free detected", "ptr", ptr)
		return
	}

	header.free = true
	a.coalesceWithNext(header)
	if prev, ok := a.headers[header.prev]; ok && prev.free {
		a.coalesceWithNext(prev)
	}
}

// Reallocate implements null-as-allocate, zero-as-free, no-shrink-split,
// and copy-on-grow semantics.
func (a *Allocator) Reallocate(ptr int, newSize int) int {
	if ptr == NullPtr {
		return a.Allocate(newSize)
	}
	if newSize == 0 {
		a.Free(ptr)
		return NullPtr
	}

	header, ok := a.headers[ptr]
	if !ok {
		return NullPtr
	}

	adjusted := roundUp(newSize)
	if header.size >= adjusted {
		return ptr
	}

	newPtr := a.Allocate(newSize)
	if newPtr == NullPtr {
		return NullPtr
	}

	copy(a.payload(newPtr), a.payload(ptr)[:header.size])
	a.Free(ptr)
	return newPtr
}

// GetFreeMemory sums the payload bytes of every free block.
func (a *Allocator) GetFreeMemory() int {
	total := 0
	a.walk(func(h *blockHeader) {
		if h.free {
			total += h.size
		}
	})
	return total
}

// GetUsedMemory sums the payload bytes of every occupied block.
func (a *Allocator) GetUsedMemory() int {
	total := 0
	a.walk(func(h *blockHeader) {
		if !h.free {
			total += h.size
		}
	})
	return total
}

// GetTotalMemory returns the arena's full size in bytes.
func (a *Allocator) GetTotalMemory() int {
	return len(a.arena)
}

// DoubleFreeCount returns the number of detected double-frees.
func (a *Allocator) DoubleFreeCount() uint64 {
	return a.doubleFree
}

// Payload returns the writable byte slice backing ptr's block, for callers
// that need to read or write the allocated bytes.
func (a *Allocator) Payload(ptr int) []byte {
	return a.payload(ptr)
}

func (a *Allocator) payload(headerOffset int) []byte {
	header := a.headers[headerOffset]
	start := header.offset + HeaderSize
	return a.arena[start : start+header.size]
}

func (a *Allocator) firstFit(size int) *blockHeader {
	var found *blockHeader
	a.walk(func(h *blockHeader) {
		if found == nil && h.free && h.size >= size {
			found = h
		}
	})
	return found
}

// split carves a free tail block of the remainder out of header, leaving
// header sized exactly to size.
func (a *Allocator) split(header *blockHeader, size int) {
	tailOffset := header.offset + HeaderSize + size
	tail := &blockHeader{
		offset: tailOffset,
		size:   header.size - size - HeaderSize,
		free:   true,
		next:   header.next,
		prev:   header.offset,
	}
	if next, ok := a.headers[header.next]; ok {
		next.prev = tailOffset
	}
	header.next = tailOffset
	header.size = size
	a.headers[tailOffset] = tail
}

// coalesceWithNext absorbs header's next neighbour into header, if that
// neighbour is free.
func (a *Allocator) coalesceWithNext(header *blockHeader) {
	next, ok := a.headers[header.next]
	if !ok || !next.free {
		return
	}

	header.size += HeaderSize + next.size
	header.next = next.next
	if afterNext, ok := a.headers[next.next]; ok {
		afterNext.prev = header.offset
	}
	delete(a.headers, next.offset)
}

func (a *Allocator) walk(visit func(*blockHeader)) {
	offset := a.headOffset
	for offset != -1 {
		header, ok := a.headers[offset]
		if !ok {
			return
		}
		visit(header)
		offset = header.next
	}
}

func roundUp(size int) int {
	if rem := size % alignment; rem != 0 {
		return size + (alignment - rem)
	}
	return size
}
