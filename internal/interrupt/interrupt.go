// Package interrupt implements a simulated interrupt controller: a table
// of numbered handlers dispatched synchronously on the caller's thread,
// gated by both a per-line and a global enabled flag.
package interrupt

import (
	"fmt"
	"log/slog"
	"sync"
)

// HandlerFunc handles one interrupt, receiving whatever data the trigger
// carried.
type HandlerFunc func(data any)

type line struct {
	name         string
	handler      HandlerFunc
	enabled      bool
	triggerCount uint64
}

// Controller owns the interrupt table and the global enable flag. It is
// not internally synchronized beyond what's needed for its own table;
// callers drive TriggerInterrupt from a single thread in practice.
type Controller struct {
	mu            sync.Mutex
	lines         map[int]*line
	globalEnabled bool
}

// New constructs a Controller with interrupts globally enabled and an
// empty table.
func New() *Controller {
	return &Controller{
		lines:         make(map[int]*line),
		globalEnabled: true,
	}
}

// RegisterHandler binds handler to interrupt number n. Fails if n is
// already bound.
func (c *Controller) RegisterHandler(n int, name string, handler HandlerFunc) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.lines[n]; exists {
		return false
	}
	c.lines[n] = &line{name: name, handler: handler, enabled: true}
	return true
}

// UnregisterHandler removes the binding for n.
func (c *Controller) UnregisterHandler(n int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.lines[n]; !exists {
		return false
	}
	delete(c.lines, n)
	return true
}

// TriggerInterrupt dispatches the handler for n synchronously, provided
// both the global flag and n's own flag are enabled, and n is bound.
// Returns false and drops silently otherwise.
func (c *Controller) TriggerInterrupt(n int, data any) bool {
	c.mu.Lock()
	if !c.globalEnabled {
		c.mu.Unlock()
		return false
	}
	l, exists := c.lines[n]
	if !exists || !l.enabled {
		c.mu.Unlock()
		return false
	}
	l.triggerCount++
	handler := l.handler
	c.mu.Unlock()

	handler(data)
	return true
}

// EnableInterrupt re-enables line n. Fails if n is not bound.
func (c *Controller) EnableInterrupt(n int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, exists := c.lines[n]
	if !exists {
		return false
	}
	l.enabled = true
	return true
}

// DisableInterrupt disables line n without unbinding its handler. Fails
// if n is not bound.
func (c *Controller) DisableInterrupt(n int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, exists := c.lines[n]
	if !exists {
		return false
	}
	l.enabled = false
	return true
}

// EnableInterrupts flips the global flag on.
func (c *Controller) EnableInterrupts() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.globalEnabled = true
}

// DisableInterrupts flips the global flag off; every TriggerInterrupt
// call is dropped until re-enabled.
func (c *Controller) DisableInterrupts() {
	c.mu.Lock()
	defer c.mu.Unlock()
	slog.Debug("interrupts globally disabled")
	c.globalEnabled = false
}

// TriggerCount returns how many times n's handler has actually run.
func (c *Controller) TriggerCount(n int) (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, exists := c.lines[n]
	if !exists {
		return 0, false
	}
	return l.triggerCount, true
}

// String renders the table for diagnostics.
func (c *Controller) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fmt.Sprintf("interrupt table: %d lines, global enabled=%v", len(c.lines), c.globalEnabled)
}
