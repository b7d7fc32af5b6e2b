// Package ipc implements per-task FIFO mailboxes for message passing
// between simulated tasks.
package ipc

import (
	"log/slog"
	"sync"
	"time"
)

// Manager owns the registry of mailboxes. Individual mailboxes carry
// their own lock; the manager's lock only guards the registry itself, so
// sends and receives on different mailboxes never contend on it.
type Manager struct {
	mu        sync.Mutex
	mailboxes map[TaskID]*mailbox
	nextID    uint64
}

// New constructs an empty Manager.
func New() *Manager {
	return &Manager{mailboxes: make(map[TaskID]*mailbox)}
}

// RegisterTask creates a mailbox for task. Fails if one already exists.
func (m *Manager) RegisterTask(task TaskID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.mailboxes[task]; exists {
		return false
	}
	m.mailboxes[task] = newMailbox(task)
	return true
}

// UnregisterTask removes task's mailbox and drops whatever it held.
func (m *Manager) UnregisterTask(task TaskID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.mailboxes[task]; !exists {
		return false
	}
	delete(m.mailboxes, task)
	return true
}

func (m *Manager) lookup(task TaskID) (*mailbox, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	box, exists := m.mailboxes[task]
	return box, exists
}

func (m *Manager) allocateID() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	return m.nextID
}

// SendMessage enqueues a message on receiver's mailbox. Oversized
// payloads are silently dropped, but the message still gets an id.
// Sending to an unregistered receiver fails and returns InvalidMessageID.
func (m *Manager) SendMessage(sender, receiver TaskID, msgType MessageType, payload []byte, blocking bool) uint64 {
	box, exists := m.lookup(receiver)
	if !exists {
		slog.Debug("send to unregistered receiver", "receiver", receiver)
		return InvalidMessageID
	}

	id := m.allocateID()
	if len(payload) > MaxPayloadBytes {
		slog.Warn("payload exceeds max size, dropping payload", "sender", sender, "receiver", receiver, "size", len(payload))
		payload = nil
	}

	box.enqueue(Message{
		ID:        id,
		Sender:    sender,
		Receiver:  receiver,
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now(),
		Blocking:  blocking,
	})
	return id
}

// SendAsync is a fire-and-forget send: identical enqueue behaviour to
// SendMessage, for callers that never expect a reply.
func (m *Manager) SendAsync(sender, receiver TaskID, msgType MessageType, payload []byte) uint64 {
	return m.SendMessage(sender, receiver, msgType, payload, false)
}

// SendReply enqueues a Response message on receiver's mailbox, sent by
// sender (the original receiver of the request it answers).
func (m *Manager) SendReply(sender, receiver TaskID, payload []byte) uint64 {
	return m.SendMessage(sender, receiver, Response, payload, false)
}

// ReceiveMessage dequeues the oldest message for task. If blocking is
// true and the mailbox is empty, it parks on the mailbox's condition
// variable instead of polling.
func (m *Manager) ReceiveMessage(task TaskID, blocking bool) (Message, bool) {
	box, exists := m.lookup(task)
	if !exists {
		return Message{}, false
	}
	return box.dequeueMatch(func(Message) bool { return true }, blocking, time.Time{})
}

// ReceiveMessageFrom peeks receiver's mailbox head; if it was sent by
// sender, dequeues and returns it. Otherwise returns false and leaves the
// head in place. If blocking is true and the mailbox is empty, it parks
// until a message arrives before checking.
func (m *Manager) ReceiveMessageFrom(receiver, sender TaskID, blocking bool) (Message, bool) {
	box, exists := m.lookup(receiver)
	if !exists {
		return Message{}, false
	}
	return box.peekSenderOnce(sender, blocking)
}

// SendAndWaitReply sends a Request to receiver, then waits on sender's own
// mailbox for a message whose sender is receiver, within timeout. Returns
// ok=false on timeout; the original request is never retracted from
// receiver's mailbox.
func (m *Manager) SendAndWaitReply(sender, receiver TaskID, payload []byte, timeout time.Duration) (Message, bool) {
	senderBox, exists := m.lookup(sender)
	if !exists {
		return Message{}, false
	}

	if m.SendMessage(sender, receiver, Request, payload, true) == InvalidMessageID {
		return Message{}, false
	}

	deadline := time.Now().Add(timeout)
	return senderBox.waitForSenderMatch(receiver, deadline)
}

// HasMessages reports whether task's mailbox is non-empty.
func (m *Manager) HasMessages(task TaskID) bool {
	box, exists := m.lookup(task)
	if !exists {
		return false
	}
	return box.len() > 0
}

// GetMessageCount returns the number of queued messages for task.
func (m *Manager) GetMessageCount(task TaskID) int {
	box, exists := m.lookup(task)
	if !exists {
		return 0
	}
	return box.len()
}
