package ipc

import (
	"sync"
	"time"
)

// mailbox is one task's FIFO message queue. Its mutex doubles as the
// locker for its own condition variable, so blocking receivers park on
// cond.Wait() instead of busy-polling the queue.
type mailbox struct {
	owner TaskID
	mu    sync.Mutex
	cond  *sync.Cond
	queue []Message
}

func newMailbox(owner TaskID) *mailbox {
	b := &mailbox{owner: owner}
	b.cond = sync.NewCond(&b.mu)
	return b
}

func (b *mailbox) enqueue(msg Message) {
	b.mu.Lock()
	b.queue = append(b.queue, msg)
	b.mu.Unlock()
	b.cond.Broadcast()
}

func (b *mailbox) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// dequeueMatch returns the first queued message for which match returns
// true, removing it. If none match and blocking is false, it returns
// immediately. If blocking is true, it parks on the mailbox's condition
// variable until a match arrives or deadline passes (zero deadline means
// wait indefinitely).
func (b *mailbox) dequeueMatch(match func(Message) bool, blocking bool, deadline time.Time) (Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for {
		if idx := indexOfMatch(b.queue, match); idx >= 0 {
			msg := b.queue[idx]
			b.queue = append(b.queue[:idx], b.queue[idx+1:]...)
			return msg, true
		}

		if !blocking {
			return Message{}, false
		}

		if deadline.IsZero() {
			b.cond.Wait()
			continue
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return Message{}, false
		}

		timer := time.AfterFunc(remaining, func() {
			b.mu.Lock()
			b.cond.Broadcast()
			b.mu.Unlock()
		})
		b.cond.Wait()
		timer.Stop()
	}
}

func indexOfMatch(queue []Message, match func(Message) bool) int {
	for i, msg := range queue {
		if match(msg) {
			return i
		}
	}
	return -1
}

// peekSenderOnce implements receiveMessageFrom: it looks only at the head
// of the queue. If blocking is true and the mailbox is empty, it parks
// until a message arrives; once a head exists, it checks it exactly once.
// A non-matching head is left in place (non-destructive).
func (b *mailbox) peekSenderOnce(sender TaskID, blocking bool) (Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for len(b.queue) == 0 {
		if !blocking {
			return Message{}, false
		}
		b.cond.Wait()
	}

	if b.queue[0].Sender != sender {
		return Message{}, false
	}
	msg := b.queue[0]
	b.queue = b.queue[1:]
	return msg, true
}

// waitForSenderMatch re-checks the head of the queue every time a new
// message is enqueued, until one sent by sender arrives at the head or
// deadline passes. This is the event-driven replacement for
// sendAndWaitReply's short-interval polling: the caller is woken by the
// enqueue path instead of sleeping and re-checking on a timer.
func (b *mailbox) waitForSenderMatch(sender TaskID, deadline time.Time) (Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	timer := time.AfterFunc(time.Until(deadline), func() {
		b.mu.Lock()
		b.cond.Broadcast()
		b.mu.Unlock()
	})
	defer timer.Stop()

	for {
		if len(b.queue) > 0 && b.queue[0].Sender == sender {
			msg := b.queue[0]
			b.queue = b.queue[1:]
			return msg, true
		}
		if !time.Now().Before(deadline) {
			return Message{}, false
		}
		b.cond.Wait()
	}
}
