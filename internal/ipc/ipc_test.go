package ipc

import (
	"testing"
	"time"
)

func TestFIFOOrdering(t *testing.T) {
	m := New()
	m.RegisterTask(1)
	m.RegisterTask(2)

	m.SendAsync(1, 2, Data, []byte("first"))
	m.SendAsync(1, 2, Signal, []byte("second"))
	m.SendAsync(1, 2, Request, []byte("third"))

	if got := m.GetMessageCount(2); got != 3 {
		t.Fatalf("expected 3 queued, got %d", got)
	}

	first, ok := m.ReceiveMessage(2, false)
	if !ok || first.Type != Data || string(first.Payload) != "first" {
		t.Fatalf("expected Data/first, got %v %q ok=%v", first.Type, first.Payload, ok)
	}

	second, ok := m.ReceiveMessage(2, false)
	if !ok || second.Type != Signal || string(second.Payload) != "second" {
		t.Fatalf("expected Signal/second, got %v %q ok=%v", second.Type, second.Payload, ok)
	}

	third, ok := m.ReceiveMessage(2, false)
	if !ok || third.Type != Request || string(third.Payload) != "third" {
		t.Fatalf("expected Request/third, got %v %q ok=%v", third.Type, third.Payload, ok)
	}

	if m.HasMessages(2) {
		t.Fatal("expected mailbox drained")
	}
}

func TestReceiveMessageFromPeeksHeadOnly(t *testing.T) {
	m := New()
	m.RegisterTask(1)
	m.RegisterTask(2)
	m.RegisterTask(3)

	m.SendAsync(1, 2, Data, []byte("from-1"))
	m.SendAsync(3, 2, Data, []byte("from-3"))

	if _, ok := m.ReceiveMessageFrom(2, 3, false); ok {
		t.Fatal("expected no match: head was sent by 1, not 3")
	}
	if got := m.GetMessageCount(2); got != 2 {
		t.Fatalf("expected non-matching peek to leave the queue untouched, got %d", got)
	}

	msg, ok := m.ReceiveMessageFrom(2, 1, false)
	if !ok || string(msg.Payload) != "from-1" {
		t.Fatalf("expected from-1 to match the head, got %q ok=%v", msg.Payload, ok)
	}
	if got := m.GetMessageCount(2); got != 1 {
		t.Fatalf("expected one message dequeued, got %d", got)
	}
}

func TestSendToUnregisteredReceiverFails(t *testing.T) {
	m := New()
	m.RegisterTask(1)

	id := m.SendAsync(1, 99, Data, []byte("hi"))
	if id != InvalidMessageID {
		t.Fatalf("expected InvalidMessageID, got %d", id)
	}
}

func TestOversizedPayloadStillGetsAnID(t *testing.T) {
	m := New()
	m.RegisterTask(1)
	m.RegisterTask(2)

	huge := make([]byte, MaxPayloadBytes+1)
	id := m.SendAsync(1, 2, Data, huge)
	if id == InvalidMessageID {
		t.Fatal("expected oversized payload to still be assigned an id")
	}

	msg, ok := m.ReceiveMessage(2, false)
	if !ok {
		t.Fatal("expected message to be received")
	}
	if msg.Payload != nil {
		t.Fatalf("expected payload dropped, got %d bytes", len(msg.Payload))
	}
}

func TestSendAndWaitReplySucceeds(t *testing.T) {
	m := New()
	m.RegisterTask(1)
	m.RegisterTask(2)

	done := make(chan struct{})
	go func() {
		defer close(done)
		req, ok := m.ReceiveMessage(2, true)
		if !ok {
			t.Error("server did not receive request")
			return
		}
		if req.Type != Request {
			t.Errorf("expected Request type, got %v", req.Type)
		}
		m.SendReply(2, 1, []byte("pong"))
	}()

	reply, ok := m.SendAndWaitReply(1, 2, []byte("ping"), time.Second)
	<-done

	if !ok {
		t.Fatal("expected reply before timeout")
	}
	if string(reply.Payload) != "pong" {
		t.Fatalf("expected pong, got %q", reply.Payload)
	}
}

// TestSendAndWaitReplyTimesOut implements the request/reply timeout
// scenario: nobody ever answers, so the call must return within its
// deadline instead of blocking forever, and the request stays delivered.
func TestSendAndWaitReplyTimesOut(t *testing.T) {
	m := New()
	m.RegisterTask(1)
	m.RegisterTask(2)

	start := time.Now()
	_, ok := m.SendAndWaitReply(1, 2, []byte("ping"), 50*time.Millisecond)
	elapsed := time.Since(start)

	if ok {
		t.Fatal("expected timeout, got a reply")
	}
	if elapsed > time.Second {
		t.Fatalf("expected prompt timeout, took %v", elapsed)
	}

	if got := m.GetMessageCount(2); got != 1 {
		t.Fatalf("expected the original request to remain delivered, got %d queued", got)
	}
}

func TestReceiveNonBlockingOnEmptyMailboxReturnsFalse(t *testing.T) {
	m := New()
	m.RegisterTask(1)

	_, ok := m.ReceiveMessage(1, false)
	if ok {
		t.Fatal("expected no message available")
	}
}

func TestUnregisterTaskDropsMailbox(t *testing.T) {
	m := New()
	m.RegisterTask(1)
	if !m.UnregisterTask(1) {
		t.Fatal("expected unregister to succeed")
	}
	if m.UnregisterTask(1) {
		t.Fatal("expected second unregister to fail")
	}
	if m.HasMessages(1) {
		t.Fatal("expected no mailbox after unregister")
	}
}
