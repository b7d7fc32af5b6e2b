package ipc

import "time"

// TaskID identifies a mailbox owner. Kept as a plain uint32, not the
// scheduler's TaskId, so this package stays decoupled from scheduler.
type TaskID = uint32

// NoTask is the invalid/unregistered task id.
const NoTask TaskID = 0

// InvalidMessageID is returned by send operations that fail, such as
// sending to an unregistered receiver.
const InvalidMessageID uint64 = 0

// MaxPayloadBytes is the largest payload a message may carry. Payloads
// beyond this size are silently dropped; the message still gets an id.
const MaxPayloadBytes = 4096

// MessageType classifies the purpose of a Message.
type MessageType int

const (
	Data MessageType = iota
	Signal
	Request
	Response
	Notification
)

// Message is one entry in a task's mailbox.
type Message struct {
	ID        uint64
	Sender    TaskID
	Receiver  TaskID
	Type      MessageType
	Payload   []byte
	Timestamp time.Time
	Blocking  bool
}
