package pose

import "sync/atomic"

// Mailbox is a single-slot handoff between the capture loop and the
// broadcast loop. Writes replace the held snapshot (last write wins, no
// queue); reads peek without consuming, so consecutive ticks may observe
// the same snapshot when the producer is slower than the broadcaster.
//
// Snapshots are immutable after Put, so swapping the pointer is enough to
// guarantee readers never observe a half-written value. One writer, any
// number of readers.
type Mailbox struct {
	slot atomic.Pointer[Snapshot]
}

// NewMailbox creates an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{}
}

// Put replaces the held snapshot. Never blocks; an unread previous value
// is discarded.
func (m *Mailbox) Put(s *Snapshot) {
	m.slot.Store(s)
}

// Peek returns the most recently put snapshot, or nil if nothing has been
// produced yet. The value is not consumed.
func (m *Mailbox) Peek() *Snapshot {
	return m.slot.Load()
}
