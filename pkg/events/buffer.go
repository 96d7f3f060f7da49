package events

// Buffer holds the events an aggregate raised since it was last drained.
// The zero value is ready to use. A Buffer is not safe for concurrent use.
type Buffer struct {
	pending []DomainEvent
}

// Add queues events in the order they were raised.
func (b *Buffer) Add(evts ...DomainEvent) {
	b.pending = append(b.pending, evts...)
}

// Len reports how many events are waiting.
func (b *Buffer) Len() int {
	return len(b.pending)
}

// Drain hands over the queued events and empties the buffer. It returns nil
// when nothing is queued.
func (b *Buffer) Drain() []DomainEvent {
	if len(b.pending) == 0 {
		return nil
	}
	out := b.pending
	b.pending = nil
	return out
}
