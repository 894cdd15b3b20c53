package eventbus

import "sync"

// Latest is a publish/subscribe bus for snapshots of type T. Each
// subscriber holds at most one pending value: publishing replaces a value
// the subscriber has not read yet, so a slow reader only ever sees the most
// recent snapshot. New subscribers receive the current snapshot, if any.
type Latest[T any] struct {
	mu     sync.Mutex
	subs   []chan T
	last   T
	has    bool
	closed bool
}

// NewLatest creates an empty bus.
func NewLatest[T any]() *Latest[T] { return &Latest[T]{} }

// Publish stores v and delivers it to every subscriber without blocking.
func (b *Latest[T]) Publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.last, b.has = v, true
	for _, ch := range b.subs {
		replace(ch, v)
	}
}

func replace[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}

// Last returns the most recent snapshot.
func (b *Latest[T]) Last() (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last, b.has
}

// Reset forgets the current snapshot and drops values subscribers have not
// read yet, so the next subscriber starts empty.
func (b *Latest[T]) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	var zero T
	b.last, b.has = zero, false
	for _, ch := range b.subs {
		select {
		case <-ch:
		default:
		}
	}
}

// Subscribe registers a subscriber and returns its channel.
func (b *Latest[T]) Subscribe() <-chan T {
	ch := make(chan T, 1)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	if b.has {
		ch <- b.last
	}
	b.subs = append(b.subs, ch)
	return ch
}

// Unsubscribe removes the subscriber and closes its channel.
func (b *Latest[T]) Unsubscribe(sub <-chan T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, ch := range b.subs {
		if ch == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			close(ch)
			return
		}
	}
}

// Close closes the bus and all subscriber channels. Buffered snapshots can
// still be drained.
func (b *Latest[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}
