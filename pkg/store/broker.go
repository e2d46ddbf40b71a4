package store

import (
	"context"
	"sync"
)

// Broadcaster fans Changes out to Watch subscribers for backends that learn
// about their own mutations in-process.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[chan Change]struct{}
	closed bool
}

// NewBroadcaster returns an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[chan Change]struct{})}
}

// Subscribe returns a channel fed until ctx is done or the broadcaster closes.
func (b *Broadcaster) Subscribe(ctx context.Context) <-chan Change {
	ch := make(chan Change, 64)
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch
	}
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}()
	return ch
}

// Publish delivers c to every subscriber with room for it.
func (b *Broadcaster) Publish(c Change) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- c:
		default:
		}
	}
}

// Close ends every subscription.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}
