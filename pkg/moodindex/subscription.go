package moodindex

import (
	"context"
	"sync"

	"tableflip.dev/moodlog/pkg/logging"
	"tableflip.dev/moodlog/pkg/store"
)

// Subscription is the live change feed bound to a Cache. It must be closed
// when its owner goes away; Close is safe to call more than once.
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Subscribe starts applying the source's change stream to the cache. onApply,
// when set, runs after each change is applied. Failure to establish the
// stream is returned; a stream that ends later is only logged.
func (c *Cache) Subscribe(ctx context.Context, onApply func(store.Change)) (*Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)
	ch, err := c.src.Watch(ctx)
	if err != nil {
		cancel()
		logging.Warn("moodindex: subscribe failed", "err", err)
		return nil, err
	}
	s := &Subscription{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(s.done)
		for {
			select {
			case <-ctx.Done():
				return
			case change, ok := <-ch:
				if !ok {
					if ctx.Err() == nil {
						logging.Warn("moodindex: change stream ended")
					}
					return
				}
				c.Apply(change)
				if onApply != nil {
					onApply(change)
				}
			}
		}
	}()
	return s, nil
}

// Done is closed once the subscription stops delivering.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Close stops delivery and waits for the feed goroutine to exit.
func (s *Subscription) Close() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
}

// Run hydrates the cache, then applies changes until ctx is done. It is the
// blocking form used by the CLI.
func (c *Cache) Run(ctx context.Context, onApply func(store.Change)) error {
	sub, err := c.Subscribe(ctx, onApply)
	if err != nil {
		return err
	}
	defer sub.Close()
	if err := c.Hydrate(ctx); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
	case <-sub.Done():
	}
	return nil
}
