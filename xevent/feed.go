// Package xevent adapts go-ethereum's event.Feed/Subscription mechanism
// (github.com/ethereum/go-ethereum/event, exercised via the `txFeed`,
// `logsFeed`, `chainFeed` fields of eth/filters.TestBackend) to a single
// generic type. Fan-out to every live subscriber is kept, but Send never
// blocks: a full subscriber channel drops the value (see Send). The
// reflect-based case-select loop the original
// needs to support heterogeneous channel types is replaced by a type
// parameter, since every feed in this router carries exactly one event type.
package xevent

import "sync"

// Feed fans out values of type T to every live Subscription. It is a
// standalone utility: the router, its lifecycle hooks and the HRMP registry
// do not publish to any Feed, and no router invariant depends on one.
type Feed[T any] struct {
	mu   sync.Mutex
	subs map[*Subscription[T]]struct{}
}

// Subscription is a single feed listener; Unsubscribe stops delivery and
// closes C.
type Subscription[T any] struct {
	feed *Feed[T]
	C    chan T
	once sync.Once
}

// Subscribe registers a new subscriber with the given channel buffer size.
func (f *Feed[T]) Subscribe(buffer int) *Subscription[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subs == nil {
		f.subs = make(map[*Subscription[T]]struct{})
	}
	sub := &Subscription[T]{feed: f, C: make(chan T, buffer)}
	f.subs[sub] = struct{}{}
	return sub
}

// Unsubscribe removes the subscription and closes its channel. Safe to call
// more than once.
func (s *Subscription[T]) Unsubscribe() {
	s.once.Do(func() {
		s.feed.mu.Lock()
		delete(s.feed.subs, s)
		s.feed.mu.Unlock()
		close(s.C)
	})
}

// Send delivers value to every current subscriber, non-blocking: a
// subscriber whose channel is full does not block or stall the others. This
// mirrors go-ethereum's event.Feed.Send, which blocks per-subscriber by
// design; this router instead drops on a full channel, since feed delivery
// here is diagnostic, never load-bearing for correctness (the router's own
// state transitions never depend on a feed being drained).
func (f *Feed[T]) Send(value T) (delivered int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for sub := range f.subs {
		select {
		case sub.C <- value:
			delivered++
		default:
		}
	}
	return delivered
}
