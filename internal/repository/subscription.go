package repository

import "sync"

// Snapshot is one delivery on a subscription: the full contents of a
// collection for the subscribed household, plus whether any locally queued
// write against the store is still unconfirmed. Consumers render the
// PendingWrites flag as a "syncing" indicator.
type Snapshot[T any] struct {
	Items         []T
	PendingWrites bool
}

// Subscription is an explicit change-feed handle. The store delivers an
// initial snapshot followed by one snapshot per observed change. Close
// releases the feed; Updates is closed afterwards.
type Subscription[T any] struct {
	updates chan Snapshot[T]
	stop    func()
	once    sync.Once
}

// NewSubscription builds a handle whose lifecycle ends by calling stop.
// Store implementations push snapshots with Publish. stop must not return
// until no further Publish can occur; the channel is closed right after.
func NewSubscription[T any](stop func()) *Subscription[T] {
	return &Subscription[T]{
		updates: make(chan Snapshot[T], 8),
		stop:    stop,
	}
}

// Updates yields snapshots until the subscription is closed.
func (s *Subscription[T]) Updates() <-chan Snapshot[T] {
	return s.updates
}

// Publish delivers a snapshot without blocking the store: when the consumer
// lags, the oldest buffered snapshot is dropped in favour of the newer one.
func (s *Subscription[T]) Publish(snap Snapshot[T]) {
	for {
		select {
		case s.updates <- snap:
			return
		default:
			select {
			case <-s.updates:
			default:
			}
		}
	}
}

// Close cancels the feed and closes the updates channel. Safe to call more
// than once.
func (s *Subscription[T]) Close() {
	s.once.Do(func() {
		if s.stop != nil {
			s.stop()
		}
		close(s.updates)
	})
}
