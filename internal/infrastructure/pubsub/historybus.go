// Package pubsub provides the history-update bus: a pure invalidation
// signal that tells incident-history consumers to re-fetch, plus an
// optional Redis relay for cross-instance delivery.
package pubsub

import (
	"fmt"
	"runtime/debug"
	"sync"

	"safyra/internal/shared/logger"
)

// HistoryBus decouples "something changed locally" producers from
// "should refresh" consumers. Publish carries no payload; subscribers
// re-fetch state themselves.
type HistoryBus interface {
	// Subscribe registers a callback and returns its unsubscribe function.
	Subscribe(fn func()) (unsubscribe func())
	// Publish invokes every subscribed callback synchronously, in
	// subscription order. A panic in one callback must not prevent the
	// remaining callbacks from running.
	Publish()
}

type subscriber struct {
	token uint64
	fn    func()
}

// LocalHistoryBus is the in-process HistoryBus implementation.
type LocalHistoryBus struct {
	logger      logger.Interface
	mu          sync.Mutex
	subscribers []subscriber
	nextToken   uint64
}

func NewLocalHistoryBus(log logger.Interface) *LocalHistoryBus {
	return &LocalHistoryBus{logger: log}
}

// Subscribe registers fn. The returned unsubscribe function is idempotent.
func (b *LocalHistoryBus) Subscribe(fn func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextToken++
	token := b.nextToken
	b.subscribers = append(b.subscribers, subscriber{token: token, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, sub := range b.subscribers {
			if sub.token == token {
				b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Publish notifies all current subscribers in subscription order. The
// subscriber snapshot is taken under the lock so callbacks may subscribe
// or unsubscribe without deadlocking.
func (b *LocalHistoryBus) Publish() {
	b.mu.Lock()
	snapshot := make([]subscriber, len(b.subscribers))
	copy(snapshot, b.subscribers)
	b.mu.Unlock()

	b.logger.Debugw("publishing history update", "subscribers", len(snapshot))

	for _, sub := range snapshot {
		b.invoke(sub)
	}
}

func (b *LocalHistoryBus) invoke(sub subscriber) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Errorw("history update subscriber panicked",
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	sub.fn()
}
