package booking

import (
	"context"
	"sync"
)

// SlotLocker serializes capacity accounting per slot id. Reservation checks
// and cancellation releases on the same slot run under the same lock;
// different slots never contend.
type SlotLocker interface {
	// Acquire blocks until the slot's accounting unit is held or ctx expires.
	// The returned release function must be called exactly once.
	Acquire(ctx context.Context, slotID string) (release func(), err error)
}

type slotEntry struct {
	sem  chan struct{}
	refs int
}

// KeyedSlotLocker is the in-process SlotLocker: one semaphore per slot id,
// entries dropped once the last waiter leaves.
type KeyedSlotLocker struct {
	mu    sync.Mutex
	slots map[string]*slotEntry
}

// NewKeyedSlotLocker constructs an empty locker.
func NewKeyedSlotLocker() *KeyedSlotLocker {
	return &KeyedSlotLocker{slots: make(map[string]*slotEntry)}
}

func (l *KeyedSlotLocker) Acquire(ctx context.Context, slotID string) (func(), error) {
	l.mu.Lock()
	entry, ok := l.slots[slotID]
	if !ok {
		entry = &slotEntry{sem: make(chan struct{}, 1)}
		l.slots[slotID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	select {
	case entry.sem <- struct{}{}:
		return func() {
			<-entry.sem
			l.drop(slotID, entry)
		}, nil
	case <-ctx.Done():
		l.drop(slotID, entry)
		return nil, errContentionTimeout(slotID)
	}
}

func (l *KeyedSlotLocker) drop(slotID string, entry *slotEntry) {
	l.mu.Lock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.slots, slotID)
	}
	l.mu.Unlock()
}
