// Package pubsub is an in-process fan-out of typed events.
//
// Events reach only the subscriptions that are live when Publish is called;
// nothing is replayed. Every subscription owns a bounded buffer. When a slow
// subscriber's buffer is full the oldest queued event is discarded to make
// room, so publishers never block on a reader.
package pubsub

import (
	"sync"
	"sync/atomic"
)

const DefaultBufferSize = 64

// Filter decides per subscription whether an event is delivered.
type Filter[T any] func(event T) bool

type Broker[T any] struct {
	lock       sync.RWMutex
	subs       map[uint64]*Subscription[T]
	nextID     uint64
	bufferSize int
	onDrop     func()
}

func NewBroker[T any](bufferSize int) *Broker[T] {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Broker[T]{
		subs:       make(map[uint64]*Subscription[T]),
		bufferSize: bufferSize,
	}
}

// OnDrop registers a callback invoked every time an event is discarded
// from a full subscription buffer. Set it before the broker is shared.
func (b *Broker[T]) OnDrop(fn func()) {
	b.onDrop = fn
}

// Subscribe registers a new subscription. A nil filter accepts everything.
func (b *Broker[T]) Subscribe(filter Filter[T]) *Subscription[T] {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.nextID++
	sub := &Subscription[T]{
		id:     b.nextID,
		broker: b,
		filter: filter,
		ch:     make(chan T, b.bufferSize),
	}
	b.subs[sub.id] = sub
	return sub
}

// Publish delivers the event to every matching live subscription and
// returns how many subscriptions accepted it.
func (b *Broker[T]) Publish(event T) int {
	b.lock.RLock()
	defer b.lock.RUnlock()
	delivered := 0
	for _, sub := range b.subs {
		if sub.filter != nil && !sub.filter(event) {
			continue
		}
		if sub.deliver(event) && b.onDrop != nil {
			b.onDrop()
		}
		delivered++
	}
	return delivered
}

func (b *Broker[T]) Subscribers() int {
	b.lock.RLock()
	defer b.lock.RUnlock()
	return len(b.subs)
}

func (b *Broker[T]) remove(id uint64) {
	b.lock.Lock()
	defer b.lock.Unlock()
	delete(b.subs, id)
}

type Subscription[T any] struct {
	id      uint64
	broker  *Broker[T]
	filter  Filter[T]
	ch      chan T
	lock    sync.Mutex
	closed  bool
	dropped atomic.Uint64
}

// C is closed after Close returns.
func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

// Dropped is the number of events discarded for this subscription.
func (s *Subscription[T]) Dropped() uint64 {
	return s.dropped.Load()
}

func (s *Subscription[T]) Close() {
	s.broker.remove(s.id)
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}

// deliver enqueues the event, evicting the oldest entries while the buffer
// is full. It reports whether anything was evicted.
func (s *Subscription[T]) deliver(event T) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return false
	}
	dropped := false
	for {
		select {
		case s.ch <- event:
			return dropped
		default:
		}
		select {
		case <-s.ch:
			dropped = true
			s.dropped.Add(1)
		default:
		}
	}
}
