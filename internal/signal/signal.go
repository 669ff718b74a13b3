// internal/signal/signal.go
package signal

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Hub is an in-process fan-out channel for values of type T. Publishers never
// block: a subscriber whose buffer is full misses the value, which is logged
// and counted against it. Subscribers own their lifecycle through the cancel
// function returned by Subscribe and must never publish back into the hub.
type Hub[T any] struct {
	mu     sync.Mutex
	subs   map[int]chan T
	nextID int
	logger *logrus.Logger
}

// NewHub creates a hub with no subscribers
func NewHub[T any](logger *logrus.Logger) *Hub[T] {
	return &Hub[T]{
		subs:   make(map[int]chan T),
		logger: logger,
	}
}

// Subscribe registers a subscriber and returns its channel along with a cancel
// function. Cancel is idempotent and closes the channel.
func (h *Hub[T]) Subscribe(buffer int) (<-chan T, func()) {
	return h.subscribe(buffer)
}

func (h *Hub[T]) subscribe(buffer int) (chan T, func()) {
	if buffer < 1 {
		buffer = 1
	}

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	ch := make(chan T, buffer)
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers v to every current subscriber without blocking
func (h *Hub[T]) Publish(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.subs {
		select {
		case ch <- v:
		default:
			if h.logger != nil {
				h.logger.WithField("subscriber", id).
					Warn("signal dropped for slow subscriber")
			}
		}
	}
}

// Len returns the number of active subscribers
func (h *Hub[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Value is a Hub that also retains the latest published value. New subscribers
// receive the current value immediately, then every update.
type Value[T any] struct {
	mu      sync.Mutex
	current T
	hub     *Hub[T]
}

// NewValue creates a Value holding initial
func NewValue[T any](initial T, logger *logrus.Logger) *Value[T] {
	return &Value[T]{
		current: initial,
		hub:     NewHub[T](logger),
	}
}

// Get returns the current value
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set stores val as the current value and publishes it
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	v.current = val
	v.mu.Unlock()

	v.hub.Publish(val)
}

// Watch subscribes to the value. The current value is delivered first.
func (v *Value[T]) Watch(buffer int) (<-chan T, func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	ch, cancel := v.hub.subscribe(buffer + 1)
	// Safe: the buffer has a free slot and Set cannot interleave while v.mu is
	// held, so the current value is always first on the channel.
	ch <- v.current
	return ch, cancel
}
