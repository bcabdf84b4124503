// Package signal provides a small typed publish/subscribe primitive. Listeners
// run synchronously on the emitting goroutine, in registration order, and are
// released through the Subscription handle returned by Subscribe.
package signal

import "sync"

// Listener receives values emitted on a Signal.
type Listener[T any] func(T)

type entry[T any] struct {
	id uint64
	fn Listener[T]
}

// Signal fans out values to registered listeners.
type Signal[T any] struct {
	mu        sync.Mutex
	next      uint64
	listeners []entry[T]
}

// New constructs an empty Signal.
func New[T any]() *Signal[T] {
	return &Signal[T]{}
}

// Subscribe registers fn and returns the handle that releases it. A nil fn
// yields an inert subscription.
func (s *Signal[T]) Subscribe(fn Listener[T]) *Subscription {
	if s == nil || fn == nil {
		return &Subscription{}
	}
	s.mu.Lock()
	s.next++
	id := s.next
	s.listeners = append(s.listeners, entry[T]{id: id, fn: fn})
	s.mu.Unlock()
	return &Subscription{cancel: func() { s.remove(id) }}
}

// Emit delivers value to every listener registered at the time of the call.
// Listeners may subscribe or unsubscribe while being notified; changes apply
// to the next emission.
func (s *Signal[T]) Emit(value T) {
	if s == nil {
		return
	}
	s.mu.Lock()
	snapshot := make([]entry[T], len(s.listeners))
	copy(snapshot, s.listeners)
	s.mu.Unlock()
	for _, l := range snapshot {
		l.fn(value)
	}
}

// Len reports the number of live listeners.
func (s *Signal[T]) Len() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

func (s *Signal[T]) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.listeners {
		if l.id == id {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

// Subscription releases a listener. Close is idempotent and safe on nil.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Close deregisters the listener.
func (s *Subscription) Close() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}

// Group collects subscriptions owned by one component so they can be released
// together.
type Group struct {
	mu   sync.Mutex
	subs []*Subscription
}

// Add appends subscriptions to the group; nil entries are dropped.
func (g *Group) Add(subs ...*Subscription) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, sub := range subs {
		if sub != nil {
			g.subs = append(g.subs, sub)
		}
	}
}

// Len reports the number of held subscriptions.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.subs)
}

// Close releases every held subscription and empties the group.
func (g *Group) Close() {
	g.mu.Lock()
	subs := g.subs
	g.subs = nil
	g.mu.Unlock()
	for _, sub := range subs {
		sub.Close()
	}
}
