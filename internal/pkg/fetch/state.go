// Package fetch holds the data-fetching state machines used by the hub: a
// one-shot Query, an interval Poller and an imperative Mutation. Each tracks
// {data, loading, error} for the most recent attempt.
package fetch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Func fetches a value. It is called with the context of the triggering operation.
type Func[T any] func(ctx context.Context) (T, error)

// State is a point-in-time snapshot of a fetcher
type State[T any] struct {
	Data      *T        `json:"data"`
	Loading   bool      `json:"loading"`
	Error     string    `json:"error,omitempty"`
	Err       error     `json:"-"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

func (s State[T]) HasData() bool  { return s.Data != nil }
func (s State[T]) HasError() bool { return s.Error != "" }

// Callbacks are invoked after a settled attempt has been recorded
type Callbacks[T any] struct {
	OnSuccess func(T)
	OnError   func(error)
}

// callbackCell always hands out the most recently stored callbacks, so
// swapping them never restarts whatever is driving the fetch.
type callbackCell[T any] struct {
	v atomic.Pointer[Callbacks[T]]
}

func (c *callbackCell[T]) store(cb Callbacks[T]) {
	c.v.Store(&cb)
}

func (c *callbackCell[T]) success(v T) {
	if cb := c.v.Load(); cb != nil && cb.OnSuccess != nil {
		cb.OnSuccess(v)
	}
}

func (c *callbackCell[T]) failure(err error) {
	if cb := c.v.Load(); cb != nil && cb.OnError != nil {
		cb.OnError(err)
	}
}

// settleMode decides what an error does to previously held data
type settleMode int

const (
	dropDataOnError settleMode = iota
	keepDataOnError
)

// machine is the state shared by Query, Poller and Mutation. Every attempt
// takes a generation number; only the newest generation may settle, so a slow
// response can never overwrite the result of an attempt started after it.
type machine[T any] struct {
	mu        sync.Mutex
	state     State[T]
	gen       uint64
	callbacks callbackCell[T]

	listenerMu sync.Mutex
	listeners  map[uint64]func(State[T])
	nextID     uint64

	now func() time.Time
}

func (m *machine[T]) init(initial *T, cb Callbacks[T]) {
	m.state = State[T]{Data: initial}
	m.callbacks.store(cb)
	m.listeners = make(map[uint64]func(State[T]))
	m.now = time.Now
}

// State returns the current snapshot
func (m *machine[T]) State() State[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SetCallbacks replaces the success/failure callbacks. The new callbacks are
// seen by every attempt that settles afterwards, including in-flight ones.
func (m *machine[T]) SetCallbacks(onSuccess func(T), onError func(error)) {
	m.callbacks.store(Callbacks[T]{OnSuccess: onSuccess, OnError: onError})
}

// Subscribe registers fn to be called with every new state. The returned
// function removes the listener.
func (m *machine[T]) Subscribe(fn func(State[T])) func() {
	m.listenerMu.Lock()
	defer m.listenerMu.Unlock()

	id := m.nextID
	m.nextID++
	m.listeners[id] = fn

	return func() {
		m.listenerMu.Lock()
		defer m.listenerMu.Unlock()
		delete(m.listeners, id)
	}
}

func (m *machine[T]) notify(s State[T]) {
	m.listenerMu.Lock()
	fns := make([]func(State[T]), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.listenerMu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

// begin starts a new generation
func (m *machine[T]) begin(setLoading, clearError bool) uint64 {
	m.mu.Lock()
	m.gen++
	gen := m.gen
	if setLoading {
		m.state.Loading = true
	}
	if clearError {
		m.state.Error = ""
		m.state.Err = nil
	}
	s := m.state
	m.mu.Unlock()

	m.notify(s)
	return gen
}

// settle records the outcome of generation gen. It reports false, and changes
// nothing, when a newer attempt has started since.
func (m *machine[T]) settle(gen uint64, v T, err error, mode settleMode) bool {
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return false
	}

	m.state.Loading = false
	m.state.UpdatedAt = m.now()
	if err != nil {
		m.state.Error = errorMessage(err)
		m.state.Err = err
		if mode == dropDataOnError {
			m.state.Data = nil
		}
	} else {
		m.state.Data = &v
		m.state.Error = ""
		m.state.Err = nil
	}
	s := m.state
	m.mu.Unlock()

	m.notify(s)

	if err != nil {
		m.callbacks.failure(err)
	} else {
		m.callbacks.success(v)
	}
	return true
}

// abandon ends generation gen without an outcome
func (m *machine[T]) abandon(gen uint64) {
	m.mu.Lock()
	if gen != m.gen || !m.state.Loading {
		m.mu.Unlock()
		return
	}
	m.state.Loading = false
	s := m.state
	m.mu.Unlock()

	m.notify(s)
}

func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "An error occurred"
}

// FromPointer adapts a fetcher that returns a pointer. A nil result becomes
// the zero value of T.
func FromPointer[T any](fn func(ctx context.Context) (*T, error)) Func[T] {
	return func(ctx context.Context) (T, error) {
		var zero T
		v, err := fn(ctx)
		if err != nil || v == nil {
			return zero, err
		}
		return *v, nil
	}
}
