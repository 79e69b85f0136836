package fetch

import (
	"context"
	"sync/atomic"
)

type QueryOptions[T any] struct {
	// Lazy suppresses the fetch on activation; only Refetch triggers it
	Lazy        bool
	InitialData *T
	OnSuccess   func(T)
	OnError     func(error)
}

// Query fetches once on activation and again on every Refetch
type Query[T any] struct {
	machine[T]
	fn        Func[T]
	lazy      bool
	activated atomic.Bool
}

func NewQuery[T any](fn Func[T], opts QueryOptions[T]) *Query[T] {
	q := &Query[T]{fn: fn, lazy: opts.Lazy}
	q.init(opts.InitialData, Callbacks[T]{OnSuccess: opts.OnSuccess, OnError: opts.OnError})
	return q
}

// Activate performs the initial fetch unless the query is lazy. Only the
// first call has any effect.
func (q *Query[T]) Activate(ctx context.Context) State[T] {
	if !q.activated.CompareAndSwap(false, true) || q.lazy {
		return q.State()
	}
	return q.Refetch(ctx)
}

// Refetch re-enters loading, clears the previous error and runs the fetch.
// An error settles with no data.
func (q *Query[T]) Refetch(ctx context.Context) State[T] {
	gen := q.begin(true, true)
	v, err := q.fn(ctx)
	q.settle(gen, v, err, dropDataOnError)
	return q.State()
}
