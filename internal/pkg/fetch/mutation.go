package fetch

import "context"

// MutationFunc performs a write with caller-supplied arguments
type MutationFunc[A, T any] func(ctx context.Context, args A) (T, error)

type MutationOptions[T any] struct {
	OnSuccess func(T)
	OnError   func(error)
}

// Mutation stays idle until Mutate is called. Failures are recorded and then
// returned so callers can chain follow-up work such as a refetch.
type Mutation[A, T any] struct {
	machine[T]
	fn MutationFunc[A, T]
}

func NewMutation[A, T any](fn MutationFunc[A, T], opts MutationOptions[T]) *Mutation[A, T] {
	m := &Mutation[A, T]{fn: fn}
	m.init(nil, Callbacks[T]{OnSuccess: opts.OnSuccess, OnError: opts.OnError})
	return m
}

// Mutate runs the mutation. On failure the previous data is left untouched.
func (m *Mutation[A, T]) Mutate(ctx context.Context, args A) (T, error) {
	gen := m.begin(true, true)
	v, err := m.fn(ctx, args)
	m.settle(gen, v, err, keepDataOnError)
	return v, err
}
