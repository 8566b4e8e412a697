package paginator

import (
	"context"

	"github.com/hadi77ir/go-relay/relay"
)

// Paginator is the interface that all relation paginators must implement
type Paginator[O any, T any] interface {
	// Paginate fetches the relation owned by owner and returns the window selected by args
	// Example: conn, err := comments.Paginate(ctx, cvID, relay.Forward(10, ""))
	Paginate(ctx context.Context, owner O, args relay.Args) (*relay.Connection[T], error)

	// Name returns the name of the relation
	Name() string
}

// Func adapts a function to the Paginator interface
type Func[O any, T any] struct {
	name string
	fn   func(ctx context.Context, owner O, args relay.Args) (*relay.Connection[T], error)
}

// NewFunc creates a named Paginator from fn
func NewFunc[O any, T any](name string, fn func(ctx context.Context, owner O, args relay.Args) (*relay.Connection[T], error)) *Func[O, T] {
	return &Func[O, T]{name: name, fn: fn}
}

func (f *Func[O, T]) Paginate(ctx context.Context, owner O, args relay.Args) (*relay.Connection[T], error) {
	return f.fn(ctx, owner, args)
}

func (f *Func[O, T]) Name() string {
	return f.name
}
