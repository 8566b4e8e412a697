package wrapper

import (
	"context"
	"fmt"

	"github.com/hadi77ir/go-relay/paginator"
	"github.com/hadi77ir/go-relay/relay"
)

// Authorizer decides whether the caller may read the relation owned by owner.
// A non-nil error means the decision itself could not be made.
type Authorizer[O any] func(ctx context.Context, owner O) (bool, error)

// AllowOwners returns an authorizer admitting only the listed owners.
// An empty list admits everyone.
func AllowOwners[O comparable](owners ...O) Authorizer[O] {
	allowed := make(map[O]struct{}, len(owners))
	for _, owner := range owners {
		allowed[owner] = struct{}{}
	}
	return func(_ context.Context, owner O) (bool, error) {
		if len(allowed) == 0 {
			return true, nil
		}
		_, ok := allowed[owner]
		return ok, nil
	}
}

// Gate wraps another paginator and runs authorizers before delegating to it.
// The owner must pass ALL authorizers; the inner paginator is never called otherwise,
// so no data is fetched for a rejected request.
type Gate[O any, T any] struct {
	inner       paginator.Paginator[O, T]
	authorizers []Authorizer[O]
}

// NewGate creates a gate in front of inner
//
// Parameters:
//   - inner: The paginator to wrap
//   - authorizers: Checks run in order before each call (none means no additional restriction)
func NewGate[O any, T any](inner paginator.Paginator[O, T], authorizers ...Authorizer[O]) *Gate[O, T] {
	return &Gate[O, T]{
		inner:       inner,
		authorizers: authorizers,
	}
}

// Name returns the name of the wrapped relation
func (g *Gate[O, T]) Name() string {
	return g.inner.Name()
}

// Paginate authorizes owner and delegates to the inner paginator
func (g *Gate[O, T]) Paginate(ctx context.Context, owner O, args relay.Args) (*relay.Connection[T], error) {
	if err := g.authorize(ctx, owner); err != nil {
		return nil, err
	}
	return g.inner.Paginate(ctx, owner, args)
}

func (g *Gate[O, T]) authorize(ctx context.Context, owner O) error {
	for _, authorize := range g.authorizers {
		ok, err := authorize(ctx, owner)
		if err != nil {
			return fmt.Errorf("authorize %s: %w", g.inner.Name(), err)
		}
		if !ok {
			return fmt.Errorf("%w: %s of %v", relay.ErrForbidden, g.inner.Name(), owner)
		}
	}
	return nil
}
