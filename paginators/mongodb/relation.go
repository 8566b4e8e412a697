package mongodb

import (
	"context"

	"github.com/hadi77ir/go-relay/paginators/memory"
	"github.com/hadi77ir/go-relay/relay"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// FindFunc runs the caller's query for owner and returns a cursor over the whole
// relation, already sorted in relation order (e.g. {_id: 1}).
// Filter and sort construction stay with the caller.
type FindFunc[O any] func(ctx context.Context, owner O) (*mongo.Cursor, error)

// Drain decodes every remaining document of cur into a slice. The cursor is closed.
func Drain[T any](ctx context.Context, cur *mongo.Cursor) ([]T, error) {
	items := make([]T, 0)
	// All closes the cursor whether or not decoding succeeds
	if err := cur.All(ctx, &items); err != nil {
		return nil, relay.NewFetchError("decode documents", err)
	}
	return items, nil
}

// DataSource adapts a FindFunc to a memory data source
func DataSource[O any, T any](find FindFunc[O]) memory.DataSourceFunc[O, T] {
	return func(ctx context.Context, owner O) ([]T, error) {
		cur, err := find(ctx, owner)
		if err != nil {
			return nil, relay.NewFetchError("find documents", err)
		}
		return Drain[T](ctx, cur)
	}
}

// NewRelation creates a paginator over documents keyed by their `_id` ObjectID.
// T must have an ObjectID field tagged `bson:"_id"` (or named ID).
func NewRelation[O any, T any](name string, find FindFunc[O], opts *memory.Options) (*memory.Relation[O, T, primitive.ObjectID], error) {
	key, err := memory.FieldKey[T, primitive.ObjectID]("_id")
	if err != nil {
		key, err = memory.FieldKey[T, primitive.ObjectID]("id")
		if err != nil {
			return nil, err
		}
	}
	return NewRelationWithKey(name, find, key, relay.ObjectIDCodec{}, opts), nil
}

// NewRelationWithKey creates a paginator over documents with a custom cursor key
func NewRelationWithKey[O any, T any, K comparable](
	name string,
	find FindFunc[O],
	key relay.KeyFunc[T, K],
	codec relay.Codec[K],
	opts *memory.Options,
) *memory.Relation[O, T, K] {
	return memory.NewRelation(name, DataSource[O, T](find), key, codec, opts)
}
