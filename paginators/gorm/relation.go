package gorm

import (
	"context"
	"errors"

	"github.com/hadi77ir/go-relay/paginators/memory"
	"github.com/hadi77ir/go-relay/relay"
	"gorm.io/gorm"
)

// ScopeFunc narrows db to the rows owned by owner, in relation order.
// It is responsible for the WHERE and ORDER BY clauses; the relation loads every row it selects.
type ScopeFunc[O any] func(db *gorm.DB, owner O) *gorm.DB

// DataSource loads the rows selected by scope
func DataSource[O any, T any](db *gorm.DB, name string, scope ScopeFunc[O]) memory.DataSourceFunc[O, T] {
	return func(ctx context.Context, owner O) ([]T, error) {
		items := make([]T, 0)
		result := scope(db.WithContext(ctx), owner).Find(&items)
		if result.Error != nil {
			if errors.Is(result.Error, context.Canceled) || errors.Is(result.Error, context.DeadlineExceeded) {
				return nil, result.Error
			}
			return nil, relay.NewFetchError("query "+name, result.Error)
		}
		return items, nil
	}
}

// NewRelation creates a paginator over rows keyed by the named field.
// The field must be of type K; see memory.FieldKey.
func NewRelation[O any, T any, K comparable](
	db *gorm.DB,
	name string,
	scope ScopeFunc[O],
	keyField string,
	codec relay.Codec[K],
	opts *memory.Options,
) (*memory.Relation[O, T, K], error) {
	key, err := memory.FieldKey[T, K](keyField)
	if err != nil {
		return nil, err
	}
	return memory.NewRelation(name, DataSource[O, T](db, name, scope), key, codec, opts), nil
}

// NewRelationByID creates a paginator over rows keyed by their ID primary key
func NewRelationByID[O any, T any](db *gorm.DB, name string, scope ScopeFunc[O], opts *memory.Options) (*memory.Relation[O, T, uint], error) {
	return NewRelation[O, T, uint](db, name, scope, "ID", relay.CBORCodec[uint]{}, opts)
}
