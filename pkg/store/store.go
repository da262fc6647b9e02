// Package store declares the entity store the aggregation engine reads from
// and the mutation service writes through.
package store

import (
	"context"
	"errors"

	"VidTube.com/cmd/model"
)

var ErrUnknownCollection = errors.New("store: unknown collection")

// Reader holds the three primitives the aggregation engine consumes. Each call
// is one logically atomic read against the store's current state.
type Reader interface {
	Scan(ctx context.Context, c model.Collection, p Predicate) ([]model.Record, error)
	GetByID(ctx context.Context, c model.Collection, id string) (model.Record, bool, error)
	CountWhere(ctx context.Context, c model.Collection, p Predicate) (int64, error)
}

// Writer holds the single-record and bulk write primitives.
//
// ToggleEdge removes the edge matching e's unique pair if one exists and
// inserts e otherwise, as one atomic step; it reports whether the edge exists
// afterwards. InsertIfAbsent inserts e unless its pair already exists.
type Writer interface {
	Insert(ctx context.Context, rec model.Record) error
	InsertIfAbsent(ctx context.Context, e model.Edge) (bool, error)
	ToggleEdge(ctx context.Context, e model.Edge) (bool, error)
	Update(ctx context.Context, c model.Collection, id string, fields map[string]any) error
	Increment(ctx context.Context, c model.Collection, id, field string, delta int64) error
	DeleteWhere(ctx context.Context, c model.Collection, p Predicate) (int64, error)
}

type Store interface {
	Reader
	Writer
}
