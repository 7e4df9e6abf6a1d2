package storage

import (
	"context"
	"errors"

	"github.com/nshaw/adminapi/internal/domain"
)

// ErrNotFound is returned when an update or delete targets an id that does
// not exist in the collection.
var ErrNotFound = errors.New("record not found")

// Store is the document store contract the engine consumes. Implementations
// own all persistence concerns; the engine only sees materialized records.
type Store interface {
	// FetchAll returns a snapshot of every record in the resource collection.
	// Callers receive copies and may not observe later mutations.
	FetchAll(ctx context.Context, resource string) ([]domain.Record, error)
	// CreateOne persists a new record and returns it with its generated id.
	CreateOne(ctx context.Context, resource string, data domain.Record) (domain.Record, error)
	// UpdateOne applies a shallow patch to the identified record and returns
	// the merged result. ErrNotFound signals a missing id.
	UpdateOne(ctx context.Context, resource string, id string, patch domain.Record) (domain.Record, error)
	// DeleteOne removes the identified record. ErrNotFound signals a missing id.
	DeleteOne(ctx context.Context, resource string, id string) error
}
