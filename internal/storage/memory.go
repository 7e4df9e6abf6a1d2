package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nshaw/adminapi/internal/domain"
)

// MemoryStore keeps collections in process memory. It preserves insertion
// order so listings are deterministic before any sort is applied, and it is
// safe for concurrent use.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
	now         func() time.Time
}

type memoryCollection struct {
	order   []string
	records map[string]domain.Record
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]*memoryCollection),
		now:         time.Now,
	}
}

// FetchAll returns deep copies of every record in insertion order.
func (s *MemoryStore) FetchAll(_ context.Context, resource string) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	collection, ok := s.collections[resource]
	if !ok {
		return []domain.Record{}, nil
	}
	records := make([]domain.Record, 0, len(collection.order))
	for _, id := range collection.order {
		records = append(records, collection.records[id].Clone())
	}
	return records, nil
}

// CreateOne stores a copy of the record, generating an id and timestamps when
// the caller did not supply them.
func (s *MemoryStore) CreateOne(_ context.Context, resource string, data domain.Record) (domain.Record, error) {
	record := data.Clone()
	if record == nil {
		record = domain.Record{}
	}
	id, ok := record.ID()
	if !ok {
		id = uuid.New().String()
		record["id"] = id
	}
	stamp := s.now().UTC().Format(time.RFC3339)
	if _, ok := record["created_at"]; !ok {
		record["created_at"] = stamp
	}
	record["updated_at"] = stamp

	s.mu.Lock()
	defer s.mu.Unlock()
	collection, ok := s.collections[resource]
	if !ok {
		collection = &memoryCollection{records: make(map[string]domain.Record)}
		s.collections[resource] = collection
	}
	if _, exists := collection.records[id]; !exists {
		collection.order = append(collection.order, id)
	}
	collection.records[id] = record
	return record.Clone(), nil
}

// UpdateOne shallow-merges the patch into the stored record.
func (s *MemoryStore) UpdateOne(_ context.Context, resource string, id string, patch domain.Record) (domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	collection, ok := s.collections[resource]
	if !ok {
		return nil, ErrNotFound
	}
	existing, ok := collection.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	merged := existing.Clone()
	for key, value := range patch.Clone() {
		if key == "id" {
			continue
		}
		merged[key] = value
	}
	merged["updated_at"] = s.now().UTC().Format(time.RFC3339)
	collection.records[id] = merged
	return merged.Clone(), nil
}

// DeleteOne removes the record and its position in the insertion order.
func (s *MemoryStore) DeleteOne(_ context.Context, resource string, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	collection, ok := s.collections[resource]
	if !ok {
		return ErrNotFound
	}
	if _, ok := collection.records[id]; !ok {
		return ErrNotFound
	}
	delete(collection.records, id)
	for i, existing := range collection.order {
		if existing == id {
			collection.order = append(collection.order[:i], collection.order[i+1:]...)
			break
		}
	}
	return nil
}
