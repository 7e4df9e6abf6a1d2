package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nshaw/adminapi/internal/domain"
)

// PostgresStore persists each record as one JSONB document in the documents
// table. The engine never pushes query predicates down; this store only
// materializes full collections and applies single-document mutations.
type PostgresStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewPostgresStore wraps an existing connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, now: time.Now}
}

func (s *PostgresStore) FetchAll(ctx context.Context, resource string) ([]domain.Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM documents WHERE resource = $1 ORDER BY created_at, id`,
		resource,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch %s documents: %w", resource, err)
	}
	defer rows.Close()

	records := make([]domain.Record, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan %s document: %w", resource, err)
		}
		var record domain.Record
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, fmt.Errorf("decode %s document: %w", resource, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s documents: %w", resource, err)
	}
	return records, nil
}

func (s *PostgresStore) CreateOne(ctx context.Context, resource string, data domain.Record) (domain.Record, error) {
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

	raw, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode %s document: %w", resource, err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO documents (id, resource, data, created_at, updated_at)
		 VALUES ($1, $2, $3, now(), now())`,
		id, resource, raw,
	)
	if err != nil {
		return nil, fmt.Errorf("insert %s document: %w", resource, err)
	}
	return record, nil
}

func (s *PostgresStore) UpdateOne(ctx context.Context, resource string, id string, patch domain.Record) (domain.Record, error) {
	merged := patch.Clone()
	if merged == nil {
		merged = domain.Record{}
	}
	delete(merged, "id")
	merged["updated_at"] = s.now().UTC().Format(time.RFC3339)

	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("encode %s patch: %w", resource, err)
	}
	var updated []byte
	err = s.pool.QueryRow(ctx,
		`UPDATE documents
		 SET data = data || $3::jsonb, updated_at = now()
		 WHERE resource = $1 AND id = $2
		 RETURNING data`,
		resource, id, raw,
	).Scan(&updated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update %s document %s: %w", resource, id, err)
	}
	var record domain.Record
	if err := json.Unmarshal(updated, &record); err != nil {
		return nil, fmt.Errorf("decode %s document %s: %w", resource, id, err)
	}
	return record, nil
}

func (s *PostgresStore) DeleteOne(ctx context.Context, resource string, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM documents WHERE resource = $1 AND id = $2`,
		resource, id,
	)
	if err != nil {
		return fmt.Errorf("delete %s document %s: %w", resource, id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
