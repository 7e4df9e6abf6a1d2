package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/nshaw/adminapi/internal/domain"
	"github.com/nshaw/adminapi/internal/storage"
)

// ErrUnsupportedOperation is returned before any item is dispatched when the
// operation is not a member of the bulk enum.
var ErrUnsupportedOperation = errors.New("unsupported bulk operation")

// Bulk applies one operation to every item in the batch. Items are dispatched
// concurrently and settle independently: a failing item is recorded in the
// result without aborting the rest, and every result carries the item's
// original index so callers can correlate input to outcome regardless of
// completion order. The call itself errors only for an unknown operation.
func (e *Engine) Bulk(ctx context.Context, op domain.BulkOperation, items []any) (domain.BulkResult, error) {
	if !op.Valid() {
		return domain.BulkResult{}, fmt.Errorf("%w: %q", ErrUnsupportedOperation, op)
	}

	results := make([]domain.BulkItemResult, len(items))
	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(index int, item any) {
			defer wg.Done()
			results[index] = e.executeBulkItem(ctx, op, index, item)
		}(i, item)
	}
	wg.Wait()
	return domain.NewBulkResult(results), nil
}

func (e *Engine) executeBulkItem(ctx context.Context, op domain.BulkOperation, index int, item any) (result domain.BulkItemResult) {
	result = domain.BulkItemResult{Index: index}
	defer func() {
		if rec := recover(); rec != nil {
			result.Data = nil
			result.Error = &domain.BulkItemError{
				Kind:    domain.BulkErrorOperationFailed,
				Message: fmt.Sprintf("panic: %v", rec),
			}
			result.Item = item
		}
	}()

	switch op {
	case domain.BulkCreate:
		e.bulkCreate(ctx, item, &result)
	case domain.BulkUpdate:
		e.bulkUpdate(ctx, item, &result)
	case domain.BulkDelete:
		e.bulkDelete(ctx, item, &result)
	}
	return result
}

func (e *Engine) bulkCreate(ctx context.Context, item any, result *domain.BulkItemResult) {
	record, ok := toRecord(item)
	if !ok {
		failItem(result, domain.BulkErrorValidationFailed, "item must be an object", item)
		return
	}
	if validation := e.validator.ValidateRequired(record, e.config.RequiredFields); !validation.IsValid {
		failItem(result, domain.BulkErrorValidationFailed, validation.FirstMessage(), item)
		return
	}
	created, err := e.store.CreateOne(ctx, e.resource, record)
	if err != nil {
		failItem(result, domain.BulkErrorOperationFailed, err.Error(), item)
		return
	}
	result.Data = created
}

func (e *Engine) bulkUpdate(ctx context.Context, item any, result *domain.BulkItemResult) {
	record, ok := toRecord(item)
	if !ok {
		failItem(result, domain.BulkErrorValidationFailed, "item must be an object", item)
		return
	}
	id, ok := record.ID()
	if !ok {
		failItem(result, domain.BulkErrorValidationFailed, "item is missing an id", item)
		return
	}
	patch := record.Clone()
	delete(patch, "id")
	updated, err := e.store.UpdateOne(ctx, e.resource, id, patch)
	if errors.Is(err, storage.ErrNotFound) {
		failItem(result, domain.BulkErrorNotFound, fmt.Sprintf("record %s not found", id), item)
		return
	}
	if err != nil {
		failItem(result, domain.BulkErrorOperationFailed, err.Error(), item)
		return
	}
	result.Data = updated
}

func (e *Engine) bulkDelete(ctx context.Context, item any, result *domain.BulkItemResult) {
	id, ok := itemID(item)
	if !ok {
		failItem(result, domain.BulkErrorValidationFailed, "item is missing an id", item)
		return
	}
	err := e.store.DeleteOne(ctx, e.resource, id)
	if errors.Is(err, storage.ErrNotFound) {
		failItem(result, domain.BulkErrorNotFound, fmt.Sprintf("record %s not found", id), item)
		return
	}
	if err != nil {
		failItem(result, domain.BulkErrorOperationFailed, err.Error(), item)
		return
	}
	result.Data = domain.Record{"id": id}
}

func failItem(result *domain.BulkItemResult, kind domain.BulkErrorKind, message string, item any) {
	result.Error = &domain.BulkItemError{Kind: kind, Message: message}
	result.Item = item
}

func toRecord(item any) (domain.Record, bool) {
	switch v := item.(type) {
	case domain.Record:
		return v, v != nil
	case map[string]any:
		return domain.Record(v), v != nil
	default:
		return nil, false
	}
}

// itemID accepts either a plain string id or an object carrying an id key,
// matching the two shapes bulk delete payloads arrive in.
func itemID(item any) (string, bool) {
	switch v := item.(type) {
	case string:
		trimmed := strings.TrimSpace(v)
		return trimmed, trimmed != ""
	default:
		record, ok := toRecord(item)
		if !ok {
			return "", false
		}
		return record.ID()
	}
}
