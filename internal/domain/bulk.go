package domain

import "fmt"

// BulkOperation enumerates the supported batch mutations.
type BulkOperation string

const (
	BulkCreate BulkOperation = "create"
	BulkUpdate BulkOperation = "update"
	BulkDelete BulkOperation = "delete"
)

// Valid reports whether the operation is a known member of the enum.
func (op BulkOperation) Valid() bool {
	switch op {
	case BulkCreate, BulkUpdate, BulkDelete:
		return true
	default:
		return false
	}
}

// ParseBulkOperation maps a raw operation name onto the enum.
func ParseBulkOperation(raw string) (BulkOperation, error) {
	op := BulkOperation(raw)
	if !op.Valid() {
		return "", fmt.Errorf("unsupported bulk operation %q", raw)
	}
	return op, nil
}

// BulkErrorKind classifies a per-item bulk failure.
type BulkErrorKind string

const (
	BulkErrorValidationFailed BulkErrorKind = "ValidationFailed"
	BulkErrorNotFound         BulkErrorKind = "NotFound"
	BulkErrorOperationFailed  BulkErrorKind = "OperationFailed"
)

// BulkItemError carries the failure classification and message for one item.
type BulkItemError struct {
	Kind    BulkErrorKind `json:"kind"`
	Message string        `json:"message"`
}

func (e *BulkItemError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// BulkItemResult records the outcome of a single item. Index always refers to
// the item's position in the submitted batch, regardless of completion order.
type BulkItemResult struct {
	Index int            `json:"index"`
	Data  Record         `json:"data,omitempty"`
	Error *BulkItemError `json:"error,omitempty"`
	Item  any            `json:"item,omitempty"`
}

// Succeeded reports whether the item settled without an error.
func (r BulkItemResult) Succeeded() bool {
	return r.Error == nil
}

// BulkSummary totals a finished batch.
type BulkSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// BulkResult aggregates every item outcome of one bulk call. Success is true
// only when no item failed.
type BulkResult struct {
	Success bool             `json:"success"`
	Results []BulkItemResult `json:"results"`
	Summary BulkSummary      `json:"summary"`
}

// NewBulkResult assembles the aggregate from settled item results.
func NewBulkResult(results []BulkItemResult) BulkResult {
	summary := BulkSummary{Total: len(results)}
	for _, result := range results {
		if result.Succeeded() {
			summary.Successful++
		} else {
			summary.Failed++
		}
	}
	return BulkResult{
		Success: summary.Failed == 0,
		Results: results,
		Summary: summary,
	}
}
