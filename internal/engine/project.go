package engine

import (
	"strings"

	"github.com/nshaw/adminapi/internal/domain"
)

// Project restricts records to the requested dot paths, preserving nesting
// structure: requesting "contact.email" yields {contact: {email: ...}}.
// An empty field list returns the input unchanged; unknown paths are omitted.
func Project(records []domain.Record, fields []string) []domain.Record {
	if len(fields) == 0 {
		return records
	}
	projected := make([]domain.Record, len(records))
	for i, record := range records {
		projected[i] = projectRecord(record, fields)
	}
	return projected
}

func projectRecord(record domain.Record, fields []string) domain.Record {
	out := domain.Record{}
	for _, field := range fields {
		value, ok := record.Resolve(field)
		if !ok {
			continue
		}
		setPath(out, field, value)
	}
	return out
}

func setPath(record domain.Record, path string, value any) {
	parts := strings.Split(path, ".")
	node := map[string]any(record)
	for _, part := range parts[:len(parts)-1] {
		child, ok := node[part].(map[string]any)
		if !ok {
			child = map[string]any{}
			node[part] = child
		}
		node = child
	}
	node[parts[len(parts)-1]] = value
}
