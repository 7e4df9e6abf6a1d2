package domain

import "strings"

// Record represents one stored document as an arbitrarily nested key/value map.
// Nested values are addressed with dot paths such as "contact.email".
type Record map[string]any

// Resolve walks a dot path through nested maps and reports whether the
// addressed value exists.
func (r Record) Resolve(path string) (any, bool) {
	if r == nil || path == "" {
		return nil, false
	}
	parts := strings.Split(path, ".")
	var current any = map[string]any(r)
	for _, part := range parts {
		node, ok := asMap(current)
		if !ok {
			return nil, false
		}
		value, ok := node[part]
		if !ok {
			return nil, false
		}
		current = value
	}
	return current, true
}

// Clone returns a deep copy of the record. Nested maps and slices are copied
// so callers can mutate the result without touching the source snapshot.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	cloned := make(Record, len(r))
	for key, value := range r {
		cloned[key] = cloneValue(value)
	}
	return cloned
}

// ID returns the record's "id" value coerced to a string, if present.
func (r Record) ID() (string, bool) {
	value, ok := r["id"]
	if !ok {
		return "", false
	}
	switch v := value.(type) {
	case string:
		return v, v != ""
	default:
		return "", false
	}
}

func asMap(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case Record:
		return map[string]any(v), true
	case map[string]any:
		return v, true
	default:
		return nil, false
	}
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case Record:
		return map[string]any(v.Clone())
	case map[string]any:
		return map[string]any(Record(v).Clone())
	case []any:
		cloned := make([]any, len(v))
		for i, item := range v {
			cloned[i] = cloneValue(item)
		}
		return cloned
	default:
		return v
	}
}

// CloneRecords deep copies a record slice.
func CloneRecords(records []Record) []Record {
	cloned := make([]Record, len(records))
	for i, record := range records {
		cloned[i] = record.Clone()
	}
	return cloned
}
