package engine

import (
	"fmt"
	"strings"

	"github.com/nshaw/adminapi/internal/domain"
)

// Search filters records by case-insensitive substring containment across the
// spec's field set, preserving input order. A nil spec or empty term returns
// the input unchanged; a term with no searchable fields matches nothing.
func Search(records []domain.Record, spec *domain.SearchSpec) []domain.Record {
	if spec == nil || strings.TrimSpace(spec.Term) == "" {
		return records
	}
	if len(spec.Fields) == 0 {
		return []domain.Record{}
	}
	term := strings.ToLower(spec.Term)
	matched := make([]domain.Record, 0, len(records))
	for _, record := range records {
		if recordMatches(record, term, spec.Fields) {
			matched = append(matched, record)
		}
	}
	return matched
}

func recordMatches(record domain.Record, loweredTerm string, fields []string) bool {
	for _, field := range fields {
		value, ok := record.Resolve(field)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(searchText(value)), loweredTerm) {
			return true
		}
	}
	return false
}

// searchText coerces a resolved value to its searchable string form. Arrays
// are joined with ", " so a term can match inside a list of tags.
func searchText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, ", ")
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = searchText(item)
		}
		return strings.Join(parts, ", ")
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", v)
	}
}
