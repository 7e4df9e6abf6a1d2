package engine

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/nshaw/adminapi/internal/domain"
)

// ErrInvalidQuery is returned only for fundamentally malformed input, such as
// conflicting repeated values for a structural parameter. Single bad values
// (non-numeric page, out-of-range limit, disallowed sort field) degrade to
// defaults instead of erroring.
var ErrInvalidQuery = errors.New("invalid query")

const (
	defaultLimit    = 20
	defaultMaxLimit = 100
)

// ParseQuerySpec normalizes raw query parameters into a bounded QuerySpec.
// Unknown parameters are ignored.
func ParseQuerySpec(raw url.Values, cfg domain.ResourceConfig) (domain.QuerySpec, error) {
	maxLimit := cfg.MaxLimit
	if maxLimit <= 0 {
		maxLimit = defaultMaxLimit
	}

	spec := domain.QuerySpec{
		Sort: cfg.DefaultSort,
		Pagination: domain.PaginationSpec{
			Page:     1,
			Limit:    defaultLimit,
			MaxLimit: maxLimit,
		},
	}

	page, err := singleValue(raw, "page")
	if err != nil {
		return domain.QuerySpec{}, err
	}
	if page != "" {
		if parsed, err := strconv.Atoi(page); err == nil && parsed >= 1 {
			spec.Pagination.Page = parsed
		}
	}

	limit, err := singleValue(raw, "limit")
	if err != nil {
		return domain.QuerySpec{}, err
	}
	if limit != "" {
		if parsed, err := strconv.Atoi(limit); err == nil && parsed >= 1 {
			spec.Pagination.Limit = parsed
		}
	}
	if spec.Pagination.Limit > maxLimit {
		spec.Pagination.Limit = maxLimit
	}

	fields, err := singleValue(raw, "fields")
	if err != nil {
		return domain.QuerySpec{}, err
	}
	if fields != "" {
		spec.Fields = splitFieldList(fields)
	}

	if err := parseSearch(raw, cfg, &spec); err != nil {
		return domain.QuerySpec{}, err
	}
	if err := parseSort(raw, cfg, &spec); err != nil {
		return domain.QuerySpec{}, err
	}
	return spec, nil
}

func parseSearch(raw url.Values, cfg domain.ResourceConfig, spec *domain.QuerySpec) error {
	term, err := singleValue(raw, "search")
	if err != nil {
		return err
	}
	if term == "" {
		term, err = singleValue(raw, "q")
		if err != nil {
			return err
		}
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}

	fields := append([]string(nil), cfg.AllowedSearchFields...)
	if len(spec.Fields) > 0 {
		// An explicit fields parameter narrows the searched set, but never
		// widens it past the allow-list.
		narrowed := make([]string, 0, len(spec.Fields))
		for _, field := range spec.Fields {
			if cfg.AllowsSearchField(field) {
				narrowed = append(narrowed, field)
			}
		}
		if len(narrowed) > 0 {
			fields = narrowed
		}
	}
	spec.Search = &domain.SearchSpec{Term: term, Fields: fields}
	return nil
}

func parseSort(raw url.Values, cfg domain.ResourceConfig, spec *domain.QuerySpec) error {
	field, err := singleValue(raw, "sort")
	if err != nil {
		return err
	}
	field = strings.TrimSpace(field)
	if field == "" || !cfg.AllowsSortField(field) {
		return nil
	}
	order, err := singleValue(raw, "order")
	if err != nil {
		return err
	}
	direction := domain.SortDirectionAsc
	if strings.EqualFold(strings.TrimSpace(order), string(domain.SortDirectionDesc)) {
		direction = domain.SortDirectionDesc
	}
	spec.Sort = domain.SortSpec{Field: field, Direction: direction}
	return nil
}

// singleValue returns the value for a parameter that may appear at most once.
// A repeated identical value is tolerated; conflicting repeats are the one
// shape of input the parser refuses.
func singleValue(raw url.Values, key string) (string, error) {
	values := raw[key]
	if len(values) == 0 {
		return "", nil
	}
	first := values[0]
	for _, value := range values[1:] {
		if value != first {
			return "", fmt.Errorf("%w: conflicting values for parameter %q", ErrInvalidQuery, key)
		}
	}
	return first, nil
}

func splitFieldList(raw string) []string {
	parts := strings.Split(raw, ",")
	fields := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			fields = append(fields, trimmed)
		}
	}
	return fields
}
