package domain

// SortDirection represents ordering direction for sortable fields.
type SortDirection string

const (
	SortDirectionAsc  SortDirection = "asc"
	SortDirectionDesc SortDirection = "desc"
)

// SearchSpec captures a normalized substring search: the lowered term and the
// allow-listed fields it is matched against.
type SearchSpec struct {
	Term   string   `json:"term"`
	Fields []string `json:"fields"`
}

// SortSpec captures ordering preferences for a listing.
type SortSpec struct {
	Field     string        `json:"field"`
	Direction SortDirection `json:"direction"`
}

// PaginationSpec holds the clamped page window requested by a client.
type PaginationSpec struct {
	Page     int `json:"page"`
	Limit    int `json:"limit"`
	MaxLimit int `json:"max_limit"`
}

// PaginationMeta describes the page actually returned relative to the full
// matching set.
type PaginationMeta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	Returned   int  `json:"returned"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// QuerySpec is the typed, bounded form of a raw query string. It is built once
// per request and never mutated afterwards.
type QuerySpec struct {
	Search     *SearchSpec
	Sort       SortSpec
	Pagination PaginationSpec
	Fields     []string
}

// MetricKind enumerates the derived summary computations a resource can
// request from the stats aggregator.
type MetricKind string

const (
	MetricSum MetricKind = "sum"
	MetricAvg MetricKind = "avg"
	MetricMin MetricKind = "min"
	MetricMax MetricKind = "max"
)

// StatsMetric names one derived total computed over a scalar field.
type StatsMetric struct {
	Name  string     `json:"name"`
	Field string     `json:"field"`
	Kind  MetricKind `json:"kind"`
}

// ResourceConfig parameterizes the engine for one resource: which fields may
// be searched and sorted, how results are capped, and what the stats endpoint
// aggregates by default.
type ResourceConfig struct {
	AllowedSearchFields []string
	AllowedSortFields   []string
	MaxLimit            int
	DefaultSort         SortSpec
	RequiredFields      []string
	StatsGroupFields    []string
	StatsMetrics        []StatsMetric
}

// AllowsSearchField reports whether the field is on the search allow-list.
func (c ResourceConfig) AllowsSearchField(field string) bool {
	return containsField(c.AllowedSearchFields, field)
}

// AllowsSortField reports whether the field is on the sort allow-list.
func (c ResourceConfig) AllowsSortField(field string) bool {
	return containsField(c.AllowedSortFields, field)
}

func containsField(fields []string, field string) bool {
	for _, candidate := range fields {
		if candidate == field {
			return true
		}
	}
	return false
}
