package engine

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/nshaw/adminapi/internal/domain"
	"github.com/nshaw/adminapi/internal/export"
	"github.com/nshaw/adminapi/internal/storage"
	"github.com/nshaw/adminapi/pkg/validator"
)

// Engine turns raw query strings into filtered, sorted, projected and
// paginated views of one resource collection, and executes bulk mutation
// batches against its store. The query path is a pure transformation over the
// snapshot returned by the store; the engine holds no state between calls.
type Engine struct {
	resource  string
	config    domain.ResourceConfig
	store     storage.Store
	validator *validator.RecordValidator
	now       func() time.Time
}

// Option customizes engine construction.
type Option func(*Engine)

// WithClock overrides the time source used for export filenames.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New constructs an engine for one resource.
func New(resource string, cfg domain.ResourceConfig, store storage.Store, opts ...Option) *Engine {
	e := &Engine{
		resource:  resource,
		config:    cfg,
		store:     store,
		validator: validator.NewRecordValidator(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resource returns the collection name this engine serves.
func (e *Engine) Resource() string {
	return e.resource
}

// ListResult pairs one page of records with its pagination metadata.
type ListResult struct {
	Data       []domain.Record       `json:"data"`
	Pagination domain.PaginationMeta `json:"pagination"`
}

// List materializes the collection and applies search, sort, projection and
// pagination as requested by the raw query. The reported total is the count
// of records after search filtering, not the unfiltered collection size.
func (e *Engine) List(ctx context.Context, rawQuery url.Values) (ListResult, error) {
	spec, err := ParseQuerySpec(rawQuery, e.config)
	if err != nil {
		return ListResult{}, err
	}
	records, err := e.store.FetchAll(ctx, e.resource)
	if err != nil {
		return ListResult{}, fmt.Errorf("fetch %s: %w", e.resource, err)
	}
	matched := Search(records, spec.Search)
	sorted := Sort(matched, spec.Sort)
	projected := Project(sorted, spec.Fields)
	page := Paginate(projected, spec.Pagination, len(matched))
	return ListResult{Data: page.Data, Pagination: page.Meta}, nil
}

// Search is List under another name: a search term on the query activates the
// matcher, so both entry points share one code path.
func (e *Engine) Search(ctx context.Context, rawQuery url.Values) (ListResult, error) {
	return e.List(ctx, rawQuery)
}

// Export serializes the full searched and sorted set, bypassing pagination.
// An explicit fields parameter projects the records and fixes the tabular
// column order, so a narrowed listing and its export carry the same fields.
func (e *Engine) Export(ctx context.Context, format string, rawQuery url.Values) (export.Result, error) {
	parsedFormat, err := export.ParseFormat(format)
	if err != nil {
		return export.Result{}, err
	}
	spec, err := ParseQuerySpec(rawQuery, e.config)
	if err != nil {
		return export.Result{}, err
	}
	records, err := e.store.FetchAll(ctx, e.resource)
	if err != nil {
		return export.Result{}, fmt.Errorf("fetch %s: %w", e.resource, err)
	}
	matched := Search(records, spec.Search)
	sorted := Sort(matched, spec.Sort)
	projected := Project(sorted, spec.Fields)
	return export.Write(e.resource, projected, parsedFormat, spec.Fields, e.now())
}

// Stats aggregates the full collection. Zero-value options fall back to the
// resource's configured grouping and metrics.
func (e *Engine) Stats(ctx context.Context, opts StatsOptions) (StatsResult, error) {
	if len(opts.GroupFields) == 0 {
		opts.GroupFields = e.config.StatsGroupFields
	}
	if len(opts.Metrics) == 0 {
		opts.Metrics = e.config.StatsMetrics
	}
	records, err := e.store.FetchAll(ctx, e.resource)
	if err != nil {
		return StatsResult{}, fmt.Errorf("fetch %s: %w", e.resource, err)
	}
	return Aggregate(records, opts), nil
}
