package engine

import (
	"fmt"
	"testing"

	"github.com/nshaw/adminapi/internal/domain"
)

func makeRecords(n int) []domain.Record {
	records := make([]domain.Record, n)
	for i := range records {
		records[i] = domain.Record{"id": fmt.Sprintf("r%d", i), "index": i}
	}
	return records
}

func TestPaginate_MiddlePage(t *testing.T) {
	page := Paginate(makeRecords(25), domain.PaginationSpec{Page: 2, Limit: 10}, 25)
	if len(page.Data) != 10 {
		t.Fatalf("expected 10 records, got %d", len(page.Data))
	}
	if page.Data[0]["index"] != 10 {
		t.Fatalf("expected page to start at index 10, got %v", page.Data[0])
	}
	meta := page.Meta
	if meta.Total != 25 || meta.TotalPages != 3 || meta.Returned != 10 {
		t.Fatalf("unexpected meta: %+v", meta)
	}
	if !meta.HasNext || !meta.HasPrev {
		t.Fatalf("expected hasNext and hasPrev on middle page: %+v", meta)
	}
}

func TestPaginate_LastShortPage(t *testing.T) {
	page := Paginate(makeRecords(25), domain.PaginationSpec{Page: 3, Limit: 10}, 25)
	meta := page.Meta
	if len(page.Data) != 5 || meta.Returned != 5 {
		t.Fatalf("expected 5 returned, got %d (meta %+v)", len(page.Data), meta)
	}
	if meta.Page != 3 || meta.Limit != 10 || meta.Total != 25 || meta.TotalPages != 3 {
		t.Fatalf("unexpected meta: %+v", meta)
	}
	if meta.HasNext {
		t.Fatalf("last page must not report hasNext: %+v", meta)
	}
	if !meta.HasPrev {
		t.Fatalf("page 3 must report hasPrev: %+v", meta)
	}
}

func TestPaginate_OutOfRangePageIsEmpty(t *testing.T) {
	page := Paginate(makeRecords(5), domain.PaginationSpec{Page: 4, Limit: 10}, 5)
	if len(page.Data) != 0 {
		t.Fatalf("expected empty slice for out-of-range page, got %v", page.Data)
	}
	if page.Meta.Returned != 0 || page.Meta.Total != 5 {
		t.Fatalf("unexpected meta: %+v", page.Meta)
	}
}

func TestPaginate_TotalPagesIsCeiling(t *testing.T) {
	tests := []struct {
		total      int
		limit      int
		totalPages int
	}{
		{total: 0, limit: 10, totalPages: 0},
		{total: 1, limit: 10, totalPages: 1},
		{total: 10, limit: 10, totalPages: 1},
		{total: 11, limit: 10, totalPages: 2},
		{total: 25, limit: 7, totalPages: 4},
	}
	for _, tt := range tests {
		page := Paginate(makeRecords(tt.total), domain.PaginationSpec{Page: 1, Limit: tt.limit}, tt.total)
		if page.Meta.TotalPages != tt.totalPages {
			t.Fatalf("total=%d limit=%d: expected totalPages %d, got %d",
				tt.total, tt.limit, tt.totalPages, page.Meta.TotalPages)
		}
		if page.Meta.HasNext != (page.Meta.Page < tt.totalPages) {
			t.Fatalf("total=%d limit=%d: hasNext inconsistent with totalPages: %+v",
				tt.total, tt.limit, page.Meta)
		}
	}
}

func TestPaginate_ReturnedNeverExceedsLimit(t *testing.T) {
	page := Paginate(makeRecords(100), domain.PaginationSpec{Page: 1, Limit: 7}, 100)
	if page.Meta.Returned > page.Meta.Limit {
		t.Fatalf("returned %d exceeds limit %d", page.Meta.Returned, page.Meta.Limit)
	}
	if page.Meta.Returned != len(page.Data) {
		t.Fatalf("returned %d does not match data length %d", page.Meta.Returned, len(page.Data))
	}
}
