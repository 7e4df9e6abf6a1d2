package engine

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nshaw/adminapi/internal/domain"
)

var sortTimeLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02",
	"2006-01-02 15:04:05",
}

// Sort returns a new, stably ordered slice. Values are compared
// chronologically when both sides parse as ISO-8601 dates, numerically when
// both are numbers, and case-insensitively as strings otherwise. A record
// missing the sort field compares greater than any present value; the
// direction is applied on top, so desc places missing records first.
func Sort(records []domain.Record, spec domain.SortSpec) []domain.Record {
	sorted := append([]domain.Record(nil), records...)
	if spec.Field == "" {
		return sorted
	}
	desc := spec.Direction == domain.SortDirectionDesc
	sort.SliceStable(sorted, func(i, j int) bool {
		left, leftOK := sorted[i].Resolve(spec.Field)
		right, rightOK := sorted[j].Resolve(spec.Field)
		c := compareSortValues(left, leftOK, right, rightOK)
		if desc {
			c = -c
		}
		return c < 0
	})
	return sorted
}

func compareSortValues(left any, leftOK bool, right any, rightOK bool) int {
	switch {
	case !leftOK && !rightOK:
		return 0
	case !leftOK:
		return 1
	case !rightOK:
		return -1
	}

	if leftTime, ok := asTime(left); ok {
		if rightTime, ok := asTime(right); ok {
			switch {
			case leftTime.Before(rightTime):
				return -1
			case leftTime.After(rightTime):
				return 1
			default:
				return 0
			}
		}
	}

	if leftNum, ok := asNumber(left); ok {
		if rightNum, ok := asNumber(right); ok {
			switch {
			case leftNum < rightNum:
				return -1
			case leftNum > rightNum:
				return 1
			default:
				return 0
			}
		}
	}

	leftText := strings.ToLower(fmt.Sprintf("%v", left))
	rightText := strings.ToLower(fmt.Sprintf("%v", right))
	return strings.Compare(leftText, rightText)
}

func asTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case string:
		for _, layout := range sortTimeLayouts {
			if parsed, err := time.Parse(layout, v); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		parsed, err := v.Float64()
		return parsed, err == nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}
