package engine

import (
	"strings"

	"github.com/nshaw/adminapi/internal/domain"
)

// unknownGroupKey buckets records whose group field does not resolve.
const unknownGroupKey = "unknown"

// StatsOptions selects the grouping dimensions and derived totals for one
// aggregation call. Zero-value fields fall back to the resource defaults.
type StatsOptions struct {
	GroupFields []string
	Metrics     []domain.StatsMetric
}

// StatsResult reports group counts plus derived summary totals. The group
// counts always sum to Summary["total"].
type StatsResult struct {
	Summary map[string]any `json:"summary"`
	ByGroup map[string]int `json:"byGroup"`
}

// Aggregate groups records by the resolved group-field values and computes
// the requested metrics. Records missing a group field bucket under "unknown";
// multiple group fields form a composite key joined with "/".
func Aggregate(records []domain.Record, opts StatsOptions) StatsResult {
	byGroup := make(map[string]int)
	if len(opts.GroupFields) > 0 {
		for _, record := range records {
			byGroup[groupKey(record, opts.GroupFields)]++
		}
	}

	summary := map[string]any{"total": len(records)}
	for _, metric := range opts.Metrics {
		if value, ok := computeMetric(records, metric); ok {
			summary[metric.Name] = value
		}
	}
	return StatsResult{Summary: summary, ByGroup: byGroup}
}

func groupKey(record domain.Record, fields []string) string {
	parts := make([]string, len(fields))
	for i, field := range fields {
		value, ok := record.Resolve(field)
		if !ok || value == nil {
			parts[i] = unknownGroupKey
			continue
		}
		text := strings.TrimSpace(searchText(value))
		if text == "" {
			text = unknownGroupKey
		}
		parts[i] = text
	}
	return strings.Join(parts, "/")
}

func computeMetric(records []domain.Record, metric domain.StatsMetric) (float64, bool) {
	if metric.Field == "" {
		return 0, false
	}
	var (
		sum   float64
		min   float64
		max   float64
		count int
	)
	for _, record := range records {
		value, ok := record.Resolve(metric.Field)
		if !ok {
			continue
		}
		number, ok := asNumber(value)
		if !ok {
			continue
		}
		if count == 0 || number < min {
			min = number
		}
		if count == 0 || number > max {
			max = number
		}
		sum += number
		count++
	}
	if count == 0 {
		return 0, false
	}
	switch metric.Kind {
	case domain.MetricSum:
		return sum, true
	case domain.MetricAvg:
		return sum / float64(count), true
	case domain.MetricMin:
		return min, true
	case domain.MetricMax:
		return max, true
	default:
		return 0, false
	}
}
