package tracing

import (
	"context"
	"time"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	// FilterEvaluationLatency measures contact filter evaluations (search, list reads, counts)
	FilterEvaluationLatency = stats.Float64("pledgebase/filter_evaluation_latency", "Latency of contact filter evaluations", stats.UnitMilliseconds)
	// GeoLookupFailures counts distance filters evaluated fail-closed
	GeoLookupFailures = stats.Int64("pledgebase/geo_lookup_failures", "Distance filters that matched nothing because no centroid was available", stats.UnitDimensionless)
	// DefaultGroupRepairs counts reconciliations that had to change stored state
	DefaultGroupRepairs = stats.Int64("pledgebase/default_group_repairs", "Default group reconciliations that modified groups or memberships", stats.UnitDimensionless)

	// KeyOperation tags a measurement with the calling operation
	KeyOperation = tag.MustNewKey("operation")
)

// SegmentationViews are registered with the metrics exporters
var SegmentationViews = []*view.View{
	{
		Name:        "pledgebase/filter_evaluation_latency",
		Measure:     FilterEvaluationLatency,
		Description: "Distribution of contact filter evaluation latency",
		TagKeys:     []tag.Key{KeyOperation},
		Aggregation: view.Distribution(1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500),
	},
	{
		Name:        "pledgebase/geo_lookup_failures",
		Measure:     GeoLookupFailures,
		Description: "Count of fail-closed distance filters",
		Aggregation: view.Count(),
	},
	{
		Name:        "pledgebase/default_group_repairs",
		Measure:     DefaultGroupRepairs,
		Description: "Count of default group repairs",
		TagKeys:     []tag.Key{KeyOperation},
		Aggregation: view.Count(),
	},
}

// RecordFilterEvaluation records the latency of one evaluation
func RecordFilterEvaluation(ctx context.Context, operation string, elapsed time.Duration) {
	_ = stats.RecordWithTags(ctx,
		[]tag.Mutator{tag.Upsert(KeyOperation, operation)},
		FilterEvaluationLatency.M(float64(elapsed)/float64(time.Millisecond)),
	)
}

// RecordGeoLookupFailure counts a fail-closed distance filter
func RecordGeoLookupFailure(ctx context.Context) {
	stats.Record(ctx, GeoLookupFailures.M(1))
}

// RecordDefaultGroupRepair counts a reconciliation that changed state
func RecordDefaultGroupRepair(ctx context.Context, operation string) {
	_ = stats.RecordWithTags(ctx,
		[]tag.Mutator{tag.Upsert(KeyOperation, operation)},
		DefaultGroupRepairs.M(1),
	)
}
