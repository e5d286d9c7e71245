package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// DocumentMetrics groups the instruments for the document pipeline: field
// scans, legacy migrations and renders.
type DocumentMetrics struct {
	scansTotal     *Counter
	migrationsRun  *Counter
	rendersTotal   *Counter
	renderDuration *Histogram
	fieldsCacheOps *Counter
}

// NewDocumentMetrics creates the document pipeline instruments on the
// given meter.
func NewDocumentMetrics(meter metric.Meter) (*DocumentMetrics, error) {
	scans, err := NewCounter(meter,
		"document.scans.total",
		"Template placeholder scans performed",
		"{scan}")
	if err != nil {
		return nil, err
	}

	migrations, err := NewCounter(meter,
		"document.migrations.total",
		"Legacy placeholder migrations performed",
		"{migration}")
	if err != nil {
		return nil, err
	}

	renders, err := NewCounter(meter,
		"document.renders.total",
		"Document renders by outcome",
		"{render}")
	if err != nil {
		return nil, err
	}

	duration, err := NewHistogram(meter, HistogramOpts{
		Name:        "document.render.duration",
		Description: "Time to render a document",
		Unit:        "s",
		Boundaries:  RenderDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	cacheOps, err := NewCounter(meter,
		"document.fields_cache.ops",
		"Template fields cache lookups by result",
		"{lookup}")
	if err != nil {
		return nil, err
	}

	return &DocumentMetrics{
		scansTotal:     scans,
		migrationsRun:  migrations,
		rendersTotal:   renders,
		renderDuration: duration,
		fieldsCacheOps: cacheOps,
	}, nil
}

// RecordScan counts one placeholder scan with its detected syntax.
func (m *DocumentMetrics) RecordScan(ctx context.Context, syntax string) {
	m.scansTotal.Inc(ctx, AttrSyntax.String(syntax))
}

// RecordMigration counts one legacy placeholder migration.
func (m *DocumentMetrics) RecordMigration(ctx context.Context) {
	m.migrationsRun.Inc(ctx)
}

// RecordRender counts one render and its duration. Outcome is "success",
// "validation_failed" or "error".
func (m *DocumentMetrics) RecordRender(ctx context.Context, outcome string, elapsed time.Duration) {
	m.rendersTotal.Inc(ctx, AttrOutcome.String(outcome))
	m.renderDuration.RecordDuration(ctx, elapsed, AttrOutcome.String(outcome))
}

// RecordCacheLookup counts one fields cache lookup, result "hit" or "miss".
func (m *DocumentMetrics) RecordCacheLookup(ctx context.Context, result string) {
	m.fieldsCacheOps.Inc(ctx, AttrCacheResult.String(result))
}
