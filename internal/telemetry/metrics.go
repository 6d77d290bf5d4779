// Package telemetry wires the OpenTelemetry meter provider with a Prometheus
// exporter and exposes the counters tracked across pipeline runs.
package telemetry

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Metrics holds counters for the ingestion pipeline. A nil *Metrics is valid
// and records nothing, which keeps unit tests free of exporter setup.
type Metrics struct {
	pipelineRuns   metric.Int64Counter
	recordsParsed  metric.Int64Counter
	entriesSkipped metric.Int64Counter
	enrichCalls    metric.Int64Counter
	enrichFailures metric.Int64Counter
	quotaHalts     metric.Int64Counter
}

// NewMetrics sets up the meter provider and returns the metrics handle along
// with the HTTP handler serving the Prometheus scrape endpoint.
func NewMetrics() (*Metrics, http.Handler, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	if err := runtime.Start(runtime.WithMeterProvider(provider)); err != nil {
		return nil, nil, fmt.Errorf("failed to start runtime instrumentation: %w", err)
	}

	meter := provider.Meter("github.com/mcpcatalog/registry")

	m := &Metrics{}
	for _, c := range []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.pipelineRuns, "catalog_pipeline_runs_total", "Completed ingestion pipeline runs"},
		{&m.recordsParsed, "catalog_records_parsed_total", "RawEntry records emitted by the README parser"},
		{&m.entriesSkipped, "catalog_entries_skipped_total", "Entries dropped because their URL did not normalize"},
		{&m.enrichCalls, "catalog_enrich_calls_total", "GitHub metadata lookups issued"},
		{&m.enrichFailures, "catalog_enrich_failures_total", "GitHub metadata lookups that fell back to zero values"},
		{&m.quotaHalts, "catalog_enrich_quota_halts_total", "Enrichment batches halted early by quota exhaustion"},
	} {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create counter %s: %w", c.name, err)
		}
		*c.dst = counter
	}

	return m, promhttp.Handler(), nil
}

func (m *Metrics) PipelineRun(ctx context.Context) {
	if m != nil {
		m.pipelineRuns.Add(ctx, 1)
	}
}

func (m *Metrics) RecordsParsed(ctx context.Context, n int) {
	if m != nil {
		m.recordsParsed.Add(ctx, int64(n))
	}
}

func (m *Metrics) EntriesSkipped(ctx context.Context, n int) {
	if m != nil {
		m.entriesSkipped.Add(ctx, int64(n))
	}
}

func (m *Metrics) EnrichCall(ctx context.Context) {
	if m != nil {
		m.enrichCalls.Add(ctx, 1)
	}
}

func (m *Metrics) EnrichFailure(ctx context.Context) {
	if m != nil {
		m.enrichFailures.Add(ctx, 1)
	}
}

func (m *Metrics) QuotaHalt(ctx context.Context) {
	if m != nil {
		m.quotaHalts.Add(ctx, 1)
	}
}
