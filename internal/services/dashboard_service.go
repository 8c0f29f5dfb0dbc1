package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/singleflight"

	"hospitalpulse/internal/analytics"
	"hospitalpulse/internal/charts"
	"hospitalpulse/internal/dataset"
	apierrors "hospitalpulse/internal/errors"
	"hospitalpulse/internal/infrastructure"
	"hospitalpulse/pkg/contracts/domain"
	"hospitalpulse/pkg/contracts/events"
)

// EventDatasetLoaded is broadcast after a successful upload
const EventDatasetLoaded = string(events.MessageTypeDatasetLoaded)

// Broadcaster publishes dashboard events to connected pages
type Broadcaster interface {
	Broadcast(ctx context.Context, messageType string, data interface{})
}

// DashboardOptions wires a DashboardService. Zero values are usable:
// a nil Tracer is a no-op tracer and nil Metrics or Hub are skipped.
type DashboardOptions struct {
	Ingest  dataset.IngestOptions
	Charts  charts.Options
	Hub     Broadcaster
	Tracer  trace.Tracer
	Metrics *infrastructure.BusinessMetrics
	Logger  *slog.Logger
}

// RenderedChart is one summary with its SVG. Err is set instead of SVG
// when that chart failed to render.
type RenderedChart struct {
	Summary domain.Summary
	SVG     []byte
	Err     error
}

// RenderedDashboard is a dashboard plus every chart drawn
type RenderedDashboard struct {
	*domain.Dashboard
	Charts []RenderedChart
}

// DashboardService holds the loaded table and runs filter, aggregate and
// render passes over it. The table is immutable once loaded and replaced
// atomically by Load.
type DashboardService struct {
	mu    sync.RWMutex
	table *dataset.Table

	ingest   dataset.IngestOptions
	renderer *charts.Renderer
	runs     singleflight.Group

	hub     Broadcaster
	tracer  trace.Tracer
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
}

// NewDashboardService creates a service in the "no file loaded" state
func NewDashboardService(opts DashboardOptions) *DashboardService {
	if opts.Logger == nil {
		opts.Logger = infrastructure.GetLogger()
	}
	if opts.Tracer == nil {
		opts.Tracer = tracenoop.NewTracerProvider().Tracer(infrastructure.MeterName)
	}
	return &DashboardService{
		ingest:   opts.Ingest,
		renderer: charts.NewRenderer(opts.Charts),
		hub:      opts.Hub,
		tracer:   opts.Tracer,
		metrics:  opts.Metrics,
		logger:   opts.Logger.With(slog.String("component", "dashboard_service")),
	}
}

// Load ingests an uploaded file and makes it the current table. On failure
// the previously loaded table stays current.
func (s *DashboardService) Load(ctx context.Context, r io.Reader, name string) (domain.DatasetInfo, error) {
	ctx, span := s.tracer.Start(ctx, "dataset.ingest",
		trace.WithAttributes(attribute.String("dataset.name", name)))
	defer span.End()

	start := time.Now()
	table, err := dataset.Ingest(ctx, r, name, s.ingest)
	elapsed := time.Since(start)

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		infrastructure.RecordError(ctx, err)
		s.recordIngest(ctx, "failure", 0, elapsed)
		s.logger.WarnContext(ctx, "Upload rejected",
			slog.String("file", name),
			slog.String("error", err.Error()))
		return domain.DatasetInfo{}, err
	}

	s.mu.Lock()
	s.table = table
	s.mu.Unlock()

	info := table.Info()
	span.SetAttributes(
		attribute.Int("dataset.rows", info.Rows),
		attribute.String("dataset.id", info.ID))
	s.recordIngest(ctx, "success", info.Rows, elapsed)
	s.logger.InfoContext(ctx, "Dataset loaded",
		slog.String("file", name),
		slog.String("dataset_id", info.ID),
		slog.Int("rows", info.Rows),
		slog.Int("cities", len(info.Cities)),
		slog.Duration("duration", elapsed))

	if s.hub != nil {
		s.hub.Broadcast(ctx, EventDatasetLoaded, info)
	}
	return info, nil
}

func (s *DashboardService) recordIngest(ctx context.Context, result string, rows int, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.IngestionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
	s.metrics.IngestionDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String("result", result)))
	if rows > 0 {
		s.metrics.RowsIngested.Add(ctx, int64(rows))
	}
}

// Table returns the current table or an error wrapping ErrNoDataset
func (s *DashboardService) Table() (*dataset.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.table == nil {
		return nil, apierrors.ErrNoDataset
	}
	return s.table, nil
}

// Loaded reports whether a file has been loaded
func (s *DashboardService) Loaded() bool {
	_, err := s.Table()
	return err == nil
}

// Dataset describes the current table
func (s *DashboardService) Dataset(ctx context.Context) (domain.DatasetInfo, error) {
	t, err := s.Table()
	if err != nil {
		return domain.DatasetInfo{}, err
	}
	return t.Info(), nil
}

// NormalizeSelection sorts and deduplicates a city selection
func NormalizeSelection(cities []string) []string {
	if len(cities) == 0 {
		return []string{}
	}
	out := append([]string(nil), cities...)
	sort.Strings(out)
	n := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[n-1] {
			out[n] = out[i]
			n++
		}
	}
	return out[:n]
}

// Dashboard filters the current table by cities and runs every aggregator.
// Identical concurrent requests share one pass; the result is shared and
// must not be modified.
func (s *DashboardService) Dashboard(ctx context.Context, cities []string) (*domain.Dashboard, error) {
	t, err := s.Table()
	if err != nil {
		return nil, err
	}

	selection := NormalizeSelection(cities)
	key := t.Fingerprint() + "|" + strings.Join(selection, "\x1f")

	v, err, shared := s.runs.Do(key, func() (interface{}, error) {
		return s.run(context.WithoutCancel(ctx), t, selection)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.DebugContext(ctx, "Dashboard pass shared", slog.Int("selected", len(selection)))
	}
	return v.(*domain.Dashboard), nil
}

func (s *DashboardService) run(ctx context.Context, t *dataset.Table, selection []string) (*domain.Dashboard, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.run",
		trace.WithAttributes(attribute.Int("selection.size", len(selection))))
	defer span.End()

	start := time.Now()

	_, filterSpan := s.tracer.Start(ctx, "dashboard.filter")
	view := dataset.Filter(t, selection)
	filterSpan.SetAttributes(attribute.Int("view.rows", view.Len()))
	filterSpan.End()

	_, aggSpan := s.tracer.Start(ctx, "dashboard.aggregate")
	summaries, err := analytics.Run(view)
	aggSpan.End()

	result := "success"
	if err != nil {
		result = "failure"
		span.SetStatus(codes.Error, err.Error())
		infrastructure.RecordError(ctx, err)
	}
	if s.metrics != nil {
		attrs := metric.WithAttributes(attribute.String("result", result))
		s.metrics.DashboardRunsTotal.Add(ctx, 1, attrs)
		s.metrics.DashboardRunLatency.Record(ctx, time.Since(start).Seconds(), attrs)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Dashboard pass failed", slog.String("error", err.Error()))
		return nil, err
	}

	return &domain.Dashboard{
		Dataset:   t.Info(),
		Selection: selection,
		Rows:      view.Len(),
		Summaries: summaries,
	}, nil
}

// Summary returns one aggregator's summary for the selection
func (s *DashboardService) Summary(ctx context.Context, id string, cities []string) (domain.Summary, error) {
	agg, err := analytics.Lookup(id)
	if err != nil {
		return domain.Summary{}, err
	}
	d, err := s.Dashboard(ctx, cities)
	if err != nil {
		return domain.Summary{}, err
	}
	for _, summary := range d.Summaries {
		if summary.ID == agg.ID {
			return summary, nil
		}
	}
	return domain.Summary{}, fmt.Errorf("%w: %q", apierrors.ErrUnknownChart, id)
}

// Chart writes one chart as SVG
func (s *DashboardService) Chart(ctx context.Context, w io.Writer, id string, cities []string) error {
	summary, err := s.Summary(ctx, id, cities)
	if err != nil {
		return err
	}
	return s.render(ctx, w, summary)
}

// RenderDashboard runs Dashboard and draws every chart. A chart that fails
// to draw is reported in its RenderedChart and does not fail the others.
func (s *DashboardService) RenderDashboard(ctx context.Context, cities []string) (*RenderedDashboard, error) {
	d, err := s.Dashboard(ctx, cities)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "dashboard.render",
		trace.WithAttributes(attribute.Int("charts", len(d.Summaries))))
	defer span.End()

	out := &RenderedDashboard{Dashboard: d, Charts: make([]RenderedChart, len(d.Summaries))}
	for i, summary := range d.Summaries {
		var buf bytes.Buffer
		out.Charts[i].Summary = summary
		if err := s.render(ctx, &buf, summary); err != nil {
			out.Charts[i].Err = err
			continue
		}
		out.Charts[i].SVG = buf.Bytes()
	}
	return out, nil
}

func (s *DashboardService) render(ctx context.Context, w io.Writer, summary domain.Summary) error {
	if err := s.renderer.Render(w, summary); err != nil {
		if s.metrics != nil {
			s.metrics.ChartRenderErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("chart", summary.ID)))
		}
		s.logger.ErrorContext(ctx, "Chart render failed",
			slog.String("chart", summary.ID),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}

// Export writes the full loaded table as UTF-8 CSV, ignoring any selection
func (s *DashboardService) Export(ctx context.Context, w io.Writer) error {
	return s.export(ctx, w, "csv", dataset.WriteCSV)
}

// ExportXLSX writes the full loaded table as a workbook
func (s *DashboardService) ExportXLSX(ctx context.Context, w io.Writer) error {
	return s.export(ctx, w, "xlsx", dataset.WriteXLSX)
}

func (s *DashboardService) export(ctx context.Context, w io.Writer, format string, write func(context.Context, io.Writer, *dataset.Table) error) error {
	t, err := s.Table()
	if err != nil {
		return err
	}

	ctx, span := s.tracer.Start(ctx, "dataset.export",
		trace.WithAttributes(attribute.String("format", format), attribute.Int("dataset.rows", t.Len())))
	defer span.End()

	if err := write(ctx, w, t); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("export %s: %w", format, err)
	}
	if s.metrics != nil {
		s.metrics.ExportsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("format", format)))
	}
	return nil
}
