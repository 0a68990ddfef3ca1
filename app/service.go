package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/maelgrv/spotflex/config"
	"github.com/maelgrv/spotflex/core/availability"
	"github.com/maelgrv/spotflex/core/ingest"
	"github.com/maelgrv/spotflex/core/pricing"
	"github.com/maelgrv/spotflex/core/report"
	"github.com/maelgrv/spotflex/infra/feed"
	"github.com/maelgrv/spotflex/infra/logger"
	"github.com/maelgrv/spotflex/infra/metrics"
	"github.com/maelgrv/spotflex/internal/eventbus"
	"github.com/maelgrv/spotflex/jobs/batch"
	"github.com/maelgrv/spotflex/pkg/export"
)

// Service runs one full analysis: fetch, normalize, classify, aggregate,
// compile, export.
type Service struct {
	cfg     *config.Config
	log     logger.Logger
	sink    metrics.Sink
	bus     *eventbus.TypedBus[ingest.Rejection]
	sources []feed.Source
	table   *pricing.BandTable
	norm    *ingest.Normalizer
}

// New wires the service from configuration. Band and window validation
// happened at load time; this only builds the collaborators.
func New(cfg *config.Config) (*Service, error) {
	log := logger.New("spotflex")

	table, err := cfg.Bands.Table()
	if err != nil {
		return nil, err
	}

	bus := eventbus.NewTyped[ingest.Rejection]()
	norm, err := ingest.NewNormalizer(cfg.Ingest, log, bus)
	if err != nil {
		return nil, err
	}

	var sinks []metrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(nil)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics, logger.New("influx-sink")))
	}
	var sink metrics.Sink = metrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	return &Service{
		cfg:     cfg,
		log:     log,
		sink:    sink,
		bus:     bus,
		sources: cfg.Feeds.Build(),
		table:   table,
		norm:    norm,
	}, nil
}

// Run executes the pipeline once and writes the configured exports.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	rejections := s.bus.Subscribe()
	go func() {
		for rej := range rejections {
			s.log.Warnf("dropped row from %s: %s (%q)", rej.Source, rej.Reason, rej.Row.Timestamp)
		}
	}()

	payloads := make([]ingest.Payload, 0, len(s.sources))
	for _, src := range s.sources {
		payload, err := src.Fetch(ctx)
		if err != nil {
			return fmt.Errorf("fetch payload: %w", err)
		}
		payloads = append(payloads, payload)
	}

	started := time.Now()
	res, err := s.norm.Ingest(payloads...)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	s.recordIngestion(res)

	rep, err := s.computeReport(ctx, res)
	if err != nil {
		return err
	}
	s.sink.RecordReport(rep, time.Since(started))

	if err := s.export(rep); err != nil {
		return err
	}
	s.log.Infof("report %s: %d periods, %d records, %d rejected rows",
		rep.ID, len(rep.Periods), len(res.Series), len(res.Rejected))
	return nil
}

func (s *Service) computeReport(ctx context.Context, res ingest.Result) (report.Report, error) {
	loc, err := time.LoadLocation(s.cfg.Ingest.ReferenceZone)
	if err != nil {
		return report.Report{}, err
	}
	start, end, err := s.cfg.Analysis.Window(loc)
	if err != nil {
		return report.Report{}, err
	}

	var periods []availability.Period
	switch s.cfg.Analysis.GroupBy {
	case "month":
		periods = availability.MonthlyPeriods(start, end)
	case "year":
		periods = availability.YearlyPeriods(start, end)
	default:
		periods = []availability.Period{{Label: "period", Start: start, End: end}}
	}

	classified := s.table.Annotate(res.Series)
	results, err := batch.Run(ctx, batch.Request{
		Records:    classified,
		Periods:    periods,
		Thresholds: s.cfg.Analysis.Thresholds,
		PowersMW:   s.cfg.Analysis.PowerLevelsMW,
		MinSample:  s.cfg.Analysis.MinSampleHours,
		Workers:    s.cfg.Analysis.Workers,
	})
	if err != nil {
		return report.Report{}, fmt.Errorf("aggregate: %w", err)
	}

	reports := make([]report.PeriodReport, len(results))
	for i, r := range results {
		var hourly []availability.HourBucket
		if r.HoursTotal > 0 {
			profile := availability.HourlyProfile(classified, r.Period, s.cfg.Analysis.ReferenceThreshold)
			hourly = profile[:]
		}
		reports[i] = report.NewPeriodReport(r, availability.SummarizePrices(classified, r.Period), hourly)
	}

	compiler := report.NewCompiler()
	return compiler.Compile(s.cfg.Ingest.ReferenceZone, s.table.Bands(), reports, res.Provenance, len(res.Rejected)), nil
}

func (s *Service) recordIngestion(res ingest.Result) {
	accepted := make(map[string]int)
	rejected := make(map[string]int)
	for _, rec := range res.Series {
		accepted[rec.Source]++
	}
	for _, rej := range res.Rejected {
		rejected[rej.Source]++
	}
	for source := range merge(accepted, rejected) {
		s.sink.RecordIngestion(source, accepted[source], rejected[source])
	}
}

func merge(a, b map[string]int) map[string]struct{} {
	out := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}

func (s *Service) export(rep report.Report) error {
	if path := s.cfg.Output.JSONPath; path != "" {
		if err := writeFile(path, func(f *os.File) error { return export.WriteJSON(f, rep) }); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
	}
	if path := s.cfg.Output.CSVPath; path != "" {
		if err := writeFile(path, func(f *os.File) error { return export.WriteCSV(f, rep) }); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Close releases the metrics sink and the diagnostics bus.
func (s *Service) Close() error {
	s.bus.Close()
	return s.sink.Close()
}
