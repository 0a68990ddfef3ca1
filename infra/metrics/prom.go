package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maelgrv/spotflex/core/report"
)

// PromSink records pipeline metrics in Prometheus collectors.
type PromSink struct {
	accepted *prometheus.CounterVec
	rejected *prometheus.CounterVec
	periods  prometheus.Gauge
	duration prometheus.Histogram
}

// NewPromSink registers the pipeline collectors on the provided registerer.
// If reg is nil, the default registerer is used. Already-registered
// collectors are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	accepted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spotflex_rows_accepted_total",
		Help: "Rows accepted by the ingestion normalizer",
	}, []string{"source"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spotflex_rows_rejected_total",
		Help: "Rows rejected as malformed during ingestion",
	}, []string{"source"})
	periods := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "spotflex_report_periods",
		Help: "Periods contained in the last compiled report",
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "spotflex_report_duration_seconds",
		Help:    "Time spent computing a report",
		Buckets: prometheus.DefBuckets,
	})

	if err := reg.Register(accepted); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			accepted = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(rejected); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			rejected = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(periods); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			periods = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	return &PromSink{accepted: accepted, rejected: rejected, periods: periods, duration: duration}, nil
}

func (s *PromSink) RecordIngestion(source string, accepted, rejected int) {
	s.accepted.WithLabelValues(source).Add(float64(accepted))
	s.rejected.WithLabelValues(source).Add(float64(rejected))
}

func (s *PromSink) RecordReport(rep report.Report, dur time.Duration) {
	s.periods.Set(float64(len(rep.Periods)))
	s.duration.Observe(dur.Seconds())
}

func (s *PromSink) Close() error { return nil }

// StartPromServer exposes /metrics on addr until ctx is canceled. A
// dedicated ServeMux avoids interfering with other handlers.
func StartPromServer(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
