package metrics

import (
	"context"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/maelgrv/spotflex/core/logger"
	"github.com/maelgrv/spotflex/core/report"
)

// InfluxSink writes availability cells to an InfluxDB bucket, one point per
// (period, power, threshold), so dashboards can follow availability over
// successive report runs.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string, log logger.Logger) *InfluxSink {
	client := influxdb2.NewClient(url, token)
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      log,
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink when the health check fails, so a missing dashboard never blocks
// an analysis run.
func NewInfluxSinkWithFallback(cfg Config, log logger.Logger) Sink {
	sink := NewInfluxSink(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket, log)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			log.Errorf("influx health check error: %v", err)
		} else {
			log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return NopSink{}
	}
	return sink
}

func (s *InfluxSink) RecordIngestion(source string, accepted, rejected int) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("ingestion").
		AddTag("source", source).
		AddField("accepted", accepted).
		AddField("rejected", rejected).
		SetTime(time.Now())
	if err := s.writeAPI.WritePoint(ctx, p); err != nil {
		s.log.Errorf("influx write ingestion: %v", err)
	}
}

func (s *InfluxSink) RecordReport(rep report.Report, dur time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	run := write.NewPointWithMeasurement("report_run").
		AddTag("report_id", rep.ID).
		AddField("periods", len(rep.Periods)).
		AddField("duration_seconds", dur.Seconds()).
		SetTime(rep.GeneratedAt)
	if err := s.writeAPI.WritePoint(ctx, run); err != nil {
		s.log.Errorf("influx write report run: %v", err)
		return
	}
	for _, period := range rep.Periods {
		for _, c := range period.Cells {
			p := write.NewPointWithMeasurement("availability").
				AddTag("report_id", rep.ID).
				AddTag("period", period.Period.Label).
				AddField("power_mw", c.PowerMW).
				AddField("threshold_eur_mwh", c.ThresholdEUR).
				AddField("hours_available", c.HoursAvailable).
				AddField("hours_total", c.HoursTotal).
				AddField("insufficient_data", c.InsufficientData).
				SetTime(period.Period.Start)
			if c.Availability != nil {
				p.AddField("availability", *c.Availability)
			}
			if c.AvgCarbon != nil {
				p.AddField("avg_carbon_intensity", *c.AvgCarbon)
			}
			if err := s.writeAPI.WritePoint(ctx, p); err != nil {
				s.log.Errorf("influx write availability: %v", err)
				return
			}
		}
	}
}

func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}
