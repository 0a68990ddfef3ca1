package ingest

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/maelgrv/spotflex/core/logger"
	"github.com/maelgrv/spotflex/core/model"
	"github.com/maelgrv/spotflex/internal/eventbus"
)

// DefaultReferenceZone is the zone all canonical timestamps are normalized
// to. Using a single fixed zone keeps daylight-saving transitions
// unambiguous across feeds.
const DefaultReferenceZone = "Europe/Paris"

// Config defines normalizer settings.
type Config struct {
	// ReferenceZone is the IANA zone canonical timestamps are expressed in.
	ReferenceZone string `json:"reference_zone"`
	// Authority lists sources from most to least authoritative. Sources not
	// listed rank below every listed one. Precedence between feeds is never
	// inferred; it must be spelled out here.
	Authority []string `json:"authority"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ReferenceZone == "" {
		c.ReferenceZone = DefaultReferenceZone
	}
}

// ProvenanceNote documents how a duplicate-timestamp conflict was resolved.
type ProvenanceNote struct {
	Timestamp time.Time `json:"timestamp"`
	Kept      string    `json:"kept"`
	Dropped   string    `json:"dropped"`
	Reason    string    `json:"reason"`
}

// Result is the outcome of one normalization run.
type Result struct {
	Series     model.Series
	Rejected   []Rejection
	Provenance []ProvenanceNote
}

// Normalizer converts raw payloads into a deduplicated canonical series.
type Normalizer struct {
	loc    *time.Location
	rank   map[string]int
	log    logger.Logger
	events *eventbus.TypedBus[Rejection]
}

// NewNormalizer builds a Normalizer. log and events may be nil.
func NewNormalizer(cfg Config, log logger.Logger, events *eventbus.TypedBus[Rejection]) (*Normalizer, error) {
	cfg.SetDefaults()
	loc, err := time.LoadLocation(cfg.ReferenceZone)
	if err != nil {
		return nil, fmt.Errorf("load reference zone %q: %w", cfg.ReferenceZone, err)
	}
	rank := make(map[string]int, len(cfg.Authority))
	for i, s := range cfg.Authority {
		if _, dup := rank[s]; dup {
			return nil, fmt.Errorf("duplicate source %q in authority list", s)
		}
		rank[s] = i
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Normalizer{loc: loc, rank: rank, log: log, events: events}, nil
}

// sourceRank returns the precedence of a source; unlisted sources rank last.
func (n *Normalizer) sourceRank(source string) int {
	if r, ok := n.rank[source]; ok {
		return r
	}
	return len(n.rank)
}

// Ingest normalizes the given payloads into a single time-ordered series.
// Malformed rows are dropped and reported in Result.Rejected; ingestion of
// the remaining rows continues. The only fatal condition is a payload whose
// declared timezone cannot be loaded, since that invalidates every row in it.
func (n *Normalizer) Ingest(payloads ...Payload) (Result, error) {
	var res Result
	kept := make(map[int64]model.CanonicalRecord)

	for _, p := range payloads {
		loc := n.loc
		if p.Timezone != "" {
			var err error
			loc, err = time.LoadLocation(p.Timezone)
			if err != nil {
				return Result{}, fmt.Errorf("payload %q: load timezone %q: %w", p.Source, p.Timezone, err)
			}
		}
		for _, row := range p.Rows {
			rec, reason := n.parseRow(p.Source, row, loc)
			if reason != "" {
				n.reject(&res, p.Source, row, reason)
				continue
			}
			key := rec.Timestamp.Unix()
			old, exists := kept[key]
			if !exists {
				kept[key] = rec
				continue
			}
			if n.sourceRank(rec.Source) <= n.sourceRank(old.Source) {
				kept[key] = rec
				n.note(&res, rec, old)
			} else {
				n.note(&res, old, rec)
			}
		}
	}

	res.Series = make(model.Series, 0, len(kept))
	for _, rec := range kept {
		res.Series = append(res.Series, rec)
	}
	sort.Slice(res.Series, func(i, j int) bool {
		return res.Series[i].Timestamp.Before(res.Series[j].Timestamp)
	})
	n.log.Infof("ingested %d records, rejected %d rows, %d dedup conflicts",
		len(res.Series), len(res.Rejected), len(res.Provenance))
	return res, nil
}

func (n *Normalizer) parseRow(source string, row RawRow, loc *time.Location) (model.CanonicalRecord, string) {
	ts, err := parseTimestamp(strings.TrimSpace(row.Timestamp), loc)
	if err != nil {
		return model.CanonicalRecord{}, err.Error()
	}
	ts = ts.In(n.loc)
	if ts.Minute() != 0 || ts.Second() != 0 || ts.Nanosecond() != 0 {
		return model.CanonicalRecord{}, "timestamp not hour-aligned"
	}
	priceText := strings.TrimSpace(row.Price)
	if priceText == "" {
		return model.CanonicalRecord{}, "missing price"
	}
	price, err := strconv.ParseFloat(priceText, 64)
	if err != nil {
		return model.CanonicalRecord{}, fmt.Sprintf("unparseable price %q", row.Price)
	}
	// ParseFloat accepts "NaN" and "Inf"; neither is a price.
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return model.CanonicalRecord{}, fmt.Sprintf("non-finite price %q", row.Price)
	}
	rec := model.CanonicalRecord{Timestamp: ts, Price: price, Source: source}
	if carbonText := strings.TrimSpace(row.Carbon); carbonText != "" {
		carbon, err := strconv.ParseFloat(carbonText, 64)
		if err != nil {
			return model.CanonicalRecord{}, fmt.Sprintf("unparseable carbon intensity %q", row.Carbon)
		}
		if math.IsNaN(carbon) || math.IsInf(carbon, 0) {
			return model.CanonicalRecord{}, fmt.Sprintf("non-finite carbon intensity %q", row.Carbon)
		}
		rec.Carbon = &carbon
	}
	return rec, ""
}

// timestampLayouts lists the formats accepted from feeds. Layouts without an
// offset are interpreted in the payload's declared zone.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

func parseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("missing timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

func (n *Normalizer) reject(res *Result, source string, row RawRow, reason string) {
	rej := Rejection{Source: source, Row: row, Reason: reason}
	res.Rejected = append(res.Rejected, rej)
	if n.events != nil {
		n.events.Publish(rej)
	}
	n.log.Debugw("row rejected", map[string]any{
		"source": source, "timestamp": row.Timestamp, "reason": reason,
	})
}

// note records a dedup resolution. Replacing a record with an identical one
// (same source, price and carbon) is silent so that re-ingesting a payload
// stays idempotent.
func (n *Normalizer) note(res *Result, kept, dropped model.CanonicalRecord) {
	if kept.Source == dropped.Source && kept.Price == dropped.Price && equalCarbon(kept.Carbon, dropped.Carbon) {
		return
	}
	reason := "most recent ingest wins"
	if n.sourceRank(kept.Source) < n.sourceRank(dropped.Source) {
		reason = "authoritative source precedence"
	}
	res.Provenance = append(res.Provenance, ProvenanceNote{
		Timestamp: kept.Timestamp,
		Kept:      kept.Source,
		Dropped:   dropped.Source,
		Reason:    reason,
	})
}

func equalCarbon(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
