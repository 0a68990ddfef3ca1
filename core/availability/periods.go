package availability

import (
	"fmt"
	"time"
)

// Period is a half-open analysis window [Start, End).
type Period struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// Validate checks the period bounds.
func (p Period) Validate() error {
	if !p.End.After(p.Start) {
		return fmt.Errorf("period %q: end must be after start", p.Label)
	}
	return nil
}

// MonthlyPeriods splits [start, end) into calendar months, clamped to the
// window. Labels are YYYY-MM. Months are computed in start's location, so a
// month containing a daylight-saving transition is 743 or 745 hours long;
// hour counts always come from the records themselves.
func MonthlyPeriods(start, end time.Time) []Period {
	var out []Period
	loc := start.Location()
	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, loc)
	for cur.Before(end) {
		next := cur.AddDate(0, 1, 0)
		p := Period{Label: cur.Format("2006-01"), Start: maxTime(cur, start), End: minTime(next, end)}
		if p.End.After(p.Start) {
			out = append(out, p)
		}
		cur = next
	}
	return out
}

// YearlyPeriods splits [start, end) into calendar years, clamped to the
// window. Labels are YYYY.
func YearlyPeriods(start, end time.Time) []Period {
	var out []Period
	loc := start.Location()
	cur := time.Date(start.Year(), 1, 1, 0, 0, 0, 0, loc)
	for cur.Before(end) {
		next := cur.AddDate(1, 0, 0)
		p := Period{Label: cur.Format("2006"), Start: maxTime(cur, start), End: minTime(next, end)}
		if p.End.After(p.Start) {
			out = append(out, p)
		}
		cur = next
	}
	return out
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
