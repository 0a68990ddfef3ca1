package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/maelgrv/spotflex/core/report"
)

// WriteJSON writes the availability report to w in JSON format.
func WriteJSON(w io.Writer, rep report.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// WriteCSV writes one row per (period, cell) to w. Absent fractions stay
// empty cells, never zeros.
func WriteCSV(w io.Writer, rep report.Report) error {
	cw := csv.NewWriter(w)
	header := []string{
		"period",
		"period_start",
		"period_end",
		"power_mw",
		"threshold_eur_mwh",
		"hours_available",
		"hours_total",
		"insufficient_data",
		"availability",
		"energy_weighted_availability",
		"available_energy_mwh",
		"avg_carbon_intensity",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, p := range rep.Periods {
		for _, c := range p.Cells {
			rec := []string{
				p.Period.Label,
				p.Period.Start.Format(time.RFC3339),
				p.Period.End.Format(time.RFC3339),
				fmtFloat(c.PowerMW),
				fmtFloat(c.ThresholdEUR),
				strconv.Itoa(c.HoursAvailable),
				strconv.Itoa(c.HoursTotal),
				strconv.FormatBool(c.InsufficientData),
				fmtOptional(c.Availability),
				fmtOptional(c.EnergyWeightedAvailability),
				fmtOptional(c.AvailableEnergyMWh),
				fmtOptional(c.AvgCarbon),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func fmtOptional(x *float64) string {
	if x == nil {
		return ""
	}
	return fmtFloat(*x)
}
