package generator

import (
	"math"
	"math/rand"
	"time"
)

// Config shapes the synthetic day-ahead price curve.
type Config struct {
	Seed int64 `json:"seed"`
	// BasePrice is the mean price level in EUR/MWh.
	BasePrice float64 `json:"base_price"`
	// DayAmplitude is the peak-to-mean swing of the daily shape.
	DayAmplitude float64 `json:"day_amplitude"`
	// JitterPct adds multiplicative noise, 0.1 = ±10%.
	JitterPct float64 `json:"jitter_pct"`
	// CarbonBase is the mean carbon intensity in gCO2/kWh; 0 omits carbon.
	CarbonBase float64 `json:"carbon_base"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.BasePrice == 0 {
		c.BasePrice = 35
	}
	if c.DayAmplitude == 0 {
		c.DayAmplitude = 20
	}
	if c.JitterPct == 0 {
		c.JitterPct = 0.15
	}
}

// Point is one synthetic market time unit.
type Point struct {
	Start  time.Time
	End    time.Time
	Price  float64
	Carbon float64
}

// Generator emits reproducible synthetic hourly prices. Same seed, same
// window, same series.
type Generator struct {
	cfg  Config
	rand *rand.Rand
}

func New(cfg Config) *Generator {
	cfg.SetDefaults()
	return &Generator{cfg: cfg, rand: rand.New(rand.NewSource(cfg.Seed))}
}

// Series produces one point per hour starting at start, truncated to the
// hour. The curve has a midday solar dip and morning/evening peaks; midday
// hours can go negative when the dip and noise line up.
func (g *Generator) Series(start time.Time, hours int) []Point {
	start = start.Truncate(time.Hour)
	points := make([]Point, 0, hours)
	for i := 0; i < hours; i++ {
		ts := start.Add(time.Duration(i) * time.Hour)
		price := g.cfg.BasePrice + g.cfg.DayAmplitude*dailyShape(ts.Hour())
		price *= g.jitter()
		p := Point{Start: ts, End: ts.Add(time.Hour), Price: round2(price)}
		if g.cfg.CarbonBase > 0 {
			p.Carbon = round2(g.cfg.CarbonBase * g.jitter())
		}
		points = append(points, p)
	}
	return points
}

// dailyShape maps the hour of day onto [-1, 1]: cheap at night, a deeper
// solar dip early afternoon, peaks around 08h and 19h.
func dailyShape(hour int) float64 {
	switch {
	case hour >= 11 && hour <= 15:
		return -1.2
	case hour >= 7 && hour <= 9:
		return 1
	case hour >= 18 && hour <= 20:
		return 1
	case hour >= 0 && hour <= 5:
		return -0.5
	default:
		return math.Sin(float64(hour) / 24 * 2 * math.Pi)
	}
}

func (g *Generator) jitter() float64 {
	return 1 + (g.rand.Float64()*2-1)*g.cfg.JitterPct
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
