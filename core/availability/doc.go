package availability

// Package availability reduces a classified hourly price series to
// procurement decision metrics: for every (power level, price threshold)
// pair, the fraction of a period the load could run at or below that price,
// plus per-period price statistics and hour-of-day profiles. Gap hours never
// enter the denominator, and cells with too small a sample are flagged
// instead of reporting a misleading fraction.
