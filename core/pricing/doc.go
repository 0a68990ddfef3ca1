package pricing

// Package pricing classifies canonical hourly records against an ordered
// table of price bands. The table partitions the whole real line: it is
// validated once at construction and classification is a pure function of
// price and table, so identical inputs always yield identical labels.
