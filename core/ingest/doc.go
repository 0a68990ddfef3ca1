package ingest

// Package ingest normalizes heterogeneous spot-price payloads into a single
// canonical hourly series. Rows are parsed strictly: anything without a
// valid hour-aligned timestamp and a numeric price is rejected and reported,
// never coerced. Duplicate hours across feeds are resolved by an explicit
// source-authority ranking, with a provenance note per conflict.
