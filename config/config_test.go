package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

const yamlConfig = `
ingest:
  authority: ["entsoe", "epex"]
feeds:
  csv:
    - source: entsoe
      path: prices.csv
      timezone: UTC
      has_header: true
analysis:
  period_start: "2024-01-01"
  period_end: "2025-01-01"
  group_by: year
output:
  csv_path: out.csv
`

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "cfg.yaml", yamlConfig)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Ingest.Authority) != 2 || cfg.Ingest.Authority[0] != "entsoe" {
		t.Fatalf("authority lost: %+v", cfg.Ingest)
	}
	if cfg.Ingest.ReferenceZone != "Europe/Paris" {
		t.Fatalf("reference zone default missing: %q", cfg.Ingest.ReferenceZone)
	}
	if cfg.Analysis.GroupBy != "year" {
		t.Fatalf("group_by = %q", cfg.Analysis.GroupBy)
	}
	// Presets fill what the file leaves out.
	if len(cfg.Analysis.Thresholds) != 8 || cfg.Analysis.Thresholds[0] != 10 {
		t.Fatalf("threshold preset missing: %v", cfg.Analysis.Thresholds)
	}
	if len(cfg.Analysis.PowerLevelsMW) != 5 {
		t.Fatalf("power preset missing: %v", cfg.Analysis.PowerLevelsMW)
	}
	if cfg.Analysis.MinSampleHours != 24 {
		t.Fatalf("min sample default missing: %d", cfg.Analysis.MinSampleHours)
	}
	if _, err := cfg.Bands.Table(); err != nil {
		t.Fatalf("default bands must validate: %v", err)
	}
	if len(cfg.Feeds.CSV) != 1 || !cfg.Feeds.CSV[0].HasHeader {
		t.Fatalf("csv feed lost: %+v", cfg.Feeds.CSV)
	}
	if cfg.Output.CSVPath != "out.csv" || cfg.Output.JSONPath != "" {
		t.Fatalf("output config mangled: %+v", cfg.Output)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "cfg.json", `{
		"analysis": {"period_start": "2024-01-01", "period_end": "2024-02-01"}
	}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Analysis.GroupBy != "month" {
		t.Fatalf("group_by default missing")
	}
	if cfg.Output.JSONPath != "report.json" {
		t.Fatalf("output default missing: %+v", cfg.Output)
	}
}

func TestLoadRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"reversed window", `{"analysis": {"period_start": "2025-01-01", "period_end": "2024-01-01"}}`},
		{"bad group_by", `{"analysis": {"period_start": "2024-01-01", "period_end": "2025-01-01", "group_by": "week"}}`},
		{"negative power", `{"analysis": {"period_start": "2024-01-01", "period_end": "2025-01-01", "power_levels_mw": [-1]}}`},
		{"bands without top", `{
			"analysis": {"period_start": "2024-01-01", "period_end": "2025-01-01"},
			"bands": {"bands": [{"label": "cheap", "ceiling": 10}]}
		}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, "cfg.json", tc.data)
			if _, err := Load(path); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeConfig(t, "cfg.toml", "x = 1")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestEnvOverride(t *testing.T) {
	path := writeConfig(t, "cfg.json", `{"analysis": {"period_start": "2024-01-01", "period_end": "2025-01-01"}}`)
	t.Setenv("SPOTFLEX_ANALYSIS__GROUP_BY", "year")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Analysis.GroupBy != "year" {
		t.Fatalf("env override ignored: %q", cfg.Analysis.GroupBy)
	}
}
