package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/maelgrv/spotflex/core/ingest"
	"github.com/maelgrv/spotflex/infra/feed"
	"github.com/maelgrv/spotflex/infra/metrics"
)

// Config is the root configuration of an analysis run.
type Config struct {
	Ingest   ingest.Config  `json:"ingest"`
	Feeds    feed.Config    `json:"feeds"`
	Bands    BandsConfig    `json:"bands"`
	Analysis AnalysisConfig `json:"analysis"`
	Output   OutputConfig   `json:"output"`
	Metrics  metrics.Config `json:"metrics"`
}

// Load reads the configuration file (YAML or JSON by extension), applies
// SPOTFLEX_-prefixed environment overrides, then defaults and validation.
// Configuration errors fail here, before any computation starts.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides: SPOTFLEX_ANALYSIS__GROUP_BY=year etc.
	if err := k.Load(env.Provider("SPOTFLEX_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "spotflex_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Ingest.SetDefaults()
	cfg.Bands.SetDefaults()
	cfg.Analysis.SetDefaults()
	cfg.Output.SetDefaults()
	cfg.Metrics.SetDefaults()
	if err := cfg.Bands.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Analysis.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
