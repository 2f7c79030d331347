package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the run configuration, loadable from a YAML file. Everything is
// passed explicitly; the pipeline itself touches no filesystem state.
type Config struct {
	// Outlier trim percentiles over daily_pnl.
	TrimLowerPct float64 `yaml:"trim_lower_pct"`
	TrimUpperPct float64 `yaml:"trim_upper_pct"`

	// Model training.
	TestFraction float64 `yaml:"test_fraction"`
	Seed         int64   `yaml:"seed"`

	// K-means clusters for trader segmentation.
	Clusters int `yaml:"clusters"`

	// OutputDir receives CSV/markdown reports; created by the reporting
	// collaborator at call time, not as an import side effect.
	OutputDir string `yaml:"output_dir"`
}

// DefaultConfig mirrors historical run settings.
func DefaultConfig() Config {
	return Config{
		TrimLowerPct: 0.01,
		TrimUpperPct: 0.99,
		TestFraction: 0.3,
		Seed:         1,
		Clusters:     3,
		OutputDir:    "outputs",
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if cfg.TrimLowerPct < 0 || cfg.TrimUpperPct > 1 || cfg.TrimLowerPct >= cfg.TrimUpperPct {
		return cfg, fmt.Errorf("invalid trim percentiles [%v, %v]", cfg.TrimLowerPct, cfg.TrimUpperPct)
	}
	return cfg, nil
}
