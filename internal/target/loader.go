package target

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a target configuration from a YAML file and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read target config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML target configuration and applies defaults.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse target config: %w", err)
	}
	applyDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.MinPerc == 0 {
		cfg.MinPerc = DefaultMinPerc
	}
	if cfg.MaxPerc == 0 {
		cfg.MaxPerc = DefaultMaxPerc
	}
	if cfg.ErrorModel == (ErrorModel{}) {
		// Conservative CCS-like defaults.
		cfg.ErrorModel = ErrorModel{Match: 0.995, Substitution: 0.003, Deletion: 0.002}
	}
	cfg.ReferenceSequence = strings.ToUpper(strings.TrimSpace(cfg.ReferenceSequence))
}

func validate(cfg *Config) error {
	for _, g := range cfg.Genes {
		if g.End-g.Begin < 3 {
			return fmt.Errorf("gene %q: region [%d,%d) spans less than one codon", g.Name, g.Begin, g.End)
		}
	}
	em := cfg.ErrorModel
	if em.Match <= 0 || em.Substitution < 0 || em.Deletion < 0 {
		return fmt.Errorf("error model: probabilities must be positive (match=%g sub=%g del=%g)",
			em.Match, em.Substitution, em.Deletion)
	}
	return nil
}
