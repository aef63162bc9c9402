package config

import (
	"fmt"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/debian-rust/deb-rust-sec/internal"
)

// sources locates the three inputs of an audit.
type sources struct {
	UDDDSN        string `yaml:"udd-dsn" json:"udd-dsn" mapstructure:"udd-dsn"`
	TrackerURL    string `yaml:"tracker-url" json:"tracker-url" mapstructure:"tracker-url"`
	AdvisoryDBURL string `yaml:"advisory-db-url" json:"advisory-db-url" mapstructure:"advisory-db-url"`
	AdvisoryDBDir string `yaml:"advisory-db-dir" json:"advisory-db-dir" mapstructure:"advisory-db-dir"` // defaults to <cache.dir>/advisory-db
}

func (cfg sources) loadDefaultValues(v *viper.Viper) {
	v.SetDefault("sources.udd-dsn", internal.UDDMirrorDSN)
	v.SetDefault("sources.tracker-url", internal.SecurityTrackerURL)
	v.SetDefault("sources.advisory-db-url", internal.AdvisoryDBURL)
	v.SetDefault("sources.advisory-db-dir", "")
}

func (cfg *sources) parseConfigValues() error {
	for name, value := range map[string]string{
		"udd-dsn":         cfg.UDDDSN,
		"tracker-url":     cfg.TrackerURL,
		"advisory-db-url": cfg.AdvisoryDBURL,
	} {
		if value == "" {
			return fmt.Errorf("sources.%s must be set", name)
		}
	}

	dir, err := homedir.Expand(cfg.AdvisoryDBDir)
	if err != nil {
		return fmt.Errorf("unable to expand advisory-db dir=%q: %w", cfg.AdvisoryDBDir, err)
	}
	cfg.AdvisoryDBDir = dir
	return nil
}
