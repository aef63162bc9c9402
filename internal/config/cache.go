package config

import (
	"fmt"
	"path"
	"time"

	"github.com/adrg/xdg"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/debian-rust/deb-rust-sec/debrustsec/tracker"
	"github.com/debian-rust/deb-rust-sec/debrustsec/udd"
	"github.com/debian-rust/deb-rust-sec/internal"
)

type cache struct {
	Dir           string        `yaml:"dir" json:"dir" mapstructure:"dir"`
	PackagesTTL   time.Duration `yaml:"packages-ttl" json:"packages-ttl" mapstructure:"packages-ttl"`
	TrackerTTL    time.Duration `yaml:"tracker-ttl" json:"tracker-ttl" mapstructure:"tracker-ttl"`
	AdvisoryDBTTL time.Duration `yaml:"advisory-db-ttl" json:"advisory-db-ttl" mapstructure:"advisory-db-ttl"`
}

func (cfg cache) loadDefaultValues(v *viper.Viper) {
	// e.g. ~/.cache/deb-rust-sec
	v.SetDefault("cache.dir", path.Join(xdg.CacheHome, internal.ApplicationName))
	v.SetDefault("cache.packages-ttl", udd.DefaultTTL)
	v.SetDefault("cache.tracker-ttl", tracker.DefaultTTL)
	v.SetDefault("cache.advisory-db-ttl", time.Hour)
}

func (cfg *cache) parseConfigValues() error {
	dir, err := homedir.Expand(cfg.Dir)
	if err != nil {
		return fmt.Errorf("unable to expand cache dir=%q: %w", cfg.Dir, err)
	}
	if dir == "" {
		return fmt.Errorf("no cache dir configured")
	}
	cfg.Dir = dir

	for name, ttl := range map[string]time.Duration{
		"packages-ttl":    cfg.PackagesTTL,
		"tracker-ttl":     cfg.TrackerTTL,
		"advisory-db-ttl": cfg.AdvisoryDBTTL,
	} {
		if ttl < 0 {
			return fmt.Errorf("cache.%s must not be negative (got %s)", name, ttl)
		}
	}
	return nil
}
