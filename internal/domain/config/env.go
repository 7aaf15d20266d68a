package config

import (
	"fmt"
	"github.com/caarlos0/env/v11"
	"time"
)

// envOverrides are the settings a deployment may set without a config file.
// Unset variables leave the file value alone.
type envOverrides struct {
	SourceDir string         `env:"BODGELAB_SOURCE_DIR"`
	FeedFile  string         `env:"BODGELAB_FEED_FILE"`
	PublicDir string         `env:"BODGELAB_PUBLIC_DIR"`
	IndexPath string         `env:"BODGELAB_INDEX_PATH"`
	CacheTTL  *time.Duration `env:"BODGELAB_CACHE_TTL"`
	Addr      string         `env:"BODGELAB_ADDR"`
	Watch     *bool          `env:"BODGELAB_WATCH"`
	LogLevel  string         `env:"BODGELAB_LOG_LEVEL"`
	LogFormat string         `env:"BODGELAB_LOG_FORMAT"`
}

// ApplyEnv overlays BODGELAB_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Build.SourceDir, o.SourceDir)
	set(&cfg.Build.FeedFile, o.FeedFile)
	set(&cfg.Build.PublicDir, o.PublicDir)
	set(&cfg.Build.IndexPath, o.IndexPath)
	set(&cfg.Serve.Addr, o.Addr)
	set(&cfg.Log.Level, o.LogLevel)
	set(&cfg.Log.Format, o.LogFormat)
	if o.CacheTTL != nil {
		cfg.Build.CacheTTL = *o.CacheTTL
	}
	if o.Watch != nil {
		cfg.Serve.Watch = *o.Watch
	}
	return nil
}
