package config

import (
	"errors"
	domainerr "github.com/masonamadeus/the-bodge-lab-sub000/internal/domain/errors"
	"gopkg.in/yaml.v3"
	"net"
	"net/url"
	"os"
	"strings"
	"time"
)

type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Catalog CatalogConfig `yaml:"catalog"`
	Build   BuildConfig   `yaml:"build"`
	Serve   ServeConfig   `yaml:"serve"`
	Log     LogConfig     `yaml:"log"`
}

type SiteConfig struct {
	Title    string `yaml:"title"`
	BaseURL  string `yaml:"base_url"`
	Language string `yaml:"language"`
}

// DatePolicy decides what happens to episodes whose date does not parse.
type DatePolicy string

const (
	DatesOmit     DatePolicy = "omit"
	DatesFallback DatePolicy = "fallback"
)

type CatalogConfig struct {
	PeriodThreshold  int        `yaml:"period_threshold"`
	TagThreshold     int        `yaml:"tag_threshold"`
	UnparseableDates DatePolicy `yaml:"unparseable_dates"`
	QueryCacheSize   int        `yaml:"query_cache_size"`
}

type BuildConfig struct {
	SourceDir string        `yaml:"source_dir"`
	FeedFile  string        `yaml:"feed_file"`
	PublicDir string        `yaml:"public_dir"`
	IndexPath string        `yaml:"index_path"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
	Now       time.Time     `yaml:"-"`
}

type ServeConfig struct {
	Addr  string `yaml:"addr"`
	Watch bool   `yaml:"watch"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() Config {
	return Config{
		Site: SiteConfig{
			Title:    "The Bodge Lab",
			Language: "en-US",
		},
		Catalog: CatalogConfig{
			PeriodThreshold:  10,
			TagThreshold:     2,
			UnparseableDates: DatesOmit,
			QueryCacheSize:   128,
		},
		Build: BuildConfig{
			SourceDir: "episodes",
			PublicDir: "public",
			IndexPath: ".bodgelab/index.db",
			CacheTTL:  time.Hour,
			Now:       time.Now(),
		},
		Serve: ServeConfig{
			Addr:  ":8080",
			Watch: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if strings.TrimSpace(c.Site.Title) == "" {
		ve.Add("site.title", "must not be empty")
	}
	if u := strings.TrimSpace(c.Site.BaseURL); u != "" && !isValidAbsURL(u) {
		ve.Add("site.base_url", "must be a valid absolute URL")
	}

	if c.Catalog.PeriodThreshold < 1 {
		ve.Add("catalog.period_threshold", "must be at least 1")
	}
	if c.Catalog.TagThreshold < 1 {
		ve.Add("catalog.tag_threshold", "must be at least 1")
	}
	switch c.Catalog.UnparseableDates {
	case "", DatesOmit, DatesFallback:
	default:
		ve.Add("catalog.unparseable_dates", "must be 'omit' or 'fallback'")
	}
	if c.Catalog.QueryCacheSize < 0 {
		ve.Add("catalog.query_cache_size", "must not be negative")
	}

	if strings.TrimSpace(c.Build.SourceDir) == "" && strings.TrimSpace(c.Build.FeedFile) == "" {
		ve.Add("build.source_dir", "source_dir or feed_file must be set")
	}
	if strings.TrimSpace(c.Build.PublicDir) == "" {
		ve.Add("build.public_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Build.IndexPath) == "" {
		ve.Add("build.index_path", "must not be empty")
	}
	if c.Build.CacheTTL < 0 {
		ve.Add("build.cache_ttl", "must not be negative")
	}

	if _, _, err := net.SplitHostPort(c.Serve.Addr); err != nil {
		ve.Addf("serve.addr", "must be host:port (%v)", err)
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		ve.Add("log.format", "must be 'text' or 'json'")
	}

	if ve.HasAny() {
		return ve
	}
	return nil
}

// DatePolicyOrDefault resolves an empty policy to DatesOmit.
func (c CatalogConfig) DatePolicyOrDefault() DatePolicy {
	if c.UnparseableDates == "" {
		return DatesOmit
	}
	return c.UnparseableDates
}

func isValidAbsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// Load reads path over the defaults: keys present in the file win, the rest
// keep Default values. BODGELAB_* environment variables win over both.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Build.Now.IsZero() {
		cfg.Build.Now = time.Now()
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default()
		if err := ApplyEnv(&cfg); err != nil {
			return cfg, err
		}
		return cfg, cfg.Validate()
	}
	return cfg, err
}
