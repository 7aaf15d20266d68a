package config

import (
	"errors"
	domainerr "github.com/masonamadeus/the-bodge-lab-sub000/internal/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bodgelab.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.Catalog.PeriodThreshold)
	assert.Equal(t, 2, cfg.Catalog.TagThreshold)
	assert.Equal(t, DatesOmit, cfg.Catalog.DatePolicyOrDefault())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
site:
  title: Archive
catalog:
  period_threshold: 4
  unparseable_dates: fallback
build:
  source_dir: content
  cache_ttl: 15m
serve:
  addr: "127.0.0.1:9000"
log:
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Archive", cfg.Site.Title)
	assert.Equal(t, 4, cfg.Catalog.PeriodThreshold)
	assert.Equal(t, 2, cfg.Catalog.TagThreshold, "untouched keys keep defaults")
	assert.Equal(t, DatesFallback, cfg.Catalog.UnparseableDates)
	assert.Equal(t, "content", cfg.Build.SourceDir)
	assert.Equal(t, 15*time.Minute, cfg.Build.CacheTTL)
	assert.Equal(t, "public", cfg.Build.PublicDir)
	assert.Equal(t, "127.0.0.1:9000", cfg.Serve.Addr)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.Build.Now.IsZero())
}

func TestLoad_ValidationErrors(t *testing.T) {
	path := writeConfig(t, `
site:
  title: ""
  base_url: "ftp://example.com"
catalog:
  period_threshold: 0
  unparseable_dates: guess
serve:
  addr: "nope"
log:
  format: xml
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerr.ErrInvalid))

	var ve domainerr.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{
		"catalog.period_threshold",
		"catalog.unparseable_dates",
		"log.format",
		"serve.addr",
		"site.base_url",
		"site.title",
	}, ve.Fields())
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "site: [unterminated")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Site.Title, cfg.Site.Title)
}

func TestValidate_RequiresSource(t *testing.T) {
	cfg := Default()
	cfg.Build.SourceDir = ""
	cfg.Build.FeedFile = ""
	err := cfg.Validate()

	var ve domainerr.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields(), "build.source_dir")

	cfg.Build.FeedFile = "feed.yaml"
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("BODGELAB_SOURCE_DIR", "from-env")
	t.Setenv("BODGELAB_ADDR", "127.0.0.1:9999")
	t.Setenv("BODGELAB_CACHE_TTL", "90s")
	t.Setenv("BODGELAB_WATCH", "false")

	path := writeConfig(t, "build:\n  source_dir: content\n  public_dir: out\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Build.SourceDir)
	assert.Equal(t, "out", cfg.Build.PublicDir, "unset variables keep the file value")
	assert.Equal(t, "127.0.0.1:9999", cfg.Serve.Addr)
	assert.Equal(t, 90*time.Second, cfg.Build.CacheTTL)
	assert.False(t, cfg.Serve.Watch)

	cfg, err = LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Build.SourceDir)
}

func TestApplyEnv_BadValue(t *testing.T) {
	t.Setenv("BODGELAB_CACHE_TTL", "soon")
	cfg := Default()
	assert.Error(t, ApplyEnv(&cfg))
}
