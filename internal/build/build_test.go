package build

import (
	"context"
	"encoding/json"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/catalog"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/domain/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	root := t.TempDir()
	src := filepath.Join(root, "episodes")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "orbit.md"),
		[]byte("---\ntitle: Orbit\ndate: \"1971-05-13\"\ntags: [robots, space]\n---\n# Log\n\nStatic.\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "glass.md"),
		[]byte("---\ntitle: Glass\ndate: January 1, 2001\ntags: [robot, glass]\n---\nShards.\n"), 0o644))
	feed := filepath.Join(root, "feed.yaml")
	require.NoError(t, os.WriteFile(feed,
		[]byte("- title: Deep Past\n  date: \"-134999-01-01\"\n  tags: [fossils]\n  body: Found *fossils*.\n"), 0o644))

	cfg := config.Default()
	cfg.Catalog.PeriodThreshold = 1
	cfg.Build.SourceDir = src
	cfg.Build.FeedFile = feed
	cfg.Build.PublicDir = filepath.Join(root, "public")
	cfg.Build.IndexPath = filepath.Join(root, "state", "index.db")
	cfg.Build.Now = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return cfg
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, v))
}

func TestBuilder_Run(t *testing.T) {
	cfg := testConfig(t)
	res, err := (&Builder{Cfg: cfg}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, res.Episodes)
	assert.Equal(t, 12, res.Routes)
	assert.False(t, res.FromCache)
	assert.Empty(t, res.Warnings)

	for _, rel := range []string{
		"index.json",
		"facets.json",
		"years/index.json",
		"tags/index.json",
		"years/135000-BCE.json",
		"years/1971.json",
		"years/2001.json",
		"tags/robot.json",
		"tags/Misc-Tags.json",
		"episodes/orbit.json",
		"episodes/glass.json",
		"episodes/deep-past.json",
	} {
		assert.FileExists(t, filepath.Join(cfg.Build.PublicDir, filepath.FromSlash(rel)))
	}

	var idx struct {
		Title     string    `json:"title"`
		Generated time.Time `json:"generated"`
		Episodes  []struct {
			ID   string `json:"id"`
			Date string `json:"date"`
		} `json:"episodes"`
	}
	readJSON(t, filepath.Join(cfg.Build.PublicDir, "index.json"), &idx)
	assert.Equal(t, "The Bodge Lab", idx.Title)
	assert.True(t, cfg.Build.Now.Equal(idx.Generated))
	dates := map[string]string{}
	for _, e := range idx.Episodes {
		dates[e.ID] = e.Date
	}
	assert.Equal(t, map[string]string{
		"orbit":     "+001971-05-13",
		"glass":     "+002001-01-01",
		"deep-past": "-134999-01-01",
	}, dates)

	var tags []struct {
		Label string `json:"label"`
		Count int    `json:"count"`
	}
	readJSON(t, filepath.Join(cfg.Build.PublicDir, "tags", "index.json"), &tags)
	require.Len(t, tags, 2)
	assert.Equal(t, "robot", tags[0].Label)
	assert.Equal(t, 2, tags[0].Count)
	assert.Equal(t, catalog.MiscTagsLabel, tags[1].Label)
	assert.Equal(t, 3, tags[1].Count)

	var ep struct {
		ID        string `json:"id"`
		HTML      string `json:"html"`
		DateLabel string `json:"date_label"`
	}
	readJSON(t, filepath.Join(cfg.Build.PublicDir, "episodes", "orbit.json"), &ep)
	assert.Equal(t, "orbit", ep.ID)
	assert.Contains(t, ep.HTML, "<h1")
	assert.Equal(t, "Thursday, May 13, 1971", ep.DateLabel)
}

func TestBuilder_Run_UsesCache(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	first, err := (&Builder{Cfg: cfg}).Run(ctx)
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := (&Builder{Cfg: cfg}).Run(ctx)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Episodes, second.Episodes)
	assert.Equal(t, first.Routes, second.Routes)

	forced, err := (&Builder{Cfg: cfg, Force: true}).Run(ctx)
	require.NoError(t, err)
	assert.False(t, forced.FromCache)

	// a size change alters the source stamp
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Build.SourceDir, "glass.md"),
		[]byte("---\ntitle: Glass\ndate: January 1, 2001\ntags: [robot, glass]\n---\nMore shards than before.\n"), 0o644))
	third, err := (&Builder{Cfg: cfg}).Run(ctx)
	require.NoError(t, err)
	assert.False(t, third.FromCache)
}

func TestBuilder_Run_Cancelled(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&Builder{Cfg: cfg}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFingerprint(t *testing.T) {
	cfg := config.Default()
	base := Fingerprint(cfg, []string{"a|1|1", "b|2|2"}).Sum

	assert.Equal(t, base, Fingerprint(cfg, []string{"b|2|2", "a|1|1"}).Sum, "stamp order is irrelevant")
	assert.NotEqual(t, base, Fingerprint(cfg, []string{"a|1|1", "b|3|2"}).Sum)

	cfg.Catalog.UnparseableDates = config.DatesFallback
	assert.NotEqual(t, base, Fingerprint(cfg, []string{"a|1|1", "b|2|2"}).Sum)

	other := config.Default()
	other.Catalog.PeriodThreshold = 99
	assert.Equal(t, base, Fingerprint(other, []string{"a|1|1", "b|2|2"}).Sum, "grouping settings do not affect ingest")
}

func TestLoader_Load_WithoutStore(t *testing.T) {
	cfg := testConfig(t)
	l := &Loader{Cfg: cfg}

	got, err := l.Load(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, got.FromCache)
	require.Len(t, got.Episodes, 3)
	// date order with the deep past first
	assert.Equal(t, "deep-past", got.Episodes[0].ID)
	assert.Equal(t, "orbit", got.Episodes[1].ID)
	assert.Equal(t, "glass", got.Episodes[2].ID)
	assert.NotEmpty(t, got.Fingerprint)
}

func TestRefresh(t *testing.T) {
	cfg := testConfig(t)
	cat := catalog.New(CatalogOptions(cfg, nil))

	_, err := Refresh(context.Background(), &Loader{Cfg: cfg}, cat, false)
	require.NoError(t, err)
	assert.Equal(t, 3, cat.Len())
	assert.Equal(t, uint64(1), cat.Generation())

	cfg.Build.SourceDir = filepath.Join(t.TempDir(), "missing")
	_, err = Refresh(context.Background(), &Loader{Cfg: cfg}, cat, false)
	assert.Error(t, err)
	assert.Equal(t, 3, cat.Len(), "failed refresh keeps the previous list")
}
