package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/calendar"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/domain/content"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	src := filepath.Join(root, "episodes")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "orbit.md"),
		[]byte("---\ntitle: Orbit\ndate: \"1971-05-13\"\ntags: [robots, space]\n---\n# Log\n\nStatic on every band.\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "glass.md"),
		[]byte("---\ntitle: Glass\ndate: January 1, 2001\ntags: [robot, glass]\n---\nShards.\n"), 0o644))

	cfgPath := filepath.Join(root, "bodgelab.yaml")
	cfg := fmt.Sprintf(`site:
  title: Test Lab
catalog:
  period_threshold: 1
build:
  source_dir: %q
  public_dir: %q
  index_path: %q
log:
  level: error
`, src, filepath.Join(root, "public"), filepath.Join(root, "state", "index.db"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return cfgPath
}

func TestDateCmd(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.yaml")

	out, err := run(t, "date", "May", "13,", "1971", "--config", missing)
	require.NoError(t, err)
	assert.Contains(t, out, "+001971-05-13")
	assert.Contains(t, out, "Thursday")
	assert.Contains(t, out, "2441084.5")

	out, err = run(t, "date", "--json", "--locale", "de", "--", "-134999-07-21")
	require.NoError(t, err)
	var desc calendar.Description
	require.NoError(t, json.Unmarshal([]byte(out), &desc))
	assert.Equal(t, "-134999-07-21", desc.ISO)
	assert.Equal(t, "135000 BCE", desc.YearLabel)
	assert.Equal(t, 7, desc.Month)

	_, err = run(t, "date", "--locale", "en", "someday")
	assert.ErrorIs(t, err, calendar.ErrUnparseable)

	_, err = run(t, "date")
	assert.Error(t, err)
}

func TestBuildShowQuery(t *testing.T) {
	cfg := writeProject(t)

	out, err := run(t, "build", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "for 2 episodes")
	assert.Contains(t, out, "(ingest)")

	out, err = run(t, "build", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "(cache)")

	out, err = run(t, "show", "orbit", "--config", cfg)
	require.NoError(t, err)
	var e content.Episode
	require.NoError(t, json.Unmarshal([]byte(out), &e))
	assert.Equal(t, "Orbit", e.Title)
	require.NotNil(t, e.Date)
	assert.Equal(t, calendar.New(1971, 4, 13), *e.Date)

	out, err = run(t, "show", "orbit", "--body", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "# Log")
	assert.NotContains(t, out, "title: Orbit")

	_, err = run(t, "show", "nope", "--config", cfg)
	assert.ErrorIs(t, err, index.ErrNotFound)

	out, err = run(t, "query", "--config", cfg, "--tag", "robot", "--sort", "date", "--json")
	require.NoError(t, err)
	var eps []content.Episode
	require.NoError(t, json.Unmarshal([]byte(out), &eps))
	require.Len(t, eps, 2)
	assert.Equal(t, "glass", eps[0].ID)
	assert.Equal(t, "orbit", eps[1].ID)

	out, err = run(t, "query", "--config", cfg, "--year", "1971")
	require.NoError(t, err)
	assert.Contains(t, out, "orbit")
	assert.Contains(t, out, "May 13, 1971")
	assert.Contains(t, out, "Static on every band.")
	assert.NotContains(t, out, "glass")
	assert.Contains(t, out, "1 of 1 episodes")
}

func TestConfigErrors(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("catalog:\n  period_threshold: 0\n"), 0o644))

	_, err := run(t, "build", "--config", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog.period_threshold")
}
