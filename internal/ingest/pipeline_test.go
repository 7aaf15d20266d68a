package ingest

import (
	"context"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/calendar"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/domain/config"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/domain/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func seedSource(t *testing.T) (dir, feed string) {
	t.Helper()
	dir = t.TempDir()
	writeFile(t, dir, "a.md", "---\ntitle: Signal From Orbit\ndate: May 13, 1971\ntags: [robots, space, Robots]\nmodel: M1\npublished: \"2020-01-01\"\nduration: 30\n---\n# Log\n\nStatic on *every* band.\n")
	writeFile(t, dir, "b.md", "---\nid: Custom ID\ntitle: Glass\ndate: not a date\n---\nbody")
	writeFile(t, dir, "broken.md", "---\ntitle: [unclosed\n---\nbody")
	writeFile(t, dir, "dup.md", "---\nid: custom-id\ntitle: Again\n---\n")
	writeFile(t, dir, "hidden.md", "---\ntitle: Secret\nhidden: true\n---\n")
	writeFile(t, dir, "notes/plain-file.md", "no front matter here")
	writeFile(t, dir, "_drafts/draft.md", "---\ntitle: Draft\n---\n")
	writeFile(t, dir, "readme.txt", "not markdown")

	feed = writeFile(t, t.TempDir(), "feed.yaml", `episodes:
  - title: Deep Past
    date: "-134999-01-01"
    body: "Found *fossils* here."
    published: yesterday
  - title: Gone
    hidden: true
  - date: 12/25/1 BCE
    description: Explicit text
`)
	return dir, feed
}

func findWarning(warns []Warning, pathSuffix, substr string) bool {
	for _, w := range warns {
		if strings.HasSuffix(w.Path, pathSuffix) && strings.Contains(w.Msg, substr) {
			return true
		}
	}
	return false
}

func episodeIDs(eps []content.Episode) []string {
	out := make([]string, len(eps))
	for i, e := range eps {
		out[i] = e.ID
	}
	return out
}

func TestIngest(t *testing.T) {
	dir, feed := seedSource(t)

	eps, warns, err := Ingest(context.Background(), Options{SourceDir: dir, FeedFile: feed, Workers: 3})
	require.NoError(t, err)

	assert.Equal(t, []string{"signal-from-orbit", "custom-id", "plain-file", "deep-past", "feed-3"}, episodeIDs(eps))

	a := eps[0]
	assert.Equal(t, "Signal From Orbit", a.Title)
	assert.Equal(t, "Log Static on every band.", a.Description)
	require.NotNil(t, a.Date)
	assert.Equal(t, calendar.New(1971, 4, 13), *a.Date)
	assert.Equal(t, "May 13, 1971", a.RawDate)
	assert.Equal(t, []string{"robots", "space"}, a.Tags)
	assert.Equal(t, "M1", a.Model)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), a.PublishedAt)
	assert.Equal(t, 30.0, a.Duration)
	assert.Equal(t, filepath.Join(dir, "a.md"), a.Body.SourcePath)
	assert.Len(t, a.Body.ContentHash, 64)

	b := eps[1]
	assert.Nil(t, b.Date, "omit is the default policy")
	assert.Equal(t, "not a date", b.RawDate)

	plain := eps[2]
	assert.Equal(t, "no front matter here", plain.Description)
	assert.Empty(t, plain.Title)

	deep := eps[3]
	require.NotNil(t, deep.Date)
	assert.Equal(t, -134999, deep.Date.Year())
	assert.Equal(t, "Found fossils here.", deep.Description)
	assert.Equal(t, "Found *fossils* here.", deep.Body.Inline)
	assert.True(t, deep.PublishedAt.IsZero())

	last := eps[4]
	require.NotNil(t, last.Date)
	assert.Equal(t, 0, last.Date.Year())
	assert.Equal(t, 11, last.Date.Month())
	assert.Equal(t, "Explicit text", last.Description)

	assert.True(t, findWarning(warns, "b.md", "unparseable date"))
	assert.True(t, findWarning(warns, "broken.md", "front matter"))
	assert.True(t, findWarning(warns, "dup.md", "duplicate id"))
	assert.True(t, findWarning(warns, "plain-file.md", "title is empty"))
	assert.True(t, findWarning(warns, "feed.yaml[0]", "published"))
	assert.False(t, findWarning(warns, "hidden.md", ""))
}

func TestIngest_FallbackPolicy(t *testing.T) {
	dir, _ := seedSource(t)

	eps, warns, err := Ingest(context.Background(), Options{SourceDir: dir, Dates: config.DatesFallback})
	require.NoError(t, err)

	require.Len(t, eps, 3)
	require.NotNil(t, eps[1].Date)
	assert.Equal(t, calendar.Fallback, *eps[1].Date)
	assert.True(t, findWarning(warns, "b.md", "fallback"))
	assert.Nil(t, eps[2].Date, "a missing date stays missing")
}

func TestIngest_Deterministic(t *testing.T) {
	dir, feed := seedSource(t)

	first, _, err := Ingest(context.Background(), Options{SourceDir: dir, FeedFile: feed, Workers: 1})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, _, err := Ingest(context.Background(), Options{SourceDir: dir, FeedFile: feed, Workers: 8})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestIngest_Errors(t *testing.T) {
	_, _, err := Ingest(context.Background(), Options{SourceDir: filepath.Join(t.TempDir(), "missing")})
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = Ingest(context.Background(), Options{FeedFile: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.ErrorIs(t, err, os.ErrNotExist)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dir, _ := seedSource(t)
	_, _, err = Ingest(ctx, Options{SourceDir: dir})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDiscoverSource(t *testing.T) {
	dir, _ := seedSource(t)

	files, err := DiscoverSource(dir)
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		r, err := filepath.Rel(dir, f.Path)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
		assert.Positive(t, f.Size)
	}
	assert.Equal(t, []string{"a.md", "b.md", "broken.md", "dup.md", "hidden.md", "notes/plain-file.md"}, rel)
}

func TestStamps_ChangeWithContent(t *testing.T) {
	dir, feed := seedSource(t)

	before, err := Stamps(dir, feed)
	require.NoError(t, err)
	assert.Len(t, before, 7)

	writeFile(t, dir, "a.md", "---\ntitle: Rewritten and longer than before\n---\n")
	after, err := Stamps(dir, feed)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}
