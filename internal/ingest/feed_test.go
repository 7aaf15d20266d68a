package ingest

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestParseFeed(t *testing.T) {
	list, err := parseFeed([]byte("- title: One\n  date: 1971-05-13\n- title: Two\n"))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "One", list[0].Title)
	assert.Equal(t, "1971-05-13", list[0].Date)

	mapped, err := parseFeed([]byte("episodes:\n  - title: Three\n    tags: [a, b]\n"))
	require.NoError(t, err)
	require.Len(t, mapped, 1)
	assert.Equal(t, []string{"a", "b"}, mapped[0].Tags)

	empty, err := parseFeed(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = parseFeed([]byte("just a string"))
	assert.ErrorContains(t, err, "scalar")

	_, err = parseFeed([]byte("- [unclosed"))
	assert.Error(t, err)
}
