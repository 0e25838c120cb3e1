package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSourceFetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recent.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0644))

	s := NewFileSource("recent", path)
	grid, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, grid.Rows, 2)
	assert.Equal(t, path, s.Path())
}

func TestFileSourceMissing(t *testing.T) {
	s := NewFileSource("archive", filepath.Join(t.TempDir(), "missing.csv"))
	_, err := s.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileSourceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileSource("recent", "unused.csv").Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
