package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataLoaderLoadsBothSources(t *testing.T) {
	recentParser, archiveParser := newTestParsers(t)
	recent := &fakeSource{name: "recent", grid: grid("timestamp",
		[]string{"2024-03-01 01:01:00", "22.5", "40"},
		[]string{"2024-03-01 01:02:00", "", "41"},
	)}
	archive := &fakeSource{name: "archive", grid: grid("Hour_Start",
		[]string{"2024-03-01 00:00:00", "20", "39"},
	)}

	result := NewDataLoader(recent, archive, recentParser, archiveParser).Load(context.Background())

	assert.Equal(t, 2, result.Recent.Len())
	assert.Equal(t, 1, result.Archive.Len())
	assert.True(t, result.RecentStatus.OK())
	assert.True(t, result.ArchiveStatus.OK())
	assert.Equal(t, 2, result.RecentStatus.Rows)
	assert.Equal(t, "archive", result.ArchiveStatus.Name)
	assert.True(t, result.Recent.Readings[1].Values[0].IsUnknown())
}

func TestDataLoaderDegradesFailedSource(t *testing.T) {
	recentParser, archiveParser := newTestParsers(t)

	t.Run("fetch error", func(t *testing.T) {
		recent := &fakeSource{name: "recent", err: errors.New("connection refused")}
		archive := &fakeSource{name: "archive", grid: grid("Hour_Start", []string{"2024-03-01 00:00:00", "20", "39"})}

		result := NewDataLoader(recent, archive, recentParser, archiveParser).Load(context.Background())

		assert.True(t, result.Recent.IsEmpty())
		assert.Equal(t, testFields, result.Recent.Fields)
		assert.Contains(t, result.RecentStatus.Error, "connection refused")
		assert.Equal(t, 1, result.Archive.Len())
		assert.True(t, result.ArchiveStatus.OK())
	})

	t.Run("parse error", func(t *testing.T) {
		recent := &fakeSource{name: "recent", grid: grid("timestamp", []string{"2024-03-01 01:01:00", "22.5"})}
		archive := &fakeSource{name: "archive", grid: grid("Hour_Start", []string{"not a time", "20", "39"})}

		result := NewDataLoader(recent, archive, recentParser, archiveParser).Load(context.Background())

		assert.True(t, result.Recent.IsEmpty())
		assert.Contains(t, result.RecentStatus.Error, "schema")
		assert.True(t, result.Archive.IsEmpty())
		assert.Contains(t, result.ArchiveStatus.Error, "timestamp")
	})

	t.Run("timeout", func(t *testing.T) {
		recent := &fakeSource{name: "recent", block: true}
		archive := &fakeSource{name: "archive", grid: grid("Hour_Start")}

		loader := NewDataLoader(recent, archive, recentParser, archiveParser)
		loader.timeout = 20 * time.Millisecond

		result := loader.Load(context.Background())
		require.False(t, result.RecentStatus.OK())
		assert.Contains(t, result.RecentStatus.Error, context.DeadlineExceeded.Error())
		assert.True(t, result.ArchiveStatus.OK())
		assert.True(t, result.Archive.IsEmpty())
	})
}
