// Package merge combines a coarse archive table and a fine recent table into
// one ordered, duplicate-free series.
package merge

import (
	"errors"
	"fmt"
	"sort"

	"github.com/penwyp/go-sensor-monitor/internal/core/model"
)

// ErrFieldMismatch is returned when two non-empty tables carry different field sets.
var ErrFieldMismatch = errors.New("archive and recent field sets differ")

// Merge combines archive and recent readings.
//
// The boundary is the latest archive timestamp. Recent readings at or before
// the boundary are dropped because the archive already represents them.
// The result is stable-sorted by timestamp, so equal timestamps keep
// archive-before-recent order. Neither input is modified.
func Merge(archive, recent model.RawTable) (model.MergedSeries, error) {
	switch {
	case archive.IsEmpty() && recent.IsEmpty():
		fields := recent.Fields
		if len(fields) == 0 {
			fields = archive.Fields
		}
		return model.MergedSeries{Fields: copyFields(fields), Readings: []model.Reading{}}, nil

	case archive.IsEmpty():
		out := model.MergedSeries{
			Fields:     copyFields(recent.Fields),
			Readings:   appendReadings(nil, recent.Readings),
			RecentRows: recent.Len(),
		}
		sortByTime(out.Readings)
		return out, nil

	case recent.IsEmpty():
		out := model.MergedSeries{
			Fields:      copyFields(archive.Fields),
			Readings:    appendReadings(nil, archive.Readings),
			ArchiveRows: archive.Len(),
		}
		out.Boundary, _ = archive.MaxTimestamp()
		sortByTime(out.Readings)
		return out, nil
	}

	if !model.SameFields(archive.Fields, recent.Fields) {
		return model.MergedSeries{}, fmt.Errorf("%w: archive %v, recent %v", ErrFieldMismatch, archive.Fields, recent.Fields)
	}

	boundary, _ := archive.MaxTimestamp()

	readings := make([]model.Reading, 0, archive.Len()+recent.Len())
	readings = appendReadings(readings, archive.Readings)

	kept := 0
	for _, r := range recent.Readings {
		if !r.Timestamp.After(boundary) {
			continue
		}
		readings = append(readings, copyReading(r))
		kept++
	}
	sortByTime(readings)

	return model.MergedSeries{
		Fields:        copyFields(archive.Fields),
		Readings:      readings,
		Boundary:      boundary,
		ArchiveRows:   archive.Len(),
		RecentRows:    kept,
		DroppedRecent: recent.Len() - kept,
	}, nil
}

func sortByTime(readings []model.Reading) {
	sort.SliceStable(readings, func(i, j int) bool {
		return readings[i].Timestamp.Before(readings[j].Timestamp)
	})
}

func appendReadings(dst, src []model.Reading) []model.Reading {
	if dst == nil {
		dst = make([]model.Reading, 0, len(src))
	}
	for _, r := range src {
		dst = append(dst, copyReading(r))
	}
	return dst
}

func copyReading(r model.Reading) model.Reading {
	return model.Reading{
		Timestamp: r.Timestamp,
		Values:    append([]model.Value(nil), r.Values...),
	}
}

func copyFields(fields []string) []string {
	return append([]string(nil), fields...)
}
