package interaction

import (
	"sort"

	"github.com/penwyp/go-sensor-monitor/internal/core/model"
)

// SortOrder represents the sort order
type SortOrder int

const (
	SortAscending SortOrder = iota
	SortDescending
)

// ReadingSorter orders readings for the recent readings pane
type ReadingSorter struct {
	order SortOrder
}

// NewReadingSorter creates a sorter showing newest readings first
func NewReadingSorter() *ReadingSorter {
	return &ReadingSorter{order: SortDescending}
}

func (s *ReadingSorter) Order() SortOrder {
	return s.order
}

// Toggle flips the sort order
func (s *ReadingSorter) Toggle() {
	if s.order == SortDescending {
		s.order = SortAscending
	} else {
		s.order = SortDescending
	}
}

// Tail returns up to n of the latest readings in the current order. The
// input is not modified.
func (s *ReadingSorter) Tail(readings []model.Reading, n int) []model.Reading {
	if n <= 0 || len(readings) == 0 {
		return nil
	}
	if n > len(readings) {
		n = len(readings)
	}
	out := append([]model.Reading(nil), readings[len(readings)-n:]...)

	sort.SliceStable(out, func(i, j int) bool {
		if s.order == SortDescending {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}
