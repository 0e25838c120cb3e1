package model

import "time"

// SourceStatus describes the outcome of fetching and parsing one source.
type SourceStatus struct {
	Name      string        `json:"name"`
	Rows      int           `json:"rows"`
	Error     string        `json:"error,omitempty"`
	FetchedAt time.Time     `json:"fetchedAt"`
	Duration  time.Duration `json:"duration"`
}

// OK reports whether the source delivered data without error.
func (s SourceStatus) OK() bool {
	return s.Error == ""
}

// Snapshot is the result of one refresh cycle.
type Snapshot struct {
	Seq         uint64        `json:"seq"`
	Series      MergedSeries  `json:"series"`
	Recent      SourceStatus  `json:"recent"`
	Archive     SourceStatus  `json:"archive"`
	RefreshedAt time.Time     `json:"refreshedAt"`
	Duration    time.Duration `json:"duration"`
}

// Degraded reports whether any source failed during the cycle.
func (s *Snapshot) Degraded() bool {
	return !s.Recent.OK() || !s.Archive.OK()
}

// Statuses returns the recent and archive statuses in display order.
func (s *Snapshot) Statuses() []SourceStatus {
	return []SourceStatus{s.Recent, s.Archive}
}
