package constants

import "time"

const (
	// Dashboard refresh cadence
	DefaultRefreshInterval = 60 * time.Second
	MinRefreshInterval     = 5 * time.Second

	// Staleness windows of the fetch cache
	RecentTTL  = 60 * time.Second
	ArchiveTTL = 3600 * time.Second

	// Network fetch timeout for one worksheet
	FetchTimeout = 30 * time.Second

	// Terminal redraw cadence (Hz)
	DefaultUIRefreshRate = 1.0
)

// Source identifiers
const (
	SourceRecent  = "recent"
	SourceArchive = "archive"
)
