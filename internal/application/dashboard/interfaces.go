package dashboard

import (
	"context"

	"github.com/penwyp/go-sensor-monitor/internal/core/model"
	"github.com/penwyp/go-sensor-monitor/internal/data/source"
	"github.com/penwyp/go-sensor-monitor/internal/presentation/interaction"
)

// Loader fetches and parses both sources for one cycle
type Loader interface {
	Load(ctx context.Context) LoadResult
}

// Refresher produces snapshots
type Refresher interface {
	Refresh(ctx context.Context) (*model.Snapshot, error)
}

// DisplayController handles terminal display operations
type DisplayController interface {
	// EnterAlternateScreen switches to alternate terminal screen
	EnterAlternateScreen()
	// ExitAlternateScreen returns to normal terminal screen
	ExitAlternateScreen()
	// ClearScreen clears the terminal screen
	ClearScreen()
	// RenderWithState renders a snapshot with the given interaction state
	RenderWithState(snap *model.Snapshot, state model.InteractionState)
}

// InputHandler processes keyboard input events
type InputHandler interface {
	// Events returns a channel of keyboard events
	Events() <-chan interaction.KeyEvent
	// Close restores the terminal
	Close() error
}

// FileMonitor watches local CSV sources for changes
type FileMonitor interface {
	Events() <-chan source.FileEvent
	Close() error
}
