package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/penwyp/go-sensor-monitor/internal/core/model"
	"github.com/penwyp/go-sensor-monitor/internal/data/source"
	"github.com/penwyp/go-sensor-monitor/internal/presentation/interaction"
	"github.com/penwyp/go-sensor-monitor/internal/util"
)

// Orchestrator coordinates all components for the top command
type Orchestrator struct {
	config *Config

	// Core components
	refresher    Refresher
	stateManager *StateManager

	// UI components
	display  DisplayController
	keyboard InputHandler

	// Monitoring
	watcher FileMonitor

	// Background refreshes
	wg     sync.WaitGroup
	redraw chan struct{}
}

// NewOrchestrator creates a new Orchestrator instance
func NewOrchestrator(config *Config, refresher Refresher, stateManager *StateManager, display DisplayController) *Orchestrator {
	stateManager.UpdateInteractionState(func(s *model.InteractionState) {
		s.LayoutStyle = model.ParseLayout(config.Layout)
	})

	return &Orchestrator{
		config:       config,
		refresher:    refresher,
		stateManager: stateManager,
		display:      display,
		redraw:       make(chan struct{}, 1),
	}
}

// Run starts the orchestrator main loop. watcher may be nil when no local
// CSV source is configured.
func (o *Orchestrator) Run(ctx context.Context, keyboard InputHandler, watcher FileMonitor) error {
	util.LogInfo("Starting sensor dashboard...")

	o.keyboard = keyboard
	o.watcher = watcher

	ctx, cancel := context.WithCancel(ctx)
	defer o.wg.Wait()
	defer cancel()

	o.display.EnterAlternateScreen()
	defer o.display.ExitAlternateScreen()

	o.stateManager.SetLoadingState(true, "Fetching sensor data...")
	o.updateDisplay()

	o.refreshAsync(ctx, false)

	uiTicker := time.NewTicker(time.Duration(float64(time.Second) / o.config.UIRefreshRate))
	defer uiTicker.Stop()

	dataTicker := time.NewTicker(o.config.RefreshInterval)
	defer dataTicker.Stop()

	var fileEvents <-chan source.FileEvent
	if o.watcher != nil {
		fileEvents = o.watcher.Events()
	}

	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Shutting down sensor dashboard...")
			return nil

		case <-uiTicker.C:
			if !o.stateManager.GetInteractionState().IsPaused {
				o.updateDisplay()
			}

		case <-o.redraw:
			o.updateDisplay()

		case <-dataTicker.C:
			o.onDataTick(ctx)

		case event, ok := <-fileEvents:
			if !ok {
				fileEvents = nil
				continue
			}
			if !o.stateManager.GetInteractionState().IsPaused {
				o.handleFileChange(ctx, event)
			}

		case keyEvent, ok := <-o.keyboard.Events():
			if !ok {
				return nil
			}
			if o.handleKeyboard(ctx, keyEvent) {
				return nil
			}
			o.updateDisplay()
		}
	}
}

// updateDisplay renders the latest snapshot with the current view state
func (o *Orchestrator) updateDisplay() {
	snap, _ := o.stateManager.Latest()
	o.display.RenderWithState(snap, o.stateManager.ViewState())
}

// onDataTick refreshes unless paused. A refresh queued with 'r' while
// paused runs on the next tick and bypasses the fetch cache.
func (o *Orchestrator) onDataTick(ctx context.Context) {
	var paused, force bool
	o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
		paused, force = s.IsPaused, s.ForceRefresh
		s.ForceRefresh = false
	})
	if !paused || force {
		o.refreshAsync(ctx, force)
	}
}

// refreshAsync refreshes in the background and redraws when it finishes
func (o *Orchestrator) refreshAsync(ctx context.Context, force bool) {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		refreshInto(ctx, o.refresher, o.stateManager, force)
		select {
		case o.redraw <- struct{}{}:
		default:
		}
	}()
}

// handleKeyboard handles keyboard events and reports whether to exit
func (o *Orchestrator) handleKeyboard(ctx context.Context, event interaction.KeyEvent) bool {
	switch event.Type {
	case interaction.KeyChar:
		switch event.Key {
		case 'q', 'Q', 3: // 'q', 'Q', or Ctrl+C
			return true
		case 'r', 'R':
			if o.stateManager.GetInteractionState().IsPaused {
				o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
					s.ForceRefresh = true
				})
				break
			}
			o.refreshAsync(ctx, true)
		case 'p', 'P':
			o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
				s.IsPaused = !s.IsPaused
			})
		case 'l', 'L':
			o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
				s.LayoutStyle = model.NextLayout(s.LayoutStyle)
			})
			o.display.ClearScreen()
		case 's', 'S':
			o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
				s.SortAscending = !s.SortAscending
			})
		case 'h', 'H', '?':
			o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
				s.ShowHelp = !s.ShowHelp
			})
			o.display.ClearScreen()
		}
	case interaction.KeyEscape:
		// Close help if shown; otherwise quit
		if o.stateManager.GetInteractionState().ShowHelp {
			o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
				s.ShowHelp = false
			})
			o.display.ClearScreen()
			return false
		}
		return true
	}
	return false
}

// handleFileChange refreshes early when a local CSV source is rewritten
func (o *Orchestrator) handleFileChange(ctx context.Context, event source.FileEvent) {
	util.LogDebugf("Source file changed: %s (%s)", event.Path, event.Operation)
	o.refreshAsync(ctx, false)
}
