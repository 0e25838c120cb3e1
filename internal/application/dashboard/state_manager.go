package dashboard

import (
	"sync"

	"github.com/penwyp/go-sensor-monitor/internal/core/model"
)

// StateManager manages application state in a thread-safe manner
type StateManager struct {
	mu sync.RWMutex

	current  *model.Snapshot
	previous *model.Snapshot

	isLoading      bool
	loadingMessage string
	lastError      string

	interactionState model.InteractionState
}

// NewStateManager creates a new StateManager instance
func NewStateManager() *StateManager {
	return &StateManager{}
}

// SetSnapshot publishes a new snapshot and keeps the prior one
func (sm *StateManager) SetSnapshot(snap *model.Snapshot) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.current != nil {
		sm.previous = sm.current
	}
	sm.current = snap
	sm.lastError = ""
}

// Latest returns the newest snapshot, if any
func (sm *StateManager) Latest() (*model.Snapshot, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.current, sm.current != nil
}

// Previous returns the snapshot replaced by the latest one
func (sm *StateManager) Previous() (*model.Snapshot, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.previous, sm.previous != nil
}

// SetLastError records a failed refresh; the latest snapshot stays visible
func (sm *StateManager) SetLastError(msg string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.lastError = msg
}

func (sm *StateManager) LastError() string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.lastError
}

// GetLoadingState returns current loading state and message
func (sm *StateManager) GetLoadingState() (bool, string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.isLoading, sm.loadingMessage
}

// SetLoadingState updates loading state and message
func (sm *StateManager) SetLoadingState(isLoading bool, message string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.isLoading = isLoading
	sm.loadingMessage = message
}

// GetInteractionState returns a copy of the interaction state
func (sm *StateManager) GetInteractionState() model.InteractionState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.interactionState
}

// UpdateInteractionState updates specific fields of interaction state
func (sm *StateManager) UpdateInteractionState(updateFunc func(*model.InteractionState)) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	updateFunc(&sm.interactionState)
}

// ViewState merges the interaction state with loading and error status for rendering
func (sm *StateManager) ViewState() model.InteractionState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	state := sm.interactionState
	state.IsLoading = sm.isLoading && sm.current == nil
	state.LoadingMessage = sm.loadingMessage
	if sm.lastError != "" {
		state.StatusMessage = "Refresh failed: " + sm.lastError
	} else if sm.isLoading {
		state.StatusMessage = sm.loadingMessage
	} else if state.ForceRefresh {
		state.StatusMessage = "Refresh queued for the next cycle"
	}
	return state
}
