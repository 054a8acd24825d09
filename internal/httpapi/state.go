// Package httpapi serves the dashboard over gin. All handlers read from an
// explicit State object; there is no ambient global table.
package httpapi

import (
	"sync"
	"time"

	"github.com/meditrak/opsdash/internal/merge"
)

// State holds the fact tables currently being served. Reads take the read
// lock; a refresh swaps the whole result in one write.
type State struct {
	mu         sync.RWMutex
	result     *merge.Result
	loadedAt   time.Time
	batchID    string
	refreshing bool
}

// NewState starts empty; Set installs the first tables.
func NewState() *State {
	return &State{result: &merge.Result{}}
}

// Set replaces the served tables wholesale.
func (s *State) Set(res *merge.Result, batchID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = res
	s.batchID = batchID
	s.loadedAt = time.Now()
}

// Snapshot returns the current tables with their provenance. The result is
// shared, not copied; callers must treat it as read-only.
func (s *State) Snapshot() (*merge.Result, time.Time, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result, s.loadedAt, s.batchID
}

// TryBeginRefresh claims the single refresh slot. It returns false when a
// refresh is already running.
func (s *State) TryBeginRefresh() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refreshing {
		return false
	}
	s.refreshing = true
	return true
}

// EndRefresh releases the refresh slot.
func (s *State) EndRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshing = false
}
