package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/gazer/internal/control"
)

// Action records the outcome of the last recording command.
type Action struct {
	Name string
	Err  error
	At   time.Time
}

// Snapshot represents the latest data available to the UI and integrations.
type Snapshot struct {
	Status              control.Status
	HasStatus           bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
	LastAction          *Action
}

// IsOffline returns true when the device has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored status. When err is non-nil the previous data is
// kept but the error is recorded for visibility.
func (s *Store) Update(status *control.Status, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	if status != nil {
		s.snapshot.Status = status.Clone()
		s.snapshot.HasStatus = true
	} else {
		s.snapshot.Status = control.Status{}
		s.snapshot.HasStatus = false
	}
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Apply folds a pushed status component into the stored status. Components
// arriving before the first full status are ignored.
func (s *Store) Apply(component control.Component) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.snapshot.HasStatus {
		return nil
	}
	next, err := s.snapshot.Status.Apply(component)
	if err != nil {
		return err
	}
	s.snapshot.Status = next
	s.snapshot.LastUpdated = time.Now()
	return nil
}

// RecordAction remembers the outcome of a recording command.
func (s *Store) RecordAction(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastAction = &Action{Name: name, Err: err, At: time.Now()}
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Status = s.snapshot.Status.Clone()
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	if s.snapshot.LastAction != nil {
		action := *s.snapshot.LastAction
		snap.LastAction = &action
	}
	return snap
}
