// Package session holds the in-memory view state between a fetch and the
// table/export consumers: the current normalized list, the filter state,
// and the guards around refresh races and overlapping exports.
package session

import (
	"context"
	"sync"
	"sync/atomic"

	"myitems/internal"
	"myitems/internal/inventory"
	"myitems/internal/pipeline"
)

// Fetcher is satisfied by inventory.FetchService.
type Fetcher interface {
	FetchAssigned(ctx context.Context) (inventory.FetchResult, error)
}

type Session struct {
	fetcher Fetcher

	// gen orders refresh invocations; results from a stale generation
	// are discarded instead of racing last-write-wins.
	gen atomic.Int64

	exporting atomic.Bool

	mu          sync.Mutex
	personnelID int64
	items       []internal.NormalizedItem
	filter      pipeline.FilterState
}

func New(fetcher Fetcher) *Session {
	return &Session{fetcher: fetcher, filter: pipeline.DefaultFilterState()}
}

// Refresh rebuilds the item list. The previous list is discarded either
// way: a failed fetch leaves the session empty, and a refresh that was
// overtaken by a newer one installs nothing.
func (s *Session) Refresh(ctx context.Context) (internal.Stats, error) {
	gen := s.gen.Add(1)

	result, err := s.fetcher.FetchAssigned(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen.Load() {
		// A newer refresh started while this one was in flight.
		return pipeline.ComputeStats(s.items), nil
	}
	if err != nil {
		s.items = nil
		s.personnelID = 0
		return internal.Stats{}, err
	}

	s.personnelID = result.PersonnelID
	s.items = result.Items
	return pipeline.ComputeStats(s.items), nil
}

func (s *Session) PersonnelID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.personnelID
}

func (s *Session) Items() []internal.NormalizedItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items
}

func (s *Session) Stats() internal.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pipeline.ComputeStats(s.items)
}

func (s *Session) Filter() pipeline.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

func (s *Session) SetFilter(f pipeline.FilterState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
}

// UpdateFilter applies a reducer-style transition to the filter state.
func (s *Session) UpdateFilter(transition func(pipeline.FilterState) pipeline.FilterState) pipeline.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = transition(s.filter)
	return s.filter
}

// Page returns the current page of the filtered, sorted result set.
func (s *Session) Page() pipeline.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pipeline.Apply(s.items, s.filter)
}

// Filtered returns the full filtered result set for export (not sliced
// by page).
func (s *Session) Filtered() []internal.NormalizedItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pipeline.Filtered(s.items, s.filter)
}

// TryBeginExport claims the single export-in-flight slot; callers that
// get false skip the export. EndExport releases the slot.
func (s *Session) TryBeginExport() bool {
	return s.exporting.CompareAndSwap(false, true)
}

func (s *Session) EndExport() {
	s.exporting.Store(false)
}
