// Package store holds the single client-side source of truth for the two
// remote collections (mappings, request journal) plus transient UI flags.
// All mutation flows through a pure reducer; views read snapshots and
// dispatch actions, never mutate state directly.
package store

import (
	"sync"

	"github.com/wiremgr/wiremgr/internal/wiremock"
)

// State is the full application state shape.
type State struct {
	Mappings        []wiremock.Mapping
	Requests        []wiremock.RequestLogEntry
	Loading         bool
	Error           string
	SelectedMapping *wiremock.Mapping
}

// Action is the closed vocabulary of state transitions. The unexported
// marker method makes unknown actions unrepresentable, so the reducer
// needs no default passthrough.
type Action interface {
	isAction()
}

// SetMappings replaces the mapping collection wholesale.
type SetMappings struct{ Mappings []wiremock.Mapping }

// SetRequests replaces the request-journal collection wholesale.
type SetRequests struct{ Requests []wiremock.RequestLogEntry }

// SetLoading sets the loading flag.
type SetLoading struct{ Loading bool }

// SetError sets or clears the user-facing error message.
type SetError struct{ Message string }

// AddMapping appends a mapping to the collection.
type AddMapping struct{ Mapping wiremock.Mapping }

// UpdateMapping replaces the element whose id matches; no-op if absent.
type UpdateMapping struct{ Mapping wiremock.Mapping }

// DeleteMapping removes the element with the given id; no-op if absent.
type DeleteMapping struct{ ID string }

// SelectMapping sets or clears the selected mapping.
type SelectMapping struct{ Mapping *wiremock.Mapping }

func (SetMappings) isAction()   {}
func (SetRequests) isAction()   {}
func (SetLoading) isAction()    {}
func (SetError) isAction()      {}
func (AddMapping) isAction()    {}
func (UpdateMapping) isAction() {}
func (DeleteMapping) isAction() {}
func (SelectMapping) isAction() {}

// Reduce applies an action to a state and returns the next state. It is
// total and side-effect free: the input state is never mutated, slices are
// copied before modification, and identical inputs always yield identical
// results.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetMappings:
		s.Mappings = a.Mappings
	case SetRequests:
		s.Requests = a.Requests
	case SetLoading:
		s.Loading = a.Loading
	case SetError:
		s.Error = a.Message
	case AddMapping:
		next := make([]wiremock.Mapping, 0, len(s.Mappings)+1)
		next = append(next, s.Mappings...)
		next = append(next, a.Mapping)
		s.Mappings = next
	case UpdateMapping:
		next := make([]wiremock.Mapping, len(s.Mappings))
		copy(next, s.Mappings)
		for i := range next {
			if next[i].ID == a.Mapping.ID {
				next[i] = a.Mapping
			}
		}
		s.Mappings = next
	case DeleteMapping:
		next := make([]wiremock.Mapping, 0, len(s.Mappings))
		for _, m := range s.Mappings {
			if m.ID != a.ID {
				next = append(next, m)
			}
		}
		s.Mappings = next
	case SelectMapping:
		s.SelectedMapping = a.Mapping
	}
	return s
}

// Store is the sole owner of a State. Dispatch is serialized; reads return
// snapshots so callers can never mutate the held state.
type Store struct {
	mu    sync.RWMutex
	state State
}

// New creates a store with empty collections.
func New() *Store {
	return &Store{
		state: State{
			Mappings: []wiremock.Mapping{},
			Requests: []wiremock.RequestLogEntry{},
		},
	}
}

// Dispatch runs the reducer with the given action.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, a)
}

// State returns a snapshot of the current state. Collection slices are
// copied so callers cannot reach into the store's backing arrays.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.state
	snap.Mappings = make([]wiremock.Mapping, len(s.state.Mappings))
	copy(snap.Mappings, s.state.Mappings)
	snap.Requests = make([]wiremock.RequestLogEntry, len(s.state.Requests))
	copy(snap.Requests, s.state.Requests)
	return snap
}

// Mappings returns a snapshot of the mapping collection.
func (s *Store) Mappings() []wiremock.Mapping {
	return s.State().Mappings
}

// Requests returns a snapshot of the request-journal collection.
func (s *Store) Requests() []wiremock.RequestLogEntry {
	return s.State().Requests
}
