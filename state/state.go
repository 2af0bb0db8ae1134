// Package state holds the application state tree and the store capability
// the views consume. The store is plumbing only: it applies a host-provided
// apply func and notifies subscribers, so what an action *means* stays with
// whoever wires the store up.
package state

import (
	"sync"

	"github.com/pkgdepot/depot-tui/depot"
)

// AppState is the snapshot shape views read. Slices are shared between
// snapshots; treat everything reachable from a snapshot as read-only.
type AppState struct {
	App      AppInfo
	Session  Session
	Origins  Origins
	Packages Packages
}

type AppInfo struct {
	Name string
}

type Session struct {
	Token string
}

type Origins struct {
	Mine []OriginInfo // origins the signed-in user is a member of
}

type OriginInfo struct {
	Name string
}

type Packages struct {
	Versions []*depot.Version // versions listing for the current family
	Visible  []*depot.Package // releases of the most recently fetched version
}

// Action is an opaque message handed to Dispatch, in the same spirit as a
// bubbletea Msg: a plain struct, switched on by type where it is handled.
type Action any

// FilterPackagesBy asks for the visible package list to be replaced with the
// releases matching the given coordinates. An empty Channel means no channel
// filter; ExactMatch false means version prefix semantics.
type FilterPackagesBy struct {
	Origin     string
	Name       string
	Version    string
	Channel    string
	ExactMatch bool
}

// DemotePackage asks for a release to be removed from a channel. Token is the
// session credential captured at dispatch time.
type DemotePackage struct {
	Origin   string
	Name     string
	Version  string
	Release  string
	Platform string
	Channel  string
	Token    string
}

// Store is the capability object handed to views: synchronous snapshot reads
// and fire-and-forget dispatch.
type Store interface {
	GetState() AppState
	Dispatch(Action)
}

// ApplyFunc computes the next state from the current one and an action.
type ApplyFunc func(AppState, Action) AppState

// BasicStore is the in-process Store: mutex-guarded state, host-provided
// apply func, and change notification for UI refresh.
type BasicStore struct {
	mu     sync.Mutex
	state  AppState
	apply  ApplyFunc
	subs   map[int]func()
	nextID int
}

// New builds a store seeded with initial state. A nil apply func makes
// Dispatch notify-only, which is all the tests need.
func New(initial AppState, apply ApplyFunc) *BasicStore {
	return &BasicStore{
		state: initial,
		apply: apply,
		subs:  make(map[int]func()),
	}
}

func (s *BasicStore) GetState() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies the action and then notifies subscribers. Notification
// runs outside the lock so a subscriber may read the store again.
func (s *BasicStore) Dispatch(a Action) {
	s.mu.Lock()
	if s.apply != nil {
		s.state = s.apply(s.state, a)
	}
	notify := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		notify = append(notify, fn)
	}
	s.mu.Unlock()

	for _, fn := range notify {
		fn()
	}
}

// Subscribe registers a change callback and returns its cancel func.
// Cancel is idempotent.
func (s *BasicStore) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// SetState replaces the whole state tree, notifying subscribers. Used by
// hosts that mutate state outside the action path (e.g. initial load).
func (s *BasicStore) SetState(next AppState) {
	s.mu.Lock()
	s.state = next
	notify := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		notify = append(notify, fn)
	}
	s.mu.Unlock()

	for _, fn := range notify {
		fn()
	}
}
