// Package controller drives a user listing from search and page input. The
// state machine in Transition is pure; Controller runs its effects.
package controller

import (
	"time"

	"user-search-service/internal/client/pagination"
	"user-search-service/internal/domain/user"
)

// SearchDebounce is how long typing must pause before a non-empty search is
// fetched.
const SearchDebounce = 500 * time.Millisecond

// Phase is the lifecycle position of the controller.
type Phase int

const (
	Idle Phase = iota
	Debouncing
	Fetching
	Loaded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Debouncing:
		return "debouncing"
	case Fetching:
		return "fetching"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is everything the view needs to render a listing.
type State struct {
	Phase       Phase
	SearchTerm  string
	CurrentPage int64
	Users       []user.User
	TotalUsers  int64
	Loading     bool
	Err         string
	// Generation increases with every search or page change. Timer and
	// fetch results carrying an older generation are ignored.
	Generation uint64
}

// InitialState is the state before any input: no search, first page.
func InitialState() State {
	return State{Phase: Idle, CurrentPage: 1}
}

// TotalPages derives the page count from TotalUsers.
func (s State) TotalPages() int64 {
	return pagination.TotalPages(s.TotalUsers, user.PerPage)
}

// Window is the page navigation for the current state.
func (s State) Window() []pagination.Item {
	return pagination.Window(s.CurrentPage, s.TotalPages())
}
