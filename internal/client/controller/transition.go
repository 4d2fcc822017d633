package controller

import (
	"time"

	"user-search-service/internal/domain/user"
)

// Event is an input to the state machine.
type Event interface {
	isEvent()
}

// SearchChanged is a new search text.
type SearchChanged struct {
	Term string
}

// PageChanged is a page selection from the navigation controls.
type PageChanged struct {
	Page int64
}

// DelayElapsed fires when the debounce timer of a generation expires.
type DelayElapsed struct {
	Generation uint64
}

// FetchSucceeded carries a fetched page back to the machine.
type FetchSucceeded struct {
	Generation uint64
	Users      []user.User
	Total      int64
}

// FetchFailed carries a fetch error message back to the machine.
type FetchFailed struct {
	Generation uint64
	Message    string
}

func (SearchChanged) isEvent()  {}
func (PageChanged) isEvent()    {}
func (DelayElapsed) isEvent()   {}
func (FetchSucceeded) isEvent() {}
func (FetchFailed) isEvent()    {}

// Effect is work the runtime performs after a transition.
type Effect interface {
	isEffect()
}

// CancelPending stops the pending timer and any in-flight fetch.
type CancelPending struct{}

// ScheduleFetch arms the debounce timer for a generation.
type ScheduleFetch struct {
	Generation uint64
	Delay      time.Duration
}

// StartFetch requests a page from the query service.
type StartFetch struct {
	Generation uint64
	Search     string
	Page       int64
}

func (CancelPending) isEffect() {}
func (ScheduleFetch) isEffect() {}
func (StartFetch) isEffect()    {}

// Transition applies ev to s. It never mutates s and has no side effects.
func Transition(s State, ev Event) (State, []Effect) {
	switch ev := ev.(type) {
	case SearchChanged:
		delay := SearchDebounce
		if ev.Term == "" {
			delay = 0
		}
		s.SearchTerm = ev.Term
		s.CurrentPage = 1
		return supersede(s, delay)

	case PageChanged:
		if ev.Page < 1 {
			return s, nil
		}
		s.CurrentPage = ev.Page
		return supersede(s, 0)

	case DelayElapsed:
		if ev.Generation != s.Generation || s.Phase != Debouncing {
			return s, nil
		}
		s.Phase = Fetching
		s.Loading = true
		s.Err = ""
		return s, []Effect{StartFetch{Generation: s.Generation, Search: s.SearchTerm, Page: s.CurrentPage}}

	case FetchSucceeded:
		if ev.Generation != s.Generation || s.Phase != Fetching {
			return s, nil
		}
		s.Phase = Loaded
		s.Users = ev.Users
		if s.Users == nil {
			s.Users = []user.User{}
		}
		s.TotalUsers = ev.Total
		s.Loading = false
		return s, nil

	case FetchFailed:
		if ev.Generation != s.Generation || s.Phase != Fetching {
			return s, nil
		}
		s.Phase = Failed
		s.Users = []user.User{}
		s.TotalUsers = 0
		s.Loading = false
		s.Err = ev.Message
		return s, nil
	}

	return s, nil
}

// supersede starts a new generation and schedules its fetch.
func supersede(s State, delay time.Duration) (State, []Effect) {
	s.Generation++
	s.Phase = Debouncing
	s.Loading = false
	return s, []Effect{
		CancelPending{},
		ScheduleFetch{Generation: s.Generation, Delay: delay},
	}
}
