// Package calendar holds the content-calendar state: the event store, the
// filter engine, the month grid builder, the drag-reschedule controller and
// the event editor.
//
// Nothing here is goroutine-safe. Hosts (HTTP server, TUI) serialize access.
package calendar

import (
	"github.com/google/uuid"

	"creatorflow/internal/model"
)

// IDFunc generates event identifiers.
type IDFunc func() string

// Store is the authoritative ordered list of events for one session.
type Store struct {
	events []model.CalendarEvent
	newID  IDFunc
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithIDFunc replaces the default uuid generator.
func WithIDFunc(f IDFunc) StoreOption {
	return func(s *Store) {
		if f != nil {
			s.newID = f
		}
	}
}

// NewStore returns a store seeded with events. Seed ids are kept as given.
func NewStore(seed []model.CalendarEvent, opts ...StoreOption) *Store {
	s := &Store{
		events: append([]model.CalendarEvent(nil), seed...),
		newID:  uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Add appends ev under a freshly generated id and returns the stored copy.
// Any id already set on ev is replaced.
func (s *Store) Add(ev model.CalendarEvent) model.CalendarEvent {
	ev.ID = s.uniqueID()
	s.events = append(s.events, ev)
	return ev
}

// Import appends ev keeping its id. It returns false, without storing, when
// the id is empty or already taken.
func (s *Store) Import(ev model.CalendarEvent) bool {
	if ev.ID == "" || s.index(ev.ID) >= 0 {
		return false
	}
	s.events = append(s.events, ev)
	return true
}

// Reschedule moves the event with id to date. Unknown ids are a no-op and
// report false.
func (s *Store) Reschedule(id string, date model.Date) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.events[i].Date = date
	return true
}

// Get returns the event with id.
func (s *Store) Get(id string) (model.CalendarEvent, bool) {
	i := s.index(id)
	if i < 0 {
		return model.CalendarEvent{}, false
	}
	return s.events[i], true
}

// Events returns a copy of all events in insertion order.
func (s *Store) Events() []model.CalendarEvent {
	return append([]model.CalendarEvent(nil), s.events...)
}

func (s *Store) Len() int { return len(s.events) }

func (s *Store) index(id string) int {
	for i := range s.events {
		if s.events[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) uniqueID() string {
	for {
		id := s.newID()
		if id != "" && s.index(id) < 0 {
			return id
		}
	}
}
