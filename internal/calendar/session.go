package calendar

import (
	"time"

	"creatorflow/internal/model"
)

// Clock returns the current instant.
type Clock func() time.Time

// Options configures a Session.
type Options struct {
	Seed     []model.CalendarEvent
	Notifier Notifier
	// Location turns instants into civil dates. Nil means time.Local.
	Location *time.Location
	// Start is the first displayed month. Zero means the current month.
	Start Month
	Now   Clock
	// IDFunc overrides event id generation.
	IDFunc IDFunc
}

// Session is the complete calendar page state for one user: the event
// store, filter selectors, displayed month, drag gesture and editor form.
type Session struct {
	store  *Store
	filter Filter
	view   *View
	drag   *DragController
	editor *Editor

	loc *time.Location
	now Clock
}

func NewSession(opts Options) *Session {
	s := &Session{
		loc: opts.Location,
		now: opts.Now,
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.now == nil {
		s.now = time.Now
	}

	var storeOpts []StoreOption
	if opts.IDFunc != nil {
		storeOpts = append(storeOpts, WithIDFunc(opts.IDFunc))
	}
	s.store = NewStore(opts.Seed, storeOpts...)

	start := opts.Start
	if start == (Month{}) {
		start = MonthOf(s.Today())
	}
	s.view = NewView(start)
	s.drag = NewDragController(s.store)
	s.editor = NewEditor(s.store, opts.Notifier, s.Today)
	return s
}

// Today is the current civil date in the session's location.
func (s *Session) Today() model.Date {
	return model.Today(s.now(), s.loc)
}

func (s *Session) Location() *time.Location { return s.loc }

func (s *Session) Store() *Store { return s.store }
func (s *Session) Editor() *Editor { return s.editor }
func (s *Session) Drag() *DragController { return s.drag }
func (s *Session) Filter() Filter { return s.filter }
func (s *Session) CurrentMonth() Month { return s.view.Current() }
func (s *Session) Events() []model.CalendarEvent { return s.store.Events() }

// Visible returns the events passing the current filters.
func (s *Session) Visible() []model.CalendarEvent {
	return Apply(s.store.Events(), s.filter)
}

// Grid builds the displayed month from the visible events.
func (s *Session) Grid() Grid {
	return BuildGrid(s.view.Current(), s.Visible(), s.Today())
}

func (s *Session) Next() { s.view.Next() }
func (s *Session) Previous() { s.view.Previous() }
func (s *Session) GoToday() { s.view.Today(s.Today()) }

// GoTo displays m.
func (s *Session) GoTo(m Month) { s.view.Set(m) }

// SetPlatformFilter sets the platform selector; "All" clears it.
func (s *Session) SetPlatformFilter(v string) error {
	p, err := ParsePlatformFilter(v)
	if err != nil {
		return err
	}
	s.filter.Platform = p
	return nil
}

// SetStatusFilter sets the status selector; "All" clears it.
func (s *Session) SetStatusFilter(v string) error {
	st, err := ParseStatusFilter(v)
	if err != nil {
		return err
	}
	s.filter.Status = st
	return nil
}

// OpenEditor opens the form for day, or for today when day is zero.
func (s *Session) OpenEditor(day model.Date) { s.editor.Open(day) }

func (s *Session) CloseEditor() { s.editor.Close() }

// SaveEvent commits d through the editor.
func (s *Session) SaveEvent(d Draft) (model.CalendarEvent, bool) {
	return s.editor.SaveEvent(d)
}

func (s *Session) StartDrag(id string) { s.drag.Start(id) }
func (s *Session) Drop(date model.Date) bool { return s.drag.Drop(date) }
func (s *Session) CancelDrag() { s.drag.Cancel() }

// ImportEvents stores events that carry their own ids, skipping any id
// already present. It returns how many were added.
func (s *Session) ImportEvents(evs []model.CalendarEvent) int {
	n := 0
	for _, ev := range evs {
		if s.store.Import(ev) {
			n++
		}
	}
	return n
}
