package calendar

import (
	"fmt"

	"creatorflow/internal/model"
)

// Notifier receives a notification when an event is saved as Scheduled.
// Implementations must not block and must never fail the caller.
type Notifier interface {
	Notify(title, body string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(title, body string)

func (f NotifierFunc) Notify(title, body string) { f(title, body) }

type nopNotifier struct{}

func (nopNotifier) Notify(string, string) {}

// Draft holds the new-event form fields as entered. Date and Time use the
// input-control formats YYYY-MM-DD and HH:mm.
type Draft struct {
	Title    string         `json:"title"`
	Platform model.Platform `json:"platform"`
	Date     string         `json:"date"`
	Time     string         `json:"time"`
	Status   model.Status   `json:"status"`
}

// DefaultDraft is the reset state of the form.
func DefaultDraft() Draft {
	return Draft{Platform: model.Instagram, Status: model.Draft}
}

// Event converts d into an event without id. It fails when a required field
// is missing or a value does not parse.
func (d Draft) Event() (model.CalendarEvent, error) {
	if d.Title == "" {
		return model.CalendarEvent{}, fmt.Errorf("title is required")
	}
	if d.Date == "" {
		return model.CalendarEvent{}, fmt.Errorf("date is required")
	}
	date, err := model.ParseDate(d.Date)
	if err != nil {
		return model.CalendarEvent{}, err
	}
	ev := model.CalendarEvent{
		Date:     date,
		Title:    d.Title,
		Platform: d.Platform,
		Status:   d.Status,
	}
	if !ev.Platform.Valid() {
		return model.CalendarEvent{}, fmt.Errorf("%w: %q", model.ErrInvalidPlatform, string(d.Platform))
	}
	if !ev.Status.Valid() {
		return model.CalendarEvent{}, fmt.Errorf("%w: %q", model.ErrInvalidStatus, string(d.Status))
	}
	if d.Time != "" {
		c, err := model.ParseClock(d.Time)
		if err != nil {
			return model.CalendarEvent{}, err
		}
		ev.Time = &c
	}
	return ev, nil
}

// ScheduledMessage builds the notification for a scheduled event.
func ScheduledMessage(ev model.CalendarEvent) (title, body string) {
	return "Content Scheduled", fmt.Sprintf("\"%s\" is scheduled for %s", ev.Title, ev.Date.String())
}

// Editor is the new-event modal form.
type Editor struct {
	store    *Store
	notifier Notifier
	today    func() model.Date

	form Draft
	open bool
}

// NewEditor returns a closed editor. today supplies the default date for a
// generic "Add Event". A nil notifier disables notifications.
func NewEditor(store *Store, notifier Notifier, today func() model.Date) *Editor {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Editor{
		store:    store,
		notifier: notifier,
		today:    today,
		form:     DefaultDraft(),
	}
}

// Open shows the form. A non-zero day pre-fills the date (quick add from a
// grid cell); otherwise today's date is used. Other fields are kept.
func (e *Editor) Open(day model.Date) {
	if day.IsZero() {
		day = e.today()
	}
	e.form.Date = day.String()
	e.open = true
}

// Close hides the form without committing. Field values are kept.
func (e *Editor) Close() { e.open = false }

func (e *Editor) IsOpen() bool { return e.open }

func (e *Editor) Form() Draft { return e.form }

// Set replaces the form fields.
func (e *Editor) Set(d Draft) { e.form = d }

// CanCommit reports whether the commit action is enabled.
func (e *Editor) CanCommit() bool {
	_, err := e.form.Event()
	return err == nil
}

// CommitLabel is the text of the commit button.
func (e *Editor) CommitLabel() string { return CommitLabelFor(e.form.Status) }

// CommitLabelFor is the commit button text for a form in status st.
func CommitLabelFor(st model.Status) string {
	if st == model.Scheduled {
		return "Schedule Post"
	}
	return "Save Draft"
}

// Commit stores the form as a new event, closes and resets the form. When
// the form is incomplete nothing changes and ok is false.
func (e *Editor) Commit() (ev model.CalendarEvent, ok bool) {
	ev, err := e.form.Event()
	if err != nil {
		return model.CalendarEvent{}, false
	}
	ev = e.store.Add(ev)
	e.open = false
	e.form = DefaultDraft()

	if ev.Status == model.Scheduled {
		e.notifier.Notify(ScheduledMessage(ev))
	}
	return ev, true
}

// SaveEvent sets the form to d and commits it.
func (e *Editor) SaveEvent(d Draft) (model.CalendarEvent, bool) {
	e.Set(d)
	return e.Commit()
}
