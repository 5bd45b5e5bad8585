package calendar

import (
	"creatorflow/internal/model"
)

// All is the wildcard filter value as shown in the UI selectors.
const All = "All"

// Filter selects visible events. A zero Platform or Status is the wildcard.
type Filter struct {
	Platform model.Platform
	Status   model.Status
}

// Match reports whether ev passes both selectors.
func (f Filter) Match(ev model.CalendarEvent) bool {
	if f.Platform != "" && ev.Platform != f.Platform {
		return false
	}
	if f.Status != "" && ev.Status != f.Status {
		return false
	}
	return true
}

// PlatformLabel returns the selector value, "All" for the wildcard.
func (f Filter) PlatformLabel() string {
	if f.Platform == "" {
		return All
	}
	return string(f.Platform)
}

func (f Filter) StatusLabel() string {
	if f.Status == "" {
		return All
	}
	return string(f.Status)
}

// Apply returns the events matching f, preserving input order. It never
// returns nil so an empty result renders as an empty list.
func Apply(events []model.CalendarEvent, f Filter) []model.CalendarEvent {
	out := make([]model.CalendarEvent, 0, len(events))
	for _, ev := range events {
		if f.Match(ev) {
			out = append(out, ev)
		}
	}
	return out
}

// ParsePlatformFilter accepts "All", "" or an exact platform name.
func ParsePlatformFilter(s string) (model.Platform, error) {
	if s == "" || s == All {
		return "", nil
	}
	return model.ParsePlatform(s)
}

// ParseStatusFilter accepts "All", "" or an exact status name.
func ParseStatusFilter(s string) (model.Status, error) {
	if s == "" || s == All {
		return "", nil
	}
	return model.ParseStatus(s)
}
