package ics

import (
	"time"

	ical "github.com/arran4/golang-ical"

	"creatorflow/internal/model"
)

const productID = "-//CreatorFlow//Content Calendar//EN"

// defaultDuration is the length given to timed events on export.
const defaultDuration = 30 * time.Minute

// Export renders events as a VCALENDAR. Events without a time become
// all-day. Platform and status travel in CATEGORIES and STATUS; the exact
// status is kept in X-CREATORFLOW-STATUS.
func Export(events []model.CalendarEvent, name string, loc *time.Location, stamp time.Time) string {
	if loc == nil {
		loc = time.Local
	}
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	if name != "" {
		cal.SetXWRCalName(name)
	}

	for _, e := range events {
		ve := cal.AddEvent(e.ID + "@creatorflow")
		ve.SetDtStampTime(stamp.UTC())
		ve.SetSummary(e.Title)
		if e.Time == nil {
			day := e.Date.Time(loc)
			ve.SetAllDayStartAt(day)
			ve.SetAllDayEndAt(day.AddDate(0, 0, 1))
		} else {
			start := time.Date(e.Date.Year, e.Date.Month, e.Date.Day, e.Time.Hour, e.Time.Minute, 0, 0, loc)
			ve.SetStartAt(start)
			ve.SetEndAt(start.Add(defaultDuration))
		}
		ve.AddProperty(ical.ComponentProperty("CATEGORIES"), string(e.Platform))
		ve.AddProperty(ical.ComponentProperty("CATEGORIES"), string(e.Status))
		ve.SetStatus(exportStatus(e.Status))
		ve.SetProperty(ical.ComponentProperty("X-CREATORFLOW-STATUS"), string(e.Status))
	}
	return cal.Serialize()
}

func exportStatus(s model.Status) ical.ObjectStatus {
	if s == model.Draft {
		return ical.ObjectStatusTentative
	}
	return ical.ObjectStatusConfirmed
}
