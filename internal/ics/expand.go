package ics

import (
	"errors"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	appLog "creatorflow/internal/log"
	"creatorflow/internal/model"
)

const defaultMaxOccurrencesPerEvent = 5000

// Occurrence is one concrete instance of a feed event.
type Occurrence struct {
	FeedID string
	UID    string

	// InstanceKey identifies the occurrence within its feed.
	InstanceKey string

	Summary string
	AllDay  bool

	// Date is the civil day of the occurrence. For all-day events it is the
	// date as written in the feed, otherwise the start date in the display zone.
	Date model.Date

	// Start and End are in the display zone.
	Start time.Time
	End   time.Time
}

// ExpandConfig controls recurrence expansion.
type ExpandConfig struct {
	// DisplayLocation is the zone occurrences are converted to. Nil means time.Local.
	DisplayLocation *time.Location

	// RangeStart and RangeEnd bound the window, inclusive.
	RangeStart time.Time
	RangeEnd   time.Time

	// MaxOccurrencesPerEvent caps a single RRULE. Zero means 5000.
	MaxOccurrencesPerEvent int
}

// ExpandResult holds the expanded occurrences sorted by start.
type ExpandResult struct {
	Occurrences []Occurrence
	// TruncatedEvents lists UIDs that hit the cap.
	TruncatedEvents []string
}

// ExpandOccurrences expands events into concrete occurrences in the window.
// It applies RRULE, EXDATE and RECURRENCE-ID overrides.
func ExpandOccurrences(events []ParsedEvent, cfg ExpandConfig) (ExpandResult, error) {
	var result ExpandResult

	if cfg.RangeEnd.Before(cfg.RangeStart) {
		return result, errors.New("expand: RangeEnd is before RangeStart")
	}
	if cfg.DisplayLocation == nil {
		cfg.DisplayLocation = time.Local
	}
	if cfg.MaxOccurrencesPerEvent <= 0 {
		cfg.MaxOccurrencesPerEvent = defaultMaxOccurrencesPerEvent
	}

	baseByUID := make(map[string][]ParsedEvent)
	overridesByUID := make(map[string][]ParsedEvent)
	var uids []string
	for _, ev := range events {
		if ev.IsOverride && ev.Recurrence != nil {
			overridesByUID[ev.UID] = append(overridesByUID[ev.UID], ev)
			continue
		}
		if _, seen := baseByUID[ev.UID]; !seen {
			uids = append(uids, ev.UID)
		}
		baseByUID[ev.UID] = append(baseByUID[ev.UID], ev)
	}

	all := make([]Occurrence, 0)
	for _, uid := range uids {
		ov := overridesByUID[uid]
		truncated := false
		for _, ev := range baseByUID[uid] {
			occ, hitCap := expandEvent(ev, ov, cfg)
			truncated = truncated || hitCap
			all = append(all, occ...)
		}
		if truncated {
			result.TruncatedEvents = append(result.TruncatedEvents, uid)
			appLog.Error("expand: truncated occurrences", errors.New("max occurrences reached"),
				"uid", uid, "cap", cfg.MaxOccurrencesPerEvent)
		}
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Start.Before(all[j].Start) })
	result.Occurrences = all
	return result, nil
}

func expandEvent(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig) ([]Occurrence, bool) {
	if ev.RawRRule == "" {
		return expandSingle(ev, overrides, cfg), false
	}
	return expandRecurring(ev, overrides, cfg)
}

func expandSingle(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig) []Occurrence {
	instance := ev.Start
	start, end := ev.Start, ev.End
	if o, ok := findOverride(overrides, start); ok {
		ev, start, end = o, o.Start, o.End
	}
	if !overlaps(start, end, cfg.RangeStart, cfg.RangeEnd) {
		return nil
	}
	return []Occurrence{makeOccurrence(ev, instance, start, end, cfg.DisplayLocation)}
}

func expandRecurring(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig) ([]Occurrence, bool) {
	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		appLog.Error("expand: failed to parse RRULE", err, "uid", ev.UID, "rrule", ev.RawRRule)
		return nil, false
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	loc := ev.Start.Location()
	times := set.Between(cfg.RangeStart.In(loc), cfg.RangeEnd.In(loc), true)

	hitCap := false
	if len(times) > cfg.MaxOccurrencesPerEvent {
		times = times[:cfg.MaxOccurrencesPerEvent]
		hitCap = true
	}

	dur := ev.End.Sub(ev.Start)
	out := make([]Occurrence, 0, len(times))
	for _, start := range times {
		var end time.Time
		if ev.AllDay {
			start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
			end = start.AddDate(0, 0, 1)
		} else {
			end = start.Add(dur)
		}

		base, instance := ev, start
		if o, ok := findOverride(overrides, start); ok {
			base, start, end = o, o.Start, o.End
		}
		out = append(out, makeOccurrence(base, instance, start, end, cfg.DisplayLocation))
	}
	return out, hitCap
}

// findOverride returns the override whose RECURRENCE-ID equals start.
func findOverride(overrides []ParsedEvent, start time.Time) (ParsedEvent, bool) {
	for _, ov := range overrides {
		if ov.Recurrence != nil && ov.Recurrence.Equal(start) {
			return ov, true
		}
	}
	return ParsedEvent{}, false
}

// makeOccurrence builds the occurrence of ev that the feed schedules at
// instance and that actually runs from start to end. The instance key
// follows the scheduled slot so a moved override keeps its id.
func makeOccurrence(ev ParsedEvent, instance, start, end time.Time, displayLoc *time.Location) Occurrence {
	occ := Occurrence{
		FeedID:  ev.Feed.ID,
		UID:     ev.UID,
		Summary: ev.Summary,
		AllDay:  ev.AllDay,
	}
	if ev.AllDay {
		// All-day dates are civil: keep the day as written, not as converted.
		occ.Date = model.DateOf(start)
		days := int(end.Sub(start).Hours()/24 + 0.5)
		if days < 1 {
			days = 1
		}
		occ.Start = occ.Date.Time(displayLoc)
		occ.End = occ.Start.AddDate(0, 0, days)
		occ.InstanceKey = ev.UID + "@" + model.DateOf(instance).String()
		return occ
	}
	occ.Start = start.In(displayLoc)
	occ.End = end.In(displayLoc)
	occ.Date = model.DateOf(occ.Start)
	slot := instance.In(displayLoc)
	occ.InstanceKey = ev.UID + "@" + model.DateOf(slot).String() + "T" + slot.Format("1504")
	return occ
}

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aEnd.Before(bStart) && !bEnd.Before(aStart)
}
