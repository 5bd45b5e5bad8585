package ics

import (
	"context"
	"errors"
	"sync"
	"time"

	appLog "creatorflow/internal/log"
	"creatorflow/internal/model"
)

// Subscription is a feed plus the platform and status stamped on every
// event it produces.
type Subscription struct {
	Feed     Feed
	Name     string
	Platform model.Platform
	Status   model.Status
}

// Sink receives imported events. It must skip ids it already holds.
type Sink interface {
	ImportEvents(evs []model.CalendarEvent) int
}

// Importer turns feed occurrences into calendar events.
type Importer struct {
	fetcher *Fetcher
	loc     *time.Location
	horizon time.Duration
	now     func() time.Time

	mu   sync.Mutex
	subs []Subscription
}

// NewImporter imports occurrences from now to now+horizon, with dates and
// times in loc.
func NewImporter(fetcher *Fetcher, subs []Subscription, loc *time.Location, horizon time.Duration) *Importer {
	if loc == nil {
		loc = time.Local
	}
	return &Importer{
		fetcher: fetcher,
		loc:     loc,
		horizon: horizon,
		now:     time.Now,
		subs:    append([]Subscription(nil), subs...),
	}
}

// SetSubscriptions replaces the feed list used by later runs.
func (im *Importer) SetSubscriptions(subs []Subscription) {
	im.mu.Lock()
	im.subs = append([]Subscription(nil), subs...)
	im.mu.Unlock()
}

func (im *Importer) subscriptions() []Subscription {
	im.mu.Lock()
	defer im.mu.Unlock()
	return append([]Subscription(nil), im.subs...)
}

// Collect fetches, parses and expands every subscription. A feed that fails
// is skipped; the joined error reports all failures.
func (im *Importer) Collect(ctx context.Context) ([]model.CalendarEvent, error) {
	subs := im.subscriptions()
	if len(subs) == 0 {
		return nil, nil
	}

	start := im.now().In(im.loc)
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, im.loc)
	window := ExpandConfig{
		DisplayLocation: im.loc,
		RangeStart:      start,
		RangeEnd:        start.Add(im.horizon),
	}

	var out []model.CalendarEvent
	var errs []error
	for _, sub := range subs {
		res, err := im.fetcher.FetchOne(ctx, sub.Feed)
		if err != nil {
			appLog.Error("feed import: fetch", err, "id", sub.Feed.ID, "url", redactURL(sub.Feed.URL))
			errs = append(errs, err)
			continue
		}
		parsed, err := ParseICS(sub.Feed, res.Body)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		expanded, err := ExpandOccurrences(parsed, window)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, occ := range expanded.Occurrences {
			out = append(out, ToEvent(sub, occ))
		}
	}
	return out, errors.Join(errs...)
}

// Run collects and hands the events to sink. It returns the number added.
func (im *Importer) Run(ctx context.Context, sink Sink) (int, error) {
	evs, err := im.Collect(ctx)
	added := 0
	if len(evs) > 0 {
		added = sink.ImportEvents(evs)
	}
	appLog.Info("feed import", "occurrences", len(evs), "added", added)
	return added, err
}

// ToEvent converts one occurrence. The id is "<feed>:<instance>" so a
// re-import of the same instance is recognised.
func ToEvent(sub Subscription, occ Occurrence) model.CalendarEvent {
	ev := model.CalendarEvent{
		ID:       sub.Feed.ID + ":" + occ.InstanceKey,
		Date:     occ.Date,
		Title:    occ.Summary,
		Platform: sub.Platform,
		Status:   sub.Status,
	}
	if ev.Title == "" {
		ev.Title = "(untitled)"
	}
	if !occ.AllDay {
		ev.Time = &model.Clock{Hour: occ.Start.Hour(), Minute: occ.Start.Minute()}
	}
	return ev
}
