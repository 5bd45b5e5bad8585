package calendar

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creatorflow/internal/model"
)

func date(y int, m time.Month, d int) model.Date {
	return model.Date{Year: y, Month: m, Day: d}
}

func launchEvent() model.CalendarEvent {
	return model.CalendarEvent{
		ID:       "1",
		Date:     date(2024, time.May, 15),
		Title:    "Launch",
		Platform: model.Instagram,
		Status:   model.Scheduled,
	}
}

func sequentialIDs() IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestStoreAddGeneratesID(t *testing.T) {
	t.Parallel()
	s := NewStore(nil, WithIDFunc(sequentialIDs()))

	ev := s.Add(model.CalendarEvent{ID: "ignored", Title: "a", Date: date(2024, time.May, 1), Platform: model.TikTok, Status: model.Draft})
	assert.Equal(t, "id-1", ev.ID)

	ev2 := s.Add(model.CalendarEvent{Title: "b", Date: date(2024, time.May, 2), Platform: model.TikTok, Status: model.Draft})
	assert.Equal(t, "id-2", ev2.ID)

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"id-1", "id-2"}, ids(s.Events()))
}

func TestStoreAddSkipsTakenIDs(t *testing.T) {
	t.Parallel()
	calls := 0
	gen := func() string {
		calls++
		if calls < 3 {
			return "1"
		}
		return "fresh"
	}
	s := NewStore([]model.CalendarEvent{launchEvent()}, WithIDFunc(gen))

	ev := s.Add(model.CalendarEvent{Title: "x"})
	assert.Equal(t, "fresh", ev.ID)
}

func TestStoreDefaultIDsAreUnique(t *testing.T) {
	t.Parallel()
	s := NewStore(nil)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		ev := s.Add(model.CalendarEvent{Title: "x"})
		require.NotEmpty(t, ev.ID)
		require.False(t, seen[ev.ID], "duplicate id %s", ev.ID)
		seen[ev.ID] = true
	}
}

func TestStoreReschedule(t *testing.T) {
	t.Parallel()
	s := NewStore([]model.CalendarEvent{launchEvent()})

	assert.True(t, s.Reschedule("1", date(2024, time.May, 20)))
	ev, ok := s.Get("1")
	require.True(t, ok)
	assert.Equal(t, "2024-05-20", ev.Date.String())
	assert.Equal(t, "Launch", ev.Title)
	assert.Equal(t, model.Scheduled, ev.Status)
}

func TestStoreRescheduleUnknownIDIsNoop(t *testing.T) {
	t.Parallel()
	s := NewStore(DemoEvents())
	before := s.Events()

	assert.False(t, s.Reschedule("missing", date(2030, time.January, 1)))
	assert.Equal(t, before, s.Events())
	assert.Equal(t, len(before), s.Len())
}

func TestStoreEventsIsACopy(t *testing.T) {
	t.Parallel()
	s := NewStore([]model.CalendarEvent{launchEvent()})
	evs := s.Events()
	evs[0].Title = "mutated"

	got, _ := s.Get("1")
	assert.Equal(t, "Launch", got.Title)
}

func TestStoreImport(t *testing.T) {
	t.Parallel()
	s := NewStore([]model.CalendarEvent{launchEvent()})

	assert.False(t, s.Import(launchEvent()), "duplicate id")
	assert.False(t, s.Import(model.CalendarEvent{Title: "no id"}))

	ev := launchEvent()
	ev.ID = "feed:1"
	assert.True(t, s.Import(ev))
	assert.Equal(t, 2, s.Len())
}

func ids(evs []model.CalendarEvent) []string {
	out := make([]string, 0, len(evs))
	for _, e := range evs {
		out = append(out, e.ID)
	}
	return out
}
