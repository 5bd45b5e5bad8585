package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creatorflow/internal/model"
)

func TestDaysIn(t *testing.T) {
	t.Parallel()
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2000, time.February, 29},
		{1900, time.February, 28},
		{2100, time.February, 28},
		{2024, time.April, 30},
		{2024, time.June, 30},
		{2024, time.September, 30},
		{2024, time.November, 30},
		{2024, time.January, 31},
		{2024, time.December, 31},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DaysIn(tt.year, tt.month), "%d-%s", tt.year, tt.month)
	}
}

func TestDaysInMatchesTimePackage(t *testing.T) {
	t.Parallel()
	for year := 1896; year <= 2104; year++ {
		for m := time.January; m <= time.December; m++ {
			want := time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
			require.Equal(t, want, DaysIn(year, m), "%d-%s", year, m)
		}
	}
}

func TestFirstWeekdayCoversEveryColumn(t *testing.T) {
	t.Parallel()
	// 2024: Jan Mon, Feb Thu, Mar Fri, Apr Mon, May Wed, Jun Sat, Sep Sun, Oct Tue.
	tests := []struct {
		month time.Month
		want  time.Weekday
	}{
		{time.September, time.Sunday},
		{time.January, time.Monday},
		{time.October, time.Tuesday},
		{time.May, time.Wednesday},
		{time.February, time.Thursday},
		{time.March, time.Friday},
		{time.June, time.Saturday},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FirstWeekday(2024, tt.month), tt.month.String())
		g := BuildGrid(Month{2024, tt.month}, nil, model.Date{})
		assert.Equal(t, int(tt.want), g.Padding)
	}
}

func TestBuildGridPlacesEventsByDate(t *testing.T) {
	t.Parallel()
	g := BuildGrid(Month{2024, time.May}, []model.CalendarEvent{launchEvent()}, model.Date{})

	assert.Equal(t, "May 2024", g.Title)
	assert.Equal(t, 3, g.Padding)
	require.Len(t, g.Days, 31)

	for _, c := range g.Days {
		if c.Day == 15 {
			require.Len(t, c.Events, 1)
			assert.Equal(t, "1", c.Events[0].ID)
			assert.Equal(t, "2024-05-15", c.Key())
		} else {
			assert.Empty(t, c.Events, "day %d", c.Day)
			assert.NotNil(t, c.Events)
		}
	}
}

func TestBuildGridKeepsInputOrderWithinDay(t *testing.T) {
	t.Parallel()
	a := launchEvent()
	b := launchEvent()
	b.ID = "0"
	g := BuildGrid(Month{2024, time.May}, []model.CalendarEvent{a, b}, model.Date{})

	c, ok := g.Cell(15)
	require.True(t, ok)
	assert.Equal(t, []string{"1", "0"}, ids(c.Events))
}

func TestBuildGridIgnoresOtherMonths(t *testing.T) {
	t.Parallel()
	ev := launchEvent()
	ev.Date = date(2024, time.June, 15)
	g := BuildGrid(Month{2024, time.May}, []model.CalendarEvent{ev}, model.Date{})

	c, _ := g.Cell(15)
	assert.Empty(t, c.Events)
}

func TestBuildGridToday(t *testing.T) {
	t.Parallel()
	g := BuildGrid(Month{2024, time.May}, nil, date(2024, time.May, 9))
	for _, c := range g.Days {
		assert.Equal(t, c.Day == 9, c.IsToday, "day %d", c.Day)
	}

	other := BuildGrid(Month{2024, time.June}, nil, date(2024, time.May, 9))
	for _, c := range other.Days {
		assert.False(t, c.IsToday)
	}
}

func TestBuildGridLeapFebruary(t *testing.T) {
	t.Parallel()
	g := BuildGrid(Month{2024, time.February}, nil, model.Date{})
	assert.Len(t, g.Days, 29)
	last := g.Days[len(g.Days)-1]
	assert.Equal(t, "2024-02-29", last.Key())

	assert.Len(t, BuildGrid(Month{2023, time.February}, nil, model.Date{}).Days, 28)
}

func TestGridCellBounds(t *testing.T) {
	t.Parallel()
	g := BuildGrid(Month{2024, time.April}, nil, model.Date{})
	_, ok := g.Cell(0)
	assert.False(t, ok)
	_, ok = g.Cell(31)
	assert.False(t, ok)
	c, ok := g.Cell(30)
	assert.True(t, ok)
	assert.Equal(t, 30, c.Day)
}

func TestGridWeeks(t *testing.T) {
	t.Parallel()
	g := BuildGrid(Month{2024, time.May}, nil, model.Date{})
	weeks := g.Weeks()

	// 3 padding + 31 days = 34 cells -> 5 rows.
	require.Len(t, weeks, 5)
	assert.Nil(t, weeks[0][0])
	assert.Nil(t, weeks[0][2])
	require.NotNil(t, weeks[0][3])
	assert.Equal(t, 1, weeks[0][3].Day)
	require.NotNil(t, weeks[4][5])
	assert.Equal(t, 31, weeks[4][5].Day)
	assert.Nil(t, weeks[4][6])

	// February 2015 starts on Sunday and fills exactly four rows.
	assert.Len(t, BuildGrid(Month{2015, time.February}, nil, model.Date{}).Weeks(), 4)
}

func TestMonthNavigation(t *testing.T) {
	t.Parallel()
	dec := Month{2024, time.December}
	jan := dec.Next()
	assert.Equal(t, Month{2025, time.January}, jan)
	assert.Equal(t, dec, jan.Previous())

	assert.Equal(t, Month{2023, time.December}, Month{2024, time.January}.Previous())
	assert.Equal(t, Month{2026, time.March}, Month{2024, time.May}.Add(22))
}

func TestView(t *testing.T) {
	t.Parallel()
	v := NewView(Month{2024, time.December})
	v.Next()
	assert.Equal(t, Month{2025, time.January}, v.Current())
	v.Previous()
	assert.Equal(t, Month{2024, time.December}, v.Current())

	v.Today(date(2026, time.October, 14))
	assert.Equal(t, Month{2026, time.October}, v.Current())
	assert.Equal(t, date(2026, time.October, 1), v.Current().First())
}

func TestIsLeap(t *testing.T) {
	t.Parallel()
	assert.True(t, IsLeap(2024))
	assert.True(t, IsLeap(2000))
	assert.False(t, IsLeap(1900))
	assert.False(t, IsLeap(2023))
}

func TestParseMonth(t *testing.T) {
	t.Parallel()
	m, err := ParseMonth("2024-05")
	require.NoError(t, err)
	assert.Equal(t, Month{2024, time.May}, m)
	assert.Equal(t, "2024-05", m.String())

	_, err = ParseMonth("2024-13")
	assert.Error(t, err)
	_, err = ParseMonth("May")
	assert.Error(t, err)
}
