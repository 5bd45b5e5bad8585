package calendar

import (
	"fmt"
	"time"

	"creatorflow/internal/model"
)

// Month identifies a displayed month. Month is 1-based (time.January == 1).
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// MonthOf returns the month containing d.
func MonthOf(d model.Date) Month {
	return Month{Year: d.Year, Month: d.Month}
}

// Add shifts m by n months, rolling the year as needed.
func (m Month) Add(n int) Month {
	t := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return Month{Year: t.Year(), Month: t.Month()}
}

func (m Month) Next() Month     { return m.Add(1) }
func (m Month) Previous() Month { return m.Add(-1) }

// First returns the 1st of the month.
func (m Month) First() model.Date {
	return model.Date{Year: m.Year, Month: m.Month, Day: 1}
}

// Title renders "May 2024".
func (m Month) Title() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}

// String renders the key form "2024-05".
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// ParseMonth parses "2006-01".
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: want YYYY-MM", s)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// IsLeap reports Gregorian leap years.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

var monthDays = [...]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysIn returns the number of days in month of year.
func DaysIn(year int, month time.Month) int {
	if month == time.February && IsLeap(year) {
		return 29
	}
	return monthDays[month-1]
}

// FirstWeekday returns the weekday of the 1st (Sunday == 0).
func FirstWeekday(year int, month time.Month) time.Weekday {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()
}

// Cell is one real day of the grid.
type Cell struct {
	Day     int                   `json:"day"`
	Date    model.Date            `json:"date"`
	Events  []model.CalendarEvent `json:"events"`
	IsToday bool                  `json:"is_today"`
}

// Key is the canonical YYYY-MM-DD lookup key.
func (c Cell) Key() string { return c.Date.String() }

// Grid is the renderable layout of one month: Padding blank leading cells
// followed by one Cell per day.
type Grid struct {
	Month   Month  `json:"month"`
	Title   string `json:"title"`
	Padding int    `json:"padding"`
	Days    []Cell `json:"days"`
}

// BuildGrid lays out m and attaches the events of visible whose date matches
// each day, in the order they appear in visible.
func BuildGrid(m Month, visible []model.CalendarEvent, today model.Date) Grid {
	n := DaysIn(m.Year, m.Month)

	byKey := make(map[string][]model.CalendarEvent)
	for _, ev := range visible {
		k := ev.Date.String()
		byKey[k] = append(byKey[k], ev)
	}

	g := Grid{
		Month:   m,
		Title:   m.Title(),
		Padding: int(FirstWeekday(m.Year, m.Month)),
		Days:    make([]Cell, 0, n),
	}
	for day := 1; day <= n; day++ {
		d := model.Date{Year: m.Year, Month: m.Month, Day: day}
		events := byKey[d.String()]
		if events == nil {
			events = []model.CalendarEvent{}
		}
		g.Days = append(g.Days, Cell{
			Day:     day,
			Date:    d,
			Events:  events,
			IsToday: d == today,
		})
	}
	return g
}

// Cell returns the cell for day (1-based).
func (g Grid) Cell(day int) (Cell, bool) {
	if day < 1 || day > len(g.Days) {
		return Cell{}, false
	}
	return g.Days[day-1], true
}

// Weeks splits the grid into rows of seven. Blank slots are nil.
func (g Grid) Weeks() [][]*Cell {
	total := g.Padding + len(g.Days)
	rows := (total + 6) / 7
	weeks := make([][]*Cell, rows)
	for r := range weeks {
		weeks[r] = make([]*Cell, 7)
		for c := 0; c < 7; c++ {
			day := r*7 + c - g.Padding
			if day >= 0 && day < len(g.Days) {
				weeks[r][c] = &g.Days[day]
			}
		}
	}
	return weeks
}

// View holds the displayed month.
type View struct {
	current Month
}

// NewView starts on m.
func NewView(m Month) *View { return &View{current: m} }

func (v *View) Current() Month { return v.current }

func (v *View) Next()     { v.current = v.current.Next() }
func (v *View) Previous() { v.current = v.current.Previous() }

// Today jumps to the month containing today.
func (v *View) Today(today model.Date) { v.current = MonthOf(today) }

// Set jumps to m.
func (v *View) Set(m Month) { v.current = m }
