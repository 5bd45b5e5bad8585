package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creatorflow/internal/calendar"
	"creatorflow/internal/model"
)

func demoSession() *calendar.Session {
	return calendar.NewSession(calendar.Options{
		Seed:     calendar.DemoEvents(),
		Location: time.UTC,
		Start:    calendar.DemoMonth,
		Now:      func() time.Time { return time.Date(2024, time.May, 20, 12, 0, 0, 0, time.UTC) },
	})
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func TestNewSelectsToday(t *testing.T) {
	t.Parallel()
	m := New(demoSession())
	assert.Equal(t, "2024-05-20", m.Selected().String())

	m = New(calendar.NewSession(calendar.Options{Start: calendar.Month{Year: 2023, Month: time.March}, Location: time.UTC}))
	assert.Equal(t, 1, m.selected)
}

func TestMonthNavigation(t *testing.T) {
	t.Parallel()
	s := demoSession()
	m := New(s)

	m = press(t, m, runes("l"))
	assert.Equal(t, calendar.Month{Year: 2024, Month: time.June}, s.CurrentMonth())
	m = press(t, m, runes("h"), runes("h"))
	assert.Equal(t, calendar.Month{Year: 2024, Month: time.April}, s.CurrentMonth())
	m = press(t, m, runes("t"))
	assert.Equal(t, "2024-05-20", m.Selected().String())
}

func TestSelectionClampsToShortMonth(t *testing.T) {
	t.Parallel()
	s := calendar.NewSession(calendar.Options{Start: calendar.Month{Year: 2024, Month: time.January}, Location: time.UTC})
	m := New(s)
	m.selected = 31

	m = press(t, m, runes("l"))
	assert.Equal(t, "2024-02-29", m.Selected().String())
}

func TestArrowsCrossMonths(t *testing.T) {
	t.Parallel()
	s := demoSession()
	m := New(s)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "2024-06-03", m.Selected().String())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "2024-05-27", m.Selected().String())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, "2024-05-26", m.Selected().String())
}

func TestEnterMovesEvent(t *testing.T) {
	t.Parallel()
	s := demoSession()
	m := New(s)
	m.selected = 15

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	id, dragging := s.Drag().Dragged()
	require.True(t, dragging)
	assert.Equal(t, "1", id)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, calendar.Idle, s.Drag().State())

	ev, ok := s.Store().Get("1")
	require.True(t, ok)
	assert.Equal(t, "2024-05-16", ev.Date.String())
	assert.Contains(t, m.View(), "moved to 2024-05-16")
}

func TestEnterOnEmptyDayDoesNothing(t *testing.T) {
	t.Parallel()
	s := demoSession()
	m := New(s)
	m.selected = 2

	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, calendar.Idle, s.Drag().State())
}

func TestEscCancelsMove(t *testing.T) {
	t.Parallel()
	s := demoSession()
	m := New(s)
	m.selected = 15

	press(t, m, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, calendar.Idle, s.Drag().State())
	assert.Equal(t, calendar.DemoEvents(), s.Events())
}

func TestFilterCycling(t *testing.T) {
	t.Parallel()
	s := demoSession()
	m := New(s)

	m = press(t, m, runes("p"))
	assert.Equal(t, model.Instagram, s.Filter().Platform)
	m = press(t, m, runes("p"), runes("p"), runes("p"), runes("p"))
	assert.Equal(t, model.TikTok, s.Filter().Platform)
	m = press(t, m, runes("p"))
	assert.Equal(t, calendar.All, s.Filter().PlatformLabel())

	press(t, m, runes("s"), runes("s"))
	assert.Equal(t, model.Scheduled, s.Filter().Status)
	assert.Len(t, s.Visible(), 2)
}

func TestAddEvent(t *testing.T) {
	t.Parallel()
	s := demoSession()
	m := New(s)
	m.selected = 28

	m = press(t, m, runes("a"))
	require.True(t, m.adding)
	m = press(t, m, runes("Reel recap"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.adding)

	day28, _ := s.Grid().Cell(28)
	require.Len(t, day28.Events, 1)
	assert.Equal(t, "Reel recap", day28.Events[0].Title)
	assert.Equal(t, model.Draft, day28.Events[0].Status)
}

func TestAddRejectsEmptyTitle(t *testing.T) {
	t.Parallel()
	s := demoSession()
	m := New(s)

	m = press(t, m, runes("a"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 5, s.Store().Len())
	assert.Contains(t, m.View(), "title is required")

	m = press(t, m, runes("a"), runes("x"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.adding)
	assert.Equal(t, 5, s.Store().Len())
}

func TestQuit(t *testing.T) {
	t.Parallel()
	m := New(demoSession())
	next, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, next.View())
}

func TestViewShowsMonth(t *testing.T) {
	t.Parallel()
	v := New(demoSession()).View()
	assert.Contains(t, v, "May 2024")
	assert.Contains(t, v, "Weekly Vlog")
	assert.Contains(t, v, "platform: All  status: All  visible: 5")
}
