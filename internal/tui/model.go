// Package tui is a terminal month view over a calendar Session.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"creatorflow/internal/calendar"
	appLog "creatorflow/internal/log"
	"creatorflow/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			MarginBottom(1)

	weekdayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Width(cellWidth).
			Align(lipgloss.Right)

	cellStyle = lipgloss.NewStyle().
			Width(cellWidth).
			Align(lipgloss.Right)

	busyStyle     = cellStyle.Foreground(lipgloss.Color("#06B6D4")).Bold(true)
	todayStyle    = cellStyle.Underline(true)
	selectedStyle = cellStyle.Reverse(true)

	eventStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			MarginTop(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))
)

const cellWidth = 5

var weekdays = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

// Model is the bubbletea model. Navigation, drag and filters all go
// through the Session so the TUI behaves like the web page.
type Model struct {
	session  *calendar.Session
	selected int // day of the displayed month, 1-based

	input  textinput.Model
	adding bool

	status   string
	quitting bool
}

// New starts on the session's displayed month with today selected when it
// falls in that month.
func New(s *calendar.Session) Model {
	ti := textinput.New()
	ti.Placeholder = "Post title"
	ti.CharLimit = 120

	m := Model{session: s, input: ti, selected: 1}
	if today := s.Today(); calendar.MonthOf(today) == s.CurrentMonth() {
		m.selected = today.Day
	}
	return m
}

// Run blocks until the user quits.
func Run(s *calendar.Session) error {
	_, err := tea.NewProgram(New(s), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd { return nil }

// Selected is the highlighted date.
func (m Model) Selected() model.Date {
	cur := m.session.CurrentMonth()
	return model.Date{Year: cur.Year, Month: cur.Month, Day: m.selected}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.adding {
		return m.updateAdding(key)
	}

	switch key.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "h":
		m.session.Previous()
		m.clamp()
	case "l":
		m.session.Next()
		m.clamp()
	case "t":
		m.session.GoToday()
		m.selected = m.session.Today().Day
	case "left":
		m.move(-1)
	case "right":
		m.move(1)
	case "up":
		m.move(-7)
	case "down":
		m.move(7)
	case "enter":
		m.pickOrDrop()
	case "esc":
		if m.session.Drag().State() == calendar.Dragging {
			m.session.CancelDrag()
			m.status = "move cancelled"
		}
	case "p":
		m.cycle(platformOptions(), m.session.Filter().PlatformLabel(), m.session.SetPlatformFilter)
	case "s":
		m.cycle(statusOptions(), m.session.Filter().StatusLabel(), m.session.SetStatusFilter)
	case "a":
		m.adding = true
		m.input.Reset()
		return m, m.input.Focus()
	}
	return m, nil
}

func (m Model) updateAdding(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		m.adding = false
		m.input.Blur()
		return m, nil
	case "enter":
		d := calendar.DefaultDraft()
		d.Title = strings.TrimSpace(m.input.Value())
		d.Date = m.Selected().String()
		if ev, ok := m.session.SaveEvent(d); ok {
			m.status = fmt.Sprintf("added %q on %s", ev.Title, ev.Date)
			appLog.Debug("tui event added", "id", ev.ID, "date", ev.Date.String())
		} else {
			m.status = "title is required"
		}
		m.adding = false
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

// move shifts the selection, crossing into adjacent months.
func (m *Model) move(delta int) {
	cur := m.session.CurrentMonth()
	day := m.selected + delta
	if day < 1 {
		m.session.Previous()
		prev := m.session.CurrentMonth()
		m.selected = calendar.DaysIn(prev.Year, prev.Month) + day
		return
	}
	if n := calendar.DaysIn(cur.Year, cur.Month); day > n {
		m.session.Next()
		m.selected = day - n
		return
	}
	m.selected = day
}

func (m *Model) clamp() {
	cur := m.session.CurrentMonth()
	if n := calendar.DaysIn(cur.Year, cur.Month); m.selected > n {
		m.selected = n
	}
}

// pickOrDrop starts dragging the first visible event of the selected day,
// or drops the dragged event there.
func (m *Model) pickOrDrop() {
	drag := m.session.Drag()
	if drag.State() == calendar.Dragging {
		id, _ := drag.Dragged()
		if m.session.Drop(m.Selected()) {
			m.status = fmt.Sprintf("moved to %s", m.Selected())
			appLog.Debug("tui event moved", "id", id, "date", m.Selected().String())
		} else {
			m.status = "event no longer exists"
		}
		return
	}
	evs := m.dayEvents()
	if len(evs) == 0 {
		return
	}
	m.session.StartDrag(evs[0].ID)
	m.status = fmt.Sprintf("moving %q: pick a day and press enter", evs[0].Title)
}

func (m *Model) cycle(options []string, current string, set func(string) error) {
	next := options[0]
	for i, o := range options {
		if o == current {
			next = options[(i+1)%len(options)]
			break
		}
	}
	if err := set(next); err != nil {
		m.status = err.Error()
	}
}

func (m Model) dayEvents() []model.CalendarEvent {
	cell, ok := m.session.Grid().Cell(m.selected)
	if !ok {
		return nil
	}
	return cell.Events
}

func platformOptions() []string {
	out := []string{calendar.All}
	for _, p := range model.Platforms {
		out = append(out, string(p))
	}
	return out
}

func statusOptions() []string {
	out := []string{calendar.All}
	for _, s := range model.Statuses {
		out = append(out, string(s))
	}
	return out
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	g := m.session.Grid()

	var b strings.Builder
	b.WriteString(titleStyle.Render(g.Title))
	b.WriteString("\n")
	b.WriteString(RenderMonth(g, m.selected))
	b.WriteString("\n\n")

	sel := m.Selected()
	b.WriteString(sel.Time(time.UTC).Format("Monday, January 2"))
	b.WriteString("\n")
	evs := m.dayEvents()
	if len(evs) == 0 {
		b.WriteString(eventStyle.Render("no posts"))
		b.WriteString("\n")
	}
	for _, ev := range evs {
		line := fmt.Sprintf("[%s] %s (%s)", ev.Platform, ev.Title, ev.Status)
		if t := ev.TimeString(); t != "" {
			line = t + " " + line
		}
		b.WriteString(eventStyle.Render(line))
		b.WriteString("\n")
	}

	f := m.session.Filter()
	fmt.Fprintf(&b, "\nplatform: %s  status: %s  visible: %d\n", f.PlatformLabel(), f.StatusLabel(), len(m.session.Visible()))

	if m.adding {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("h/l month  t today  arrows day  enter move  esc cancel  p/s filter  a add  q quit"))
	return b.String()
}

// RenderMonth draws the week rows. Days with events are highlighted and
// selected (1-based, 0 for none) is shown reversed.
func RenderMonth(g calendar.Grid, selected int) string {
	header := make([]string, len(weekdays))
	for i, w := range weekdays {
		header[i] = weekdayStyle.Render(w)
	}
	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}

	for _, week := range g.Weeks() {
		cells := make([]string, len(week))
		for i, c := range week {
			if c == nil {
				cells[i] = cellStyle.Render("")
				continue
			}
			label := fmt.Sprintf("%d", c.Day)
			style := cellStyle
			switch {
			case c.Day == selected:
				style = selectedStyle
			case len(c.Events) > 0:
				style = busyStyle
			case c.IsToday:
				style = todayStyle
			}
			if len(c.Events) > 0 {
				label = "*" + label
			}
			cells[i] = style.Render(label)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
