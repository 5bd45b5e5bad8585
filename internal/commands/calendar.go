package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"creatorflow/internal/calendar"
	"creatorflow/internal/model"
	"creatorflow/internal/tui"
)

// viewOptions select the month and filters for the printing commands.
type viewOptions struct {
	month    string
	platform string
	status   string
}

func (vo *viewOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&vo.month, "month", "m", "", "Month to show (YYYY-MM)")
	cmd.Flags().StringVarP(&vo.platform, "platform", "p", calendar.All, "Platform filter")
	cmd.Flags().StringVarP(&vo.status, "status", "s", calendar.All, "Status filter")
}

// apply moves s to the requested month and filters.
func (vo *viewOptions) apply(s *calendar.Session) error {
	if vo.month != "" {
		m, err := calendar.ParseMonth(vo.month)
		if err != nil {
			return err
		}
		s.GoTo(m)
	}
	if err := s.SetPlatformFilter(vo.platform); err != nil {
		return err
	}
	return s.SetStatusFilter(vo.status)
}

func addCalendar(topLevel *cobra.Command, ro *rootOptions) {
	vo := &viewOptions{}
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print a month with its planned posts.",
		Example: `
creatorflow calendar
creatorflow calendar --month 2024-05 --platform Instagram
`,
		RunE: func(_ *cobra.Command, _ []string) error {
			s, err := loadSession(ro, vo)
			if err != nil {
				return err
			}
			printCalendar(color.Output, s)
			return nil
		},
	}
	vo.addFlags(cmd)
	topLevel.AddCommand(cmd)
}

func addEvents(topLevel *cobra.Command, ro *rootOptions) {
	vo := &viewOptions{}
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List visible events.",
		Example: `
creatorflow events --status Scheduled
`,
		RunE: func(_ *cobra.Command, _ []string) error {
			s, err := loadSession(ro, vo)
			if err != nil {
				return err
			}
			printEvents(color.Output, s.Visible())
			return nil
		},
	}
	vo.addFlags(cmd)
	topLevel.AddCommand(cmd)
}

func loadSession(ro *rootOptions, vo *viewOptions) (*calendar.Session, error) {
	cfg, err := ro.loadConfig()
	if err != nil {
		return nil, err
	}
	s, err := newSession(cfg, nil)
	if err != nil {
		return nil, err
	}
	if err := vo.apply(s); err != nil {
		return nil, err
	}
	return s, nil
}

// printCalendar writes the month grid followed by the month's events.
func printCalendar(w io.Writer, s *calendar.Session) {
	g := s.Grid()
	_, _ = fmt.Fprintln(w, color.New(color.Bold, color.Underline).Sprint(g.Title))
	_, _ = fmt.Fprintln(w, tui.RenderMonth(g, 0))
	_, _ = fmt.Fprintln(w)

	var month []model.CalendarEvent
	for _, c := range g.Days {
		month = append(month, c.Events...)
	}
	printEvents(w, month)
}

func printEvents(w io.Writer, evs []model.CalendarEvent) {
	if len(evs) == 0 {
		_, _ = fmt.Fprintln(w, color.New(color.Faint).Sprint("no posts"))
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("DATE", "TIME", "PLATFORM", "STATUS", "TITLE", "ID")
	for _, ev := range evs {
		tm := ev.TimeString()
		if tm == "" {
			tm = "-"
		}
		tbl.AddRow(ev.Date.String(), tm, string(ev.Platform), statusColor(ev.Status), ev.Title, ev.ID)
	}
	_, _ = fmt.Fprintln(w, tbl)
	_, _ = fmt.Fprintln(w, color.New(color.Faint).Sprintf("%d %s", len(evs), plural(len(evs), "post", "posts")))
}

func statusColor(s model.Status) string {
	switch s {
	case model.Published:
		return color.GreenString(string(s))
	case model.Scheduled:
		return color.CyanString(string(s))
	default:
		return color.YellowString(string(s))
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
