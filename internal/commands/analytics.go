package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"creatorflow/internal/analytics"
)

func addAnalytics(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Print the performance summary.",
		Run: func(*cobra.Command, []string) {
			printAnalytics(analytics.Build())
		},
	}
	topLevel.AddCommand(cmd)
}

func printAnalytics(r analytics.Report) {
	bold := color.New(color.Bold)

	cards := uitable.New()
	cards.Separator = "  "
	for _, c := range r.Cards {
		cards.AddRow(bold.Sprint(c.Label), c.Value, color.GreenString(c.Delta))
	}
	_, _ = fmt.Fprintln(color.Output, cards)
	_, _ = fmt.Fprintln(color.Output)

	series := uitable.New()
	series.Separator = "  "
	series.AddRow("DATE", "REACH", "ENGAGEMENT", "FOLLOWERS")
	for _, p := range r.Series {
		series.AddRow(p.Date, humanize.Comma(int64(p.Reach)), humanize.Comma(int64(p.Engagement)), humanize.Comma(int64(p.Followers)))
	}
	_, _ = fmt.Fprintln(color.Output, series)
}
