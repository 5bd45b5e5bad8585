// Package analytics serves the mocked performance figures shown on the
// dashboard and the summary that feeds the AI insights.
package analytics

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Point is one sample of the daily series.
type Point struct {
	Date       string `json:"date"`
	Reach      int    `json:"reach"`
	Engagement int    `json:"engagement"`
	Followers  int    `json:"followers"`
}

// Summary is the compact view sent to the insights generator.
type Summary struct {
	TotalFollowers int    `json:"totalFollowers"`
	GrowthRate     string `json:"growthRate"`
	AvgEngagement  string `json:"avgEngagement"`
	TopPostType    string `json:"topPostType"`
	RecentTrend    string `json:"recentTrend"`
}

// KPIs are the headline cards derived from a series.
type KPIs struct {
	TotalFollowers  int     `json:"totalFollowers"`
	FollowerGrowth  float64 `json:"followerGrowth"`
	TotalReach      int     `json:"totalReach"`
	TotalEngagement int     `json:"totalEngagement"`
	EngagementRate  float64 `json:"engagementRate"`
}

// Series returns the sample series for May.
func Series() []Point {
	return []Point{
		{Date: "May 01", Reach: 1200, Engagement: 240, Followers: 10500},
		{Date: "May 05", Reach: 1500, Engagement: 300, Followers: 10550},
		{Date: "May 10", Reach: 1100, Engagement: 220, Followers: 10600},
		{Date: "May 15", Reach: 2400, Engagement: 680, Followers: 10850},
		{Date: "May 20", Reach: 1800, Engagement: 450, Followers: 10920},
		{Date: "May 25", Reach: 3200, Engagement: 890, Followers: 11200},
		{Date: "May 30", Reach: 2900, Engagement: 750, Followers: 11350},
	}
}

// DefaultSummary is the fixed summary of the sample series.
func DefaultSummary() Summary {
	return Summary{
		TotalFollowers: 11350,
		GrowthRate:     "8%",
		AvgEngagement:  "5.2%",
		TopPostType:    "Reels",
		RecentTrend:    "Spike in engagement on May 25th due to viral reel.",
	}
}

// Compute derives KPIs from points. Growth compares the last follower count
// with the first; rates are percentages.
func Compute(points []Point) KPIs {
	var k KPIs
	if len(points) == 0 {
		return k
	}
	for _, p := range points {
		k.TotalReach += p.Reach
		k.TotalEngagement += p.Engagement
	}
	first, last := points[0].Followers, points[len(points)-1].Followers
	k.TotalFollowers = last
	if first > 0 {
		k.FollowerGrowth = float64(last-first) / float64(first) * 100
	}
	if k.TotalReach > 0 {
		k.EngagementRate = float64(k.TotalEngagement) / float64(k.TotalReach) * 100
	}
	return k
}

// Card is a formatted KPI for display.
type Card struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Delta string `json:"delta,omitempty"`
}

// Cards formats k the way the dashboard shows it.
func (k KPIs) Cards() []Card {
	return []Card{
		{Label: "Total Followers", Value: humanize.Comma(int64(k.TotalFollowers)), Delta: signedPercent(k.FollowerGrowth) + " this month"},
		{Label: "Total Reach", Value: Compact(k.TotalReach)},
		{Label: "Engagement Rate", Value: fmt.Sprintf("%.1f%%", k.EngagementRate)},
	}
}

// Compact renders n as 950, 14.1K, 2.3M.
func Compact(n int) string {
	if n < 1000 && n > -1000 {
		return humanize.Comma(int64(n))
	}
	s := humanize.SIWithDigits(float64(n), 1, "")
	return strings.ToUpper(strings.ReplaceAll(s, " ", ""))
}

func signedPercent(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+%.1f%%", v)
	}
	return fmt.Sprintf("%.1f%%", v)
}

// Report bundles everything the analytics page needs.
type Report struct {
	Series  []Point `json:"series"`
	KPIs    KPIs    `json:"kpis"`
	Cards   []Card  `json:"cards"`
	Summary Summary `json:"summary"`
}

// Build returns the report for the sample series.
func Build() Report {
	s := Series()
	k := Compute(s)
	return Report{Series: s, KPIs: k, Cards: k.Cards(), Summary: DefaultSummary()}
}
