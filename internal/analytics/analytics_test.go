package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	t.Parallel()
	k := Compute(Series())

	assert.Equal(t, 11350, k.TotalFollowers)
	assert.Equal(t, 14100, k.TotalReach)
	assert.Equal(t, 3530, k.TotalEngagement)
	assert.InDelta(t, 8.095, k.FollowerGrowth, 0.01)
	assert.InDelta(t, 25.035, k.EngagementRate, 0.01)
}

func TestComputeEmpty(t *testing.T) {
	t.Parallel()
	assert.Equal(t, KPIs{}, Compute(nil))
	assert.Equal(t, KPIs{TotalFollowers: 0}, Compute([]Point{{Followers: 0}}))
}

func TestCards(t *testing.T) {
	t.Parallel()
	cards := Compute(Series()).Cards()
	require.Len(t, cards, 3)
	assert.Equal(t, Card{Label: "Total Followers", Value: "11,350", Delta: "+8.1% this month"}, cards[0])
	assert.Equal(t, "14.1K", cards[1].Value)
	assert.Equal(t, "25.0%", cards[2].Value)
}

func TestCompact(t *testing.T) {
	t.Parallel()
	cases := map[int]string{
		0:       "0",
		950:     "950",
		14100:   "14.1K",
		2300000: "2.3M",
	}
	for in, want := range cases {
		assert.Equal(t, want, Compact(in), "%d", in)
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()
	r := Build()
	assert.Len(t, r.Series, 7)
	assert.Equal(t, "Reels", r.Summary.TopPostType)
	assert.Equal(t, 11350, r.Summary.TotalFollowers)
	assert.Equal(t, r.KPIs.Cards(), r.Cards)
}
