package feature

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func season(year int, rows ...MetricRow) SeasonTable {
	return SeasonTable{Season: year, Rows: rows}
}

func TestReduceSeasons_AnchorRosterWins(t *testing.T) {
	// "relegated" has history but is not in the anchor season.
	seasons := []SeasonTable{
		season(2025, MetricRow{ClubKey: "azure", ClubName: "Azure FC", Value: 0.8}),
		season(2024,
			MetricRow{ClubKey: "azure", Value: 0.6},
			MetricRow{ClubKey: "relegated", Value: 0.9},
		),
	}

	got := ReduceSeasons(seasons, ReduceMean)
	require.Len(t, got, 1)
	assert.Equal(t, "azure", got[0].ClubKey)
	assert.Equal(t, 0.7, got[0].Value)
	assert.Equal(t, 2, got[0].Seasons)
}

func TestReduceSeasons_MeanIgnoresAbsentSeasons(t *testing.T) {
	// Newly promoted club: only the anchor season exists. The mean must be
	// that single season's value, not dragged down by absent years.
	seasons := []SeasonTable{
		season(2025, MetricRow{ClubKey: "newboy", Value: 0.9}),
		season(2024),
		season(2023),
	}

	got := ReduceSeasons(seasons, ReduceMean)
	require.Len(t, got, 1)
	assert.Equal(t, 0.9, got[0].Value)
	assert.Equal(t, 1, got[0].Seasons)
	assert.True(t, got[0].OK)
}

func TestReduceSeasons_SumCountsAbsentAsZero(t *testing.T) {
	// Same input shape as the mean case must give a different answer:
	// absence means "zero events that season" for cumulative counts.
	seasons := []SeasonTable{
		season(2025, MetricRow{ClubKey: "newboy", Value: 3}),
		season(2024),
		season(2023, MetricRow{ClubKey: "newboy", Value: 2}),
	}

	got := ReduceSeasons(seasons, ReduceSum)
	require.Len(t, got, 1)
	assert.Equal(t, 5.0, got[0].Value)
	assert.True(t, got[0].OK)
}

func TestReduceSeasons_MeanAndSumDivergeOnSameShape(t *testing.T) {
	seasons := []SeasonTable{
		season(2025, MetricRow{ClubKey: "x", Value: 4}),
		season(2024),
	}

	mean := ReduceSeasons(seasons, ReduceMean)
	sum := ReduceSeasons(seasons, ReduceSum)
	assert.Equal(t, 4.0, mean[0].Value, "mean over one present season")
	assert.Equal(t, 4.0, sum[0].Value, "sum with absent-as-zero")
	assert.Equal(t, 1, mean[0].Seasons)

	// Add one real historical season and the two reductions split.
	seasons[1].Rows = []MetricRow{{ClubKey: "x", Value: 2}}
	mean = ReduceSeasons(seasons, ReduceMean)
	sum = ReduceSeasons(seasons, ReduceSum)
	assert.Equal(t, 3.0, mean[0].Value)
	assert.Equal(t, 6.0, sum[0].Value)
}

func TestReduceSeasons_NoDataAtAll(t *testing.T) {
	seasons := []SeasonTable{
		season(2025, MetricRow{ClubKey: "ghost", Value: math.NaN()}),
	}

	mean := ReduceSeasons(seasons, ReduceMean)
	require.Len(t, mean, 1)
	assert.False(t, mean[0].OK, "mean of zero seasons is undefined")
	assert.True(t, math.IsNaN(mean[0].Value))

	sum := ReduceSeasons(seasons, ReduceSum)
	assert.True(t, sum[0].OK)
	assert.Equal(t, 0.0, sum[0].Value, "zero observed events")
}

func TestReduceSeasons_PreservesAnchorOrder(t *testing.T) {
	seasons := []SeasonTable{
		season(2025,
			MetricRow{ClubKey: "b", Value: 1},
			MetricRow{ClubKey: "a", Value: 2},
		),
	}
	got := ReduceSeasons(seasons, ReduceMean)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ClubKey)
	assert.Equal(t, "a", got[1].ClubKey)
}
