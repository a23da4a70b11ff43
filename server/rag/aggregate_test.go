package rag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAggregateEmpty(t *testing.T) {
	stats := Aggregate(nil)
	require.Equal(t, 0, stats.Count)
}

func TestAggregateSingle(t *testing.T) {
	stats := Aggregate([]float64{12000})
	require.Equal(t, 1, stats.Count)
	require.Equal(t, 12000.0, stats.Min)
	require.Equal(t, 12000.0, stats.Max)
	require.Equal(t, 12000.0, stats.Mean)
	require.Equal(t, 12000.0, stats.Median)
	require.Equal(t, 12000.0, stats.P25)
	require.Equal(t, 12000.0, stats.P75)
}

func TestAggregateKnownQuartiles(t *testing.T) {
	// 1..5: p25 = 2, median = 3, p75 = 4 under linear interpolation.
	stats := Aggregate([]float64{5, 3, 1, 4, 2})
	require.Equal(t, 5, stats.Count)
	require.Equal(t, 1.0, stats.Min)
	require.Equal(t, 5.0, stats.Max)
	require.Equal(t, 3.0, stats.Mean)
	require.Equal(t, 3.0, stats.Median)
	require.Equal(t, 2.0, stats.P25)
	require.Equal(t, 4.0, stats.P75)
}

func TestAggregateInterpolation(t *testing.T) {
	// 1..4: p25 falls between ranks, interpolated.
	stats := Aggregate([]float64{1, 2, 3, 4})
	require.InDelta(t, 1.75, stats.P25, 1e-9)
	require.InDelta(t, 2.5, stats.Median, 1e-9)
	require.InDelta(t, 3.25, stats.P75, 1e-9)
}

func TestAggregateOrderInvariants(t *testing.T) {
	values := []float64{8200, 15000, 9300, 22000, 11000, 12500, 7000, 18000}
	stats := Aggregate(values)

	require.LessOrEqual(t, stats.Min, stats.P25)
	require.LessOrEqual(t, stats.P25, stats.Median)
	require.LessOrEqual(t, stats.Median, stats.P75)
	require.LessOrEqual(t, stats.P75, stats.Max)
}

func TestPercentileBounds(t *testing.T) {
	sorted := []float64{1, 2, 3}
	require.Equal(t, 1.0, Percentile(sorted, 0))
	require.Equal(t, 3.0, Percentile(sorted, 100))
	require.Equal(t, 0.0, Percentile(nil, 50))
}

func TestDominantMarket(t *testing.T) {
	require.Equal(t, "", DominantMarket(nil))
	require.Equal(t, "Marché Maghreb", DominantMarket([]string{"Marché Maghreb"}))
	require.Equal(t, "Marché Européen", DominantMarket([]string{
		"Marché Maghreb", "Marché Européen", "Marché Européen", "Marché Global",
	}))
	// Ties go to the label seen first.
	require.Equal(t, "Marché Maghreb", DominantMarket([]string{
		"Marché Maghreb", "Marché Européen", "Marché Européen", "Marché Maghreb",
	}))
}
