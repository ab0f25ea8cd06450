package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjamingolder/portfolio-dashboard/internal/models"
)

func TestValueHistory_SingleSecurity(t *testing.T) {
	prices := map[string][]models.PricePoint{
		"s1": {
			{Date: day(2021, 1, 4), Close: 100},
			{Date: day(2021, 1, 5), Close: 110},
			{Date: day(2021, 1, 6), Close: 105},
		},
	}
	deltas := map[string][]shareDelta{
		"s1": {{date: day(2021, 1, 4), shares: 10}},
	}

	history := valueHistory(prices, deltas)

	require.Len(t, history, 3)
	assert.InDelta(t, 1000.0, history[0].Value, 1e-9)
	assert.InDelta(t, 1100.0, history[1].Value, 1e-9)
	assert.InDelta(t, 1050.0, history[2].Value, 1e-9)
}

func TestValueHistory_StartsAtFirstPosition(t *testing.T) {
	prices := map[string][]models.PricePoint{
		"s1": {
			{Date: day(2021, 1, 4), Close: 100},
			{Date: day(2021, 1, 5), Close: 110},
		},
	}
	deltas := map[string][]shareDelta{
		"s1": {{date: day(2021, 1, 5), shares: 10}},
	}

	history := valueHistory(prices, deltas)

	require.Len(t, history, 1, "no point before the position opens")
	assert.True(t, history[0].Date.Equal(day(2021, 1, 5)))
}

func TestValueHistory_UnionOfPriceDates(t *testing.T) {
	prices := map[string][]models.PricePoint{
		"s1": {
			{Date: day(2021, 1, 4), Close: 100},
			{Date: day(2021, 1, 6), Close: 110},
		},
		"s2": {
			{Date: day(2021, 1, 5), Close: 50},
			{Date: day(2021, 1, 6), Close: 55},
		},
	}
	deltas := map[string][]shareDelta{
		"s1": {{date: day(2021, 1, 1), shares: 10}},
		"s2": {{date: day(2021, 1, 1), shares: 20}},
	}

	history := valueHistory(prices, deltas)

	// 2021-01-04: only s1 priced (1000). 2021-01-05: only s2 (1000).
	// 2021-01-06: both (1100 + 1100).
	require.Len(t, history, 3)
	assert.InDelta(t, 1000.0, history[0].Value, 1e-9)
	assert.InDelta(t, 1000.0, history[1].Value, 1e-9)
	assert.InDelta(t, 2200.0, history[2].Value, 1e-9)
}

func TestValueHistory_OversoldClampsToZero(t *testing.T) {
	prices := map[string][]models.PricePoint{
		"s1": {
			{Date: day(2021, 1, 4), Close: 100},
			{Date: day(2021, 1, 6), Close: 110},
		},
	}
	deltas := map[string][]shareDelta{
		"s1": {
			{date: day(2021, 1, 4), shares: 10},
			{date: day(2021, 1, 5), shares: -15}, // sells more than held
		},
	}

	history := valueHistory(prices, deltas)

	require.Len(t, history, 1)
	assert.True(t, history[0].Date.Equal(day(2021, 1, 4)))
}

func TestValueHistory_Empty(t *testing.T) {
	assert.Nil(t, valueHistory(nil, nil))
	assert.Nil(t, valueHistory(map[string][]models.PricePoint{"s1": nil}, nil))
}

func TestDownsample(t *testing.T) {
	short := make([]models.ValuePoint, downsampleLimit)
	for i := range short {
		short[i] = models.ValuePoint{Date: day(2020, 1, 1).AddDate(0, 0, i), Value: float64(i)}
	}
	assert.Len(t, downsample(short), downsampleLimit, "series at the limit passes through")

	long := make([]models.ValuePoint, 501)
	for i := range long {
		long[i] = models.ValuePoint{Date: day(2020, 1, 1).AddDate(0, 0, i), Value: float64(i)}
	}
	sampled := downsample(long)
	require.Len(t, sampled, 101)
	assert.InDelta(t, 0.0, sampled[0].Value, 1e-9)
	assert.InDelta(t, 5.0, sampled[1].Value, 1e-9)
	assert.InDelta(t, 500.0, sampled[100].Value, 1e-9)
}

func TestValueHistory_PointsAreRounded(t *testing.T) {
	prices := map[string][]models.PricePoint{
		"s1": {{Date: day(2021, 1, 4), Close: 33.333333}},
	}
	deltas := map[string][]shareDelta{
		"s1": {{date: day(2021, 1, 4), shares: 3}},
	}

	history := valueHistory(prices, deltas)

	require.Len(t, history, 1)
	assert.Equal(t, 100.0, history[0].Value)
}
