package portfolio

import (
	"sort"
	"time"

	"github.com/benjamingolder/portfolio-dashboard/internal/models"
)

// downsampleLimit bounds the transported series length. Longer series keep
// every downsampleStride-th point.
const (
	downsampleLimit  = 500
	downsampleStride = 5
)

// valueHistory builds the daily portfolio valuation series. It takes the union
// of all recorded price dates across the given securities; for each date it
// sums price × cumulative shares over securities that have both a price and a
// positive position that day. A point is emitted only when the sum is positive
// and at least one position is open.
func valueHistory(prices map[string][]models.PricePoint, deltas map[string][]shareDelta) []models.ValuePoint {
	if len(prices) == 0 {
		return nil
	}

	dateSeen := make(map[time.Time]bool)
	var dates []time.Time
	for _, series := range prices {
		for _, p := range series {
			if !dateSeen[p.Date] {
				dateSeen[p.Date] = true
				dates = append(dates, p.Date)
			}
		}
	}
	if len(dates) == 0 {
		return nil
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	// Last price wins when a series carries duplicate dates.
	priceOn := make(map[string]map[time.Time]float64, len(prices))
	for uuid, series := range prices {
		lookup := make(map[time.Time]float64, len(series))
		for _, p := range series {
			lookup[p.Date] = p.Close
		}
		priceOn[uuid] = lookup
	}

	// Cumulative shares per security as of each date, clamped to zero.
	sharesOn := make(map[string]map[time.Time]float64, len(deltas))
	for uuid, changes := range deltas {
		sorted := make([]shareDelta, len(changes))
		copy(sorted, changes)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].date.Before(sorted[j].date) })

		running := make(map[time.Time]float64, len(dates))
		cumulative := 0.0
		idx := 0
		for _, d := range dates {
			for idx < len(sorted) && !sorted[idx].date.After(d) {
				cumulative += sorted[idx].shares
				idx++
			}
			if cumulative > 0 {
				running[d] = cumulative
			} else {
				running[d] = 0
			}
		}
		sharesOn[uuid] = running
	}

	var history []models.ValuePoint
	for _, d := range dates {
		total := 0.0
		hasPosition := false
		for uuid := range prices {
			price, ok := priceOn[uuid][d]
			if !ok {
				continue
			}
			shares := sharesOn[uuid][d]
			if shares > dustThreshold {
				total += shares * price
				hasPosition = true
			}
		}
		if hasPosition && total > 0 {
			history = append(history, models.ValuePoint{Date: d, Value: round2(total)})
		}
	}
	return history
}

// downsample keeps every stride-th point (indices 0, stride, 2×stride, …)
// when the series exceeds the limit. Lossy by design; the compression is for
// transport, the inputs to it are already computed.
func downsample(history []models.ValuePoint) []models.ValuePoint {
	if len(history) <= downsampleLimit {
		return history
	}
	sampled := make([]models.ValuePoint, 0, (len(history)+downsampleStride-1)/downsampleStride)
	for i := 0; i < len(history); i += downsampleStride {
		sampled = append(sampled, history[i])
	}
	return sampled
}
