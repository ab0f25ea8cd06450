package portfolio

import (
	"sort"

	"github.com/benjamingolder/portfolio-dashboard/internal/models"
)

// Monthly returns are clamped to suppress distortions from large mid-month
// position changes.
const (
	monthlyReturnFloor = -50.0
	monthlyReturnCeil  = 100.0
)

type monthKey struct {
	year  int
	month int
}

// monthlyReturns buckets the value history by calendar month and compares each
// month's last value to the previous month's last value. The first month
// compares to its own first value.
func monthlyReturns(history []models.ValuePoint) []models.MonthlyReturn {
	if len(history) < 2 {
		return nil
	}

	values := make(map[monthKey][]float64)
	var months []monthKey
	for _, vp := range history {
		key := monthKey{year: vp.Date.Year(), month: int(vp.Date.Month())}
		if _, ok := values[key]; !ok {
			months = append(months, key)
		}
		values[key] = append(values[key], vp.Value)
	}
	sort.Slice(months, func(i, j int) bool {
		if months[i].year != months[j].year {
			return months[i].year < months[j].year
		}
		return months[i].month < months[j].month
	})

	results := make([]models.MonthlyReturn, 0, len(months))
	for i, key := range months {
		vals := values[key]
		endValue := vals[len(vals)-1]
		var startValue float64
		if i > 0 {
			prev := values[months[i-1]]
			startValue = prev[len(prev)-1]
		} else {
			startValue = vals[0]
		}

		ret := 0.0
		if startValue > 0 {
			ret = (endValue/startValue - 1) * 100
			if ret < monthlyReturnFloor {
				ret = monthlyReturnFloor
			}
			if ret > monthlyReturnCeil {
				ret = monthlyReturnCeil
			}
		}
		results = append(results, models.MonthlyReturn{Year: key.year, Month: key.month, ReturnPct: round2(ret)})
	}
	return results
}
