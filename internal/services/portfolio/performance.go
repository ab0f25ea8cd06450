package portfolio

import (
	"math"
	"time"

	"github.com/benjamingolder/portfolio-dashboard/internal/models"
)

// Volatility and Sharpe parameters. Day-over-day returns larger than the
// outlier cutoff are position-size artifacts, not market movement, and are
// discarded.
const (
	volatilityWindow  = 260  // most recent value points considered, ~1 trading year
	volatilityMinimum = 20   // value points required before volatility is attempted
	returnOutlier     = 0.15 // single-day return magnitude cutoff
	minReturnSamples  = 11   // retained day returns required
	tradingDays       = 252
	riskFreeRate      = 1.0 // percent
)

// computePerformance derives the scalar risk/return metrics from the value
// history. Any degenerate input — no invested basis, an empty series, too few
// return samples — yields zero-valued metrics, never an error.
func computePerformance(history []models.ValuePoint, totalInvested, totalValue float64, firstTx, asOf time.Time) models.PerformanceMetrics {
	if totalInvested <= 0 {
		return models.PerformanceMetrics{}
	}

	totalReturn := (totalValue/totalInvested - 1) * 100

	// Annualize over the elapsed time since the first transaction, with a
	// floor to keep short histories from blowing up the exponent.
	days := 365.0
	if !firstTx.IsZero() {
		days = asOf.Sub(firstTx).Hours() / 24
	}
	years := math.Max(days/365.25, 0.1)
	annualReturn := (math.Pow(1+totalReturn/100, 1/years) - 1) * 100

	volatility, sharpe := volatilityAndSharpe(history, annualReturn)
	maxDD, ddStart, ddEnd := maxDrawdown(history)

	var lastDate time.Time
	if len(history) > 0 {
		lastDate = history[len(history)-1].Date
	} else {
		lastDate = asOf
	}
	ytdStart := time.Date(lastDate.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	return models.PerformanceMetrics{
		TTWROR:           round2(totalReturn),
		AnnualReturn:     round2(annualReturn),
		YTDReturn:        round2(periodReturn(history, ytdStart)),
		Return1Y:         round2(periodReturn(history, lastDate.AddDate(0, 0, -365))),
		Return3Y:         round2(periodReturn(history, lastDate.AddDate(0, 0, -3*365))),
		Return5Y:         round2(periodReturn(history, lastDate.AddDate(0, 0, -5*365))),
		Volatility:       round2(volatility),
		SharpeRatio:      round2(sharpe),
		MaxDrawdown:      round2(maxDD),
		MaxDrawdownStart: ddStart,
		MaxDrawdownEnd:   ddEnd,
	}
}

// volatilityAndSharpe computes annualized volatility from day-over-day returns
// over the most recent window of the value history, and the Sharpe ratio
// against the fixed risk-free rate.
func volatilityAndSharpe(history []models.ValuePoint, annualReturn float64) (volatility, sharpe float64) {
	if len(history) <= volatilityMinimum {
		return 0, 0
	}
	recent := history
	if len(recent) > volatilityWindow {
		recent = recent[len(recent)-volatilityWindow:]
	}

	var returns []float64
	for i := 1; i < len(recent); i++ {
		prev := recent[i-1].Value
		if prev <= 0 {
			continue
		}
		r := recent[i].Value/prev - 1
		if math.Abs(r) < returnOutlier {
			returns = append(returns, r)
		}
	}
	if len(returns) < minReturnSamples {
		return 0, 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))
	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns) - 1)

	volatility = math.Sqrt(variance) * math.Sqrt(tradingDays) * 100
	if volatility > 0 {
		sharpe = (annualReturn - riskFreeRate) / volatility
	}
	return volatility, sharpe
}

// maxDrawdown makes a single forward pass tracking the running peak. It
// returns the largest percentage drop from a peak along with the peak date and
// the date the drawdown was realized.
func maxDrawdown(history []models.ValuePoint) (maxDD float64, start, end string) {
	if len(history) == 0 {
		return 0, "", ""
	}
	peak := history[0].Value
	peakDate := history[0].Date
	for _, vp := range history {
		if vp.Value > peak {
			peak = vp.Value
			peakDate = vp.Date
		}
		if peak <= 0 {
			continue
		}
		dd := (peak - vp.Value) / peak * 100
		if dd > maxDD {
			maxDD = dd
			start = peakDate.Format("2006-01-02")
			end = vp.Date.Format("2006-01-02")
		}
	}
	return maxDD, start, end
}

// periodReturn compares the first value point on or after the start date to
// the final value of the series. Returns 0 when the series has no point in
// the period.
func periodReturn(history []models.ValuePoint, start time.Time) float64 {
	if len(history) == 0 {
		return 0
	}
	endValue := history[len(history)-1].Value
	for _, vp := range history {
		if !vp.Date.Before(start) {
			if vp.Value > 0 {
				return (endValue/vp.Value - 1) * 100
			}
			return 0
		}
	}
	return 0
}
