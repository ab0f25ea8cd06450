package portfolio

import (
	"math"

	"github.com/benjamingolder/portfolio-dashboard/internal/models"
)

// securityMinimumPrices is the history length required before per-security
// volatility is attempted.
const securityMinimumPrices = 20

// securityVolatility computes annualized volatility from a single security's
// own price history, as a percentage. Histories shorter than the minimum
// yield zero.
func securityVolatility(prices []models.PricePoint) float64 {
	if len(prices) < securityMinimumPrices {
		return 0
	}
	var returns []float64
	for i := 1; i < len(prices); i++ {
		if prices[i-1].Close > 0 {
			returns = append(returns, prices[i].Close/prices[i-1].Close-1)
		}
	}
	if len(returns) < 2 {
		return 0
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
	return round2(math.Sqrt(variance) * math.Sqrt(tradingDays) * 100)
}

// securityAnnualReturn compounds the price growth over the span of the
// security's history into an annual percentage.
func securityAnnualReturn(prices []models.PricePoint) float64 {
	if len(prices) < 2 {
		return 0
	}
	first := prices[0].Close
	last := prices[len(prices)-1].Close
	if first <= 0 {
		return 0
	}
	days := prices[len(prices)-1].Date.Sub(prices[0].Date).Hours() / 24
	years := 1.0
	if days > 0 {
		years = days / 365.25
	}
	growth := last / first
	return round2((math.Pow(growth, 1/years) - 1) * 100)
}
