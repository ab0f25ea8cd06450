package aggregate

import (
	"math"
	"sort"
	"time"

	"github.com/benjamingolder/portfolio-dashboard/internal/models"
)

// Overview payload bounds.
const (
	topHoldingsLimit        = 20
	recentTransactionsLimit = 30
)

// BuildOverview merges per-client results into one consolidated overview.
// Holdings are merged by security display name, not identity, so identically
// named securities across client files combine. Gain figures are recomputed
// from the merged sums, never from the per-client percentages.
func BuildOverview(clients map[string]*models.ClientPortfolio, generatedAt time.Time) models.AggregatedOverview {
	if len(clients) == 0 {
		return models.AggregatedOverview{GeneratedAt: generatedAt}
	}

	var totalValue, totalInvested, totalDividends float64
	var transactions []models.Transaction
	currencies := make(map[string]float64)

	type mergedHolding struct {
		security models.Security
		currency string
		shares   float64
		value    float64
		invested float64
	}
	merged := make(map[string]*mergedHolding)

	for _, client := range clients {
		totalValue += client.TotalValue
		totalInvested += client.TotalInvested
		totalDividends += client.DividendsTotal
		transactions = append(transactions, client.RecentTransactions...)

		for currency, value := range client.CurrencyBreakdown {
			currencies[currency] += value
		}

		for _, h := range client.Holdings {
			m, ok := merged[h.Security.Name]
			if !ok {
				m = &mergedHolding{security: h.Security, currency: h.Currency}
				merged[h.Security.Name] = m
			}
			m.shares += h.Shares
			m.value += h.CurrentValue
			m.invested += h.Invested
		}
	}

	topHoldings := make([]models.Holding, 0, len(merged))
	for _, m := range merged {
		gain := m.value - m.invested
		gainPct := 0.0
		if m.invested > 0 {
			gainPct = gain / m.invested * 100
		}
		topHoldings = append(topHoldings, models.Holding{
			Security:     m.security,
			Shares:       round4(m.shares),
			CurrentValue: round2(m.value),
			Invested:     round2(m.invested),
			GainLoss:     round2(gain),
			GainLossPct:  round2(gainPct),
			Currency:     m.currency,
		})
	}
	sort.Slice(topHoldings, func(i, j int) bool {
		if topHoldings[i].CurrentValue != topHoldings[j].CurrentValue {
			return topHoldings[i].CurrentValue > topHoldings[j].CurrentValue
		}
		return topHoldings[i].Security.Name < topHoldings[j].Security.Name
	})
	if len(topHoldings) > topHoldingsLimit {
		topHoldings = topHoldings[:topHoldingsLimit]
	}

	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date.After(transactions[j].Date)
	})
	if len(transactions) > recentTransactionsLimit {
		transactions = transactions[:recentTransactionsLimit]
	}

	totalGain := totalValue - totalInvested
	totalGainPct := 0.0
	if totalInvested > 0 {
		totalGainPct = totalGain / totalInvested * 100
	}

	// Overview payloads carry client summaries without the full transaction
	// history; the per-client detail views keep it.
	summaries := make([]models.ClientPortfolio, 0, len(clients))
	for _, c := range clients {
		summaries = append(summaries, c.Summary())
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].TotalValue != summaries[j].TotalValue {
			return summaries[i].TotalValue > summaries[j].TotalValue
		}
		return summaries[i].Filename < summaries[j].Filename
	})

	return models.AggregatedOverview{
		TotalValue:         round2(totalValue),
		TotalInvested:      round2(totalInvested),
		TotalGainLoss:      round2(totalGain),
		TotalGainLossPct:   round2(totalGainPct),
		TotalDividends:     round2(totalDividends),
		ClientCount:        len(clients),
		Clients:            summaries,
		TopHoldings:        topHoldings,
		CurrencyBreakdown:  currencies,
		RecentTransactions: transactions,
		GeneratedAt:        generatedAt,
	}
}

func sortClients(clients []*models.ClientPortfolio) {
	sort.Slice(clients, func(i, j int) bool {
		if clients[i].TotalValue != clients[j].TotalValue {
			return clients[i].TotalValue > clients[j].TotalValue
		}
		return clients[i].Filename < clients[j].Filename
	})
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
