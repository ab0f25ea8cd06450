// Package portfolio derives the full per-client result from a decoded
// portfolio file: normalized entities, replayed holdings, account balances,
// asset allocation, the valuation time series, and the risk/return metrics.
//
// Building is a pure function of the file's bytes and the as-of date. There
// is no shared mutable state, so files can be built concurrently; the caller
// owns snapshot replacement.
package portfolio

import (
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/benjamingolder/portfolio-dashboard/internal/models"
	"github.com/benjamingolder/portfolio-dashboard/internal/parser"
)

// defaultBaseCurrency is used when the file does not declare one.
const defaultBaseCurrency = "CHF"

// recentTransactionLimit caps the per-client recent-transactions list that
// overview payloads consume.
const recentTransactionLimit = 20

// Load decodes a portfolio file and builds the client result in one step.
func Load(filename string, data []byte, asOf time.Time) (*models.ClientPortfolio, error) {
	raw, err := parser.Decode(filename, data)
	if err != nil {
		return nil, err
	}
	return Build(filename, raw, asOf), nil
}

// Build derives a ClientPortfolio from a decoded record tree. asOf supplies
// the current date for age-dependent metrics. Monetary totals accumulate
// unrounded and are rounded once here, at the presentation boundary.
func Build(filename string, raw *parser.Client, asOf time.Time) *models.ClientPortfolio {
	n := normalize(raw)
	asc := n.ascending()

	positions := replayPositions(asc)
	assigned := taxonomyAssignments(raw)

	balances := accountBalances(asc, n.accounts)
	for i := range n.accounts {
		n.accounts[i].Balance = round2(balances[n.accounts[i].UUID])
	}

	holdings, totalValue, totalInvested := buildHoldings(n, positions, assigned)

	cashTotal := 0.0
	for _, a := range n.accounts {
		if a.Balance > 0 {
			cashTotal += a.Balance
		}
	}

	allocation := assetAllocation(holdings, assigned, totalValue, cashTotal)
	currencies := currencyBreakdown(holdings, n.accounts)

	// Only securities still held feed the valuation series.
	heldPrices := make(map[string][]models.PricePoint)
	heldDeltas := make(map[string][]shareDelta)
	for uuid, pos := range positions {
		if pos.shares > dustThreshold {
			heldPrices[uuid] = n.priceHistory[uuid]
			heldDeltas[uuid] = pos.deltas
		}
	}
	history := downsample(valueHistory(heldPrices, heldDeltas))

	var firstTx time.Time
	if len(asc) > 0 {
		firstTx = asc[0].Date
	}
	performance := computePerformance(history, totalInvested, totalValue, firstTx, asOf)
	monthly := monthlyReturns(history)
	dividends, feesTotal := dividendSummary(n.transactions)

	gain := totalValue - totalInvested
	gainPct := 0.0
	if totalInvested > 0 {
		gainPct = gain / totalInvested * 100
	}

	recent := n.transactions
	if len(recent) > recentTransactionLimit {
		recent = recent[:recentTransactionLimit]
	}

	return &models.ClientPortfolio{
		Filename:       filename,
		ClientName:     clientName(filename),
		BaseCurrency:   n.baseCurrency,
		TotalValue:     round2(totalValue),
		TotalInvested:  round2(totalInvested),
		GainLoss:       round2(gain),
		GainLossPct:    round2(gainPct),
		DividendsTotal: dividends.Total,
		FeesTotal:      round2(feesTotal),

		Securities:         n.securities,
		Accounts:           n.accounts,
		Portfolios:         n.portfolios,
		Holdings:           holdings,
		RecentTransactions: recent,
		AllTransactions:    n.transactions,

		AssetAllocation:   allocation,
		Performance:       performance,
		MonthlyReturns:    monthly,
		ValueHistory:      history,
		Dividends:         dividends,
		CurrencyBreakdown: currencies,
	}
}

// clientName derives the display name from the filename by stripping the
// extension.
func clientName(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
