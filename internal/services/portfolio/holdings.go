package portfolio

import (
	"sort"
	"time"

	"github.com/benjamingolder/portfolio-dashboard/internal/models"
)

// dustThreshold excludes rounding dust left behind by zeroed-out positions.
// A holding is materialized only when net shares exceed this.
const dustThreshold = 0.001

// Default buckets for the asset allocation.
const (
	defaultCategory      = "Uncategorized"
	defaultCategoryColor = "#666666"
	cashCategory         = "Cash"
	cashCategoryColor    = "#91b3d8"
)

// shareDelta is a signed per-security share change on a date. The deltas feed
// the valuation time series.
type shareDelta struct {
	date   time.Time
	shares float64 // negative for sells and outbound deliveries
}

// position is the replay state for one security: cumulative shares, cumulative
// cost basis, and the share-change events in replay order.
type position struct {
	shares float64
	cost   float64
	deltas []shareDelta
}

// replayPositions replays the timestamp-ascending transaction sequence once.
// Purchases and inbound deliveries increase shares and cost basis; sales and
// outbound deliveries decrease both. The cost basis may go negative
// transiently; that is accepted, not corrected.
func replayPositions(asc []models.Transaction) map[string]*position {
	positions := make(map[string]*position)
	for _, tx := range asc {
		if tx.SecurityUUID == "" {
			continue
		}
		day := tx.Date.Truncate(24 * time.Hour)
		switch {
		case tx.Type.IsBuy():
			p := positionFor(positions, tx.SecurityUUID)
			p.shares += tx.Shares
			p.cost += tx.Amount
			p.deltas = append(p.deltas, shareDelta{date: day, shares: tx.Shares})
		case tx.Type.IsSell():
			p := positionFor(positions, tx.SecurityUUID)
			p.shares -= tx.Shares
			p.cost -= tx.Amount
			p.deltas = append(p.deltas, shareDelta{date: day, shares: -tx.Shares})
		}
	}
	return positions
}

func positionFor(positions map[string]*position, uuid string) *position {
	p, ok := positions[uuid]
	if !ok {
		p = &position{}
		positions[uuid] = p
	}
	return p
}

// accountBalances derives running balances by a second pass over the same
// ascending sequence. Deposits, dividends, interest, and sale proceeds credit
// the account; removals, fees, taxes, interest charges, and purchase costs
// debit it. A transaction affects an account only when its resolved account
// name matches one in the account table; accounts sharing a display name merge
// silently, a known limitation of the source data.
func accountBalances(asc []models.Transaction, accounts []models.Account) map[string]float64 {
	uuidByName := make(map[string]string, len(accounts))
	for _, a := range accounts {
		if _, ok := uuidByName[a.Name]; !ok {
			uuidByName[a.Name] = a.UUID
		}
	}

	balances := make(map[string]float64, len(accounts))
	for _, tx := range asc {
		if tx.Account == "" {
			continue
		}
		uuid, ok := uuidByName[tx.Account]
		if !ok {
			continue
		}
		switch tx.Type {
		case models.TransactionDeposit, models.TransactionDividend, models.TransactionInterest,
			models.TransactionSale, models.TransactionOutboundDelivery:
			balances[uuid] += tx.Amount
		case models.TransactionRemoval, models.TransactionFee, models.TransactionTax,
			models.TransactionInterestCharge, models.TransactionPurchase, models.TransactionInboundDelivery:
			balances[uuid] -= tx.Amount
		}
	}
	return balances
}

// buildHoldings materializes one holding per security whose replayed position
// exceeds the dust threshold. Returns the holdings sorted by current value
// descending, plus the unrounded value and invested totals.
func buildHoldings(n *normalized, positions map[string]*position, assigned map[string]models.TaxonomyAssignment) ([]models.Holding, float64, float64) {
	var holdings []models.Holding
	var totalValue, totalInvested float64

	for uuid, pos := range positions {
		if pos.shares <= dustThreshold {
			continue
		}
		sec, ok := n.securityByID[uuid]
		if !ok {
			continue
		}
		currentValue := pos.shares * sec.LatestPrice
		invested := pos.cost
		gain := currentValue - invested
		gainPct := 0.0
		if invested > 0 {
			gainPct = gain / invested * 100
		}

		category := defaultCategory
		if a, ok := assigned[uuid]; ok {
			category = a.Category
		}

		prices := n.priceHistory[uuid]
		holdings = append(holdings, models.Holding{
			Security:     sec,
			Shares:       round4(pos.shares),
			CurrentValue: round2(currentValue),
			Invested:     round2(invested),
			GainLoss:     round2(gain),
			GainLossPct:  round2(gainPct),
			Currency:     sec.Currency,
			Category:     category,
			Volatility:   securityVolatility(prices),
			AnnualReturn: securityAnnualReturn(prices),
		})
		totalValue += currentValue
		totalInvested += invested
	}

	sort.Slice(holdings, func(i, j int) bool {
		if holdings[i].CurrentValue != holdings[j].CurrentValue {
			return holdings[i].CurrentValue > holdings[j].CurrentValue
		}
		return holdings[i].Security.Name < holdings[j].Security.Name
	})

	return holdings, totalValue, totalInvested
}

// assetAllocation groups materialized holdings by category and adds the
// synthetic Cash bucket from the sum of positive account balances.
// Percentages are computed against total value including cash; categories are
// sorted by descending value.
func assetAllocation(holdings []models.Holding, assigned map[string]models.TaxonomyAssignment, totalValue, cashTotal float64) []models.AssetCategory {
	byName := make(map[string]*models.AssetCategory)
	var order []string
	for _, h := range holdings {
		cat, ok := byName[h.Category]
		if !ok {
			color := defaultCategoryColor
			if a, found := assigned[h.Security.UUID]; found && a.Color != "" {
				color = a.Color
			}
			cat = &models.AssetCategory{Name: h.Category, Color: color}
			byName[h.Category] = cat
			order = append(order, h.Category)
		}
		cat.Value += h.CurrentValue
		cat.Holdings = append(cat.Holdings, h)
	}

	if cashTotal > 0 {
		byName[cashCategory] = &models.AssetCategory{
			Name:  cashCategory,
			Color: cashCategoryColor,
			Value: cashTotal,
		}
		order = append(order, cashCategory)
	}

	totalWithCash := totalValue + cashTotal
	allocation := make([]models.AssetCategory, 0, len(order))
	for _, name := range order {
		cat := byName[name]
		pct := 0.0
		if totalWithCash > 0 {
			pct = cat.Value / totalWithCash * 100
		}
		allocation = append(allocation, models.AssetCategory{
			Name:       cat.Name,
			Color:      cat.Color,
			Value:      round2(cat.Value),
			Percentage: round1(pct),
			Holdings:   cat.Holdings,
		})
	}
	sort.SliceStable(allocation, func(i, j int) bool {
		return allocation[i].Value > allocation[j].Value
	})
	return allocation
}

// currencyBreakdown sums holding values and positive account balances by
// currency code.
func currencyBreakdown(holdings []models.Holding, accounts []models.Account) map[string]float64 {
	breakdown := make(map[string]float64)
	for _, h := range holdings {
		breakdown[h.Currency] += h.CurrentValue
	}
	for _, a := range accounts {
		if a.Balance > 0 {
			breakdown[a.Currency] += a.Balance
		}
	}
	return breakdown
}
