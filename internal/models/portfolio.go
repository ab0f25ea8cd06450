// Package models defines the domain entities and derived result types for the
// portfolio dashboard. All entities are read-only value objects rebuilt in full
// on every load; a new ClientPortfolio replaces the previous one atomically.
package models

import "time"

// PricePoint is a single closing price in a security's history.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// Security is an instrument decoded from a portfolio file, owned by a single
// client snapshot.
type Security struct {
	UUID            string    `json:"uuid"`
	Name            string    `json:"name"`
	ISIN            string    `json:"isin,omitempty"`
	Ticker          string    `json:"ticker,omitempty"`
	Currency        string    `json:"currency"`
	LatestPrice     float64   `json:"latest_price"`
	LatestPriceDate time.Time `json:"latest_price_date,omitzero"`
}

// Account is a cash account. The balance is derived from transaction replay,
// it is not stored in the source file.
type Account struct {
	UUID     string  `json:"uuid"`
	Name     string  `json:"name"`
	Currency string  `json:"currency"`
	Balance  float64 `json:"balance"`
}

// Portfolio is a securities container referencing its settlement account.
type Portfolio struct {
	UUID             string `json:"uuid"`
	Name             string `json:"name"`
	ReferenceAccount string `json:"reference_account,omitempty"`
}

// TaxonomyAssignment maps a security or account identity to a category name
// and display color. When a file assigns the same identity more than once,
// the last assignment wins.
type TaxonomyAssignment struct {
	VehicleUUID string `json:"vehicle_uuid"`
	Category    string `json:"category"`
	Color       string `json:"color"`
}

// Holding is a derived position: net shares held with valuation and cost basis.
// Positions at or below the dust threshold are never materialized.
type Holding struct {
	Security     Security `json:"security"`
	Shares       float64  `json:"shares"`
	CurrentValue float64  `json:"current_value"` // shares × latest price
	Invested     float64  `json:"invested"`      // running cost basis
	GainLoss     float64  `json:"gain_loss"`
	GainLossPct  float64  `json:"gain_loss_pct"` // 0 when invested <= 0
	Currency     string   `json:"currency"`
	Category     string   `json:"category,omitempty"`
	Volatility   float64  `json:"volatility"`    // annualized, from the security's own price history
	AnnualReturn float64  `json:"annual_return"` // compound annual growth, from the security's own price history
}

// AssetCategory is one asset-allocation bucket: holdings grouped by taxonomy
// category, plus the synthetic Cash bucket.
type AssetCategory struct {
	Name       string    `json:"name"`
	Color      string    `json:"color"`
	Value      float64   `json:"value"`
	Percentage float64   `json:"percentage"` // of total value including cash
	Holdings   []Holding `json:"holdings"`
}

// ValuePoint is one point of the portfolio valuation time series.
type ValuePoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// MonthlyReturn is one month of the return heatmap, clamped to [-50, 100].
type MonthlyReturn struct {
	Year      int     `json:"year"`
	Month     int     `json:"month"`
	ReturnPct float64 `json:"return_pct"`
}

// PerformanceMetrics holds the derived risk/return statistics for a client.
// Degenerate inputs (no invested basis, sparse history) yield the zero value.
type PerformanceMetrics struct {
	TTWROR           float64 `json:"ttwror"`
	AnnualReturn     float64 `json:"annual_return"`
	YTDReturn        float64 `json:"ytd_return"`
	Return1Y         float64 `json:"return_1y"`
	Return3Y         float64 `json:"return_3y"`
	Return5Y         float64 `json:"return_5y"`
	Volatility       float64 `json:"volatility"`
	SharpeRatio      float64 `json:"sharpe_ratio"`
	MaxDrawdown      float64 `json:"max_drawdown"`
	MaxDrawdownStart string  `json:"max_drawdown_start,omitempty"` // date of the peak, "2006-01-02"
	MaxDrawdownEnd   string  `json:"max_drawdown_end,omitempty"`   // date the drawdown was realized
}

// MonthlyDividend is the dividend total for one calendar month.
type MonthlyDividend struct {
	Year   int     `json:"year"`
	Month  int     `json:"month"`
	Amount float64 `json:"amount"`
}

// DividendSummary breaks dividend income down by year, security, and month.
type DividendSummary struct {
	Total      float64            `json:"total"`
	ByYear     map[int]float64    `json:"by_year"`
	BySecurity map[string]float64 `json:"by_security"`
	ByMonth    []MonthlyDividend  `json:"by_month"`
}

// ClientPortfolio is the aggregate result for one portfolio file: the decoded
// entities plus every computed summary. Monetary figures are rounded to two
// decimals when the struct is assembled, never during accumulation.
type ClientPortfolio struct {
	Filename       string  `json:"filename"`
	ClientName     string  `json:"client_name"` // filename with the extension stripped
	BaseCurrency   string  `json:"base_currency"`
	TotalValue     float64 `json:"total_value"`
	TotalInvested  float64 `json:"total_invested"`
	GainLoss       float64 `json:"gain_loss"`
	GainLossPct    float64 `json:"gain_loss_pct"`
	DividendsTotal float64 `json:"dividends_total"`
	FeesTotal      float64 `json:"fees_total"`

	Securities         []Security    `json:"securities"`
	Accounts           []Account     `json:"accounts"`
	Portfolios         []Portfolio   `json:"portfolios"`
	Holdings           []Holding     `json:"holdings"`
	RecentTransactions []Transaction `json:"recent_transactions"`
	AllTransactions    []Transaction `json:"all_transactions,omitempty"`

	AssetAllocation   []AssetCategory    `json:"asset_allocation"`
	Performance       PerformanceMetrics `json:"performance"`
	MonthlyReturns    []MonthlyReturn    `json:"monthly_returns"`
	ValueHistory      []ValuePoint       `json:"value_history"`
	Dividends         DividendSummary    `json:"dividends"`
	CurrencyBreakdown map[string]float64 `json:"currency_breakdown"`
}

// Summary returns a copy of the client without the full transaction history.
// Overview payloads carry summaries only; per-client detail views keep the
// complete history.
func (c ClientPortfolio) Summary() ClientPortfolio {
	c.AllTransactions = nil
	return c
}

// AggregatedOverview is the cross-client roll-up. Holdings are merged by
// security display name, so identically named securities across files combine.
type AggregatedOverview struct {
	SnapshotID         string             `json:"snapshot_id"` // identifies one load cycle across logs and payloads
	TotalValue         float64            `json:"total_value"`
	TotalInvested      float64            `json:"total_invested"`
	TotalGainLoss      float64            `json:"total_gain_loss"`
	TotalGainLossPct   float64            `json:"total_gain_loss_pct"`
	TotalDividends     float64            `json:"total_dividends"`
	ClientCount        int                `json:"client_count"`
	Clients            []ClientPortfolio  `json:"clients"`
	TopHoldings        []Holding          `json:"top_holdings"`
	CurrencyBreakdown  map[string]float64 `json:"currency_breakdown"`
	RecentTransactions []Transaction      `json:"recent_transactions"`
	GeneratedAt        time.Time          `json:"generated_at"`
}
