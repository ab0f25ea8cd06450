package portfolio

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/benjamingolder/portfolio-dashboard/internal/models"
	"github.com/benjamingolder/portfolio-dashboard/internal/parser"
)

// Fixed-point scales used by the file format.
const (
	priceScaleExp  = -8 // prices and share counts are integers scaled by 10^8
	amountScaleExp = -2 // monetary amounts are integer minor units (10^2)
)

func priceValue(v int64) float64 {
	return decimal.New(v, priceScaleExp).InexactFloat64()
}

func shareValue(v int64) float64 {
	return decimal.New(v, priceScaleExp).InexactFloat64()
}

func amountValue(v int64) float64 {
	return decimal.New(v, amountScaleExp).InexactFloat64()
}

// epochDayToDate converts a day offset from 1970-01-01 to midnight UTC.
func epochDayToDate(day int32) time.Time {
	return time.Date(1970, time.January, 1+int(day), 0, 0, 0, 0, time.UTC)
}

// timestampToTime converts an epoch-second timestamp. A zero or absent value
// normalizes to the epoch instant itself, not to "unknown".
func timestampToTime(ts parser.Timestamp) time.Time {
	return time.Unix(ts.Seconds, 0).UTC()
}

// normalized holds the domain view of a decoded record tree: converted values,
// resolved cross-references, and lookup tables for the builder stages.
type normalized struct {
	baseCurrency string
	securities   []models.Security
	accounts     []models.Account
	portfolios   []models.Portfolio
	transactions []models.Transaction // date-descending, for display

	priceHistory map[string][]models.PricePoint // security UUID → ordered price series
	securityName map[string]string              // security UUID → display name
	securityByID map[string]models.Security
}

// normalize converts raw decoded fields into domain values. Transaction
// references to deleted securities, accounts, or portfolios resolve to empty
// names; the source data is allowed to dangle.
func normalize(raw *parser.Client) *normalized {
	n := &normalized{
		baseCurrency: raw.BaseCurrency,
		priceHistory: make(map[string][]models.PricePoint, len(raw.Securities)),
		securityName: make(map[string]string, len(raw.Securities)),
		securityByID: make(map[string]models.Security, len(raw.Securities)),
	}
	if n.baseCurrency == "" {
		n.baseCurrency = defaultBaseCurrency
	}

	for _, s := range raw.Securities {
		prices := make([]models.PricePoint, 0, len(s.Prices))
		for _, p := range s.Prices {
			prices = append(prices, models.PricePoint{
				Date:  epochDayToDate(p.Date),
				Close: priceValue(p.Close),
			})
		}
		sec := models.Security{
			UUID:     s.UUID,
			Name:     s.Name,
			ISIN:     s.ISIN,
			Ticker:   s.Ticker,
			Currency: s.Currency,
		}
		if len(prices) > 0 {
			sec.LatestPrice = prices[len(prices)-1].Close
			sec.LatestPriceDate = prices[len(prices)-1].Date
		}
		n.securities = append(n.securities, sec)
		n.priceHistory[s.UUID] = prices
		n.securityName[s.UUID] = s.Name
		n.securityByID[s.UUID] = sec
	}

	accountName := make(map[string]string, len(raw.Accounts))
	for _, a := range raw.Accounts {
		n.accounts = append(n.accounts, models.Account{UUID: a.UUID, Name: a.Name, Currency: a.Currency})
		accountName[a.UUID] = a.Name
	}

	portfolioName := make(map[string]string, len(raw.Portfolios))
	for _, p := range raw.Portfolios {
		n.portfolios = append(n.portfolios, models.Portfolio{
			UUID:             p.UUID,
			Name:             p.Name,
			ReferenceAccount: p.ReferenceAccount,
		})
		portfolioName[p.UUID] = p.Name
	}

	for _, t := range raw.Transactions {
		n.transactions = append(n.transactions, models.Transaction{
			UUID:         t.UUID,
			Type:         models.TransactionTypeFromCode(t.Type),
			Date:         timestampToTime(t.Date),
			Amount:       amountValue(t.Amount),
			Currency:     t.Currency,
			Shares:       shareValue(t.Shares),
			SecurityUUID: t.Security,
			SecurityName: n.securityName[t.Security],
			Account:      accountName[t.Account],
			Portfolio:    portfolioName[t.Portfolio],
			Note:         t.Note,
		})
	}
	sort.SliceStable(n.transactions, func(i, j int) bool {
		return n.transactions[i].Date.After(n.transactions[j].Date)
	})

	return n
}

// ascending returns a timestamp-ascending copy of the transactions for replay.
func (n *normalized) ascending() []models.Transaction {
	asc := make([]models.Transaction, len(n.transactions))
	copy(asc, n.transactions)
	sort.SliceStable(asc, func(i, j int) bool {
		return asc[i].Date.Before(asc[j].Date)
	})
	return asc
}

// taxonomyAssignments flattens the taxonomy trees into one assignment per
// investment vehicle. Later assignments overwrite earlier ones.
func taxonomyAssignments(raw *parser.Client) map[string]models.TaxonomyAssignment {
	assigned := make(map[string]models.TaxonomyAssignment)
	for _, tax := range raw.Taxonomies {
		for _, cls := range tax.Classifications {
			for _, a := range cls.Assignments {
				assigned[a.InvestmentVehicle] = models.TaxonomyAssignment{
					VehicleUUID: a.InvestmentVehicle,
					Category:    cls.Name,
					Color:       cls.Color,
				}
			}
		}
	}
	return assigned
}
