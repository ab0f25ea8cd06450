package portfolio

import (
	"sort"

	"github.com/benjamingolder/portfolio-dashboard/internal/models"
)

// unknownSecurity labels dividend income whose security reference no longer
// resolves to a name.
const unknownSecurity = "Unknown"

// dividendSummary sums DIVIDEND transactions grouped by year, by resolved
// security name, and by (year, month), each rounded independently. The second
// return is the total of FEE transactions.
func dividendSummary(txs []models.Transaction) (models.DividendSummary, float64) {
	byYear := make(map[int]float64)
	bySecurity := make(map[string]float64)
	byMonth := make(map[monthKey]float64)
	var total, fees float64

	for _, tx := range txs {
		switch tx.Type {
		case models.TransactionDividend:
			name := tx.SecurityName
			if name == "" {
				name = unknownSecurity
			}
			byYear[tx.Date.Year()] += tx.Amount
			bySecurity[name] += tx.Amount
			byMonth[monthKey{year: tx.Date.Year(), month: int(tx.Date.Month())}] += tx.Amount
			total += tx.Amount
		case models.TransactionFee:
			fees += tx.Amount
		}
	}

	summary := models.DividendSummary{
		Total:      round2(total),
		ByYear:     make(map[int]float64, len(byYear)),
		BySecurity: make(map[string]float64, len(bySecurity)),
	}
	for year, amount := range byYear {
		summary.ByYear[year] = round2(amount)
	}
	for name, amount := range bySecurity {
		summary.BySecurity[name] = round2(amount)
	}

	months := make([]monthKey, 0, len(byMonth))
	for key := range byMonth {
		months = append(months, key)
	}
	sort.Slice(months, func(i, j int) bool {
		if months[i].year != months[j].year {
			return months[i].year < months[j].year
		}
		return months[i].month < months[j].month
	})
	for _, key := range months {
		summary.ByMonth = append(summary.ByMonth, models.MonthlyDividend{
			Year:   key.year,
			Month:  key.month,
			Amount: round2(byMonth[key]),
		})
	}

	return summary, fees
}
