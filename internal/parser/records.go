// Package parser decodes proprietary binary portfolio files into raw record
// trees. A file is either a raw payload beginning with the 6-byte signature
// "PPPBV1", or a zip archive wrapping a single inner file named
// "data.portfolio" that begins with the same signature. The payload after the
// signature is protobuf wire format; unknown fields are skipped so that files
// written by newer versions of the producing application still decode.
//
// Decoding is a pure transform of bytes into records. All numeric fields keep
// their on-wire fixed-point encoding here (prices and share counts scaled by
// 10^8, monetary amounts by 10^2, dates as epoch days, timestamps as epoch
// seconds); conversion to domain values happens downstream.
package parser

// Client is the root record of a portfolio file.
//
// Wire schema: 1=version 2=baseCurrency 3=securities 4=accounts 5=portfolios
// 6=transactions 7=taxonomies.
type Client struct {
	Version      int32
	BaseCurrency string
	Securities   []Security
	Accounts     []Account
	Portfolios   []Portfolio
	Transactions []Transaction
	Taxonomies   []Taxonomy
}

// Security carries an instrument and its price history.
//
// Wire schema: 1=uuid 2=name 3=isin 4=tickerSymbol 5=currencyCode 6=prices.
type Security struct {
	UUID     string
	Name     string
	ISIN     string
	Ticker   string
	Currency string
	Prices   []HistoricalPrice
}

// HistoricalPrice is one closing price, date as days since 1970-01-01 and
// close scaled by 10^8. Entries appear in non-decreasing date order.
//
// Wire schema: 1=date 2=close.
type HistoricalPrice struct {
	Date  int32
	Close int64
}

// Account is a cash account record.
//
// Wire schema: 1=uuid 2=name 3=currencyCode.
type Account struct {
	UUID     string
	Name     string
	Currency string
}

// Portfolio is a securities container record.
//
// Wire schema: 1=uuid 2=name 3=referenceAccount.
type Portfolio struct {
	UUID             string
	Name             string
	ReferenceAccount string
}

// Timestamp is an epoch-second instant. A zero or absent value means the
// epoch itself, not "unknown".
//
// Wire schema: 1=seconds.
type Timestamp struct {
	Seconds int64
}

// Transaction is one ledger entry. Amount is minor units (10^2), shares are
// scaled by 10^8, and the account/portfolio/security fields are UUID
// references that may point at entities deleted from the file.
//
// Wire schema: 1=uuid 2=type 3=account 4=portfolio 5=security 6=date
// 7=currencyCode 8=amount 9=shares 10=note.
type Transaction struct {
	UUID      string
	Type      int32
	Account   string
	Portfolio string
	Security  string
	Date      Timestamp
	Currency  string
	Amount    int64
	Shares    int64
	Note      string
}

// Taxonomy is a category tree used for asset allocation.
//
// Wire schema: 1=name 2=classifications.
type Taxonomy struct {
	Name            string
	Classifications []Classification
}

// Classification is one category with its member assignments.
//
// Wire schema: 1=name 2=color 3=assignments.
type Classification struct {
	Name        string
	Color       string
	Assignments []Assignment
}

// Assignment maps an investment vehicle (security or account UUID) into the
// enclosing classification.
//
// Wire schema: 1=investmentVehicle.
type Assignment struct {
	InvestmentVehicle string
}
