package models

import "time"

// TransactionType is the closed set of transaction kinds found in portfolio files.
type TransactionType string

const (
	TransactionPurchase         TransactionType = "PURCHASE"
	TransactionSale             TransactionType = "SALE"
	TransactionInboundDelivery  TransactionType = "INBOUND_DELIVERY"
	TransactionOutboundDelivery TransactionType = "OUTBOUND_DELIVERY"
	TransactionSecurityTransfer TransactionType = "SECURITY_TRANSFER"
	TransactionCashTransfer     TransactionType = "CASH_TRANSFER"
	TransactionDeposit          TransactionType = "DEPOSIT"
	TransactionRemoval          TransactionType = "REMOVAL"
	TransactionDividend         TransactionType = "DIVIDEND"
	TransactionInterest         TransactionType = "INTEREST"
	TransactionInterestCharge   TransactionType = "INTEREST_CHARGE"
	TransactionTax              TransactionType = "TAX"
	TransactionTaxRefund        TransactionType = "TAX_REFUND"
	TransactionFee              TransactionType = "FEE"
	TransactionFeeRefund        TransactionType = "FEE_REFUND"
)

// transactionTypeByCode maps the on-wire type codes to transaction kinds.
var transactionTypeByCode = map[int32]TransactionType{
	0:  TransactionPurchase,
	1:  TransactionSale,
	2:  TransactionInboundDelivery,
	3:  TransactionOutboundDelivery,
	4:  TransactionSecurityTransfer,
	5:  TransactionCashTransfer,
	6:  TransactionDeposit,
	7:  TransactionRemoval,
	8:  TransactionDividend,
	9:  TransactionInterest,
	10: TransactionInterestCharge,
	11: TransactionTax,
	12: TransactionTaxRefund,
	13: TransactionFee,
	14: TransactionFeeRefund,
}

// TransactionTypeFromCode maps an on-wire type code to a TransactionType.
// Unknown codes fall back to PURCHASE, matching the file format's default value.
func TransactionTypeFromCode(code int32) TransactionType {
	if t, ok := transactionTypeByCode[code]; ok {
		return t
	}
	return TransactionPurchase
}

// IsBuy reports whether the kind adds shares to a position.
func (t TransactionType) IsBuy() bool {
	return t == TransactionPurchase || t == TransactionInboundDelivery
}

// IsSell reports whether the kind removes shares from a position.
func (t TransactionType) IsSell() bool {
	return t == TransactionSale || t == TransactionOutboundDelivery
}

// Transaction is a single ledger entry from a portfolio file. The amount is
// always a non-negative magnitude; the sign is implied by the kind.
// Transactions are immutable after decode and are the authoritative source of
// all derived state.
type Transaction struct {
	UUID         string          `json:"uuid"`
	Type         TransactionType `json:"type"`
	Date         time.Time       `json:"date"`
	Amount       float64         `json:"amount"`
	Currency     string          `json:"currency"`
	Shares       float64         `json:"shares"`        // zero unless the kind moves securities
	SecurityUUID string          `json:"security_uuid"` // empty when no security is involved
	SecurityName string          `json:"security_name"` // resolved display name, empty if unresolvable
	Account      string          `json:"account"`       // resolved account name, empty if unresolvable
	Portfolio    string          `json:"portfolio"`     // resolved portfolio name, empty if unresolvable
	Note         string          `json:"note,omitempty"`
}
