package models

import "github.com/shopspring/decimal"

type AccountType string

const (
	AccountStandard AccountType = "STANDARD"
	AccountSaving   AccountType = "SAVING"
)

var interestRates = map[AccountType]decimal.Decimal{
	AccountStandard: decimal.Zero,
	AccountSaving:   decimal.RequireFromString("0.2"),
}

func (t AccountType) Valid() bool {
	_, ok := interestRates[t]
	return ok
}

// InterestRate is the fixed nominal rate of the account type.
func (t AccountType) InterestRate() decimal.Decimal {
	return interestRates[t]
}

// BankAccount and CreditCard reference each other through nullable unique
// columns. The store does not keep the two sides in sync.
type BankAccount struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	IBAN         string          `gorm:"column:iban;uniqueIndex;size:34;not null" json:"iban"`
	AccountType  AccountType     `gorm:"type:varchar(16);not null" json:"account_type"`
	Balance      decimal.Decimal `gorm:"type:numeric(19,2);not null;default:0" json:"balance"`
	ClientID     uint            `gorm:"index;not null" json:"client_id"`
	CreditCardID *uint           `gorm:"uniqueIndex" json:"credit_card_id,omitempty"`
	Audit
}
