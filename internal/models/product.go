package models

import "github.com/shopspring/decimal"

type ProductType string

const (
	ProductBankAccount ProductType = "BANK_ACCOUNT"
	ProductCreditCard  ProductType = "CREDIT_CARD"
)

func (t ProductType) Valid() bool {
	return t == ProductBankAccount || t == ProductCreditCard
}

type Product struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Type          ProductType     `gorm:"type:varchar(16);not null" json:"type"`
	Specification string          `gorm:"uniqueIndex;not null" json:"specification"`
	TAE           decimal.Decimal `gorm:"column:tae;type:numeric(9,4);not null;default:0" json:"tae"`
	Audit
}
