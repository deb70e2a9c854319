package dto

import "github.com/shopspring/decimal"

type ProductRequest struct {
	Type          string          `json:"type"`
	Specification string          `json:"specification"`
	TAE           decimal.Decimal `json:"tae"`
}

type ProductResponse struct {
	ID            uint            `json:"id"`
	Type          string          `json:"type"`
	Specification string          `json:"specification"`
	TAE           decimal.Decimal `json:"tae"`
	CreatedAt     string          `json:"createdAt"`
	UpdatedAt     string          `json:"updatedAt"`
}
