package dto

import "github.com/shopspring/decimal"

func init() {
	// amounts and balances go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type PageResponse[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
}
