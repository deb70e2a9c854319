package dto

import "github.com/shopspring/decimal"

type AccountRequest struct {
	AccountType string `json:"accountType"`
}

type AccountResponse struct {
	ID           uint            `json:"id"`
	IBAN         string          `json:"iban"`
	AccountType  string          `json:"accountType"`
	Balance      decimal.Decimal `json:"balance"`
	InterestRate decimal.Decimal `json:"interestRate"`
	ClientID     uint            `json:"clientId"`
	CreditCardID *uint           `json:"creditCardId,omitempty"`
	CreatedAt    string          `json:"createdAt"`
}

// AccountNotification is pushed to subscribers on every account change.
type AccountNotification struct {
	ID          uint            `json:"id"`
	IBAN        string          `json:"iban"`
	AccountType string          `json:"accountType"`
	Balance     decimal.Decimal `json:"balance"`
	CreditCard  *CardSummary    `json:"creditCard,omitempty"`
	CreatedAt   string          `json:"createdAt"`
}
