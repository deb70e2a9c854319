package dto

import "github.com/shopspring/decimal"

type MovementRequest struct {
	SenderClientID         string          `json:"senderClientId,omitempty"`
	RecipientClientID      *string         `json:"recipientClientId,omitempty"`
	BankAccountOrigin      string          `json:"bankAccountOrigin"`
	BankAccountDestination string          `json:"bankAccountDestination"`
	TypeMovement           string          `json:"typeMovement"`
	Amount                 decimal.Decimal `json:"amount"`
}

type ReversalRequest struct {
	MovementID string `json:"movementId"`
}

type MovementResponse struct {
	ID                     string          `json:"id"`
	SenderName             string          `json:"senderName"`
	RecipientName          string          `json:"recipientName"`
	BankAccountOrigin      string          `json:"bankAccountOrigin"`
	BankAccountDestination string          `json:"bankAccountDestination"`
	TypeMovement           string          `json:"typeMovement"`
	Amount                 decimal.Decimal `json:"amount"`
	Date                   string          `json:"date"`
	IsReversible           bool            `json:"isReversible"`
	ReversalOf             *string         `json:"reversalOf,omitempty"`
}
