package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement rows are append-only. Only IsReversible changes after insert.
type Movement struct {
	ID                string          `gorm:"primaryKey;size:26" json:"id"`
	SenderClientID    string          `gorm:"index;not null" json:"sender_client_id"`
	SenderName        string          `json:"sender_name"`
	RecipientClientID *string         `gorm:"index" json:"recipient_client_id,omitempty"`
	RecipientName     string          `json:"recipient_name"`
	OriginIBAN        string          `gorm:"column:origin_iban;index;not null" json:"origin_iban"`
	DestinationIBAN   string          `gorm:"column:destination_iban;index;not null" json:"destination_iban"`
	TypeMovement      string          `gorm:"index;not null" json:"type_movement"`
	Amount            decimal.Decimal `gorm:"type:numeric(19,2);not null" json:"amount"`
	Date              time.Time       `gorm:"index;not null" json:"date"`
	IsReversible      bool            `gorm:"not null" json:"is_reversible"`
	ReversalOf        *string         `gorm:"size:26" json:"reversal_of,omitempty"`
}
