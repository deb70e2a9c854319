package models

type CreditCard struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Number         string `gorm:"uniqueIndex;size:16;not null" json:"number"`
	CVV            string `gorm:"column:cvv;size:3;not null" json:"cvv"`
	PinHash        string `json:"-"`
	ExpirationDate string `gorm:"size:5;not null;index" json:"expiration_date"` // MM/YY
	BankAccountID  *uint  `gorm:"uniqueIndex" json:"bank_account_id,omitempty"`
	Audit
}
