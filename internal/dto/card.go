package dto

type CardRequest struct {
	Pin             string  `json:"pin"`
	Number          *string `json:"number,omitempty"`
	CVV             *string `json:"cvv,omitempty"`
	ExpirationDate  *string `json:"expirationDate,omitempty"`
	BankAccountIBAN string  `json:"bankAccountIban,omitempty"`
}

type CardPinRequest struct {
	Pin string `json:"pin"`
}

type CardAttachRequest struct {
	BankAccountIBAN string `json:"bankAccountIban"`
}

type CardResponse struct {
	ID             uint   `json:"id"`
	Number         string `json:"number"`
	CVV            string `json:"cvv"`
	ExpirationDate string `json:"expirationDate"`
	BankAccountID  *uint  `json:"bankAccountId,omitempty"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

type CardSummary struct {
	ID             uint   `json:"id"`
	Number         string `json:"number"`
	ExpirationDate string `json:"expirationDate"`
}
