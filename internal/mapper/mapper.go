// Package mapper converts between persisted records and wire shapes. Every
// function is pure and returns nil for nil input.
package mapper

import (
	"time"

	"vivesbank/internal/dto"
	"vivesbank/internal/models"
	"vivesbank/internal/repository"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// Many maps a slice element-wise. A nil slice stays nil.
func Many[S, D any](items []S, fn func(*S) *D) []D {
	if items == nil {
		return nil
	}
	out := make([]D, 0, len(items))
	for i := range items {
		if d := fn(&items[i]); d != nil {
			out = append(out, *d)
		}
	}
	return out
}

func ToPage[S, D any](res *repository.PageResult[S], fn func(*S) *D) *dto.PageResponse[D] {
	if res == nil {
		return nil
	}
	content := Many(res.Items, fn)
	if content == nil {
		content = []D{}
	}
	return &dto.PageResponse[D]{
		Content:       content,
		TotalElements: res.Total,
		TotalPages:    res.TotalPages(),
		Page:          res.Page.Number,
		Size:          res.Page.Size,
	}
}

func MovementToResponse(m *models.Movement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	return &dto.MovementResponse{
		ID:                     m.ID,
		SenderName:             m.SenderName,
		RecipientName:          m.RecipientName,
		BankAccountOrigin:      m.OriginIBAN,
		BankAccountDestination: m.DestinationIBAN,
		TypeMovement:           m.TypeMovement,
		Amount:                 m.Amount,
		Date:                   formatTime(m.Date),
		IsReversible:           m.IsReversible,
		ReversalOf:             m.ReversalOf,
	}
}

func AccountToResponse(a *models.BankAccount) *dto.AccountResponse {
	if a == nil {
		return nil
	}
	return &dto.AccountResponse{
		ID:           a.ID,
		IBAN:         a.IBAN,
		AccountType:  string(a.AccountType),
		Balance:      a.Balance,
		InterestRate: a.AccountType.InterestRate(),
		ClientID:     a.ClientID,
		CreditCardID: a.CreditCardID,
		CreatedAt:    formatTime(a.CreatedAt),
	}
}

// AccountToNotification builds the push payload. card may be nil.
func AccountToNotification(a *models.BankAccount, card *models.CreditCard) *dto.AccountNotification {
	if a == nil {
		return nil
	}
	return &dto.AccountNotification{
		ID:          a.ID,
		IBAN:        a.IBAN,
		AccountType: string(a.AccountType),
		Balance:     a.Balance,
		CreditCard:  CardToSummary(card),
		CreatedAt:   formatTime(a.CreatedAt),
	}
}

func CardToResponse(c *models.CreditCard) *dto.CardResponse {
	if c == nil {
		return nil
	}
	return &dto.CardResponse{
		ID:             c.ID,
		Number:         c.Number,
		CVV:            c.CVV,
		ExpirationDate: c.ExpirationDate,
		BankAccountID:  c.BankAccountID,
		CreatedAt:      formatTime(c.CreatedAt),
		UpdatedAt:      formatTime(c.UpdatedAt),
	}
}

func CardToSummary(c *models.CreditCard) *dto.CardSummary {
	if c == nil {
		return nil
	}
	return &dto.CardSummary{ID: c.ID, Number: c.Number, ExpirationDate: c.ExpirationDate}
}

func AddressToDto(a *models.Address) *dto.Address {
	if a == nil {
		return nil
	}
	return &dto.Address{
		Street:   a.Street,
		Number:   a.Number,
		City:     a.City,
		Province: a.Province,
		Country:  a.Country,
		ZipCode:  a.ZipCode,
	}
}

func AddressFromDto(a *dto.Address) *models.Address {
	if a == nil {
		return nil
	}
	return &models.Address{
		Street:   a.Street,
		Number:   a.Number,
		City:     a.City,
		Province: a.Province,
		Country:  a.Country,
		ZipCode:  a.ZipCode,
	}
}

func ClientToResponse(c *models.Client) *dto.ClientResponse {
	if c == nil {
		return nil
	}
	return &dto.ClientResponse{
		ID:        c.ID,
		GUUID:     c.GUUID,
		DNI:       c.DNI,
		Name:      c.Name,
		Surname:   c.Surname,
		Address:   *AddressToDto(&c.Address),
		Phone:     c.Phone,
		Email:     c.Email,
		DNIPhoto:  c.DNIPhoto,
		CreatedAt: formatTime(c.CreatedAt),
		UpdatedAt: formatTime(c.UpdatedAt),
	}
}

func UserToResponse(u *models.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	roles := []string{}
	roles = append(roles, u.Roles...)
	return &dto.UserResponse{
		GUUID:        u.GUUID,
		Username:     u.Username,
		Roles:        roles,
		ProfileImage: u.ProfileImage,
		CreatedAt:    formatTime(u.CreatedAt),
	}
}

func ProductToResponse(p *models.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:            p.ID,
		Type:          string(p.Type),
		Specification: p.Specification,
		TAE:           p.TAE,
		CreatedAt:     formatTime(p.CreatedAt),
		UpdatedAt:     formatTime(p.UpdatedAt),
	}
}
