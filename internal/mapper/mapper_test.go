package mapper

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vivesbank/internal/dto"
	"vivesbank/internal/models"
	"vivesbank/internal/repository"
)

func TestNilPropagates(t *testing.T) {
	assert.Nil(t, MovementToResponse(nil))
	assert.Nil(t, AccountToResponse(nil))
	assert.Nil(t, AccountToNotification(nil, &models.CreditCard{}))
	assert.Nil(t, CardToResponse(nil))
	assert.Nil(t, CardToSummary(nil))
	assert.Nil(t, ClientToResponse(nil))
	assert.Nil(t, AddressToDto(nil))
	assert.Nil(t, AddressFromDto(nil))
	assert.Nil(t, UserToResponse(nil))
	assert.Nil(t, ProductToResponse(nil))
	assert.Nil(t, Many[models.Movement, dto.MovementResponse](nil, MovementToResponse))
	assert.Nil(t, ToPage[models.Movement, dto.MovementResponse](nil, MovementToResponse))
}

func TestMovementToResponse(t *testing.T) {
	date := time.Date(2026, time.October, 16, 9, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	m := &models.Movement{
		ID:              "abc",
		SenderName:      "Ana Ruiz",
		RecipientName:   "Luis Gil",
		OriginIBAN:      "ES01",
		DestinationIBAN: "ES02",
		TypeMovement:    "TRANSFER",
		Amount:          decimal.RequireFromString("40.50"),
		Date:            date,
		IsReversible:    true,
	}

	got := MovementToResponse(m)
	require.NotNil(t, got)
	assert.Equal(t, "2026-10-16T07:30:00Z", got.Date)
	assert.Equal(t, "ES01", got.BankAccountOrigin)
	assert.Equal(t, "ES02", got.BankAccountDestination)
	assert.True(t, got.IsReversible)

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"amount":40.5`)
	assert.NotContains(t, string(raw), "reversalOf")
}

func TestAccountToNotification(t *testing.T) {
	card := &models.CreditCard{ID: 7, Number: "1234567890123456", ExpirationDate: "01/30"}
	acc := &models.BankAccount{ID: 3, IBAN: "ES01", AccountType: models.AccountSaving, Balance: decimal.NewFromInt(60)}

	got := AccountToNotification(acc, card)
	require.NotNil(t, got)
	assert.Equal(t, "SAVING", got.AccountType)
	require.NotNil(t, got.CreditCard)
	assert.Equal(t, uint(7), got.CreditCard.ID)

	assert.Nil(t, AccountToNotification(acc, nil).CreditCard)

	resp := AccountToResponse(acc)
	assert.Equal(t, "0.2", resp.InterestRate.String())
}

func TestToPage(t *testing.T) {
	res := &repository.PageResult[models.Product]{
		Items: []models.Product{{ID: 1, Type: models.ProductCreditCard, Specification: "gold"}},
		Total: 11,
		Page:  repository.Page{Number: 1, Size: 10},
	}
	page := ToPage(res, ProductToResponse)
	require.NotNil(t, page)
	assert.Len(t, page.Content, 1)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 1, page.Page)

	empty := ToPage(&repository.PageResult[models.Product]{Page: repository.Page{Size: 10}}, ProductToResponse)
	assert.NotNil(t, empty.Content)
	assert.Empty(t, empty.Content)
}

func TestAddressRoundTrip(t *testing.T) {
	in := &dto.Address{Street: "Calle Mayor", Number: "1", City: "Leganés", Province: "Madrid", Country: "ES", ZipCode: "28911"}
	assert.Equal(t, in, AddressToDto(AddressFromDto(in)))
}
