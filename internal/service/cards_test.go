package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vivesbank/internal/auth"
	"vivesbank/internal/bank"
	"vivesbank/internal/repository"
)

func strPtr(s string) *string { return &s }

func TestCreateCardGeneratesFields(t *testing.T) {
	f := newFixture(t)

	card, err := f.cards.Create(f.ctx, 0, CreateCardInput{Pin: "1234"})
	require.NoError(t, err)
	assert.True(t, bank.ValidCardNumber(card.Number))
	assert.True(t, bank.LuhnValid(card.Number))
	assert.True(t, bank.ValidCVV(card.CVV))
	assert.NoError(t, bank.CheckExpiry(card.ExpirationDate, f.now))
	assert.Equal(t, "hashed:1234", card.PinHash)
	assert.Nil(t, card.BankAccountID)
}

func TestCreateCardHashesPin(t *testing.T) {
	f := newFixture(t)
	f.cards.hash = auth.HashSecret

	card, err := f.cards.Create(f.ctx, 0, CreateCardInput{Pin: "4321"})
	require.NoError(t, err)
	assert.NotEqual(t, "4321", card.PinHash)
	assert.True(t, auth.CheckSecret(card.PinHash, "4321"))
}

func TestCreateCardDuplicateNumber(t *testing.T) {
	f := newFixture(t)
	in := CreateCardInput{Pin: "1234", Number: strPtr("1234567890123456")}

	_, err := f.cards.Create(f.ctx, 0, in)
	require.NoError(t, err)

	_, err = f.cards.Create(f.ctx, 0, in)
	assert.ErrorIs(t, err, bank.ErrDuplicateCardNumber)
}

func TestCreateCardDuplicateNumberAfterDelete(t *testing.T) {
	f := newFixture(t)
	in := CreateCardInput{Pin: "1234", Number: strPtr("1234567890123456")}

	card, err := f.cards.Create(f.ctx, 0, in)
	require.NoError(t, err)
	require.NoError(t, f.cards.Delete(f.ctx, 0, card.ID))

	_, err = f.cards.Get(f.ctx, card.ID)
	assert.ErrorIs(t, err, bank.ErrCreditCardNotFound)

	_, err = f.cards.Create(f.ctx, 0, in)
	assert.ErrorIs(t, err, bank.ErrDuplicateCardNumber)
}

func TestCreateCardValidation(t *testing.T) {
	f := newFixture(t)
	cases := map[string]CreateCardInput{
		"short pin":     {Pin: "123"},
		"letters pin":   {Pin: "12a4"},
		"short number":  {Pin: "1234", Number: strPtr("12345")},
		"bad cvv":       {Pin: "1234", CVV: strPtr("1234")},
		"past expiry":   {Pin: "1234", ExpirationDate: strPtr("09/26")},
		"current month": {Pin: "1234", ExpirationDate: strPtr("10/26")},
		"bad layout":    {Pin: "1234", ExpirationDate: strPtr("2027-01")},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.cards.Create(f.ctx, 0, in)
			assert.ErrorIs(t, err, bank.ErrInvalidCreditCard)
		})
	}

	card, err := f.cards.Create(f.ctx, 0, CreateCardInput{Pin: "1234", CVV: strPtr("007"), ExpirationDate: strPtr("11/26")})
	require.NoError(t, err)
	assert.Equal(t, "007", card.CVV)
	assert.Equal(t, "11/26", card.ExpirationDate)
}

func TestCreateCardLinksAccount(t *testing.T) {
	f := newFixture(t)
	ana := f.client(t, "Ana", "11111111A")
	luis := f.client(t, "Luis", "22222222B")
	acc := f.account(t, ana, ibanA, 0)

	_, err := f.cards.Create(f.ctx, luis.ID, CreateCardInput{Pin: "1234", AccountIBAN: ibanA})
	assert.ErrorIs(t, err, bank.ErrForbidden)

	card, err := f.cards.Create(f.ctx, ana.ID, CreateCardInput{Pin: "1234", AccountIBAN: ibanA})
	require.NoError(t, err)
	require.NotNil(t, card.BankAccountID)
	assert.Equal(t, acc.ID, *card.BankAccountID)

	stored, err := f.store.Accounts().FindByIBAN(f.ctx, ibanA)
	require.NoError(t, err)
	require.NotNil(t, stored.CreditCardID)
	assert.Equal(t, card.ID, *stored.CreditCardID)

	_, err = f.cards.Create(f.ctx, ana.ID, CreateCardInput{Pin: "1234", AccountIBAN: ibanA})
	assert.ErrorIs(t, err, bank.ErrAccountAlreadyHasCreditCard)
}

func TestAttachSecondCardRejected(t *testing.T) {
	f := newFixture(t)
	ana := f.client(t, "Ana", "11111111A")
	f.account(t, ana, ibanA, 0)

	first, err := f.cards.Create(f.ctx, 0, CreateCardInput{Pin: "1234"})
	require.NoError(t, err)
	second, err := f.cards.Create(f.ctx, 0, CreateCardInput{Pin: "1234"})
	require.NoError(t, err)

	_, err = f.cards.Attach(f.ctx, 0, ibanA, first.ID)
	require.NoError(t, err)

	_, err = f.cards.Attach(f.ctx, 0, ibanA, second.ID)
	assert.ErrorIs(t, err, bank.ErrAccountAlreadyHasCreditCard)

	acc, err := f.store.Accounts().FindByIBAN(f.ctx, ibanA)
	require.NoError(t, err)
	require.NotNil(t, acc.CreditCardID)
	assert.Equal(t, first.ID, *acc.CreditCardID)

	untouched, err := f.cards.Get(f.ctx, second.ID)
	require.NoError(t, err)
	assert.Nil(t, untouched.BankAccountID)
}

func TestAttachLinkedCardRejected(t *testing.T) {
	f := newFixture(t)
	ana := f.client(t, "Ana", "11111111A")
	f.account(t, ana, ibanA, 0)
	f.account(t, ana, ibanB, 0)

	card, err := f.cards.Create(f.ctx, 0, CreateCardInput{Pin: "1234", AccountIBAN: ibanA})
	require.NoError(t, err)

	_, err = f.cards.Attach(f.ctx, 0, ibanB, card.ID)
	assert.ErrorIs(t, err, bank.ErrCreditCardAlreadyLinked)

	_, err = f.cards.Attach(f.ctx, 0, ibanB, 999)
	assert.ErrorIs(t, err, bank.ErrCreditCardNotFound)
	_, err = f.cards.Attach(f.ctx, 0, "ES99", card.ID)
	assert.ErrorIs(t, err, bank.ErrAccountNotFound)
}

func TestDetachAndDeleteClearBothSides(t *testing.T) {
	f := newFixture(t)
	ana := f.client(t, "Ana", "11111111A")
	luis := f.client(t, "Luis", "22222222B")
	f.account(t, ana, ibanA, 0)

	card, err := f.cards.Create(f.ctx, 0, CreateCardInput{Pin: "1234", AccountIBAN: ibanA})
	require.NoError(t, err)

	_, err = f.cards.Detach(f.ctx, luis.ID, card.ID)
	assert.ErrorIs(t, err, bank.ErrForbidden)

	detached, err := f.cards.Detach(f.ctx, ana.ID, card.ID)
	require.NoError(t, err)
	assert.Nil(t, detached.BankAccountID)
	acc, err := f.store.Accounts().FindByIBAN(f.ctx, ibanA)
	require.NoError(t, err)
	assert.Nil(t, acc.CreditCardID)

	_, err = f.cards.Attach(f.ctx, ana.ID, ibanA, card.ID)
	require.NoError(t, err)

	require.NoError(t, f.cards.Delete(f.ctx, ana.ID, card.ID))
	acc, err = f.store.Accounts().FindByIBAN(f.ctx, ibanA)
	require.NoError(t, err)
	assert.Nil(t, acc.CreditCardID)

	_, err = f.cards.Get(f.ctx, card.ID)
	assert.ErrorIs(t, err, bank.ErrCreditCardNotFound)

	replacement, err := f.cards.Create(f.ctx, ana.ID, CreateCardInput{Pin: "1234", AccountIBAN: ibanA})
	require.NoError(t, err)
	assert.NotEqual(t, card.ID, replacement.ID)
}

func TestUpdatePin(t *testing.T) {
	f := newFixture(t)
	ana := f.client(t, "Ana", "11111111A")
	luis := f.client(t, "Luis", "22222222B")
	f.account(t, ana, ibanA, 0)

	card, err := f.cards.Create(f.ctx, 0, CreateCardInput{Pin: "1234", AccountIBAN: ibanA})
	require.NoError(t, err)
	loose, err := f.cards.Create(f.ctx, 0, CreateCardInput{Pin: "1234"})
	require.NoError(t, err)

	_, err = f.cards.UpdatePin(f.ctx, ana.ID, card.ID, "12")
	assert.ErrorIs(t, err, bank.ErrInvalidCreditCard)
	_, err = f.cards.UpdatePin(f.ctx, luis.ID, card.ID, "9999")
	assert.ErrorIs(t, err, bank.ErrForbidden)
	_, err = f.cards.UpdatePin(f.ctx, ana.ID, loose.ID, "9999")
	assert.ErrorIs(t, err, bank.ErrForbidden)

	f.now = f.now.Add(time.Hour)
	updated, err := f.cards.UpdatePin(f.ctx, ana.ID, card.ID, "9999")
	require.NoError(t, err)
	assert.Equal(t, "hashed:9999", updated.PinHash)
	assert.Equal(t, f.now, updated.UpdatedAt)
}

func TestListCards(t *testing.T) {
	f := newFixture(t)
	_, err := f.cards.Create(f.ctx, 0, CreateCardInput{Pin: "1234", ExpirationDate: strPtr("01/28")})
	require.NoError(t, err)
	_, err = f.cards.Create(f.ctx, 0, CreateCardInput{Pin: "1234", ExpirationDate: strPtr("02/28")})
	require.NoError(t, err)

	page, err := f.cards.List(f.ctx, repository.CardFilter{ExpirationDate: "01/28"}, repository.NewPage(0, 10))
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	_, err = f.cards.List(f.ctx, repository.CardFilter{ExpirationDate: "2028"}, repository.NewPage(0, 10))
	assert.ErrorIs(t, err, bank.ErrInvalidRequest)
}
