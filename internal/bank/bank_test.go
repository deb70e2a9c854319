package bank

import (
	"errors"
	"fmt"
	"testing"
	"testing/iotest"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := Errorf(KindAccountNotFound, "account %s not found", "ES00")
	wrapped := fmt.Errorf("create movement: %w", err)

	assert.ErrorIs(t, wrapped, ErrAccountNotFound)
	assert.NotErrorIs(t, wrapped, ErrMovementNotFound)
	assert.Equal(t, "account ES00 not found", err.Error())
	assert.Equal(t, "insufficient_funds", ErrInsufficientFunds.Error())

	kind, ok := KindOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindAccountNotFound, kind)

	_, ok = KindOf(errors.New("boom"))
	assert.False(t, ok)
}

func TestNewIBAN(t *testing.T) {
	for i := 0; i < 200; i++ {
		iban := NewIBAN()
		require.Len(t, iban, 24)
		assert.Equal(t, "ES", iban[:2])
		assert.Equal(t, "0128000100", iban[4:14])
		assert.True(t, ValidIBAN(iban), iban)
	}
}

func TestValidIBAN(t *testing.T) {
	assert.True(t, ValidIBAN("ES9121000418450200051332"))
	assert.True(t, ValidIBAN("ES91 2100 0418 4502 0005 1332"))
	assert.False(t, ValidIBAN("ES9221000418450200051332"))
	assert.False(t, ValidIBAN("DE89370400440532013000"))
	assert.False(t, ValidIBAN("ES91210004184502000513"))
	assert.False(t, ValidIBAN("ES91A1000418450200051332"))
}

func TestLuhn(t *testing.T) {
	assert.True(t, LuhnValid("4539578763621486"))
	assert.True(t, LuhnValid("79927398713"))
	assert.False(t, LuhnValid("4539578763621487"))
	assert.False(t, LuhnValid("4539x78763621486"))

	for i := 0; i < 200; i++ {
		n := NewCardNumber()
		require.True(t, ValidCardNumber(n), n)
		assert.True(t, LuhnValid(n), n)
	}
}

func TestCardFormats(t *testing.T) {
	assert.True(t, ValidCardNumber("1234567890123456"))
	assert.False(t, ValidCardNumber("123456789012345"))
	assert.True(t, ValidCVV(NewCVV()))
	assert.False(t, ValidCVV("12a"))
	assert.True(t, ValidPIN("0420"))
	assert.False(t, ValidPIN("12345"))
}

func TestCheckExpiry(t *testing.T) {
	now := time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)

	assert.NoError(t, CheckExpiry("11/26", now))
	assert.NoError(t, CheckExpiry("01/30", now))
	assert.ErrorIs(t, CheckExpiry("10/26", now), ErrInvalidCreditCard)
	assert.ErrorIs(t, CheckExpiry("09/26", now), ErrInvalidCreditCard)
	assert.ErrorIs(t, CheckExpiry("13/27", now), ErrInvalidCreditCard)
	assert.ErrorIs(t, CheckExpiry("1/27", now), ErrInvalidCreditCard)

	for i := 0; i < 100; i++ {
		exp := NewExpiry(now)
		assert.NoError(t, CheckExpiry(exp, now), exp)
	}
}

func TestEffectOf(t *testing.T) {
	assert.Equal(t, Effect{Credit: true}, EffectOf("deposit"))
	assert.Equal(t, Effect{Debit: true}, EffectOf(" WITHDRAWAL "))
	assert.True(t, EffectOf(TypeTransfer).Transfer())
	assert.True(t, EffectOf("PAYMENT").Transfer())
	assert.True(t, EffectOf("bizum").Transfer())
}

func TestCanReverse(t *testing.T) {
	date := time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)

	assert.True(t, CanReverse(true, date, date.Add(time.Hour)))
	assert.True(t, CanReverse(true, date, date.Add(ReversalWindow)))
	assert.False(t, CanReverse(true, date, date.Add(ReversalWindow+time.Second)))
	assert.False(t, CanReverse(true, date, date.Add(25*time.Hour)))
	assert.False(t, CanReverse(false, date, date.Add(time.Minute)))
}

func TestNewMovementID(t *testing.T) {
	at := time.Date(2026, time.October, 16, 10, 0, 0, 0, time.UTC)
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id, err := NewMovementID(at)
		require.NoError(t, err)
		require.Len(t, id, 26)
		require.False(t, seen[id])
		seen[id] = true

		parsed, err := ulid.ParseStrict(id)
		require.NoError(t, err)
		require.Equal(t, ulid.Timestamp(at), parsed.Time())
	}
}

func TestNewMovementIDReportsEntropyFailure(t *testing.T) {
	prev := idEntropy
	idEntropy = iotest.ErrReader(errors.New("no entropy"))
	t.Cleanup(func() { idEntropy = prev })

	_, err := NewMovementID(time.Now())
	assert.Error(t, err)
}

func TestValidAmount(t *testing.T) {
	for _, v := range []string{"0.01", "1", "40.5", "99.99", "1000000.00"} {
		assert.True(t, ValidAmount(decimal.RequireFromString(v)), v)
	}
	for _, v := range []string{"0", "-1", "0.001", "0.005", "10.999"} {
		assert.False(t, ValidAmount(decimal.RequireFromString(v)), v)
	}
}
