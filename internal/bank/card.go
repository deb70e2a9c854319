package bank

import (
	"fmt"
	"math/rand"
	"time"
)

const (
	CardNumberLength = 16
	cvvLength        = 3
	pinLength        = 4
	expiryLayout     = "01/06"
)

// NewCardNumber returns a random 16-digit number with a Luhn check digit.
func NewCardNumber() string {
	body := randomDigits(CardNumberLength - 1)
	return body + string(rune('0'+luhnCheckDigit(body)))
}

func NewCVV() string { return randomDigits(cvvLength) }

// NewExpiry returns an MM/YY date between one and five years ahead of now.
func NewExpiry(now time.Time) string {
	years := 1 + rand.Intn(5)
	month := time.Month(1 + rand.Intn(12))
	return time.Date(now.Year()+years, month, 1, 0, 0, 0, 0, time.UTC).Format(expiryLayout)
}

func LuhnValid(number string) bool {
	if len(number) < 2 || !allDigits(number) {
		return false
	}
	return luhnCheckDigit(number[:len(number)-1]) == int(number[len(number)-1]-'0')
}

func luhnCheckDigit(body string) int {
	sum := 0
	double := true
	for i := len(body) - 1; i >= 0; i-- {
		d := int(body[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return (10 - sum%10) % 10
}

// ValidCardNumber checks the fixed 16-digit format. Supplied numbers are not
// required to pass Luhn; generated ones always do.
func ValidCardNumber(number string) bool {
	return len(number) == CardNumberLength && allDigits(number)
}

func ValidCVV(cvv string) bool { return len(cvv) == cvvLength && allDigits(cvv) }

func ValidPIN(pin string) bool { return len(pin) == pinLength && allDigits(pin) }

// ParseExpiry parses an MM/YY expiry into the first day of that month (UTC).
func ParseExpiry(exp string) (time.Time, error) {
	t, err := time.Parse(expiryLayout, exp)
	if err != nil || len(exp) != len(expiryLayout) {
		return time.Time{}, fmt.Errorf("expiration date %q is not MM/YY", exp)
	}
	return t, nil
}

// CheckExpiry requires an MM/YY expiry strictly after the month of now.
func CheckExpiry(exp string, now time.Time) error {
	t, err := ParseExpiry(exp)
	if err != nil {
		return Errorf(KindInvalidCreditCard, "%s", err.Error())
	}
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if !t.After(current) {
		return Errorf(KindInvalidCreditCard, "expiration date %s is not in the future", exp)
	}
	return nil
}
