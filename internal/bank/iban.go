package bank

import (
	"math/rand"
	"strings"
)

const (
	ibanCountry = "ES"
	ibanEntity  = "0128"
	ibanBranch  = "0001"
	ibanControl = "00"
	ibanLength  = 24
)

// NewIBAN returns a Spanish IBAN with valid mod-97 check digits. Uniqueness
// is the caller's concern.
func NewIBAN() string {
	bban := ibanEntity + ibanBranch + ibanControl + randomDigits(10)
	return ibanCountry + checkDigits(ibanCountry, bban) + bban
}

func ValidIBAN(iban string) bool {
	iban = strings.ToUpper(strings.ReplaceAll(iban, " ", ""))
	if len(iban) != ibanLength || !strings.HasPrefix(iban, ibanCountry) || !allDigits(iban[2:]) {
		return false
	}
	return mod97(iban[4:]+countryDigits(iban[:2])+iban[2:4]) == 1
}

func checkDigits(country, bban string) string {
	check := 98 - mod97(bban+countryDigits(country)+"00")
	if check < 10 {
		return "0" + string(rune('0'+check))
	}
	return string(rune('0'+check/10)) + string(rune('0'+check%10))
}

// countryDigits maps letters to their IBAN numeric value (A=10 ... Z=35).
func countryDigits(country string) string {
	var b strings.Builder
	for _, r := range country {
		n := int(r-'A') + 10
		b.WriteByte(byte('0' + n/10))
		b.WriteByte(byte('0' + n%10))
	}
	return b.String()
}

func mod97(digits string) int {
	rem := 0
	for i := 0; i < len(digits); i++ {
		rem = (rem*10 + int(digits[i]-'0')) % 97
	}
	return rem
}

func randomDigits(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('0' + rand.Intn(10))
	}
	return string(b)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
