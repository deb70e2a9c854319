package bank

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of decimal places stored for money columns.
const AmountScale = 2

// ReversalWindow bounds how long after its date a movement may be reversed.
const ReversalWindow = 24 * time.Hour

const (
	TypeTransfer   = "TRANSFER"
	TypeDeposit    = "DEPOSIT"
	TypeWithdrawal = "WITHDRAWAL"
	TypePayment    = "PAYMENT"
	TypeReversal   = "REVERSAL"
)

// Effect says which side of a movement touches a balance.
type Effect struct {
	Debit  bool // origin
	Credit bool // destination
}

// EffectOf maps a movement type to its balance effect. Types other than
// deposit and withdrawal move money between two accounts.
func EffectOf(typeMovement string) Effect {
	switch NormalizeType(typeMovement) {
	case TypeDeposit:
		return Effect{Credit: true}
	case TypeWithdrawal:
		return Effect{Debit: true}
	default:
		return Effect{Debit: true, Credit: true}
	}
}

func (e Effect) Transfer() bool { return e.Debit && e.Credit }

func NormalizeType(typeMovement string) string {
	return strings.ToUpper(strings.TrimSpace(typeMovement))
}

// CanReverse reports whether a movement flagged reversible and dated date may
// be reversed at now. Both the flag and the window must hold.
func CanReverse(reversible bool, date, now time.Time) bool {
	return reversible && !now.After(date.Add(ReversalWindow))
}

// ValidAmount reports whether v is positive and fits a money column without
// rounding. numeric(19,2) would round 0.001 to zero and 0.005 up a cent.
func ValidAmount(v decimal.Decimal) bool {
	return v.IsPositive() && v.Equal(v.Truncate(AmountScale))
}
