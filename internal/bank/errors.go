package bank

import (
	"errors"
	"fmt"
)

// Kind is the stable identifier of a business failure. It doubles as the
// error code written at the HTTP boundary.
type Kind string

const (
	KindAccountNotFound             Kind = "account_not_found"
	KindInsufficientFunds           Kind = "insufficient_funds"
	KindMovementNotFound            Kind = "movement_not_found"
	KindMovementIrreversible        Kind = "movement_irreversible"
	KindAccountAlreadyHasCreditCard Kind = "account_already_has_credit_card"
	KindDuplicateCardNumber         Kind = "duplicate_card_number"

	KindInvalidAmount           Kind = "invalid_amount"
	KindInvalidMovement         Kind = "invalid_movement"
	KindClientNotFound          Kind = "client_not_found"
	KindClientExists            Kind = "client_exists"
	KindCreditCardNotFound      Kind = "credit_card_not_found"
	KindCreditCardAlreadyLinked Kind = "credit_card_already_linked"
	KindAccountHasCreditCard    Kind = "account_has_credit_card"
	KindInvalidCreditCard       Kind = "invalid_credit_card"
	KindUserNotFound            Kind = "user_not_found"
	KindUserExists              Kind = "user_exists"
	KindInvalidCredentials      Kind = "invalid_credentials"
	KindInvalidRequest          Kind = "invalid_request"
	KindForbidden               Kind = "forbidden"
	KindProductNotFound         Kind = "product_not_found"
	KindProductExists           Kind = "product_exists"
)

type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return string(e.Kind)
	}
	return e.Msg
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrAccountNotFound)
// holds for every account-not-found failure regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

var (
	ErrAccountNotFound             = &Error{Kind: KindAccountNotFound}
	ErrInsufficientFunds           = &Error{Kind: KindInsufficientFunds}
	ErrMovementNotFound            = &Error{Kind: KindMovementNotFound}
	ErrMovementIrreversible        = &Error{Kind: KindMovementIrreversible}
	ErrAccountAlreadyHasCreditCard = &Error{Kind: KindAccountAlreadyHasCreditCard}
	ErrDuplicateCardNumber         = &Error{Kind: KindDuplicateCardNumber}

	ErrInvalidAmount           = &Error{Kind: KindInvalidAmount}
	ErrInvalidMovement         = &Error{Kind: KindInvalidMovement}
	ErrClientNotFound          = &Error{Kind: KindClientNotFound}
	ErrClientExists            = &Error{Kind: KindClientExists}
	ErrCreditCardNotFound      = &Error{Kind: KindCreditCardNotFound}
	ErrCreditCardAlreadyLinked = &Error{Kind: KindCreditCardAlreadyLinked}
	ErrAccountHasCreditCard    = &Error{Kind: KindAccountHasCreditCard}
	ErrInvalidCreditCard       = &Error{Kind: KindInvalidCreditCard}
	ErrUserNotFound            = &Error{Kind: KindUserNotFound}
	ErrUserExists              = &Error{Kind: KindUserExists}
	ErrInvalidCredentials      = &Error{Kind: KindInvalidCredentials}
	ErrInvalidRequest          = &Error{Kind: KindInvalidRequest}
	ErrForbidden               = &Error{Kind: KindForbidden}
	ErrProductNotFound         = &Error{Kind: KindProductNotFound}
	ErrProductExists           = &Error{Kind: KindProductExists}
)
