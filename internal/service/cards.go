package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vivesbank/internal/auth"
	"vivesbank/internal/bank"
	"vivesbank/internal/models"
	"vivesbank/internal/notify"
	"vivesbank/internal/repository"
)

const cardNumberAttempts = 10

// CreateCardInput leaves Number, CVV and ExpirationDate nil to have them
// generated. AccountIBAN links the new card in the same transaction.
type CreateCardInput struct {
	Pin            string
	Number         *string
	CVV            *string
	ExpirationDate *string
	AccountIBAN    string
}

// CardService owns the account-card link. Rows are locked card first, then
// account, on every path that touches both.
type CardService struct {
	store    repository.Store
	notifier notify.Notifier
	now      func() time.Time
	hash     func(string) (string, error)
}

func NewCardService(store repository.Store, notifier notify.Notifier) *CardService {
	return &CardService{store: store, notifier: notifier, now: time.Now, hash: auth.HashSecret}
}

// Create issues a card. owner 0 skips the account ownership check.
func (s *CardService) Create(ctx context.Context, owner uint, in CreateCardInput) (*models.CreditCard, error) {
	now := s.now()
	if !bank.ValidPIN(in.Pin) {
		return nil, bank.Errorf(bank.KindInvalidCreditCard, "pin must be 4 digits")
	}
	card := &models.CreditCard{}

	switch {
	case in.CVV == nil:
		card.CVV = bank.NewCVV()
	case bank.ValidCVV(*in.CVV):
		card.CVV = *in.CVV
	default:
		return nil, bank.Errorf(bank.KindInvalidCreditCard, "cvv must be 3 digits")
	}

	if in.ExpirationDate == nil {
		card.ExpirationDate = bank.NewExpiry(now)
	} else {
		if err := bank.CheckExpiry(*in.ExpirationDate, now); err != nil {
			return nil, err
		}
		card.ExpirationDate = *in.ExpirationDate
	}

	if in.Number == nil {
		number, err := s.freeNumber(ctx)
		if err != nil {
			return nil, err
		}
		card.Number = number
	} else {
		if !bank.ValidCardNumber(*in.Number) {
			return nil, bank.Errorf(bank.KindInvalidCreditCard, "card number must be 16 digits")
		}
		taken, err := s.store.Cards().ExistsNumber(ctx, *in.Number)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, duplicateNumber(*in.Number)
		}
		card.Number = *in.Number
	}

	pinHash, err := s.hash(in.Pin)
	if err != nil {
		return nil, fmt.Errorf("hash pin: %w", err)
	}
	card.PinHash = pinHash

	var events outbox
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		card.Stamp(now)
		if in.AccountIBAN == "" {
			return createCard(ctx, tx, card)
		}

		acc, err := tx.Accounts().LockByIBAN(ctx, in.AccountIBAN)
		if err != nil {
			return ensure(err, bank.KindAccountNotFound, "bank account %s not found", in.AccountIBAN)
		}
		if err := checkOwner(acc, owner); err != nil {
			return err
		}
		if acc.CreditCardID != nil {
			return bank.Errorf(bank.KindAccountAlreadyHasCreditCard, "bank account %s already has a credit card", acc.IBAN)
		}
		card.BankAccountID = &acc.ID
		if err := createCard(ctx, tx, card); err != nil {
			return err
		}
		return s.link(ctx, tx, acc, card, now, &events)
	})
	if err != nil {
		return nil, err
	}
	events.flush(s.notifier)
	return card, nil
}

func createCard(ctx context.Context, tx repository.Store, card *models.CreditCard) error {
	err := tx.Cards().Create(ctx, card)
	if errors.Is(err, repository.ErrDuplicate) {
		return duplicateNumber(card.Number)
	}
	return err
}

func duplicateNumber(number string) error {
	return bank.Errorf(bank.KindDuplicateCardNumber, "card number %s already exists", number)
}

func (s *CardService) freeNumber(ctx context.Context) (string, error) {
	for i := 0; i < cardNumberAttempts; i++ {
		n := bank.NewCardNumber()
		taken, err := s.store.Cards().ExistsNumber(ctx, n)
		if err != nil {
			return "", err
		}
		if !taken {
			return n, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique card number after %d attempts", cardNumberAttempts)
}

// Attach links an unlinked card to an account without a card. On failure
// neither side changes.
func (s *CardService) Attach(ctx context.Context, owner uint, iban string, cardID uint) (*models.CreditCard, error) {
	var (
		card   *models.CreditCard
		events outbox
	)
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		card, err = lockCard(ctx, tx, cardID)
		if err != nil {
			return err
		}
		acc, err := tx.Accounts().LockByIBAN(ctx, iban)
		if err != nil {
			return ensure(err, bank.KindAccountNotFound, "bank account %s not found", iban)
		}
		if err := checkOwner(acc, owner); err != nil {
			return err
		}
		if acc.CreditCardID != nil {
			return bank.Errorf(bank.KindAccountAlreadyHasCreditCard, "bank account %s already has a credit card", iban)
		}
		if card.BankAccountID != nil {
			return bank.Errorf(bank.KindCreditCardAlreadyLinked, "credit card %d is linked to another account", cardID)
		}

		now := s.now()
		card.BankAccountID = &acc.ID
		card.Stamp(now)
		if err := tx.Cards().Save(ctx, card); err != nil {
			return err
		}
		return s.link(ctx, tx, acc, card, now, &events)
	})
	if err != nil {
		return nil, err
	}
	events.flush(s.notifier)
	return card, nil
}

// link points the account at the card and queues the account update.
func (s *CardService) link(ctx context.Context, tx repository.Store, acc *models.BankAccount, card *models.CreditCard, now time.Time, events *outbox) error {
	acc.CreditCardID = &card.ID
	acc.Stamp(now)
	if err := tx.Accounts().Save(ctx, acc); err != nil {
		return err
	}
	ev, err := accountEvent(ctx, tx, acc, notify.TypeUpdate, now)
	if err != nil {
		return err
	}
	events.add(ev)
	return nil
}

// Detach clears both sides of the link. An unlinked card is returned as is.
func (s *CardService) Detach(ctx context.Context, owner uint, cardID uint) (*models.CreditCard, error) {
	return s.unlink(ctx, owner, cardID, false)
}

// Delete unlinks and soft-deletes the card. Its number stays reserved.
func (s *CardService) Delete(ctx context.Context, owner uint, cardID uint) error {
	_, err := s.unlink(ctx, owner, cardID, true)
	return err
}

func (s *CardService) unlink(ctx context.Context, owner uint, cardID uint, remove bool) (*models.CreditCard, error) {
	var (
		card   *models.CreditCard
		events outbox
	)
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		card, err = lockCard(ctx, tx, cardID)
		if err != nil {
			return err
		}
		now := s.now()

		acc, err := linkedAccount(ctx, tx, card)
		if err != nil {
			return err
		}
		if owner != 0 && acc == nil {
			return bank.Errorf(bank.KindForbidden, "credit card %d does not belong to this client", cardID)
		}
		if acc != nil {
			if err := checkOwner(acc, owner); err != nil {
				return err
			}
			acc.CreditCardID = nil
			acc.Stamp(now)
			if err := tx.Accounts().Save(ctx, acc); err != nil {
				return err
			}
			ev, err := accountEvent(ctx, tx, acc, notify.TypeUpdate, now)
			if err != nil {
				return err
			}
			events.add(ev)
		}

		card.BankAccountID = nil
		if remove {
			card.MarkDeleted(now)
		} else {
			card.Stamp(now)
		}
		return tx.Cards().Save(ctx, card)
	})
	if err != nil {
		return nil, err
	}
	events.flush(s.notifier)
	return card, nil
}

// linkedAccount locks the account the card points at. A dangling reference
// yields nil.
func linkedAccount(ctx context.Context, tx repository.Store, card *models.CreditCard) (*models.BankAccount, error) {
	if card.BankAccountID == nil {
		return nil, nil
	}
	acc, err := tx.Accounts().FindByID(ctx, *card.BankAccountID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return tx.Accounts().LockByIBAN(ctx, acc.IBAN)
}

func (s *CardService) UpdatePin(ctx context.Context, owner uint, cardID uint, pin string) (*models.CreditCard, error) {
	if !bank.ValidPIN(pin) {
		return nil, bank.Errorf(bank.KindInvalidCreditCard, "pin must be 4 digits")
	}
	pinHash, err := s.hash(pin)
	if err != nil {
		return nil, fmt.Errorf("hash pin: %w", err)
	}

	var card *models.CreditCard
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		card, err = lockCard(ctx, tx, cardID)
		if err != nil {
			return err
		}
		if owner != 0 {
			acc, err := linkedAccount(ctx, tx, card)
			if err != nil {
				return err
			}
			if acc == nil {
				return bank.Errorf(bank.KindForbidden, "credit card %d does not belong to this client", cardID)
			}
			if err := checkOwner(acc, owner); err != nil {
				return err
			}
		}
		card.PinHash = pinHash
		card.Stamp(s.now())
		return tx.Cards().Save(ctx, card)
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

func (s *CardService) Get(ctx context.Context, id uint) (*models.CreditCard, error) {
	card, err := s.store.Cards().FindByID(ctx, id)
	if err != nil {
		return nil, ensure(err, bank.KindCreditCardNotFound, "credit card %d not found", id)
	}
	return card, nil
}

// List filters by exact MM/YY expiry when one is given.
func (s *CardService) List(ctx context.Context, f repository.CardFilter, p repository.Page) (repository.PageResult[models.CreditCard], error) {
	if f.ExpirationDate != "" {
		if _, err := bank.ParseExpiry(f.ExpirationDate); err != nil {
			return repository.PageResult[models.CreditCard]{}, bank.Errorf(bank.KindInvalidRequest, "%s", err.Error())
		}
	}
	return s.store.Cards().List(ctx, f, p)
}

func lockCard(ctx context.Context, tx repository.Store, id uint) (*models.CreditCard, error) {
	card, err := tx.Cards().LockByID(ctx, id)
	if err != nil {
		return nil, ensure(err, bank.KindCreditCardNotFound, "credit card %d not found", id)
	}
	return card, nil
}

func checkOwner(acc *models.BankAccount, owner uint) error {
	if owner != 0 && acc.ClientID != owner {
		return bank.Errorf(bank.KindForbidden, "bank account %s does not belong to this client", acc.IBAN)
	}
	return nil
}
