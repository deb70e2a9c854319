package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vivesbank/internal/bank"
	"vivesbank/internal/models"
	"vivesbank/internal/notify"
	"vivesbank/internal/repository"
)

const ibanAttempts = 10

type AccountService struct {
	store    repository.Store
	notifier notify.Notifier
	now      func() time.Time
	newIBAN  func() string
}

func NewAccountService(store repository.Store, notifier notify.Notifier) *AccountService {
	return &AccountService{store: store, notifier: notifier, now: time.Now, newIBAN: bank.NewIBAN}
}

// Create opens an empty account for the client under a fresh unique IBAN.
func (s *AccountService) Create(ctx context.Context, clientID uint, accountType models.AccountType) (*models.BankAccount, error) {
	if !accountType.Valid() {
		return nil, bank.Errorf(bank.KindInvalidRequest, "unknown account type %q", accountType)
	}
	if _, err := s.store.Clients().FindByID(ctx, clientID); err != nil {
		return nil, ensure(err, bank.KindClientNotFound, "client %d not found", clientID)
	}

	for i := 0; i < ibanAttempts; i++ {
		iban := s.newIBAN()
		taken, err := s.store.Accounts().ExistsIBAN(ctx, iban)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}

		acc := &models.BankAccount{IBAN: iban, AccountType: accountType, ClientID: clientID}
		var events outbox
		err = s.store.Transaction(ctx, func(tx repository.Store) error {
			now := s.now()
			acc.Stamp(now)
			if err := tx.Accounts().Create(ctx, acc); err != nil {
				return err
			}
			ev, err := accountEvent(ctx, tx, acc, notify.TypeCreate, now)
			if err != nil {
				return err
			}
			events.add(ev)
			return nil
		})
		if errors.Is(err, repository.ErrDuplicate) {
			continue
		}
		if err != nil {
			return nil, err
		}
		events.flush(s.notifier)
		return acc, nil
	}
	return nil, fmt.Errorf("could not allocate a unique IBAN after %d attempts", ibanAttempts)
}

func (s *AccountService) Get(ctx context.Context, id uint) (*models.BankAccount, error) {
	acc, err := s.store.Accounts().FindByID(ctx, id)
	if err != nil {
		return nil, ensure(err, bank.KindAccountNotFound, "bank account %d not found", id)
	}
	return acc, nil
}

func (s *AccountService) GetByIBAN(ctx context.Context, iban string) (*models.BankAccount, error) {
	acc, err := s.store.Accounts().FindByIBAN(ctx, iban)
	if err != nil {
		return nil, ensure(err, bank.KindAccountNotFound, "bank account %s not found", iban)
	}
	return acc, nil
}

func (s *AccountService) ListByClient(ctx context.Context, clientID uint) ([]models.BankAccount, error) {
	res, err := s.store.Accounts().List(ctx, repository.AccountFilter{ClientID: clientID}, repository.Page{})
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (s *AccountService) List(ctx context.Context, f repository.AccountFilter, p repository.Page) (repository.PageResult[models.BankAccount], error) {
	return s.store.Accounts().List(ctx, f, p)
}

// Delete soft-deletes an account. owner 0 skips the ownership check.
// Accounts with a linked card must have it removed first.
func (s *AccountService) Delete(ctx context.Context, owner uint, iban string) error {
	var events outbox
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		acc, err := tx.Accounts().LockByIBAN(ctx, iban)
		if err != nil {
			return ensure(err, bank.KindAccountNotFound, "bank account %s not found", iban)
		}
		if owner != 0 && acc.ClientID != owner {
			return bank.Errorf(bank.KindForbidden, "bank account %s does not belong to this client", iban)
		}
		if acc.CreditCardID != nil {
			return bank.Errorf(bank.KindAccountHasCreditCard, "bank account %s still has a credit card", iban)
		}
		now := s.now()
		acc.MarkDeleted(now)
		if err := tx.Accounts().Save(ctx, acc); err != nil {
			return err
		}
		ev, err := accountEvent(ctx, tx, acc, notify.TypeDelete, now)
		if err != nil {
			return err
		}
		events.add(ev)
		return nil
	})
	if err != nil {
		return err
	}
	events.flush(s.notifier)
	return nil
}
