// Package service holds the business operations. Every write runs inside one
// store transaction; notifications go out only after commit.
package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"vivesbank/internal/bank"
	"vivesbank/internal/mapper"
	"vivesbank/internal/models"
	"vivesbank/internal/notify"
	"vivesbank/internal/repository"
)

// ensure maps a storage miss to the given domain kind and passes every other
// error through unchanged.
func ensure(err error, kind bank.Kind, format string, args ...any) error {
	if errors.Is(err, repository.ErrNotFound) {
		return bank.Errorf(kind, format, args...)
	}
	return err
}

// lockAccounts row-locks the given IBANs in ascending order so concurrent
// writers touching the same pair cannot deadlock. Duplicates are locked once.
func lockAccounts(ctx context.Context, tx repository.Store, ibans ...string) (map[string]*models.BankAccount, error) {
	ordered := append([]string(nil), ibans...)
	sort.Strings(ordered)

	out := make(map[string]*models.BankAccount, len(ordered))
	for _, iban := range ordered {
		if _, ok := out[iban]; ok {
			continue
		}
		acc, err := tx.Accounts().LockByIBAN(ctx, iban)
		if err != nil {
			return nil, ensure(err, bank.KindAccountNotFound, "bank account %s not found", iban)
		}
		out[iban] = acc
	}
	return out, nil
}

// outbox collects notifications during a transaction.
type outbox []notify.Notification

func (o *outbox) add(n notify.Notification) { *o = append(*o, n) }

func (o outbox) flush(n notify.Notifier) {
	for _, msg := range o {
		n.Publish(msg)
	}
}

// ownerGUUID resolves the user behind a client id. Missing rows yield "".
func ownerGUUID(ctx context.Context, tx repository.Store, clientID uint) (string, error) {
	client, err := tx.Clients().FindByID(ctx, clientID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil
	} else if err != nil {
		return "", err
	}
	user, err := tx.Users().FindByID(ctx, client.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil
	} else if err != nil {
		return "", err
	}
	return user.GUUID, nil
}

// accountEvent loads what the account notification needs inside tx.
func accountEvent(ctx context.Context, tx repository.Store, acc *models.BankAccount, typ notify.Type, now time.Time) (notify.Notification, error) {
	var card *models.CreditCard
	if acc.CreditCardID != nil {
		c, err := tx.Cards().FindByID(ctx, *acc.CreditCardID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return notify.Notification{}, err
		}
		card = c
	}
	owner, err := ownerGUUID(ctx, tx, acc.ClientID)
	if err != nil {
		return notify.Notification{}, err
	}
	return notify.Notification{
		Entity:    notify.EntityBankAccount,
		Type:      typ,
		Data:      mapper.AccountToNotification(acc, card),
		CreatedAt: now,
		Recipient: owner,
	}, nil
}
