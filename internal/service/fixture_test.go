package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"vivesbank/internal/models"
	"vivesbank/internal/notify"
	"vivesbank/internal/repository"
)

type recorder struct {
	mu  sync.Mutex
	got []notify.Notification
}

func (r *recorder) Publish(n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
}

func (r *recorder) count(entity notify.Entity) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, msg := range r.got {
		if msg.Entity == entity {
			n++
		}
	}
	return n
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = nil
}

type fixture struct {
	ctx   context.Context
	store *repository.MemoryStore
	rec   *recorder
	now   time.Time

	movements *MovementService
	accounts  *AccountService
	cards     *CardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ctx:   context.Background(),
		store: repository.NewMemoryStore(),
		rec:   &recorder{},
		now:   time.Date(2026, time.October, 16, 10, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }

	f.movements = NewMovementService(f.store, f.rec)
	f.movements.now = clock
	f.accounts = NewAccountService(f.store, f.rec)
	f.accounts.now = clock
	f.cards = NewCardService(f.store, f.rec)
	f.cards.now = clock
	f.cards.hash = func(pin string) (string, error) { return "hashed:" + pin, nil }
	return f
}

func (f *fixture) client(t *testing.T, name, dni string) *models.Client {
	t.Helper()
	user := &models.User{GUUID: uuid.NewString(), Username: dni + "@vives.test", Roles: models.StringArray{"USER", "CLIENT"}}
	user.Stamp(f.now)
	require.NoError(t, f.store.Users().Create(f.ctx, user))

	c := &models.Client{GUUID: uuid.NewString(), UserID: user.ID, DNI: dni, Name: name}
	c.Stamp(f.now)
	require.NoError(t, f.store.Clients().Create(f.ctx, c))
	return c
}

func (f *fixture) account(t *testing.T, owner *models.Client, iban string, balance int64) *models.BankAccount {
	t.Helper()
	a := &models.BankAccount{
		IBAN:        iban,
		AccountType: models.AccountStandard,
		Balance:     decimal.NewFromInt(balance),
		ClientID:    owner.ID,
	}
	a.Stamp(f.now)
	require.NoError(t, f.store.Accounts().Create(f.ctx, a))
	return a
}

func (f *fixture) balance(t *testing.T, iban string) string {
	t.Helper()
	a, err := f.store.Accounts().FindByIBAN(f.ctx, iban)
	require.NoError(t, err)
	return a.Balance.String()
}

func (f *fixture) movementCount(t *testing.T) int64 {
	t.Helper()
	res, err := f.store.Movements().List(f.ctx, repository.MovementFilter{}, repository.Page{})
	require.NoError(t, err)
	return res.Total
}

func amount(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
