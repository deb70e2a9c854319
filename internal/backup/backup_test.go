package backup

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vivesbank/internal/models"
	"vivesbank/internal/repository"
)

var now = time.Date(2026, time.October, 16, 10, 0, 0, 0, time.UTC)

func seed(t *testing.T) *repository.MemoryStore {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemoryStore()

	user := &models.User{GUUID: uuid.NewString(), Username: "ana@vives.es", PasswordHash: "secret-hash", Roles: models.StringArray{"USER", "CLIENT"}}
	user.Stamp(now)
	require.NoError(t, store.Users().Create(ctx, user))

	client := &models.Client{GUUID: uuid.NewString(), UserID: user.ID, DNI: "12345678Z", Name: "Ana"}
	client.Stamp(now)
	require.NoError(t, store.Clients().Create(ctx, client))

	acc := &models.BankAccount{IBAN: "ES7100302053091234567895", AccountType: models.AccountStandard, Balance: decimal.NewFromInt(60), ClientID: client.ID}
	acc.Stamp(now)
	require.NoError(t, store.Accounts().Create(ctx, acc))

	card := &models.CreditCard{Number: "4539578763621486", CVV: "123", PinHash: "pin-hash", ExpirationDate: "12/29"}
	card.Stamp(now)
	require.NoError(t, store.Cards().Create(ctx, card))

	p := &models.Product{Type: models.ProductBankAccount, Specification: "STANDARD", TAE: decimal.Zero}
	p.Stamp(now)
	require.NoError(t, store.Products().Create(ctx, p))

	for i, id := range []string{"01JAFIRST00000000000000000", "01JASECOND0000000000000000"} {
		m := &models.Movement{
			ID: id, SenderClientID: client.GUUID, OriginIBAN: acc.IBAN, DestinationIBAN: acc.IBAN,
			TypeMovement: "DEPOSIT", Amount: decimal.NewFromInt(30), Date: now.Add(time.Duration(i) * time.Minute), IsReversible: true,
		}
		require.NoError(t, store.Movements().Create(ctx, m))
	}
	return store
}

func entries(t *testing.T, raw []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	require.NoError(t, err)
	out := map[string][]byte{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		out[f.Name] = b
	}
	return out
}

func TestWriteArchive(t *testing.T) {
	e := NewExporter(seed(t))
	e.now = func() time.Time { return now }

	var buf bytes.Buffer
	require.NoError(t, e.WriteArchive(context.Background(), &buf))

	files := entries(t, buf.Bytes())
	require.Len(t, files, 6)
	for _, name := range []string{UsersFile, ClientsFile, AccountsFile, CardsFile, ProductsFile, MovementsFile} {
		require.Contains(t, files, name)
	}

	var users []models.User
	require.NoError(t, json.Unmarshal(files[UsersFile], &users))
	require.Len(t, users, 1)
	assert.Equal(t, "ana@vives.es", users[0].Username)
	assert.NotContains(t, string(files[UsersFile]), "secret-hash")
	assert.NotContains(t, string(files[CardsFile]), "pin-hash")

	var accounts []models.BankAccount
	require.NoError(t, json.Unmarshal(files[AccountsFile], &accounts))
	require.Len(t, accounts, 1)
	assert.True(t, decimal.NewFromInt(60).Equal(accounts[0].Balance))

	var movements []models.Movement
	require.NoError(t, json.Unmarshal(files[MovementsFile], &movements))
	assert.Len(t, movements, 2)
}

func TestWriteArchiveEmptyStore(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewExporter(repository.NewMemoryStore()).WriteArchive(context.Background(), &buf))

	for name, body := range entries(t, buf.Bytes()) {
		assert.JSONEq(t, "[]", string(body), name)
	}
}

func TestWriteMovements(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewExporter(seed(t)).WriteMovements(context.Background(), &buf))

	var movements []models.Movement
	require.NoError(t, json.Unmarshal(buf.Bytes(), &movements))
	require.Len(t, movements, 2)
	assert.Equal(t, "01JASECOND0000000000000000", movements[0].ID)
	assert.Equal(t, "01JAFIRST00000000000000000", movements[1].ID)
}
