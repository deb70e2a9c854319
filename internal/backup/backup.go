// Package backup exports the bank's records as JSON documents.
package backup

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"vivesbank/internal/models"
	"vivesbank/internal/repository"
)

// Archive entry names, one JSON array per entity.
const (
	UsersFile     = "users.json"
	ClientsFile   = "clients.json"
	AccountsFile  = "bankAccounts.json"
	CardsFile     = "creditCards.json"
	ProductsFile  = "products.json"
	MovementsFile = "movements.json"
)

// Snapshot holds every active record. Password and PIN hashes never leave
// the store: their JSON tags drop them.
type Snapshot struct {
	Users     []models.User
	Clients   []models.Client
	Accounts  []models.BankAccount
	Cards     []models.CreditCard
	Products  []models.Product
	Movements []models.Movement
}

type Exporter struct {
	store repository.Store
	now   func() time.Time
}

func NewExporter(store repository.Store) *Exporter {
	return &Exporter{store: store, now: time.Now}
}

// Snapshot reads every entity inside one store transaction.
func (e *Exporter) Snapshot(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	err := e.store.Transaction(ctx, func(tx repository.Store) error {
		all := repository.Page{}
		users, err := tx.Users().List(ctx, all)
		if err != nil {
			return fmt.Errorf("users: %w", err)
		}
		clients, err := tx.Clients().List(ctx, repository.ClientFilter{}, all)
		if err != nil {
			return fmt.Errorf("clients: %w", err)
		}
		accounts, err := tx.Accounts().List(ctx, repository.AccountFilter{}, all)
		if err != nil {
			return fmt.Errorf("bank accounts: %w", err)
		}
		cards, err := tx.Cards().List(ctx, repository.CardFilter{}, all)
		if err != nil {
			return fmt.Errorf("credit cards: %w", err)
		}
		products, err := tx.Products().List(ctx, repository.ProductFilter{}, all)
		if err != nil {
			return fmt.Errorf("products: %w", err)
		}
		movements, err := tx.Movements().List(ctx, repository.MovementFilter{}, all)
		if err != nil {
			return fmt.Errorf("movements: %w", err)
		}
		snap = Snapshot{
			Users:     nonNil(users.Items),
			Clients:   nonNil(clients.Items),
			Accounts:  nonNil(accounts.Items),
			Cards:     nonNil(cards.Items),
			Products:  nonNil(products.Items),
			Movements: nonNil(movements.Items),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// WriteArchive writes a zip holding one JSON document per entity.
func (e *Exporter) WriteArchive(ctx context.Context, w io.Writer) error {
	snap, err := e.Snapshot(ctx)
	if err != nil {
		return err
	}
	now := e.now()
	zw := zip.NewWriter(w)
	entries := []struct {
		name string
		data any
	}{
		{UsersFile, snap.Users},
		{ClientsFile, snap.Clients},
		{AccountsFile, snap.Accounts},
		{CardsFile, snap.Cards},
		{ProductsFile, snap.Products},
		{MovementsFile, snap.Movements},
	}
	for _, entry := range entries {
		f, err := zw.CreateHeader(&zip.FileHeader{Name: entry.name, Method: zip.Deflate, Modified: now})
		if err != nil {
			return err
		}
		if err := writeJSON(f, entry.data); err != nil {
			return fmt.Errorf("%s: %w", entry.name, err)
		}
	}
	return zw.Close()
}

// WriteMovements writes the whole ledger as one JSON array, newest first.
func (e *Exporter) WriteMovements(ctx context.Context, w io.Writer) error {
	res, err := e.store.Movements().List(ctx, repository.MovementFilter{}, repository.Page{})
	if err != nil {
		return err
	}
	return writeJSON(w, nonNil(res.Items))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
