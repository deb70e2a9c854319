package repository

import (
	"context"
	"errors"

	"vivesbank/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is a zero-based page request. Size <= 0 means unpaged.
type Page struct {
	Number int
	Size   int
}

// NewPage clamps user input to sane bounds.
func NewPage(number, size int) Page {
	if number < 0 {
		number = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

func (p Page) Paged() bool { return p.Size > 0 }

func (p Page) Offset() int { return p.Number * p.Size }

type PageResult[T any] struct {
	Items []T
	Total int64
	Page  Page
}

func (r PageResult[T]) TotalPages() int {
	if !r.Page.Paged() {
		return 1
	}
	return int((r.Total + int64(r.Page.Size) - 1) / int64(r.Page.Size))
}

// window slices items already filtered and ordered in memory.
func window[T any](items []T, p Page) PageResult[T] {
	res := PageResult[T]{Total: int64(len(items)), Page: p}
	if !p.Paged() {
		res.Items = items
		return res
	}
	start := p.Offset()
	if start >= len(items) {
		res.Items = []T{}
		return res
	}
	end := start + p.Size
	if end > len(items) {
		end = len(items)
	}
	res.Items = items[start:end]
	return res
}

type AccountFilter struct {
	ClientID    uint
	AccountType models.AccountType
}

type CardFilter struct {
	ExpirationDate string
}

type ClientFilter struct {
	Name     string
	Surname  string
	City     string
	Province string
}

type ProductFilter struct {
	Type models.ProductType
}

// Side selects which end of a movement a client filter matches.
type Side int

const (
	SideAny Side = iota
	SideSent
	SideReceived
)

type MovementFilter struct {
	ClientID string
	Side     Side
	IBAN     string
	Type     string
}

// Soft-deleted rows are invisible to every finder except the Exists* checks,
// which guard uniqueness across the whole table.

type AccountRepository interface {
	Create(ctx context.Context, a *models.BankAccount) error
	Save(ctx context.Context, a *models.BankAccount) error
	FindByID(ctx context.Context, id uint) (*models.BankAccount, error)
	FindByIBAN(ctx context.Context, iban string) (*models.BankAccount, error)
	// LockByIBAN loads the account and holds its row lock until the
	// surrounding transaction ends.
	LockByIBAN(ctx context.Context, iban string) (*models.BankAccount, error)
	ExistsIBAN(ctx context.Context, iban string) (bool, error)
	List(ctx context.Context, f AccountFilter, p Page) (PageResult[models.BankAccount], error)
}

type CardRepository interface {
	Create(ctx context.Context, c *models.CreditCard) error
	Save(ctx context.Context, c *models.CreditCard) error
	FindByID(ctx context.Context, id uint) (*models.CreditCard, error)
	LockByID(ctx context.Context, id uint) (*models.CreditCard, error)
	ExistsNumber(ctx context.Context, number string) (bool, error)
	List(ctx context.Context, f CardFilter, p Page) (PageResult[models.CreditCard], error)
}

type MovementRepository interface {
	Create(ctx context.Context, m *models.Movement) error
	Save(ctx context.Context, m *models.Movement) error
	FindByID(ctx context.Context, id string) (*models.Movement, error)
	LockByID(ctx context.Context, id string) (*models.Movement, error)
	// List orders by date, newest first.
	List(ctx context.Context, f MovementFilter, p Page) (PageResult[models.Movement], error)
}

type ClientRepository interface {
	Create(ctx context.Context, c *models.Client) error
	Save(ctx context.Context, c *models.Client) error
	FindByID(ctx context.Context, id uint) (*models.Client, error)
	FindByGUUID(ctx context.Context, guuid string) (*models.Client, error)
	FindByUserID(ctx context.Context, userID uint) (*models.Client, error)
	FindByDNI(ctx context.Context, dni string) (*models.Client, error)
	ExistsDNI(ctx context.Context, dni string) (bool, error)
	List(ctx context.Context, f ClientFilter, p Page) (PageResult[models.Client], error)
}

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	Save(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByGUUID(ctx context.Context, guuid string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsUsername(ctx context.Context, username string) (bool, error)
	List(ctx context.Context, p Page) (PageResult[models.User], error)
}

type ProductRepository interface {
	Create(ctx context.Context, p *models.Product) error
	Save(ctx context.Context, p *models.Product) error
	FindByID(ctx context.Context, id uint) (*models.Product, error)
	ExistsSpecification(ctx context.Context, spec string) (bool, error)
	List(ctx context.Context, f ProductFilter, p Page) (PageResult[models.Product], error)
}

// Store hands out repositories bound either to the connection pool or to a
// running transaction.
type Store interface {
	Accounts() AccountRepository
	Cards() CardRepository
	Movements() MovementRepository
	Clients() ClientRepository
	Users() UserRepository
	Products() ProductRepository

	// Transaction runs fn against a transactional Store. A non-nil error from
	// fn rolls back every write made through tx.
	Transaction(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}
