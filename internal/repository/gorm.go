package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vivesbank/internal/models"
)

const pgUniqueViolation = "23505"

// GormStore is the postgres-backed Store.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Accounts() AccountRepository   { return gormAccounts{s.db} }
func (s *GormStore) Cards() CardRepository         { return gormCards{s.db} }
func (s *GormStore) Movements() MovementRepository { return gormMovements{s.db} }
func (s *GormStore) Clients() ClientRepository     { return gormClients{s.db} }
func (s *GormStore) Users() UserRepository         { return gormUsers{s.db} }
func (s *GormStore) Products() ProductRepository   { return gormProducts{s.db} }

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}

func active(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", models.StatusActive)
}

func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func first[T any](q *gorm.DB) (*T, error) {
	var out T
	if err := q.First(&out).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func exists[T any](q *gorm.DB) (bool, error) {
	var n int64
	if err := q.Model(new(T)).Count(&n).Error; err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}

func paginate[T any](q *gorm.DB, order string, p Page) (PageResult[T], error) {
	q = q.Model(new(T)).Session(&gorm.Session{})
	res := PageResult[T]{Page: p}
	if err := q.Count(&res.Total).Error; err != nil {
		return res, translate(err)
	}
	q = q.Order(order)
	if p.Paged() {
		q = q.Offset(p.Offset()).Limit(p.Size)
	}
	items := []T{}
	if err := q.Find(&items).Error; err != nil {
		return res, translate(err)
	}
	res.Items = items
	return res, nil
}

func contains(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

type gormAccounts struct{ db *gorm.DB }

func (r gormAccounts) Create(ctx context.Context, a *models.BankAccount) error {
	return translate(r.db.WithContext(ctx).Create(a).Error)
}

func (r gormAccounts) Save(ctx context.Context, a *models.BankAccount) error {
	return translate(r.db.WithContext(ctx).Save(a).Error)
}

func (r gormAccounts) FindByID(ctx context.Context, id uint) (*models.BankAccount, error) {
	return first[models.BankAccount](active(r.db.WithContext(ctx)).Where("id = ?", id))
}

func (r gormAccounts) FindByIBAN(ctx context.Context, iban string) (*models.BankAccount, error) {
	return first[models.BankAccount](active(r.db.WithContext(ctx)).Where("iban = ?", iban))
}

func (r gormAccounts) LockByIBAN(ctx context.Context, iban string) (*models.BankAccount, error) {
	return first[models.BankAccount](forUpdate(active(r.db.WithContext(ctx))).Where("iban = ?", iban))
}

func (r gormAccounts) ExistsIBAN(ctx context.Context, iban string) (bool, error) {
	return exists[models.BankAccount](r.db.WithContext(ctx).Where("iban = ?", iban))
}

func (r gormAccounts) List(ctx context.Context, f AccountFilter, p Page) (PageResult[models.BankAccount], error) {
	q := active(r.db.WithContext(ctx))
	if f.ClientID != 0 {
		q = q.Where("client_id = ?", f.ClientID)
	}
	if f.AccountType != "" {
		q = q.Where("account_type = ?", f.AccountType)
	}
	return paginate[models.BankAccount](q, "id asc", p)
}

type gormCards struct{ db *gorm.DB }

func (r gormCards) Create(ctx context.Context, c *models.CreditCard) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r gormCards) Save(ctx context.Context, c *models.CreditCard) error {
	return translate(r.db.WithContext(ctx).Save(c).Error)
}

func (r gormCards) FindByID(ctx context.Context, id uint) (*models.CreditCard, error) {
	return first[models.CreditCard](active(r.db.WithContext(ctx)).Where("id = ?", id))
}

func (r gormCards) LockByID(ctx context.Context, id uint) (*models.CreditCard, error) {
	return first[models.CreditCard](forUpdate(active(r.db.WithContext(ctx))).Where("id = ?", id))
}

func (r gormCards) ExistsNumber(ctx context.Context, number string) (bool, error) {
	return exists[models.CreditCard](r.db.WithContext(ctx).Where("number = ?", number))
}

func (r gormCards) List(ctx context.Context, f CardFilter, p Page) (PageResult[models.CreditCard], error) {
	q := active(r.db.WithContext(ctx))
	if f.ExpirationDate != "" {
		q = q.Where("expiration_date = ?", f.ExpirationDate)
	}
	return paginate[models.CreditCard](q, "id asc", p)
}

type gormMovements struct{ db *gorm.DB }

func (r gormMovements) Create(ctx context.Context, m *models.Movement) error {
	return translate(r.db.WithContext(ctx).Create(m).Error)
}

func (r gormMovements) Save(ctx context.Context, m *models.Movement) error {
	return translate(r.db.WithContext(ctx).Save(m).Error)
}

func (r gormMovements) FindByID(ctx context.Context, id string) (*models.Movement, error) {
	return first[models.Movement](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r gormMovements) LockByID(ctx context.Context, id string) (*models.Movement, error) {
	return first[models.Movement](forUpdate(r.db.WithContext(ctx)).Where("id = ?", id))
}

func (r gormMovements) List(ctx context.Context, f MovementFilter, p Page) (PageResult[models.Movement], error) {
	q := r.db.WithContext(ctx)
	if f.ClientID != "" {
		switch f.Side {
		case SideSent:
			q = q.Where("sender_client_id = ?", f.ClientID)
		case SideReceived:
			q = q.Where("recipient_client_id = ?", f.ClientID)
		default:
			q = q.Where("(sender_client_id = ? OR recipient_client_id = ?)", f.ClientID, f.ClientID)
		}
	}
	if f.IBAN != "" {
		q = q.Where("(origin_iban = ? OR destination_iban = ?)", f.IBAN, f.IBAN)
	}
	if f.Type != "" {
		q = q.Where("type_movement = ?", f.Type)
	}
	return paginate[models.Movement](q, "date desc, id desc", p)
}

type gormClients struct{ db *gorm.DB }

func (r gormClients) Create(ctx context.Context, c *models.Client) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r gormClients) Save(ctx context.Context, c *models.Client) error {
	return translate(r.db.WithContext(ctx).Save(c).Error)
}

func (r gormClients) FindByID(ctx context.Context, id uint) (*models.Client, error) {
	return first[models.Client](active(r.db.WithContext(ctx)).Where("id = ?", id))
}

func (r gormClients) FindByGUUID(ctx context.Context, guuid string) (*models.Client, error) {
	return first[models.Client](active(r.db.WithContext(ctx)).Where("guuid = ?", guuid))
}

func (r gormClients) FindByUserID(ctx context.Context, userID uint) (*models.Client, error) {
	return first[models.Client](active(r.db.WithContext(ctx)).Where("user_id = ?", userID))
}

func (r gormClients) FindByDNI(ctx context.Context, dni string) (*models.Client, error) {
	return first[models.Client](active(r.db.WithContext(ctx)).Where("dni = ?", dni))
}

func (r gormClients) ExistsDNI(ctx context.Context, dni string) (bool, error) {
	return exists[models.Client](r.db.WithContext(ctx).Where("dni = ?", dni))
}

func (r gormClients) List(ctx context.Context, f ClientFilter, p Page) (PageResult[models.Client], error) {
	q := active(r.db.WithContext(ctx))
	if f.Name != "" {
		q = q.Where("LOWER(name) LIKE ?", contains(f.Name))
	}
	if f.Surname != "" {
		q = q.Where("LOWER(surname) LIKE ?", contains(f.Surname))
	}
	if f.City != "" {
		q = q.Where("LOWER(address_city) LIKE ?", contains(f.City))
	}
	if f.Province != "" {
		q = q.Where("LOWER(address_province) LIKE ?", contains(f.Province))
	}
	return paginate[models.Client](q, "id asc", p)
}

type gormUsers struct{ db *gorm.DB }

func (r gormUsers) Create(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r gormUsers) Save(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Save(u).Error)
}

func (r gormUsers) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return first[models.User](active(r.db.WithContext(ctx)).Where("id = ?", id))
}

func (r gormUsers) FindByGUUID(ctx context.Context, guuid string) (*models.User, error) {
	return first[models.User](active(r.db.WithContext(ctx)).Where("guuid = ?", guuid))
}

func (r gormUsers) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return first[models.User](active(r.db.WithContext(ctx)).Where("username = ?", username))
}

func (r gormUsers) ExistsUsername(ctx context.Context, username string) (bool, error) {
	return exists[models.User](r.db.WithContext(ctx).Where("username = ?", username))
}

func (r gormUsers) List(ctx context.Context, p Page) (PageResult[models.User], error) {
	return paginate[models.User](active(r.db.WithContext(ctx)), "id asc", p)
}

type gormProducts struct{ db *gorm.DB }

func (r gormProducts) Create(ctx context.Context, p *models.Product) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r gormProducts) Save(ctx context.Context, p *models.Product) error {
	return translate(r.db.WithContext(ctx).Save(p).Error)
}

func (r gormProducts) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	return first[models.Product](active(r.db.WithContext(ctx)).Where("id = ?", id))
}

func (r gormProducts) ExistsSpecification(ctx context.Context, spec string) (bool, error) {
	return exists[models.Product](r.db.WithContext(ctx).Where("specification = ?", spec))
}

func (r gormProducts) List(ctx context.Context, f ProductFilter, p Page) (PageResult[models.Product], error) {
	q := active(r.db.WithContext(ctx))
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	return paginate[models.Product](q, "id asc", p)
}
