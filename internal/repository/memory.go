package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"vivesbank/internal/models"
)

// MemoryStore keeps every table in maps. Transactions are serialised by a
// single mutex and roll back by restoring a snapshot taken on entry, which
// gives the same outcome as row locks for the workloads the services run.
type MemoryStore struct {
	mu   *sync.Mutex
	st   *memState
	inTx bool
}

type memState struct {
	accounts  map[uint]models.BankAccount
	cards     map[uint]models.CreditCard
	movements map[string]models.Movement
	clients   map[uint]models.Client
	users     map[uint]models.User
	products  map[uint]models.Product
	seq       uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mu: &sync.Mutex{},
		st: &memState{
			accounts:  map[uint]models.BankAccount{},
			cards:     map[uint]models.CreditCard{},
			movements: map[string]models.Movement{},
			clients:   map[uint]models.Client{},
			users:     map[uint]models.User{},
			products:  map[uint]models.Product{},
		},
	}
}

func (s *MemoryStore) Accounts() AccountRepository   { return memAccounts{s} }
func (s *MemoryStore) Cards() CardRepository         { return memCards{s} }
func (s *MemoryStore) Movements() MovementRepository { return memMovements{s} }
func (s *MemoryStore) Clients() ClientRepository     { return memClients{s} }
func (s *MemoryStore) Users() UserRepository         { return memUsers{s} }
func (s *MemoryStore) Products() ProductRepository   { return memProducts{s} }

func (s *MemoryStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(&MemoryStore{mu: s.mu, st: s.st, inTx: true}); err != nil {
		*s.st = *snapshot
		return err
	}
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

// lock guards a single call made outside a transaction.
func (s *MemoryStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (st *memState) nextID() uint {
	st.seq++
	return st.seq
}

func (st *memState) clone() *memState {
	c := &memState{
		accounts:  make(map[uint]models.BankAccount, len(st.accounts)),
		cards:     make(map[uint]models.CreditCard, len(st.cards)),
		movements: make(map[string]models.Movement, len(st.movements)),
		clients:   make(map[uint]models.Client, len(st.clients)),
		users:     make(map[uint]models.User, len(st.users)),
		products:  make(map[uint]models.Product, len(st.products)),
		seq:       st.seq,
	}
	for k, v := range st.accounts {
		c.accounts[k] = v
	}
	for k, v := range st.cards {
		c.cards[k] = v
	}
	for k, v := range st.movements {
		c.movements[k] = v
	}
	for k, v := range st.clients {
		c.clients[k] = v
	}
	for k, v := range st.users {
		c.users[k] = copyUser(v)
	}
	for k, v := range st.products {
		c.products[k] = v
	}
	return c
}

func copyUser(u models.User) models.User {
	u.Roles = append(models.StringArray(nil), u.Roles...)
	return u
}

func sortedByID[T any](m map[uint]T, keep func(T) bool) []T {
	ids := make([]uint, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := []T{}
	for _, id := range ids {
		if v := m[id]; keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func duplicate(field, value string) error {
	return fmt.Errorf("%w: %s %q", ErrDuplicate, field, value)
}

func like(field, filter string) bool {
	return filter == "" || strings.Contains(strings.ToLower(field), strings.ToLower(strings.TrimSpace(filter)))
}

func sameUint(a, b *uint) bool { return a != nil && b != nil && *a == *b }

type memAccounts struct{ s *MemoryStore }

func (r memAccounts) check(a *models.BankAccount) error {
	for id, o := range r.s.st.accounts {
		if id == a.ID {
			continue
		}
		if o.IBAN == a.IBAN {
			return duplicate("iban", a.IBAN)
		}
		if sameUint(o.CreditCardID, a.CreditCardID) {
			return duplicate("credit_card_id", fmt.Sprint(*a.CreditCardID))
		}
	}
	return nil
}

func (r memAccounts) Create(_ context.Context, a *models.BankAccount) error {
	defer r.s.lock()()
	a.ID = 0
	if err := r.check(a); err != nil {
		return err
	}
	a.ID = r.s.st.nextID()
	r.s.st.accounts[a.ID] = *a
	return nil
}

func (r memAccounts) Save(_ context.Context, a *models.BankAccount) error {
	defer r.s.lock()()
	if _, ok := r.s.st.accounts[a.ID]; !ok {
		return ErrNotFound
	}
	if err := r.check(a); err != nil {
		return err
	}
	r.s.st.accounts[a.ID] = *a
	return nil
}

func (r memAccounts) FindByID(_ context.Context, id uint) (*models.BankAccount, error) {
	defer r.s.lock()()
	a, ok := r.s.st.accounts[id]
	if !ok || !a.Active() {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (r memAccounts) FindByIBAN(_ context.Context, iban string) (*models.BankAccount, error) {
	defer r.s.lock()()
	for _, a := range r.s.st.accounts {
		if a.IBAN == iban && a.Active() {
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

func (r memAccounts) LockByIBAN(ctx context.Context, iban string) (*models.BankAccount, error) {
	return r.FindByIBAN(ctx, iban)
}

func (r memAccounts) ExistsIBAN(_ context.Context, iban string) (bool, error) {
	defer r.s.lock()()
	for _, a := range r.s.st.accounts {
		if a.IBAN == iban {
			return true, nil
		}
	}
	return false, nil
}

func (r memAccounts) List(_ context.Context, f AccountFilter, p Page) (PageResult[models.BankAccount], error) {
	defer r.s.lock()()
	items := sortedByID(r.s.st.accounts, func(a models.BankAccount) bool {
		return a.Active() &&
			(f.ClientID == 0 || a.ClientID == f.ClientID) &&
			(f.AccountType == "" || a.AccountType == f.AccountType)
	})
	return window(items, p), nil
}

type memCards struct{ s *MemoryStore }

func (r memCards) check(c *models.CreditCard) error {
	for id, o := range r.s.st.cards {
		if id == c.ID {
			continue
		}
		if o.Number == c.Number {
			return duplicate("number", c.Number)
		}
		if sameUint(o.BankAccountID, c.BankAccountID) {
			return duplicate("bank_account_id", fmt.Sprint(*c.BankAccountID))
		}
	}
	return nil
}

func (r memCards) Create(_ context.Context, c *models.CreditCard) error {
	defer r.s.lock()()
	c.ID = 0
	if err := r.check(c); err != nil {
		return err
	}
	c.ID = r.s.st.nextID()
	r.s.st.cards[c.ID] = *c
	return nil
}

func (r memCards) Save(_ context.Context, c *models.CreditCard) error {
	defer r.s.lock()()
	if _, ok := r.s.st.cards[c.ID]; !ok {
		return ErrNotFound
	}
	if err := r.check(c); err != nil {
		return err
	}
	r.s.st.cards[c.ID] = *c
	return nil
}

func (r memCards) FindByID(_ context.Context, id uint) (*models.CreditCard, error) {
	defer r.s.lock()()
	c, ok := r.s.st.cards[id]
	if !ok || !c.Active() {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r memCards) LockByID(ctx context.Context, id uint) (*models.CreditCard, error) {
	return r.FindByID(ctx, id)
}

func (r memCards) ExistsNumber(_ context.Context, number string) (bool, error) {
	defer r.s.lock()()
	for _, c := range r.s.st.cards {
		if c.Number == number {
			return true, nil
		}
	}
	return false, nil
}

func (r memCards) List(_ context.Context, f CardFilter, p Page) (PageResult[models.CreditCard], error) {
	defer r.s.lock()()
	items := sortedByID(r.s.st.cards, func(c models.CreditCard) bool {
		return c.Active() && (f.ExpirationDate == "" || c.ExpirationDate == f.ExpirationDate)
	})
	return window(items, p), nil
}

type memMovements struct{ s *MemoryStore }

func (r memMovements) Create(_ context.Context, m *models.Movement) error {
	defer r.s.lock()()
	if _, ok := r.s.st.movements[m.ID]; ok {
		return duplicate("id", m.ID)
	}
	r.s.st.movements[m.ID] = *m
	return nil
}

func (r memMovements) Save(_ context.Context, m *models.Movement) error {
	defer r.s.lock()()
	if _, ok := r.s.st.movements[m.ID]; !ok {
		return ErrNotFound
	}
	r.s.st.movements[m.ID] = *m
	return nil
}

func (r memMovements) FindByID(_ context.Context, id string) (*models.Movement, error) {
	defer r.s.lock()()
	m, ok := r.s.st.movements[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &m, nil
}

func (r memMovements) LockByID(ctx context.Context, id string) (*models.Movement, error) {
	return r.FindByID(ctx, id)
}

func (r memMovements) List(_ context.Context, f MovementFilter, p Page) (PageResult[models.Movement], error) {
	defer r.s.lock()()
	items := []models.Movement{}
	for _, m := range r.s.st.movements {
		if matchMovement(m, f) {
			items = append(items, m)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.After(items[j].Date)
		}
		return items[i].ID > items[j].ID
	})
	return window(items, p), nil
}

func matchMovement(m models.Movement, f MovementFilter) bool {
	if f.ClientID != "" {
		sent := m.SenderClientID == f.ClientID
		received := m.RecipientClientID != nil && *m.RecipientClientID == f.ClientID
		switch f.Side {
		case SideSent:
			if !sent {
				return false
			}
		case SideReceived:
			if !received {
				return false
			}
		default:
			if !sent && !received {
				return false
			}
		}
	}
	if f.IBAN != "" && m.OriginIBAN != f.IBAN && m.DestinationIBAN != f.IBAN {
		return false
	}
	return f.Type == "" || m.TypeMovement == f.Type
}

type memClients struct{ s *MemoryStore }

func (r memClients) check(c *models.Client) error {
	for id, o := range r.s.st.clients {
		if id == c.ID {
			continue
		}
		switch {
		case o.GUUID == c.GUUID:
			return duplicate("guuid", c.GUUID)
		case o.UserID == c.UserID:
			return duplicate("user_id", fmt.Sprint(c.UserID))
		case o.DNI == c.DNI:
			return duplicate("dni", c.DNI)
		}
	}
	return nil
}

func (r memClients) Create(_ context.Context, c *models.Client) error {
	defer r.s.lock()()
	c.ID = 0
	if err := r.check(c); err != nil {
		return err
	}
	c.ID = r.s.st.nextID()
	r.s.st.clients[c.ID] = *c
	return nil
}

func (r memClients) Save(_ context.Context, c *models.Client) error {
	defer r.s.lock()()
	if _, ok := r.s.st.clients[c.ID]; !ok {
		return ErrNotFound
	}
	if err := r.check(c); err != nil {
		return err
	}
	r.s.st.clients[c.ID] = *c
	return nil
}

func (r memClients) find(match func(models.Client) bool) (*models.Client, error) {
	defer r.s.lock()()
	for _, c := range r.s.st.clients {
		if c.Active() && match(c) {
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (r memClients) FindByID(_ context.Context, id uint) (*models.Client, error) {
	return r.find(func(c models.Client) bool { return c.ID == id })
}

func (r memClients) FindByGUUID(_ context.Context, guuid string) (*models.Client, error) {
	return r.find(func(c models.Client) bool { return c.GUUID == guuid })
}

func (r memClients) FindByUserID(_ context.Context, userID uint) (*models.Client, error) {
	return r.find(func(c models.Client) bool { return c.UserID == userID })
}

func (r memClients) FindByDNI(_ context.Context, dni string) (*models.Client, error) {
	return r.find(func(c models.Client) bool { return c.DNI == dni })
}

func (r memClients) ExistsDNI(_ context.Context, dni string) (bool, error) {
	defer r.s.lock()()
	for _, c := range r.s.st.clients {
		if c.DNI == dni {
			return true, nil
		}
	}
	return false, nil
}

func (r memClients) List(_ context.Context, f ClientFilter, p Page) (PageResult[models.Client], error) {
	defer r.s.lock()()
	items := sortedByID(r.s.st.clients, func(c models.Client) bool {
		return c.Active() &&
			like(c.Name, f.Name) &&
			like(c.Surname, f.Surname) &&
			like(c.Address.City, f.City) &&
			like(c.Address.Province, f.Province)
	})
	return window(items, p), nil
}

type memUsers struct{ s *MemoryStore }

func (r memUsers) check(u *models.User) error {
	for id, o := range r.s.st.users {
		if id == u.ID {
			continue
		}
		if o.GUUID == u.GUUID {
			return duplicate("guuid", u.GUUID)
		}
		if o.Username == u.Username {
			return duplicate("username", u.Username)
		}
	}
	return nil
}

func (r memUsers) Create(_ context.Context, u *models.User) error {
	defer r.s.lock()()
	u.ID = 0
	if err := r.check(u); err != nil {
		return err
	}
	u.ID = r.s.st.nextID()
	r.s.st.users[u.ID] = copyUser(*u)
	return nil
}

func (r memUsers) Save(_ context.Context, u *models.User) error {
	defer r.s.lock()()
	if _, ok := r.s.st.users[u.ID]; !ok {
		return ErrNotFound
	}
	if err := r.check(u); err != nil {
		return err
	}
	r.s.st.users[u.ID] = copyUser(*u)
	return nil
}

func (r memUsers) find(match func(models.User) bool) (*models.User, error) {
	defer r.s.lock()()
	for _, u := range r.s.st.users {
		if u.Active() && match(u) {
			out := copyUser(u)
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r memUsers) FindByID(_ context.Context, id uint) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id })
}

func (r memUsers) FindByGUUID(_ context.Context, guuid string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.GUUID == guuid })
}

func (r memUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == username })
}

func (r memUsers) ExistsUsername(_ context.Context, username string) (bool, error) {
	defer r.s.lock()()
	for _, u := range r.s.st.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r memUsers) List(_ context.Context, p Page) (PageResult[models.User], error) {
	defer r.s.lock()()
	items := sortedByID(r.s.st.users, func(u models.User) bool { return u.Active() })
	for i := range items {
		items[i] = copyUser(items[i])
	}
	return window(items, p), nil
}

type memProducts struct{ s *MemoryStore }

func (r memProducts) check(p *models.Product) error {
	for id, o := range r.s.st.products {
		if id != p.ID && o.Specification == p.Specification {
			return duplicate("specification", p.Specification)
		}
	}
	return nil
}

func (r memProducts) Create(_ context.Context, p *models.Product) error {
	defer r.s.lock()()
	p.ID = 0
	if err := r.check(p); err != nil {
		return err
	}
	p.ID = r.s.st.nextID()
	r.s.st.products[p.ID] = *p
	return nil
}

func (r memProducts) Save(_ context.Context, p *models.Product) error {
	defer r.s.lock()()
	if _, ok := r.s.st.products[p.ID]; !ok {
		return ErrNotFound
	}
	if err := r.check(p); err != nil {
		return err
	}
	r.s.st.products[p.ID] = *p
	return nil
}

func (r memProducts) FindByID(_ context.Context, id uint) (*models.Product, error) {
	defer r.s.lock()()
	p, ok := r.s.st.products[id]
	if !ok || !p.Active() {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r memProducts) ExistsSpecification(_ context.Context, spec string) (bool, error) {
	defer r.s.lock()()
	for _, p := range r.s.st.products {
		if p.Specification == spec {
			return true, nil
		}
	}
	return false, nil
}

func (r memProducts) List(_ context.Context, f ProductFilter, p Page) (PageResult[models.Product], error) {
	defer r.s.lock()()
	items := sortedByID(r.s.st.products, func(pr models.Product) bool {
		return pr.Active() && (f.Type == "" || pr.Type == f.Type)
	})
	return window(items, p), nil
}
