package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"vivesbank/internal/auth"
	"vivesbank/internal/bank"
	"vivesbank/internal/models"
	"vivesbank/internal/repository"
)

const minPasswordLength = 8

type TokenIssuer interface {
	Generate(subject string, roles []string) (string, error)
	Parse(token string) (*auth.Claims, error)
}

type UserService struct {
	store  repository.Store
	tokens TokenIssuer
	now    func() time.Time
}

func NewUserService(store repository.Store, tokens TokenIssuer) *UserService {
	return &UserService{store: store, tokens: tokens, now: time.Now}
}

// SignUp creates a USER account and returns its token.
func (s *UserService) SignUp(ctx context.Context, username, password, check string) (string, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if _, err := mail.ParseAddress(username); err != nil {
		return "", bank.Errorf(bank.KindInvalidRequest, "username must be an email address")
	}
	if password != check {
		return "", bank.Errorf(bank.KindInvalidRequest, "passwords do not match")
	}
	if err := checkPassword(password); err != nil {
		return "", err
	}

	user, err := s.create(ctx, username, password, models.RoleUser)
	if err != nil {
		return "", err
	}
	return s.token(user)
}

func (s *UserService) SignIn(ctx context.Context, username, password string) (string, error) {
	user, err := s.store.Users().FindByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if errors.Is(err, repository.ErrNotFound) {
		return "", bank.Errorf(bank.KindInvalidCredentials, "invalid username or password")
	} else if err != nil {
		return "", err
	}
	if !auth.CheckSecret(user.PasswordHash, password) {
		return "", bank.Errorf(bank.KindInvalidCredentials, "invalid username or password")
	}
	return s.token(user)
}

// Authenticate resolves a bearer token to an active user.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, bank.Errorf(bank.KindInvalidCredentials, "invalid token")
	}
	user, err := s.store.Users().FindByGUUID(ctx, claims.Subject)
	if err != nil {
		return nil, ensure(err, bank.KindInvalidCredentials, "invalid token")
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap administrator when missing.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) (created bool, err error) {
	username = strings.ToLower(strings.TrimSpace(username))
	taken, err := s.store.Users().ExistsUsername(ctx, username)
	if err != nil || taken {
		return false, err
	}
	if _, err := s.create(ctx, username, password, models.RoleUser, models.RoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}

func (s *UserService) create(ctx context.Context, username, password string, roles ...models.Role) (*models.User, error) {
	taken, err := s.store.Users().ExistsUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, bank.Errorf(bank.KindUserExists, "user %s already exists", username)
	}
	hash, err := auth.HashSecret(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{GUUID: uuid.NewString(), Username: username, PasswordHash: hash}
	for _, r := range roles {
		user.Grant(r)
	}
	user.Stamp(s.now())
	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, bank.Errorf(bank.KindUserExists, "user %s already exists", username)
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) token(u *models.User) (string, error) {
	return s.tokens.Generate(u.GUUID, u.Roles)
}

func (s *UserService) GetByGUUID(ctx context.Context, guuid string) (*models.User, error) {
	u, err := s.store.Users().FindByGUUID(ctx, guuid)
	if err != nil {
		return nil, ensure(err, bank.KindUserNotFound, "user %s not found", guuid)
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context, p repository.Page) (repository.PageResult[models.User], error) {
	return s.store.Users().List(ctx, p)
}

func (s *UserService) Delete(ctx context.Context, guuid string) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		u, err := tx.Users().FindByGUUID(ctx, guuid)
		if err != nil {
			return ensure(err, bank.KindUserNotFound, "user %s not found", guuid)
		}
		u.MarkDeleted(s.now())
		return tx.Users().Save(ctx, u)
	})
}

func (s *UserService) SetProfileImage(ctx context.Context, id uint, path string) (*models.User, error) {
	var user *models.User
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		user, err = tx.Users().FindByID(ctx, id)
		if err != nil {
			return ensure(err, bank.KindUserNotFound, "user %d not found", id)
		}
		user.ProfileImage = path
		user.Stamp(s.now())
		return tx.Users().Save(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// checkPassword requires upper, lower, digit and symbol characters.
func checkPassword(p string) error {
	var upper, lower, digit, special bool
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	if len(p) < minPasswordLength || !upper || !lower || !digit || !special {
		return bank.Errorf(bank.KindInvalidRequest,
			"password needs at least %d characters with upper and lower case letters, a digit and a symbol", minPasswordLength)
	}
	return nil
}
