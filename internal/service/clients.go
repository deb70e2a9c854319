package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"vivesbank/internal/bank"
	"vivesbank/internal/models"
	"vivesbank/internal/repository"
)

type CreateClientInput struct {
	DNI     string
	Name    string
	Surname string
	Address models.Address
	Phone   string
	Email   string
}

type UpdateClientInput struct {
	Name    *string
	Surname *string
	Address *models.Address
	Phone   *string
	Email   *string
}

type ClientService struct {
	store repository.Store
	now   func() time.Time
}

func NewClientService(store repository.Store) *ClientService {
	return &ClientService{store: store, now: time.Now}
}

// Create registers the user as a client and grants the CLIENT role.
func (s *ClientService) Create(ctx context.Context, userID uint, in CreateClientInput) (*models.Client, error) {
	in.DNI = strings.ToUpper(strings.TrimSpace(in.DNI))
	if in.DNI == "" || strings.TrimSpace(in.Name) == "" {
		return nil, bank.Errorf(bank.KindInvalidRequest, "dni and name are required")
	}

	var client *models.Client
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		user, err := tx.Users().FindByID(ctx, userID)
		if err != nil {
			return ensure(err, bank.KindUserNotFound, "user %d not found", userID)
		}
		if _, err := tx.Clients().FindByUserID(ctx, userID); err == nil {
			return bank.Errorf(bank.KindClientExists, "user %s is already a client", user.Username)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		taken, err := tx.Clients().ExistsDNI(ctx, in.DNI)
		if err != nil {
			return err
		}
		if taken {
			return bank.Errorf(bank.KindClientExists, "a client with dni %s already exists", in.DNI)
		}

		now := s.now()
		client = &models.Client{
			GUUID:   uuid.NewString(),
			UserID:  user.ID,
			DNI:     in.DNI,
			Name:    in.Name,
			Surname: in.Surname,
			Address: in.Address,
			Phone:   in.Phone,
			Email:   in.Email,
		}
		client.Stamp(now)
		if err := tx.Clients().Create(ctx, client); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return bank.Errorf(bank.KindClientExists, "a client with dni %s already exists", in.DNI)
			}
			return err
		}

		user.Grant(models.RoleClient)
		user.Stamp(now)
		return tx.Users().Save(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (s *ClientService) Get(ctx context.Context, id uint) (*models.Client, error) {
	c, err := s.store.Clients().FindByID(ctx, id)
	if err != nil {
		return nil, ensure(err, bank.KindClientNotFound, "client %d not found", id)
	}
	return c, nil
}

func (s *ClientService) GetByGUUID(ctx context.Context, guuid string) (*models.Client, error) {
	c, err := s.store.Clients().FindByGUUID(ctx, guuid)
	if err != nil {
		return nil, ensure(err, bank.KindClientNotFound, "client %s not found", guuid)
	}
	return c, nil
}

func (s *ClientService) GetByDNI(ctx context.Context, dni string) (*models.Client, error) {
	dni = strings.ToUpper(strings.TrimSpace(dni))
	c, err := s.store.Clients().FindByDNI(ctx, dni)
	if err != nil {
		return nil, ensure(err, bank.KindClientNotFound, "client with dni %s not found", dni)
	}
	return c, nil
}

func (s *ClientService) GetByUser(ctx context.Context, userID uint) (*models.Client, error) {
	c, err := s.store.Clients().FindByUserID(ctx, userID)
	if err != nil {
		return nil, ensure(err, bank.KindClientNotFound, "user %d is not a client", userID)
	}
	return c, nil
}

func (s *ClientService) List(ctx context.Context, f repository.ClientFilter, p repository.Page) (repository.PageResult[models.Client], error) {
	return s.store.Clients().List(ctx, f, p)
}

func (s *ClientService) Update(ctx context.Context, id uint, in UpdateClientInput) (*models.Client, error) {
	var client *models.Client
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		client, err = tx.Clients().FindByID(ctx, id)
		if err != nil {
			return ensure(err, bank.KindClientNotFound, "client %d not found", id)
		}
		if in.Name != nil {
			client.Name = *in.Name
		}
		if in.Surname != nil {
			client.Surname = *in.Surname
		}
		if in.Address != nil {
			client.Address = *in.Address
		}
		if in.Phone != nil {
			client.Phone = *in.Phone
		}
		if in.Email != nil {
			client.Email = *in.Email
		}
		client.Stamp(s.now())
		return tx.Clients().Save(ctx, client)
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (s *ClientService) SetDNIPhoto(ctx context.Context, id uint, path string) (*models.Client, error) {
	var client *models.Client
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		client, err = tx.Clients().FindByID(ctx, id)
		if err != nil {
			return ensure(err, bank.KindClientNotFound, "client %d not found", id)
		}
		client.DNIPhoto = path
		client.Stamp(s.now())
		return tx.Clients().Save(ctx, client)
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Delete soft-deletes the client. Its accounts are left to the account flow.
func (s *ClientService) Delete(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		client, err := tx.Clients().FindByID(ctx, id)
		if err != nil {
			return ensure(err, bank.KindClientNotFound, "client %d not found", id)
		}
		client.MarkDeleted(s.now())
		return tx.Clients().Save(ctx, client)
	})
}
