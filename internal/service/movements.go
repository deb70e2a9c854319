package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"vivesbank/internal/bank"
	"vivesbank/internal/mapper"
	"vivesbank/internal/models"
	"vivesbank/internal/notify"
	"vivesbank/internal/repository"
)

type CreateMovementInput struct {
	SenderClientID    string
	RecipientClientID *string
	OriginIBAN        string
	DestinationIBAN   string
	TypeMovement      string
	Amount            decimal.Decimal
}

type MovementService struct {
	store    repository.Store
	notifier notify.Notifier
	now      func() time.Time
}

func NewMovementService(store repository.Store, notifier notify.Notifier) *MovementService {
	return &MovementService{store: store, notifier: notifier, now: time.Now}
}

// CreateMovement applies the balance effect of the movement type and appends
// the ledger record in one transaction. The sender must own any account it
// debits.
func (s *MovementService) CreateMovement(ctx context.Context, in CreateMovementInput) (*models.Movement, error) {
	if !in.Amount.IsPositive() {
		return nil, bank.Errorf(bank.KindInvalidAmount, "amount must be greater than zero")
	}
	if !bank.ValidAmount(in.Amount) {
		return nil, bank.Errorf(bank.KindInvalidAmount, "amount must have at most %d decimal places", bank.AmountScale)
	}
	typ := bank.NormalizeType(in.TypeMovement)
	switch typ {
	case "":
		return nil, bank.Errorf(bank.KindInvalidMovement, "movement type is required")
	case bank.TypeReversal:
		return nil, bank.Errorf(bank.KindInvalidMovement, "reversals are created through the reverse operation")
	}
	effect := bank.EffectOf(typ)
	if effect.Transfer() && in.OriginIBAN == in.DestinationIBAN {
		return nil, bank.Errorf(bank.KindInvalidMovement, "origin and destination accounts must differ")
	}

	var (
		mv     models.Movement
		events outbox
	)
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		sender, err := tx.Clients().FindByGUUID(ctx, in.SenderClientID)
		if err != nil {
			return ensure(err, bank.KindClientNotFound, "client %s not found", in.SenderClientID)
		}
		var recipient *models.Client
		if in.RecipientClientID != nil {
			recipient, err = tx.Clients().FindByGUUID(ctx, *in.RecipientClientID)
			if err != nil {
				return ensure(err, bank.KindClientNotFound, "client %s not found", *in.RecipientClientID)
			}
		}

		accounts, err := lockAccounts(ctx, tx, in.OriginIBAN, in.DestinationIBAN)
		if err != nil {
			return err
		}
		origin, destination := accounts[in.OriginIBAN], accounts[in.DestinationIBAN]
		now := s.now()

		if effect.Debit {
			if origin.ClientID != sender.ID {
				return bank.Errorf(bank.KindForbidden, "account %s does not belong to the sender", origin.IBAN)
			}
			if origin.Balance.LessThan(in.Amount) {
				return bank.Errorf(bank.KindInsufficientFunds, "insufficient funds in account %s", origin.IBAN)
			}
			origin.Balance = origin.Balance.Sub(in.Amount)
		}
		if effect.Credit {
			destination.Balance = destination.Balance.Add(in.Amount)
		}
		if err := saveTouched(ctx, tx, accounts, now, &events); err != nil {
			return err
		}

		id, err := bank.NewMovementID(now)
		if err != nil {
			return err
		}
		mv = models.Movement{
			ID:                id,
			SenderClientID:    sender.GUUID,
			SenderName:        sender.FullName(),
			RecipientClientID: in.RecipientClientID,
			OriginIBAN:        origin.IBAN,
			DestinationIBAN:   destination.IBAN,
			TypeMovement:      typ,
			Amount:            in.Amount,
			Date:              now,
			IsReversible:      true,
		}
		if recipient != nil {
			mv.RecipientName = recipient.FullName()
		}
		if err := tx.Movements().Create(ctx, &mv); err != nil {
			return err
		}
		return movementEvents(ctx, tx, &mv, notify.TypeCreate, now, &events)
	})
	if err != nil {
		return nil, err
	}
	events.flush(s.notifier)
	return &mv, nil
}

// ReverseMovement undoes a movement inside its reversal window and appends the
// compensating record. It returns the compensating movement.
func (s *MovementService) ReverseMovement(ctx context.Context, id string) (*models.Movement, error) {
	return s.reverse(ctx, id, nil)
}

// ReverseClientMovement is ReverseMovement restricted to movements the client sent.
func (s *MovementService) ReverseClientMovement(ctx context.Context, clientID, id string) (*models.Movement, error) {
	return s.reverse(ctx, id, func(m *models.Movement) error {
		if m.SenderClientID != clientID {
			return bank.Errorf(bank.KindForbidden, "movement %s was not sent by this client", id)
		}
		return nil
	})
}

func (s *MovementService) reverse(ctx context.Context, id string, guard func(*models.Movement) error) (*models.Movement, error) {
	var (
		comp   models.Movement
		events outbox
	)
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		orig, err := tx.Movements().LockByID(ctx, id)
		if err != nil {
			return ensure(err, bank.KindMovementNotFound, "movement %s not found", id)
		}
		if guard != nil {
			if err := guard(orig); err != nil {
				return err
			}
		}
		now := s.now()
		if !bank.CanReverse(orig.IsReversible, orig.Date, now) {
			return bank.Errorf(bank.KindMovementIrreversible, "movement %s can no longer be reversed", id)
		}

		accounts, err := lockAccounts(ctx, tx, orig.OriginIBAN, orig.DestinationIBAN)
		if err != nil {
			return err
		}
		origin, destination := accounts[orig.OriginIBAN], accounts[orig.DestinationIBAN]

		effect := bank.EffectOf(orig.TypeMovement)
		if effect.Credit {
			if destination.Balance.LessThan(orig.Amount) {
				return bank.Errorf(bank.KindInsufficientFunds, "insufficient funds in account %s to reverse", destination.IBAN)
			}
			destination.Balance = destination.Balance.Sub(orig.Amount)
		}
		if effect.Debit {
			origin.Balance = origin.Balance.Add(orig.Amount)
		}
		if err := saveTouched(ctx, tx, accounts, now, &events); err != nil {
			return err
		}

		orig.IsReversible = false
		if err := tx.Movements().Save(ctx, orig); err != nil {
			return err
		}

		comp, err = compensating(orig, now)
		if err != nil {
			return err
		}
		if err := tx.Movements().Create(ctx, &comp); err != nil {
			return err
		}
		return movementEvents(ctx, tx, &comp, notify.TypeCreate, now, &events)
	})
	if err != nil {
		return nil, err
	}
	events.flush(s.notifier)
	return &comp, nil
}

// compensating flows the original amount back: accounts and parties swap.
// Without a recipient the original sender stays the sender.
func compensating(orig *models.Movement, now time.Time) (models.Movement, error) {
	id, err := bank.NewMovementID(now)
	if err != nil {
		return models.Movement{}, err
	}
	origID := orig.ID
	m := models.Movement{
		ID:              id,
		SenderClientID:  orig.SenderClientID,
		SenderName:      orig.SenderName,
		OriginIBAN:      orig.DestinationIBAN,
		DestinationIBAN: orig.OriginIBAN,
		TypeMovement:    bank.TypeReversal,
		Amount:          orig.Amount,
		Date:            now,
		IsReversible:    false,
		ReversalOf:      &origID,
	}
	if orig.RecipientClientID != nil {
		sender := orig.SenderClientID
		m.SenderClientID = *orig.RecipientClientID
		m.SenderName = orig.RecipientName
		m.RecipientClientID = &sender
		m.RecipientName = orig.SenderName
	}
	return m, nil
}

func saveTouched(ctx context.Context, tx repository.Store, accounts map[string]*models.BankAccount, now time.Time, events *outbox) error {
	for _, acc := range accounts {
		acc.Stamp(now)
		if err := tx.Accounts().Save(ctx, acc); err != nil {
			return err
		}
		ev, err := accountEvent(ctx, tx, acc, notify.TypeUpdate, now)
		if err != nil {
			return err
		}
		events.add(ev)
	}
	return nil
}

// movementEvents notifies the sender and, when different, the recipient.
func movementEvents(ctx context.Context, tx repository.Store, m *models.Movement, typ notify.Type, now time.Time, events *outbox) error {
	parties := []string{m.SenderClientID}
	if m.RecipientClientID != nil && *m.RecipientClientID != m.SenderClientID {
		parties = append(parties, *m.RecipientClientID)
	}
	for _, guuid := range parties {
		client, err := tx.Clients().FindByGUUID(ctx, guuid)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		} else if err != nil {
			return err
		}
		owner, err := ownerGUUID(ctx, tx, client.ID)
		if err != nil {
			return err
		}
		events.add(notify.Notification{
			Entity:    notify.EntityMovements,
			Type:      typ,
			Data:      mapper.MovementToResponse(m),
			CreatedAt: now,
			Recipient: owner,
		})
	}
	return nil
}

func (s *MovementService) GetMovement(ctx context.Context, id string) (*models.Movement, error) {
	m, err := s.store.Movements().FindByID(ctx, id)
	if err != nil {
		return nil, ensure(err, bank.KindMovementNotFound, "movement %s not found", id)
	}
	return m, nil
}

// GetClientMovement returns a movement the client sent or received.
func (s *MovementService) GetClientMovement(ctx context.Context, clientID, id string) (*models.Movement, error) {
	m, err := s.GetMovement(ctx, id)
	if err != nil {
		return nil, err
	}
	received := m.RecipientClientID != nil && *m.RecipientClientID == clientID
	if m.SenderClientID != clientID && !received {
		return nil, bank.Errorf(bank.KindForbidden, "movement %s does not belong to the client", id)
	}
	return m, nil
}

// GetMovementsByClientID lists movements the client sent or received, newest
// first. No movements yields an empty slice.
func (s *MovementService) GetMovementsByClientID(ctx context.Context, clientID string) ([]models.Movement, error) {
	return s.list(ctx, repository.MovementFilter{ClientID: clientID})
}

func (s *MovementService) GetSentMovements(ctx context.Context, clientID string) ([]models.Movement, error) {
	return s.list(ctx, repository.MovementFilter{ClientID: clientID, Side: repository.SideSent})
}

func (s *MovementService) GetReceivedMovements(ctx context.Context, clientID string) ([]models.Movement, error) {
	return s.list(ctx, repository.MovementFilter{ClientID: clientID, Side: repository.SideReceived})
}

// GetMovementsByType lists the client's movements of one type, sent or received.
func (s *MovementService) GetMovementsByType(ctx context.Context, clientID, typeMovement string) ([]models.Movement, error) {
	typ := bank.NormalizeType(typeMovement)
	if typ == "" {
		return nil, bank.Errorf(bank.KindInvalidMovement, "movement type is required")
	}
	return s.list(ctx, repository.MovementFilter{ClientID: clientID, Type: typ})
}

func (s *MovementService) GetMovementsByAccount(ctx context.Context, iban string) ([]models.Movement, error) {
	if _, err := s.store.Accounts().FindByIBAN(ctx, iban); err != nil {
		return nil, ensure(err, bank.KindAccountNotFound, "bank account %s not found", iban)
	}
	return s.list(ctx, repository.MovementFilter{IBAN: iban})
}

// GetAllMovements pages through the whole ledger, optionally by type.
func (s *MovementService) GetAllMovements(ctx context.Context, typeMovement string, p repository.Page) (repository.PageResult[models.Movement], error) {
	return s.store.Movements().List(ctx, repository.MovementFilter{Type: bank.NormalizeType(typeMovement)}, p)
}

func (s *MovementService) list(ctx context.Context, f repository.MovementFilter) ([]models.Movement, error) {
	res, err := s.store.Movements().List(ctx, f, repository.Page{})
	if err != nil {
		return nil, err
	}
	if res.Items == nil {
		return []models.Movement{}, nil
	}
	return res.Items, nil
}
