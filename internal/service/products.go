package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"vivesbank/internal/bank"
	"vivesbank/internal/models"
	"vivesbank/internal/repository"
)

type ProductInput struct {
	Type          models.ProductType
	Specification string
	TAE           decimal.Decimal
}

type ProductService struct {
	store repository.Store
	now   func() time.Time
}

func NewProductService(store repository.Store) *ProductService {
	return &ProductService{store: store, now: time.Now}
}

func (in ProductInput) validate() error {
	if !in.Type.Valid() {
		return bank.Errorf(bank.KindInvalidRequest, "unknown product type %q", in.Type)
	}
	if strings.TrimSpace(in.Specification) == "" {
		return bank.Errorf(bank.KindInvalidRequest, "specification is required")
	}
	if in.TAE.IsNegative() {
		return bank.Errorf(bank.KindInvalidRequest, "tae must not be negative")
	}
	return nil
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	taken, err := s.store.Products().ExistsSpecification(ctx, in.Specification)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, bank.Errorf(bank.KindProductExists, "product %s already exists", in.Specification)
	}

	p := &models.Product{Type: in.Type, Specification: in.Specification, TAE: in.TAE}
	p.Stamp(s.now())
	if err := s.store.Products().Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, bank.Errorf(bank.KindProductExists, "product %s already exists", in.Specification)
		}
		return nil, err
	}
	return p, nil
}

func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		return nil, ensure(err, bank.KindProductNotFound, "product %d not found", id)
	}
	return p, nil
}

func (s *ProductService) List(ctx context.Context, f repository.ProductFilter, p repository.Page) (repository.PageResult[models.Product], error) {
	return s.store.Products().List(ctx, f, p)
}

func (s *ProductService) Update(ctx context.Context, id uint, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var product *models.Product
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		product, err = tx.Products().FindByID(ctx, id)
		if err != nil {
			return ensure(err, bank.KindProductNotFound, "product %d not found", id)
		}
		product.Type = in.Type
		product.Specification = in.Specification
		product.TAE = in.TAE
		product.Stamp(s.now())
		err = tx.Products().Save(ctx, product)
		if errors.Is(err, repository.ErrDuplicate) {
			return bank.Errorf(bank.KindProductExists, "product %s already exists", in.Specification)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		p, err := tx.Products().FindByID(ctx, id)
		if err != nil {
			return ensure(err, bank.KindProductNotFound, "product %d not found", id)
		}
		p.MarkDeleted(s.now())
		return tx.Products().Save(ctx, p)
	})
}
