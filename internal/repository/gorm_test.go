package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, translate(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)), ErrDuplicate)

	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_credit_cards_number"}
	err := translate(fmt.Errorf("insert: %w", pgErr))
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Contains(t, err.Error(), "idx_credit_cards_number")

	other := errors.New("connection refused")
	assert.Equal(t, other, translate(other))
}
