package bank

import (
	"crypto/rand"
	"fmt"
	"io"
	"time"

	"github.com/oklog/ulid/v2"
)

var idEntropy io.Reader = rand.Reader

// NewMovementID returns a ULID stamped with the movement time, so ids sort in
// ledger order.
func NewMovementID(at time.Time) (string, error) {
	id, err := ulid.New(ulid.Timestamp(at), idEntropy)
	if err != nil {
		return "", fmt.Errorf("movement id: %w", err)
	}
	return id.String(), nil
}
