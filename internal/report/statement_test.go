package report

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vivesbank/internal/models"
)

var generated = time.Date(2026, time.October, 16, 10, 0, 0, 0, time.UTC)

func plain(t *testing.T) {
	t.Helper()
	compress = false
	t.Cleanup(func() { compress = true })
}

func movement(i int) models.Movement {
	return models.Movement{
		ID:              fmt.Sprintf("01JAMOVEMENT%014d", i),
		SenderName:      "Ana Builder",
		OriginIBAN:      "ES7100302053091234567895",
		DestinationIBAN: "ES1000492352082414205416",
		TypeMovement:    "TRANSFER",
		Amount:          decimal.RequireFromString("40.5"),
		Date:            generated.Add(-time.Duration(i) * time.Minute),
		IsReversible:    true,
	}
}

func TestWriteStatement(t *testing.T) {
	plain(t)
	var buf bytes.Buffer
	err := WriteStatement(&buf, Statement{
		Title:     "Sent movements",
		Holder:    "Ana Builder",
		Generated: generated,
		Movements: []models.Movement{movement(1), movement(2)},
	})
	require.NoError(t, err)

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "%%EOF")
	assert.Contains(t, string(out), movement(1).ID)
	assert.Contains(t, string(out), movement(2).ID)
	assert.Contains(t, string(out), "40.50")
	assert.Contains(t, string(out), "Holder: Ana Builder")
	assert.Contains(t, string(out), "2 movements")
}

func TestWriteStatementBreaksPages(t *testing.T) {
	plain(t)
	movements := make([]models.Movement, 120)
	for i := range movements {
		movements[i] = movement(i)
	}
	var buf bytes.Buffer
	require.NoError(t, WriteStatement(&buf, Statement{Title: "Ledger", Generated: generated, Movements: movements}))

	out := buf.String()
	assert.Contains(t, out, "Page 2/")
	assert.Contains(t, out, movements[119].ID)
	assert.Contains(t, out, "120 movements")
}

func TestWriteStatementEmpty(t *testing.T) {
	plain(t)
	var buf bytes.Buffer
	require.NoError(t, WriteStatement(&buf, Statement{Title: "Received movements", Generated: generated}))
	assert.Contains(t, buf.String(), "0 movements")
}

func TestWriteMovement(t *testing.T) {
	plain(t)
	m := movement(3)
	orig := "01JAORIGINAL00000000000000"
	m.IsReversible = false
	m.TypeMovement = "REVERSAL"
	m.ReversalOf = &orig

	var buf bytes.Buffer
	require.NoError(t, WriteMovement(&buf, &m, generated))

	out := buf.String()
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Contains(t, out, m.ID)
	assert.Contains(t, out, "REVERSAL")
	assert.Contains(t, out, orig)
	assert.Contains(t, out, "N/A")
	assert.NotContains(t, out, "Reversible until")
}
