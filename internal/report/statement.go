// Package report renders movement statements as PDF documents.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"vivesbank/internal/bank"
	"vivesbank/internal/models"
)

const dateLayout = "02/01/2006 15:04:05"

// compress is switched off in tests so page text stays readable.
var compress = true

type Statement struct {
	Title     string
	Holder    string
	Generated time.Time
	Movements []models.Movement
}

type column struct {
	title string
	width float64
	align string
}

// Widths add up to the A4 printable width with default margins.
var columns = []column{
	{"Date", 28, "L"},
	{"Id", 40, "L"},
	{"Type", 20, "L"},
	{"Origin", 37, "L"},
	{"Destination", 37, "L"},
	{"Amount", 18, "R"},
	{"Rev.", 10, "C"},
}

// WriteStatement writes the movements as a table, in the order given.
func WriteStatement(w io.Writer, st Statement) error {
	pdf, tr := newDocument(st.Title, st.Generated)
	heading(pdf, tr, st.Title, st.Holder, st.Generated)

	header := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(230, 230, 230)
		for _, c := range columns {
			pdf.CellFormat(c.width, 7, c.title, "1", 0, c.align, true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 7)
	}
	header()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, m := range st.Movements {
		if pdf.GetY()+6 > pageHeight-bottom-15 {
			pdf.AddPage()
			header()
		}
		row := []string{
			m.Date.UTC().Format(dateLayout),
			m.ID,
			m.TypeMovement,
			m.OriginIBAN,
			m.DestinationIBAN,
			m.Amount.StringFixed(bank.AmountScale),
			yesNo(m.IsReversible),
		}
		for i, c := range columns {
			pdf.CellFormat(c.width, 6, row[i], "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("%d movements", len(st.Movements)), "", 1, "L", false, 0, "")
	return pdf.Output(w)
}

// WriteMovement writes the detail sheet of a single movement.
func WriteMovement(w io.Writer, m *models.Movement, generated time.Time) error {
	pdf, tr := newDocument("Movement "+m.ID, generated)
	heading(pdf, tr, "Movement details", "", generated)

	fields := [][2]string{
		{"Id", m.ID},
		{"Type", m.TypeMovement},
		{"Date", m.Date.UTC().Format(dateLayout)},
		{"Amount", m.Amount.StringFixed(bank.AmountScale)},
		{"Origin account", m.OriginIBAN},
		{"Destination account", m.DestinationIBAN},
		{"Sender", orNA(m.SenderName)},
		{"Recipient", orNA(m.RecipientName)},
		{"Reversible", yesNo(m.IsReversible)},
	}
	if m.IsReversible {
		fields = append(fields, [2]string{"Reversible until", m.Date.Add(bank.ReversalWindow).UTC().Format(dateLayout)})
	}
	if m.ReversalOf != nil {
		fields = append(fields, [2]string{"Reverses", *m.ReversalOf})
	}
	for _, f := range fields {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(50, 7, f[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 7, tr(f[1]), "", 1, "L", false, 0, "")
	}
	return pdf.Output(w)
}

func newDocument(title string, generated time.Time) (*fpdf.Fpdf, func(string) string) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetCreationDate(generated)
	pdf.SetTitle(title, true)
	pdf.SetCreator("VivesBank", true)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("VivesBank - Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()
	// core fonts are cp1252; names may carry accents
	return pdf, pdf.UnicodeTranslatorFromDescriptor("")
}

func heading(pdf *fpdf.Fpdf, tr func(string) string, title, holder string, generated time.Time) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	if holder != "" {
		pdf.CellFormat(0, 5, tr("Holder: "+holder), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 5, "Generated: "+generated.UTC().Format(dateLayout), "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
