// Package report renders a transaction set plus precomputed totals into
// one of two CSV layouts: a multi-column table with the summary folded
// into extra columns, or a single-column narrative where every row is a
// human-readable line. Output uses standard CSV quoting throughout.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"tally/internal/core"
)

const (
	Tabular   Mode = "tabular"
	Narrative Mode = "narrative"
)

type Mode string

// Totals carries the income and expense sums rendered into a report.
// Unknown transaction types never reach these fields.
type Totals struct {
	Income  float64
	Expense float64
}

func (t Totals) Balance() float64 {
	return t.Income - t.Expense
}

// Amount renders a monetary value with exactly two fractional digits.
// strconv rounds the same way as %.2f; the tests pin this contract.
func Amount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Format produces the CSV text for the given mode. It has no side
// effects; attaching a filename and content type is the transport
// layer's job.
func Format(transactions []core.Transaction, totals Totals, mode Mode) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	var err error
	switch mode {
	case Narrative:
		err = writeNarrative(w, transactions, totals)
	default:
		err = writeTabular(w, transactions, totals)
	}
	if err != nil {
		return "", fmt.Errorf("write %s report: %w", mode, err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush %s report: %w", mode, err)
	}
	return buf.String(), nil
}

func writeTabular(w *csv.Writer, transactions []core.Transaction, totals Totals) error {
	header := []string{
		"ID", "Description", "Amount", "Type", "Category", "Date",
		"Total Income", "Total Expense", "Balance",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	// Summary row: transaction columns empty, totals in the last three.
	summary := []string{
		"", "", "", "", "", "",
		Amount(totals.Income), Amount(totals.Expense), Amount(totals.Balance()),
	}
	if err := w.Write(summary); err != nil {
		return err
	}

	if len(transactions) == 0 {
		return w.Write([]string{
			"", "No transactions", "", "", "", "",
			Amount(totals.Income), Amount(totals.Expense), Amount(totals.Balance()),
		})
	}

	for _, t := range transactions {
		row := []string{
			strconv.FormatInt(t.ID, 10),
			t.Description,
			Amount(t.Amount),
			string(t.Type),
			t.Category,
			t.Date,
			"", "", "",
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeNarrative(w *csv.Writer, transactions []core.Transaction, totals Totals) error {
	if err := w.Write([]string{"Data"}); err != nil {
		return err
	}

	summary := "Total Income: " + Amount(totals.Income) +
		" | Total Expense: " + Amount(totals.Expense) +
		" | Balance: " + Amount(totals.Balance())
	if err := w.Write([]string{summary}); err != nil {
		return err
	}

	// Blank separator between the summary and the transaction lines.
	if err := w.Write([]string{""}); err != nil {
		return err
	}

	if len(transactions) == 0 {
		return w.Write([]string{"No transactions"})
	}

	for _, t := range transactions {
		line := "ID:" + strconv.FormatInt(t.ID, 10) +
			" | " + t.Description +
			" | " + core.Capitalize(string(t.Type)) + " " + Amount(t.Amount) +
			" | Category: " + t.Category +
			" | Date: " + t.Date
		if err := w.Write([]string{line}); err != nil {
			return err
		}
	}
	return nil
}
