package core

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

type (
	TransactionType string

	// Transaction is the atomic ledger record. The amount carries only a
	// magnitude; the sign is expressed by Type. Dates are ISO strings
	// (YYYY-MM-DD), so lexicographic order equals chronological order.
	Transaction struct {
		ID          int64           `json:"id"`
		OwnerID     int64           `json:"-"`
		Description string          `json:"description"`
		Amount      float64         `json:"amount"`
		Type        TransactionType `json:"type"`
		Category    string          `json:"category"`
		Date        string          `json:"date"`
	}
)

var (
	ErrEmptyDescription = errors.New("empty description")
	ErrNegativeAmount   = errors.New("negative amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrEmptyDate        = errors.New("empty date")
)

// Valid reports whether the type is one of the two enumerated values.
// Stored records with other types are tolerated downstream but are never
// accepted at write time.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if t.Amount < 0 {
		return ErrNegativeAmount
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(t.Date) == "" {
		return ErrEmptyDate
	}
	return nil
}

// MonthKey returns the YYYY-MM prefix of an ISO date, the grouping key
// for the monthly trend. Shorter inputs are returned unchanged.
func MonthKey(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

// Capitalize uppercases the first letter of s, leaving the rest
// unchanged. The empty string stays empty.
func Capitalize(s string) string {
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
