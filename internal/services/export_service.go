package services

import (
	"context"
	"fmt"

	"tally/internal/core"
	"tally/internal/ledger"
	"tally/internal/report"
	"tally/internal/stats"
)

// ExportOptions selects the scope and layout of a CSV download.
// Month is an optional YYYY-MM filter; Order defaults to ascending;
// Single picks the narrative layout over the tabular one.
type ExportOptions struct {
	Month  string
	Order  ledger.Order
	Single bool
}

// ExportService assembles CSV downloads: fetch the filtered and ordered
// set, total it, render it. Totals respect the month filter, unlike the
// monthly trend served by StatisticsService.
type ExportService struct {
	store ledger.TransactionStore
}

func NewExportService(store ledger.TransactionStore) *ExportService {
	return &ExportService{store: store}
}

// ExportCSV returns the report text and the suggested download filename.
func (s *ExportService) ExportCSV(ctx context.Context, ownerID int64, opts ExportOptions) (string, string, error) {
	order := opts.Order
	if order != ledger.OrderDesc {
		order = ledger.OrderAsc
	}

	transactions, err := s.store.ListByOwner(ctx, ownerID, ledger.ListOptions{
		DatePrefix: opts.Month,
		Order:      order,
	})
	if err != nil {
		return "", "", fmt.Errorf("list transactions: %w", err)
	}

	totals := stats.Totals(transactions)

	mode := report.Tabular
	if opts.Single {
		mode = report.Narrative
	}

	text, err := report.Format(transactions, report.Totals{
		Income:  totals[string(core.TypeIncome)],
		Expense: totals[string(core.TypeExpense)],
	}, mode)
	if err != nil {
		return "", "", fmt.Errorf("format report: %w", err)
	}

	filename := "transactions_all.csv"
	if opts.Month != "" {
		filename = "transactions_" + opts.Month + ".csv"
	}
	return text, filename, nil
}
