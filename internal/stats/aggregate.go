// Package stats turns a raw transaction log into the aggregate views
// served by the statistics endpoint. All functions are pure: they read
// the slices they are given and produce fresh values, so concurrent
// callers never share state.
package stats

import (
	"sort"

	"tally/internal/core"
)

// Aggregate computes the four statistical views. The first argument is
// the month-filtered set; the second is the owner's full history, which
// feeds the month-over-month trend only.
func Aggregate(transactions, history []core.Transaction) core.StatisticsResult {
	return core.StatisticsResult{
		Totals:     Totals(transactions),
		Categories: categoryTotals(transactions),
		Daily:      dailyTotals(transactions),
		Monthly:    monthlyTrend(history),
	}
}

// Totals sums amounts grouped by type. Both known types are always
// present, defaulting to 0. A record with an unexpected type accumulates
// under its own literal key rather than crashing the aggregation.
func Totals(transactions []core.Transaction) map[string]float64 {
	totals := map[string]float64{
		string(core.TypeIncome):  0,
		string(core.TypeExpense): 0,
	}
	for _, t := range transactions {
		totals[string(t.Type)] += t.Amount
	}
	return totals
}

// categoryTotals restricts to expenses and sums by category, one entry
// per distinct category in first-seen order.
func categoryTotals(transactions []core.Transaction) []core.CategoryTotal {
	sums := make(map[string]float64)
	var order []string
	for _, t := range transactions {
		if t.Type != core.TypeExpense {
			continue
		}
		if _, seen := sums[t.Category]; !seen {
			order = append(order, t.Category)
		}
		sums[t.Category] += t.Amount
	}
	out := make([]core.CategoryTotal, 0, len(order))
	for _, name := range order {
		out = append(out, core.CategoryTotal{Name: name, Value: sums[name]})
	}
	return out
}

// dailyTotals restricts to expenses and sums by exact date, sorted
// ascending. String comparison is chronological for ISO dates.
func dailyTotals(transactions []core.Transaction) []core.DailyTotal {
	sums := make(map[string]float64)
	for _, t := range transactions {
		if t.Type != core.TypeExpense {
			continue
		}
		sums[t.Date] += t.Amount
	}
	out := make([]core.DailyTotal, 0, len(sums))
	for date, amount := range sums {
		out = append(out, core.DailyTotal{Date: date, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// monthlyTrend groups the full history by MonthKey and type. Every month
// with at least one transaction appears exactly once, months sorted
// ascending; a month with only one type reports 0 for the other.
// Unknown types keep their month visible but do not contribute amounts.
func monthlyTrend(history []core.Transaction) []core.MonthlyTotal {
	byMonth := make(map[string]*core.MonthlyTotal)
	for _, t := range history {
		key := core.MonthKey(t.Date)
		entry, ok := byMonth[key]
		if !ok {
			entry = &core.MonthlyTotal{Month: key}
			byMonth[key] = entry
		}
		switch t.Type {
		case core.TypeIncome:
			entry.Income += t.Amount
		case core.TypeExpense:
			entry.Expense += t.Amount
		}
	}
	out := make([]core.MonthlyTotal, 0, len(byMonth))
	for _, entry := range byMonth {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
