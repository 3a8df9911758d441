package stats

import (
	"sort"
	"testing"

	"tally/internal/core"
)

func tx(id int64, amount float64, typ core.TransactionType, category, date string) core.Transaction {
	return core.Transaction{
		ID:          id,
		Description: "tx",
		Amount:      amount,
		Type:        typ,
		Category:    category,
		Date:        date,
	}
}

func TestTotalsAlwaysContainsBothTypes(t *testing.T) {
	totals := Totals(nil)
	if got := totals["income"]; got != 0 {
		t.Fatalf("income default = %v, want 0", got)
	}
	if got := totals["expense"]; got != 0 {
		t.Fatalf("expense default = %v, want 0", got)
	}

	totals = Totals([]core.Transaction{tx(1, 50, core.TypeExpense, "food", "2024-03-02")})
	if _, ok := totals["income"]; !ok {
		t.Fatal("income key missing from expense-only set")
	}
	if totals["expense"] != 50 {
		t.Fatalf("expense = %v, want 50", totals["expense"])
	}
}

func TestTotalsSumMatchesInput(t *testing.T) {
	set := []core.Transaction{
		tx(1, 50, core.TypeExpense, "food", "2024-03-02"),
		tx(2, 1000, core.TypeIncome, "", "2024-03-01"),
		tx(3, 25.5, core.TypeExpense, "fun", "2024-03-10"),
	}
	totals := Totals(set)
	var want float64
	for _, t := range set {
		want += t.Amount
	}
	if got := totals["income"] + totals["expense"]; got != want {
		t.Fatalf("income+expense = %v, want %v", got, want)
	}
}

func TestTotalsUnknownTypeBucketedUnderOwnKey(t *testing.T) {
	totals := Totals([]core.Transaction{
		tx(1, 10, "transfer", "", "2024-03-02"),
		tx(2, 5, core.TypeIncome, "", "2024-03-03"),
	})
	if totals["transfer"] != 10 {
		t.Fatalf("transfer bucket = %v, want 10", totals["transfer"])
	}
	if totals["income"] != 5 || totals["expense"] != 0 {
		t.Fatalf("known buckets disturbed: %v", totals)
	}
}

func TestAggregateE2E(t *testing.T) {
	month := []core.Transaction{
		tx(1, 50, core.TypeExpense, "food", "2024-03-02"),
		tx(2, 1000, core.TypeIncome, "", "2024-03-01"),
	}
	res := Aggregate(month, month)

	if res.Totals["income"] != 1000 || res.Totals["expense"] != 50 {
		t.Fatalf("totals = %v", res.Totals)
	}
	if len(res.Categories) != 1 || res.Categories[0] != (core.CategoryTotal{Name: "food", Value: 50}) {
		t.Fatalf("categories = %v", res.Categories)
	}
	if len(res.Daily) != 1 || res.Daily[0] != (core.DailyTotal{Date: "2024-03-02", Amount: 50}) {
		t.Fatalf("daily = %v", res.Daily)
	}
	if len(res.Monthly) != 1 {
		t.Fatalf("monthly = %v", res.Monthly)
	}
	if res.Monthly[0] != (core.MonthlyTotal{Month: "2024-03", Income: 1000, Expense: 50}) {
		t.Fatalf("monthly[0] = %v", res.Monthly[0])
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	res := Aggregate(nil, nil)
	if res.Totals["income"] != 0 || res.Totals["expense"] != 0 {
		t.Fatalf("totals = %v", res.Totals)
	}
	if len(res.Categories) != 0 || len(res.Daily) != 0 || len(res.Monthly) != 0 {
		t.Fatalf("expected empty views, got %+v", res)
	}
	// The empty views must serialize as arrays, not null.
	if res.Categories == nil || res.Daily == nil || res.Monthly == nil {
		t.Fatal("empty views must be non-nil slices")
	}
}

func TestDailySortedAscending(t *testing.T) {
	set := []core.Transaction{
		tx(1, 3, core.TypeExpense, "a", "2024-03-20"),
		tx(2, 1, core.TypeExpense, "a", "2024-03-02"),
		tx(3, 2, core.TypeExpense, "a", "2024-03-10"),
		tx(4, 9, core.TypeExpense, "a", "2024-03-02"),
		tx(5, 4, core.TypeIncome, "", "2024-03-01"),
	}
	daily := Aggregate(set, set).Daily
	if !sort.SliceIsSorted(daily, func(i, j int) bool { return daily[i].Date < daily[j].Date }) {
		t.Fatalf("daily not sorted: %v", daily)
	}
	if len(daily) != 3 {
		t.Fatalf("daily entries = %d, want 3 (dates deduplicated)", len(daily))
	}
	if daily[0].Date != "2024-03-02" || daily[0].Amount != 10 {
		t.Fatalf("daily[0] = %v, want 2024-03-02 summed to 10", daily[0])
	}
}

func TestMonthlyCoversEveryMonthExactlyOnce(t *testing.T) {
	history := []core.Transaction{
		tx(1, 10, core.TypeExpense, "a", "2024-01-05"),
		tx(2, 20, core.TypeIncome, "", "2024-01-20"),
		tx(3, 5, core.TypeExpense, "a", "2024-03-02"),
		tx(4, 7, core.TypeIncome, "", "2023-12-31"),
	}
	monthly := Aggregate(nil, history).Monthly

	seen := map[string]int{}
	for _, m := range monthly {
		seen[m.Month]++
	}
	for _, want := range []string{"2023-12", "2024-01", "2024-03"} {
		if seen[want] != 1 {
			t.Fatalf("month %s appears %d times", want, seen[want])
		}
	}
	if len(monthly) != 3 {
		t.Fatalf("monthly has %d entries, want 3", len(monthly))
	}
	if !sort.SliceIsSorted(monthly, func(i, j int) bool { return monthly[i].Month < monthly[j].Month }) {
		t.Fatalf("monthly not sorted: %v", monthly)
	}

	// A month with only expenses still reports income 0 and vice versa.
	if monthly[0] != (core.MonthlyTotal{Month: "2023-12", Income: 7, Expense: 0}) {
		t.Fatalf("monthly[0] = %v", monthly[0])
	}
	if monthly[2] != (core.MonthlyTotal{Month: "2024-03", Income: 0, Expense: 5}) {
		t.Fatalf("monthly[2] = %v", monthly[2])
	}
}

func TestMonthlyUnaffectedByFilteredSet(t *testing.T) {
	history := []core.Transaction{
		tx(1, 10, core.TypeExpense, "a", "2024-01-05"),
		tx(2, 20, core.TypeIncome, "", "2024-02-20"),
	}
	res := Aggregate(nil, history)
	if len(res.Monthly) != 2 {
		t.Fatalf("monthly = %v, want both months despite empty filtered set", res.Monthly)
	}
}

func TestCategoriesExpensesOnly(t *testing.T) {
	set := []core.Transaction{
		tx(1, 100, core.TypeIncome, "salary", "2024-03-01"),
		tx(2, 10, core.TypeExpense, "food", "2024-03-02"),
		tx(3, 15, core.TypeExpense, "food", "2024-03-03"),
		tx(4, 2, core.TypeExpense, "", "2024-03-04"),
	}
	cats := Aggregate(set, set).Categories
	if len(cats) != 2 {
		t.Fatalf("categories = %v, want food + uncategorized", cats)
	}
	if cats[0] != (core.CategoryTotal{Name: "food", Value: 25}) {
		t.Fatalf("cats[0] = %v", cats[0])
	}
	if cats[1] != (core.CategoryTotal{Name: "", Value: 2}) {
		t.Fatalf("cats[1] = %v", cats[1])
	}
}
