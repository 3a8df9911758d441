package core

// StatisticsResult is the request-scoped aggregate computed from an
// owner's transactions. It is never persisted and serializes directly
// into the statistics API response.
type (
	StatisticsResult struct {
		Totals     map[string]float64 `json:"totals"`
		Categories []CategoryTotal    `json:"categories"`
		Daily      []DailyTotal       `json:"daily"`
		Monthly    []MonthlyTotal     `json:"monthly"`
	}

	// CategoryTotal sums expense amounts for one category.
	CategoryTotal struct {
		Name  string  `json:"name"`
		Value float64 `json:"value"`
	}

	// DailyTotal sums expense amounts for one calendar date.
	DailyTotal struct {
		Date   string  `json:"date"`
		Amount float64 `json:"amount"`
	}

	// MonthlyTotal carries the income/expense pair for one MonthKey.
	// A month with activity of only one type still reports the other as 0.
	MonthlyTotal struct {
		Month   string  `json:"month"`
		Income  float64 `json:"income"`
		Expense float64 `json:"expense"`
	}
)
