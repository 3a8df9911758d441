package services

import (
	"context"
	"fmt"

	"tally/internal/core"
	"tally/internal/ledger"
	"tally/internal/stats"
)

// StatisticsService answers "statistics for month X" queries. It fetches
// the month-filtered set and the owner's full history in one request and
// hands both to the aggregator; nothing is cached.
type StatisticsService struct {
	store ledger.TransactionStore
}

func NewStatisticsService(store ledger.TransactionStore) *StatisticsService {
	return &StatisticsService{store: store}
}

// GetStatistics computes the aggregate views for one calendar month
// (YYYY-MM). A malformed month matches no dates and yields empty
// month-scoped views; the monthly trend still covers the full history.
// Store failures propagate, never silently producing empty statistics.
func (s *StatisticsService) GetStatistics(ctx context.Context, ownerID int64, month string) (core.StatisticsResult, error) {
	filtered, err := s.store.ListByOwner(ctx, ownerID, ledger.ListOptions{
		DatePrefix: month,
		Order:      ledger.OrderAsc,
	})
	if err != nil {
		return core.StatisticsResult{}, fmt.Errorf("list month transactions: %w", err)
	}

	history, err := s.store.ListByOwner(ctx, ownerID, ledger.ListOptions{
		Order: ledger.OrderAsc,
	})
	if err != nil {
		return core.StatisticsResult{}, fmt.Errorf("list transaction history: %w", err)
	}

	return stats.Aggregate(filtered, history), nil
}
