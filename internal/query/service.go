// Package query answers filtered holiday reads with a second line of dedup
// on top of the store's uniqueness constraint.
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/ldhiman/holiday-api/internal/holiday"
)

// store is the interface satisfied by storage.Repository.
type store interface {
	QueryHolidays(ctx context.Context, f holiday.Filter) ([]holiday.Record, error)
}

// Service executes filtered holiday queries and shapes the response.
type Service struct {
	store store
	now   func() time.Time
}

// NewService constructs a Service reading the current time from the system clock.
func NewService(s store) *Service {
	return &Service{store: s, now: time.Now}
}

// NewServiceWithClock constructs a Service with an injected clock (for tests).
func NewServiceWithClock(s store, now func() time.Time) *Service {
	return &Service{store: s, now: now}
}

// Query retrieves holidays matching the filter. A missing date defaults to
// the current UTC date. The result set is deduplicated by (name, date,
// country), keeping the first occurrence in store order, so a store-level
// duplicate (for example from an inconsistent migration) never reaches the
// client. Store failures propagate with no partial result.
func (s *Service) Query(ctx context.Context, f holiday.Filter) (*holiday.QueryResult, error) {
	f = f.WithDefaultDate(s.now())

	rows, err := s.store.QueryHolidays(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("querying holidays: %w", err)
	}

	seen := make(map[string]struct{}, len(rows))
	unique := make([]holiday.Record, 0, len(rows))
	for _, rec := range rows {
		if _, ok := seen[rec.Key()]; ok {
			continue
		}
		seen[rec.Key()] = struct{}{}
		unique = append(unique, rec)
	}

	return &holiday.QueryResult{Count: len(unique), Holidays: unique}, nil
}
