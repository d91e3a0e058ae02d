package api

import (
	"context"

	"github.com/ldhiman/holiday-api/internal/holiday"
	syncer "github.com/ldhiman/holiday-api/internal/sync"
)

// HolidaySyncer defines the reconciliation operations needed by handlers.
type HolidaySyncer interface {
	SyncOne(ctx context.Context, year int, country string) (*syncer.CellResult, error)
	SyncAll(ctx context.Context, years []int, countries []string) *syncer.Report
}

// HolidayQuerier defines the read operations needed by handlers.
type HolidayQuerier interface {
	Query(ctx context.Context, f holiday.Filter) (*holiday.QueryResult, error)
}

// QueryCache defines the cache operations needed by handlers.
type QueryCache interface {
	Get(ctx context.Context, f holiday.Filter) (*holiday.QueryResult, error)
	Set(ctx context.Context, f holiday.Filter, result *holiday.QueryResult) error
	InvalidateCountry(ctx context.Context, country string) error
}
