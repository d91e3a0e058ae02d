// Package sync reconciles provider holiday data into the store. One
// (year, country) cell is fetched and upserted at a time; a failing cell or
// record never aborts its siblings.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	stdsync "sync"

	"golang.org/x/sync/errgroup"

	"github.com/ldhiman/holiday-api/internal/holiday"
)

// defaultUpsertLimit bounds concurrent per-record upserts within one batch.
const defaultUpsertLimit = 8

// FetchError reports a failed provider fetch for one (year, country) cell.
type FetchError struct {
	Country string
	Year    int
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching holidays for %s/%d: %v", e.Country, e.Year, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// RecordError reports a single record that could not be upserted.
type RecordError struct {
	Record holiday.Record
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("upserting holiday %q (%s, %s): %v", e.Record.Name, e.Record.Country, e.Record.Date, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// CellResult reports the outcome of syncing one (year, country) cell.
// Failed holds per-record upsert errors; the cell itself still completed.
type CellResult struct {
	Country  string
	Year     int
	Upserted int
	Failed   []*RecordError
}

// Report accumulates the outcome of a full matrix sweep.
type Report struct {
	Cells          int `json:"cells"`
	Succeeded      int `json:"succeeded"`
	FetchFailures  int `json:"fetch_failures"`
	RecordFailures int `json:"record_failures"`
	Upserted       int `json:"upserted"`
}

// fetcher is the interface satisfied by provider.Client.
type fetcher interface {
	Fetch(ctx context.Context, year int, country string) ([]holiday.Record, error)
}

// upserter is the interface satisfied by storage.Repository.
type upserter interface {
	UpsertHoliday(ctx context.Context, rec holiday.Record) error
}

// Reconciler merges provider holiday sets into the store idempotently.
type Reconciler struct {
	provider fetcher
	store    upserter
	log      *slog.Logger
	limit    int
}

// NewReconciler constructs a Reconciler with the default upsert concurrency.
func NewReconciler(provider fetcher, store upserter, log *slog.Logger) *Reconciler {
	return &Reconciler{provider: provider, store: store, log: log, limit: defaultUpsertLimit}
}

// SyncOne fetches the holiday set for one (year, country) cell and upserts
// every record. It returns an error only when the fetch itself fails; an
// empty set is a successful no-op, and individual upsert failures are
// collected into the result without aborting the rest of the batch.
func (r *Reconciler) SyncOne(ctx context.Context, year int, country string) (*CellResult, error) {
	records, err := r.provider.Fetch(ctx, year, country)
	if err != nil {
		return nil, &FetchError{Country: country, Year: year, Err: err}
	}

	result := &CellResult{Country: country, Year: year}

	if len(records) == 0 {
		r.log.Info("no holidays returned", "country", country, "year", year)
		return result, nil
	}

	var mu stdsync.Mutex
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)

	for _, rec := range records {
		rec := rec
		g.Go(func() error {
			if err := r.store.UpsertHoliday(gCtx, rec); err != nil {
				r.log.Warn("holiday upsert failed", "name", rec.Name, "country", rec.Country, "date", rec.Date, "err", err)
				mu.Lock()
				result.Failed = append(result.Failed, &RecordError{Record: rec, Err: err})
				mu.Unlock()
				return nil
			}
			mu.Lock()
			result.Upserted++
			mu.Unlock()
			return nil
		})
	}

	// Upsert errors are swallowed above, so Wait only joins the batch.
	_ = g.Wait()

	r.log.Info("holiday cell synced",
		"country", country, "year", year,
		"upserted", result.Upserted, "failed", len(result.Failed))

	return result, nil
}

// SyncAll sweeps the full years x countries matrix sequentially, one cell at
// a time to bound load on the provider. A failing cell is recorded in the
// report and never aborts the sweep.
func (r *Reconciler) SyncAll(ctx context.Context, years []int, countries []string) *Report {
	report := &Report{}

	for _, year := range years {
		for _, country := range countries {
			report.Cells++

			result, err := r.SyncOne(ctx, year, country)
			if err != nil {
				r.log.Warn("holiday cell sync failed", "country", country, "year", year, "err", err)
				report.FetchFailures++
				continue
			}

			report.Succeeded++
			report.Upserted += result.Upserted
			report.RecordFailures += len(result.Failed)
		}
	}

	return report
}
