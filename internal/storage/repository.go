package storage

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ldhiman/holiday-api/internal/holiday"
)

// Querier abstracts the subset of pgxpool.Pool used by Repository.
// This allows injection of a mock in tests.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository provides database access for holiday records.
type Repository struct {
	q Querier
}

// NewRepository constructs a Repository backed by the given pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{q: pool}
}

// NewRepositoryWithQuerier constructs a Repository with a custom Querier (for tests).
func NewRepositoryWithQuerier(q Querier) *Repository {
	return &Repository{q: q}
}

// UpsertHoliday inserts the record, or overwrites type when the
// (name, date, country) tuple already exists. Rows are never deleted.
func (r *Repository) UpsertHoliday(ctx context.Context, rec holiday.Record) error {
	const q = `
		INSERT INTO holidays (name, date, country, type)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT ON CONSTRAINT holidays_unique
		DO UPDATE SET type = EXCLUDED.type
	`

	if _, err := r.q.Exec(ctx, q, rec.Name, rec.Date, rec.Country, rec.Type); err != nil {
		return fmt.Errorf("upserting holiday %q for %s on %s: %w", rec.Name, rec.Country, rec.Date, err)
	}

	return nil
}

// QueryHolidays returns all rows matching the filter. Each non-empty filter
// field becomes an equality condition; empty fields are left out of the
// predicate. No ordering is imposed beyond the store's natural result order.
func (r *Repository) QueryHolidays(ctx context.Context, f holiday.Filter) ([]holiday.Record, error) {
	var (
		conds []string
		args  []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		conds = append(conds, column+" = $"+strconv.Itoa(len(args)))
	}

	add("date", f.Date)
	if f.Country != "" {
		add("country", f.Country)
	}
	if f.Type != "" {
		add("type", f.Type)
	}

	q := "SELECT name, date, country, type FROM holidays WHERE " + strings.Join(conds, " AND ")

	rows, err := r.q.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying holidays: %w", err)
	}
	defer rows.Close()

	var results []holiday.Record
	for rows.Next() {
		var rec holiday.Record
		var date time.Time

		if err := rows.Scan(&rec.Name, &date, &rec.Country, &rec.Type); err != nil {
			return nil, fmt.Errorf("scanning holiday row: %w", err)
		}

		rec.Date = date.Format(holiday.DateLayout)
		results = append(results, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating holiday rows: %w", err)
	}

	return results, nil
}
