package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ldhiman/holiday-api/internal/holiday"
)

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	syncer  HolidaySyncer
	queries HolidayQuerier
	cache   QueryCache
	log     *slog.Logger
	now     func() time.Time
}

// NewHandlers constructs Handlers with all required dependencies.
func NewHandlers(syncer HolidaySyncer, queries HolidayQuerier, cache QueryCache, log *slog.Logger) *Handlers {
	return NewHandlersWithClock(syncer, queries, cache, log, time.Now)
}

// NewHandlersWithClock constructs Handlers with an injected clock (for tests).
func NewHandlersWithClock(syncer HolidaySyncer, queries HolidayQuerier, cache QueryCache, log *slog.Logger, now func() time.Time) *Handlers {
	return &Handlers{
		syncer:  syncer,
		queries: queries,
		cache:   cache,
		log:     log,
		now:     now,
	}
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeText writes a plain-text body with the given status code.
func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// GetHolidays handles GET /api/holidays?date=YYYY-MM-DD&country=CC&type=T.
// All parameters are optional; a missing date means today (UTC). Cache hit
// returns immediately; otherwise the query result is cached on the way out.
// Store failures surface the underlying error message.
func (h *Handlers) GetHolidays(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := holiday.Filter{
		Date:    q.Get("date"),
		Country: q.Get("country"),
		Type:    q.Get("type"),
	}
	// Resolve the date before the cache lookup so "no date" and an explicit
	// today share an entry.
	filter = filter.WithDefaultDate(h.now())

	cached, err := h.cache.Get(r.Context(), filter)
	if err != nil {
		h.log.Error("cache get failed", "filter", filter, "err", err)
	}
	if cached != nil {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	result, err := h.queries.Query(r.Context(), filter)
	if err != nil {
		h.log.Error("holiday query failed", "filter", filter, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if err := h.cache.Set(r.Context(), filter, result); err != nil {
		h.log.Warn("cache set failed after query", "filter", filter, "err", err)
	}

	writeJSON(w, http.StatusOK, result)
}

// RequestHolidays handles GET /api/request_holidays?year=YYYY&country=CC.
// Triggers a single-cell sync. Per-record failures inside the batch do not
// surface; only a failed fetch does.
func (h *Handlers) RequestHolidays(w http.ResponseWriter, r *http.Request) {
	yearStr := r.URL.Query().Get("year")
	country := r.URL.Query().Get("country")
	if yearStr == "" || country == "" {
		writeText(w, http.StatusBadRequest, "Year and Country Required!!")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		writeText(w, http.StatusBadRequest, "Year and Country Required!!")
		return
	}

	if _, err := h.syncer.SyncOne(r.Context(), year, country); err != nil {
		h.log.Error("holiday sync failed", "country", country, "year", year, "err", err)
		writeText(w, http.StatusInternalServerError, "Holiday Request Failed!!")
		return
	}

	if err := h.cache.InvalidateCountry(r.Context(), country); err != nil {
		h.log.Warn("cache invalidation failed after sync", "country", country, "err", err)
	}

	writeText(w, http.StatusOK, "Holiday Requested!!")
}

// SyncAllHolidays handles POST /api/sync_all. It sweeps the full country
// list for the current and next year and returns the accumulated report.
// Cell failures are in the report, never an HTTP error.
func (h *Handlers) SyncAllHolidays(w http.ResponseWriter, r *http.Request) {
	currentYear := h.now().UTC().Year()
	years := []int{currentYear, currentYear + 1}

	report := h.syncer.SyncAll(r.Context(), years, holiday.Countries)

	writeJSON(w, http.StatusOK, report)
}

// Root handles GET / as a liveness probe.
func (h *Handlers) Root(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "OK")
}

type dbPinger interface {
	Ping(ctx context.Context) error
}

type redisPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlerFunc returns an http.HandlerFunc that checks db and redis
// connectivity; 200 if both respond, 503 otherwise.
func HealthHandlerFunc(db dbPinger, redis redisPinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		dbStatus := "ok"
		redisStatus := "ok"

		if err := db.Ping(ctx); err != nil {
			log.Error("health check: db ping failed", "err", err)
			dbStatus = "error"
			status = http.StatusServiceUnavailable
		}

		if err := redis.Ping(ctx); err != nil {
			log.Error("health check: redis ping failed", "err", err)
			redisStatus = "error"
			status = http.StatusServiceUnavailable
		}

		writeJSON(w, status, map[string]string{
			"status": func() string {
				if status == http.StatusOK {
					return "ok"
				}
				return "degraded"
			}(),
			"db":    dbStatus,
			"redis": redisStatus,
		})
	}
}
