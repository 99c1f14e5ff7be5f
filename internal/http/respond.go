package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"wealthgrows/internal/core"
	"wealthgrows/internal/services"
	"wealthgrows/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Encode response failed", "error", err)
	}
}

// writeError maps domain and store errors onto HTTP statuses. Unknown errors
// become 500s with a generic body so internals never leak to clients.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch {
	case errors.Is(err, store.ErrUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, store.ErrCorrupt):
		status = http.StatusInternalServerError
	case errors.Is(err, store.ErrDuplicateID):
		status = http.StatusConflict
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrUnknownCategory),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidMacro),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrEmptyID),
		errors.Is(err, core.ErrEmptyName):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrReportingUnavailable):
		status = http.StatusNotImplemented
	default:
		status = http.StatusInternalServerError
	}

	slog.ErrorContext(r.Context(), "Request failed",
		"method", r.Method, "url", r.URL.Path, "status", status, "error", err)

	body := err.Error()
	if status == http.StatusInternalServerError && !errors.Is(err, store.ErrCorrupt) {
		body = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: body})
}

// jsonAmount accepts both a JSON number and a quoted decimal string, with dot
// or comma separators.
type jsonAmount struct {
	core.Money
}

func (a *jsonAmount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	cents, err := core.ParseDecimalToCents(s)
	if err != nil {
		return err
	}
	a.Cents = cents
	return nil
}

// parseYear extracts the year query parameter, defaulting to the current
// one. A malformed value is an error, never silently replaced.
func parseYear(r *http.Request, now time.Time) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get("year"))
	if v == "" {
		return now.Year(), nil
	}
	year, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid year %q", v)
	}
	return year, nil
}

// parseYearMonth extracts year and month query parameters, defaulting to the
// current period. Malformed or out-of-range values are errors.
func parseYearMonth(r *http.Request, now time.Time) (int, time.Month, error) {
	year, err := parseYear(r, now)
	if err != nil {
		return 0, 0, err
	}

	month := now.Month()
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, fmt.Errorf("invalid month %q", v)
		}
		month = time.Month(m)
	}
	return year, month, nil
}

// parseDate accepts YYYY-MM-DD or RFC 3339 timestamps.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
