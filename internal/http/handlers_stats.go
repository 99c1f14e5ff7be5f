package http

import (
	"net/http"
	"time"

	"wealthgrows/internal/core"
	"wealthgrows/internal/query"
)

type monthStatsResponse struct {
	Year          int        `json:"year"`
	Month         int        `json:"month"`
	Stats         core.Stats `json:"stats"`
	PreviousStats core.Stats `json:"previousStats"`
}

type yearStatsResponse struct {
	Year  int        `json:"year"`
	Stats core.Stats `json:"stats"`
}

// handleMonthStats returns the stats of the requested month together with the
// previous month's, which the dashboard uses for trend arrows. Statistics are
// recomputed from the full ledger on every call, never cached.
func (s *Server) handleMonthStats(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r, time.Now())
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}

	transactions, err := s.ledger.ListTransactions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	ref := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	writeJSON(w, http.StatusOK, monthStatsResponse{
		Year:          year,
		Month:         int(month),
		Stats:         query.ForMonth(transactions, year, month),
		PreviousStats: query.ForPreviousMonth(transactions, ref),
	})
}

func (s *Server) handleYearStats(w http.ResponseWriter, r *http.Request) {
	year, err := parseYear(r, time.Now())
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}

	transactions, err := s.ledger.ListTransactions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, yearStatsResponse{
		Year:  year,
		Stats: query.ForYear(transactions, year),
	})
}

// handleYears lists the years selectable in the dashboard, newest first. The
// current year is always present even with an empty ledger.
func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	transactions, err := s.ledger.ListTransactions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, query.AvailableYears(transactions, time.Now()))
}
