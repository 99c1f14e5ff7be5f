package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"wealthgrows/internal/amqp"
)

type requestReportRequest struct {
	Scope string `json:"scope"` // "monthly" or "yearly"
	Year  int    `json:"year"`
	Month int    `json:"month,omitempty"`
	Note  string `json:"note,omitempty"`
}

type requestReportResponse struct {
	Queued bool   `json:"queued"`
	Period string `json:"period"`
}

func (s *Server) handleRequestReport(w http.ResponseWriter, r *http.Request) {
	var req requestReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	var msg *amqp.ReportRequestMessage
	switch req.Scope {
	case amqp.ScopeMonthly:
		msg = amqp.NewMonthlyReportRequest(req.Year, time.Month(req.Month), sanitizeInput(req.Note))
	case amqp.ScopeYearly:
		msg = amqp.NewYearlyReportRequest(req.Year, sanitizeInput(req.Note))
	default:
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "scope must be monthly or yearly"})
		return
	}
	if err := msg.Validate(); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}

	queued, rep, err := s.reports.Request(r.Context(), msg)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if queued {
		// The worker will replace this period's report; a cached copy
		// would keep serving the old body until its TTL ran out.
		s.reportCache.Delete(msg.PeriodLabel())
		writeJSON(w, http.StatusAccepted, requestReportResponse{Queued: true, Period: msg.PeriodLabel()})
		return
	}

	s.reportCache.Set(rep.Period, rep)
	writeJSON(w, http.StatusCreated, rep)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	period := strings.TrimSpace(r.URL.Query().Get("period"))
	if period == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing period parameter"})
		return
	}

	if rep, ok := s.reportCache.Get(period); ok {
		writeJSON(w, http.StatusOK, rep)
		return
	}

	rep, err := s.reports.Get(r.Context(), period)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.reportCache.Set(period, rep)
	writeJSON(w, http.StatusOK, rep)
}
