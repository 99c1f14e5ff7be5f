package http

import (
	"encoding/json"
	"net/http"
	"time"

	"wealthgrows/internal/core"
	"wealthgrows/internal/services"
)

type createTransactionRequest struct {
	Amount       jsonAmount `json:"amount"`
	Type         string     `json:"type,omitempty"`
	CategoryID   string     `json:"categoryId"`
	CategoryName string     `json:"categoryName,omitempty"`
	Note         string     `json:"note,omitempty"`
	Date         string     `json:"date,omitempty"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := s.ledger.ListTransactions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := parseDate(req.Date)
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid date"})
			return
		}
		date = parsed
	}

	created, _, err := s.ledger.RecordTransaction(r.Context(), services.NewTransactionInput{
		Amount:       req.Amount.Money,
		Type:         core.TransactionType(req.Type),
		CategoryID:   req.CategoryID,
		CategoryName: sanitizeInput(req.CategoryName),
		Note:         sanitizeInput(req.Note),
		Date:         date,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.reportCache.Clear()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	all, err := s.ledger.DeleteTransaction(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.reportCache.Clear()
	writeJSON(w, http.StatusOK, all)
}
