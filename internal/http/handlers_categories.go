package http

import (
	"encoding/json"
	"net/http"

	"wealthgrows/internal/core"
	"wealthgrows/internal/services"
)

type createCategoryRequest struct {
	Name  string `json:"name"`
	Icon  string `json:"icon,omitempty"`
	Type  string `json:"type"`
	Macro string `json:"macroCategory"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.ledger.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	created, _, err := s.ledger.AddCategory(r.Context(), services.NewCategoryInput{
		Name:  sanitizeInput(req.Name),
		Icon:  sanitizeInput(req.Icon),
		Type:  core.TransactionType(req.Type),
		Macro: core.MacroCategory(req.Macro),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	all, err := s.ledger.DeleteCategory(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, all)
}
