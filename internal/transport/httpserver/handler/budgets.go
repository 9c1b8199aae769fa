package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	budgetsdomain "finance-tracker-go/internal/domain/budgets"
	ledgerdomain "finance-tracker-go/internal/domain/ledger"
	"finance-tracker-go/internal/transport/httpserver/middleware"
)

type upsertBudgetRequest struct {
	CategoryName string          `json:"category_name"`
	Amount       decimal.Decimal `json:"amount"`
	Month        string          `json:"month"`
}

func (h *Handlers) ListBudgets(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "user_not_resolved", "user not resolved")
		return
	}

	month, err := parseMonthParam(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid month")
		return
	}

	items, err := h.Budgets.List(r.Context(), userID, month)
	if err != nil {
		h.log.InternalError("budgets.list: list failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]budgetResponse, 0, len(items))
	for _, budget := range items {
		response = append(response, toBudgetResponse(budget))
	}
	writeJSON(w, http.StatusOK, budgetListResponse{Items: response})
}

func (h *Handlers) UpsertBudget(w http.ResponseWriter, r *http.Request) {
	var req upsertBudgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "user_not_resolved", "user not resolved")
		return
	}

	if strings.TrimSpace(req.CategoryName) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "category name is required")
		return
	}
	if !req.Amount.IsPositive() {
		writeError(w, http.StatusBadRequest, "invalid_request", "amount must be positive")
		return
	}
	if _, err := parseMonthParam(req.Month); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid month")
		return
	}

	saved, err := h.Budgets.Upsert(r.Context(), userID, budgetsdomain.UpsertInput{
		CategoryName: req.CategoryName,
		Amount:       req.Amount,
		Month:        req.Month,
	})
	if err != nil {
		h.log.InternalError("budgets.upsert: upsert failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toBudgetResponse(*saved))
}

func (h *Handlers) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	budgetID := strings.TrimSpace(chi.URLParam(r, "id"))
	if budgetID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "user_not_resolved", "user not resolved")
		return
	}

	if err := h.Budgets.Delete(r.Context(), userID, budgetID); err != nil {
		if errors.Is(err, budgetsdomain.ErrBudgetNotFound) {
			h.log.BusinessError("budgets.delete: budget not found", err, "user_id", userID, "budget_id", budgetID)
			writeError(w, http.StatusNotFound, "budget_not_found", "budget not found")
			return
		}
		h.log.InternalError("budgets.delete: delete failed", err, "user_id", userID, "budget_id", budgetID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// BudgetProgress joins the budgets with the transaction set and derives the
// spent figure per budget on the fly.
func (h *Handlers) BudgetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "user_not_resolved", "user not resolved")
		return
	}

	month, err := parseMonthParam(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid month")
		return
	}

	items, err := h.Budgets.List(r.Context(), userID, month)
	if err != nil {
		h.log.InternalError("budgets.progress: list budgets failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	transactions, err := h.Ledger.ListTransactions(r.Context(), userID, ledgerdomain.ListFilter{})
	if err != nil {
		h.log.InternalError("budgets.progress: list transactions failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	progress := budgetsdomain.ComputeProgress(items, transactions)
	response := make([]budgetProgressResponse, 0, len(progress))
	for _, item := range progress {
		response = append(response, budgetProgressResponse{
			budgetResponse: toBudgetResponse(item.Budget),
			Spent:          item.Spent,
		})
	}
	writeJSON(w, http.StatusOK, budgetProgressListResponse{Items: response})
}

type budgetResponse struct {
	ID           string          `json:"id"`
	CategoryName string          `json:"category_name"`
	Amount       decimal.Decimal `json:"amount"`
	Month        string          `json:"month"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type budgetListResponse struct {
	Items []budgetResponse `json:"items"`
}

type budgetProgressResponse struct {
	budgetResponse
	Spent decimal.Decimal `json:"spent"`
}

type budgetProgressListResponse struct {
	Items []budgetProgressResponse `json:"items"`
}

func toBudgetResponse(budget budgetsdomain.Budget) budgetResponse {
	return budgetResponse{
		ID:           budget.ID,
		CategoryName: budget.CategoryName,
		Amount:       budget.Amount,
		Month:        budget.Month,
		CreatedAt:    budget.CreatedAt,
		UpdatedAt:    budget.UpdatedAt,
	}
}
