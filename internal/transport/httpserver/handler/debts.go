package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	ledgerdomain "finance-tracker-go/internal/domain/ledger"
	"finance-tracker-go/internal/transport/httpserver/middleware"
)

type createDebtRequest struct {
	Description string          `json:"description"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type debtPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *Handlers) ListDebts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "user_not_resolved", "user not resolved")
		return
	}

	items, err := h.Ledger.ListDebts(r.Context(), userID)
	if err != nil {
		h.log.InternalError("debts.list: list failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]debtResponse, 0, len(items))
	for _, debt := range items {
		response = append(response, toDebtResponse(debt))
	}
	writeJSON(w, http.StatusOK, debtListResponse{Items: response})
}

func (h *Handlers) CreateDebt(w http.ResponseWriter, r *http.Request) {
	var req createDebtRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "user_not_resolved", "user not resolved")
		return
	}

	if strings.TrimSpace(req.Description) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "description is required")
		return
	}
	if !req.TotalAmount.IsPositive() {
		writeError(w, http.StatusBadRequest, "invalid_request", "total amount must be positive")
		return
	}

	created, err := h.Ledger.CreateDebt(r.Context(), userID, ledgerdomain.CreateDebtInput{
		Description: req.Description,
		TotalAmount: req.TotalAmount,
	})
	if err != nil {
		h.log.InternalError("debts.create: create failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toDebtResponse(*created))
}

func (h *Handlers) DeleteDebt(w http.ResponseWriter, r *http.Request) {
	debtID := strings.TrimSpace(chi.URLParam(r, "id"))
	if debtID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "user_not_resolved", "user not resolved")
		return
	}

	if err := h.Ledger.DeleteDebt(r.Context(), userID, debtID); err != nil {
		switch {
		case errors.Is(err, ledgerdomain.ErrDebtNotFound):
			h.log.BusinessError("debts.delete: debt not found", err, "user_id", userID, "debt_id", debtID)
			writeError(w, http.StatusNotFound, "debt_not_found", "debt not found")
		case errors.Is(err, ledgerdomain.ErrDebtHasPayments):
			h.log.BusinessError("debts.delete: debt has payments", err, "user_id", userID, "debt_id", debtID)
			writeError(w, http.StatusConflict, "debt_has_payments", "delete the payment transactions first")
		default:
			h.log.InternalError("debts.delete: delete failed", err, "user_id", userID, "debt_id", debtID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) CreateDebtPayment(w http.ResponseWriter, r *http.Request) {
	var req debtPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	debtID := strings.TrimSpace(chi.URLParam(r, "id"))
	if debtID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "user_not_resolved", "user not resolved")
		return
	}

	if !req.Amount.IsPositive() {
		writeError(w, http.StatusBadRequest, "invalid_request", "amount must be positive")
		return
	}

	created, err := h.Ledger.RecordDebtPayment(r.Context(), userID, debtID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, ledgerdomain.ErrDebtNotFound):
			h.log.BusinessError("debts.pay: debt not found", err, "user_id", userID, "debt_id", debtID)
			writeError(w, http.StatusNotFound, "debt_not_found", "debt not found")
		case errors.Is(err, ledgerdomain.ErrPaymentExceedsDebt):
			h.log.BusinessError("debts.pay: payment exceeds debt", err, "user_id", userID, "debt_id", debtID)
			writeError(w, http.StatusUnprocessableEntity, "payment_exceeds_debt", "payment exceeds the remaining amount")
		default:
			h.log.InternalError("debts.pay: payment failed", err, "user_id", userID, "debt_id", debtID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionResponse(*created))
}

type debtResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	Remaining   decimal.Decimal `json:"remaining"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

type debtListResponse struct {
	Items []debtResponse `json:"items"`
}

func toDebtResponse(debt ledgerdomain.Debt) debtResponse {
	return debtResponse{
		ID:          debt.ID,
		Description: debt.Description,
		TotalAmount: debt.TotalAmount,
		PaidAmount:  debt.PaidAmount,
		Remaining:   debt.Remaining(),
		Status:      string(debt.Status),
		CreatedAt:   debt.CreatedAt,
	}
}
