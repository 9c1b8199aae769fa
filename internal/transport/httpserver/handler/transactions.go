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

type transactionRequest struct {
	Kind         string          `json:"kind"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	Date         string          `json:"date"`
	Category     string          `json:"category"`
	Source       string          `json:"source"`
	LinkedDebtID string          `json:"linked_debt_id"`
	IsRecurring  bool            `json:"is_recurring"`
}

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "user_not_resolved", "user not resolved")
		return
	}

	query := r.URL.Query()
	from, err := parseDateParam(query.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid from date")
		return
	}
	to, err := parseDateParam(query.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid to date")
		return
	}
	includeRecurring, err := parseBoolParam(query.Get("include_recurring"), false)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid include_recurring")
		return
	}

	filter := ledgerdomain.ListFilter{
		From:             from,
		To:               to,
		IncludeRecurring: includeRecurring,
	}
	items, err := h.Ledger.ListTransactions(r.Context(), userID, filter)
	if err != nil {
		h.log.InternalError("transactions.list: list failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]transactionResponse, 0, len(items))
	for _, transaction := range items {
		response = append(response, toTransactionResponse(transaction))
	}
	writeJSON(w, http.StatusOK, transactionListResponse{Items: response})
}

func (h *Handlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	h.recordTransaction(w, r, "")
}

func (h *Handlers) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := strings.TrimSpace(chi.URLParam(r, "id"))
	if transactionID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}
	h.recordTransaction(w, r, transactionID)
}

func (h *Handlers) recordTransaction(w http.ResponseWriter, r *http.Request, editingID string) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "user_not_resolved", "user not resolved")
		return
	}

	kind := ledgerdomain.Kind(strings.TrimSpace(req.Kind))
	if kind != ledgerdomain.KindIncome && kind != ledgerdomain.KindExpense {
		writeError(w, http.StatusBadRequest, "invalid_request", "kind must be income or expense")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "description is required")
		return
	}
	if !req.Amount.IsPositive() {
		writeError(w, http.StatusBadRequest, "invalid_request", "amount must be positive")
		return
	}
	date, err := parseDateRequired(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
		return
	}

	linkedDebtID := strings.TrimSpace(req.LinkedDebtID)
	if linkedDebtID != "" {
		if kind != ledgerdomain.KindExpense {
			writeError(w, http.StatusBadRequest, "invalid_request", "only an expense can reference a debt")
			return
		}
		if req.IsRecurring {
			writeError(w, http.StatusBadRequest, "invalid_request", "a recurring template cannot reference a debt")
			return
		}
	}
	if kind == ledgerdomain.KindExpense && linkedDebtID == "" && strings.TrimSpace(req.Category) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "category is required")
		return
	}
	if kind == ledgerdomain.KindIncome && strings.TrimSpace(req.Source) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "source is required")
		return
	}

	input := ledgerdomain.TransactionInput{
		Kind:         kind,
		Description:  req.Description,
		Amount:       req.Amount,
		Timestamp:    date,
		Category:     req.Category,
		Source:       req.Source,
		LinkedDebtID: linkedDebtID,
		IsRecurring:  req.IsRecurring,
	}

	created, err := h.Ledger.RecordTransaction(r.Context(), userID, input, editingID)
	if err != nil {
		switch {
		case errors.Is(err, ledgerdomain.ErrTransactionNotFound):
			h.log.BusinessError("transactions.record: transaction not found", err, "user_id", userID, "transaction_id", editingID)
			writeError(w, http.StatusNotFound, "transaction_not_found", "transaction not found")
		case errors.Is(err, ledgerdomain.ErrDebtNotFound):
			h.log.BusinessError("transactions.record: debt not found", err, "user_id", userID, "debt_id", linkedDebtID)
			writeError(w, http.StatusNotFound, "debt_not_found", "debt not found")
		case errors.Is(err, ledgerdomain.ErrLinkedTransactionImmutable):
			h.log.BusinessError("transactions.record: linked transaction immutable", err, "user_id", userID, "transaction_id", editingID)
			writeError(w, http.StatusConflict, "linked_transaction_immutable", "linked transactions can only be deleted")
		default:
			h.log.InternalError("transactions.record: record failed", err, "user_id", userID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	status := http.StatusCreated
	if editingID != "" {
		status = http.StatusOK
	}
	writeJSON(w, status, toTransactionResponse(*created))
}

func (h *Handlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := strings.TrimSpace(chi.URLParam(r, "id"))
	if transactionID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "user_not_resolved", "user not resolved")
		return
	}

	if err := h.Ledger.DeleteTransaction(r.Context(), userID, transactionID); err != nil {
		if errors.Is(err, ledgerdomain.ErrTransactionNotFound) {
			h.log.BusinessError("transactions.delete: transaction not found", err, "user_id", userID, "transaction_id", transactionID)
			writeError(w, http.StatusNotFound, "transaction_not_found", "transaction not found")
			return
		}
		h.log.InternalError("transactions.delete: delete failed", err, "user_id", userID, "transaction_id", transactionID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type transactionResponse struct {
	ID           string          `json:"id"`
	Kind         string          `json:"kind"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	Date         string          `json:"date"`
	Category     string          `json:"category,omitempty"`
	Source       string          `json:"source,omitempty"`
	LinkedDebtID *string         `json:"linked_debt_id,omitempty"`
	LinkedGoalID *string         `json:"linked_goal_id,omitempty"`
	IsRecurring  bool            `json:"is_recurring"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type transactionListResponse struct {
	Items []transactionResponse `json:"items"`
}

func toTransactionResponse(transaction ledgerdomain.Transaction) transactionResponse {
	return transactionResponse{
		ID:           transaction.ID,
		Kind:         string(transaction.Kind),
		Description:  transaction.Description,
		Amount:       transaction.Amount,
		Date:         transaction.Timestamp.Format("2006-01-02"),
		Category:     transaction.Category,
		Source:       transaction.Source,
		LinkedDebtID: transaction.LinkedDebtID,
		LinkedGoalID: transaction.LinkedGoalID,
		IsRecurring:  transaction.IsRecurring,
		CreatedAt:    transaction.CreatedAt,
		UpdatedAt:    transaction.UpdatedAt,
	}
}
