package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	categoriesdomain "finance-tracker-go/internal/domain/categories"
	ledgerdomain "finance-tracker-go/internal/domain/ledger"
	"finance-tracker-go/internal/transport/httpserver/middleware"
)

// Stream pushes live snapshots over server-sent events. Every collection is
// sent in full right after connect and again after each change; a client
// that only renders the latest event of each type is always consistent.
func (h *Handlers) Stream(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "user_not_resolved", "user not resolved")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming_unsupported", "streaming unsupported")
		return
	}

	ctx := r.Context()

	transactions, releaseTransactions, err := h.Ledger.WatchTransactions(ctx, userID, ledgerdomain.ListFilter{IncludeRecurring: true})
	if err != nil {
		h.log.InternalError("stream: watch transactions failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	defer releaseTransactions()

	debts, releaseDebts, err := h.Ledger.WatchDebts(ctx, userID)
	if err != nil {
		h.log.InternalError("stream: watch debts failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	defer releaseDebts()

	goals, releaseGoals, err := h.Ledger.WatchGoals(ctx, userID)
	if err != nil {
		h.log.InternalError("stream: watch goals failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	defer releaseGoals()

	budgets, releaseBudgets, err := h.Budgets.Watch(ctx, userID, "")
	if err != nil {
		h.log.InternalError("stream: watch budgets failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	defer releaseBudgets()

	expenseCategories, releaseExpenseCategories, err := h.Categories.Watch(ctx, userID, categoriesdomain.KindExpense)
	if err != nil {
		h.log.InternalError("stream: watch expense categories failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	defer releaseExpenseCategories()

	incomeCategories, releaseIncomeCategories, err := h.Categories.Watch(ctx, userID, categoriesdomain.KindIncome)
	if err != nil {
		h.log.InternalError("stream: watch income categories failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	defer releaseIncomeCategories()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case items, ok := <-transactions:
			if !ok {
				return
			}
			payload := make([]transactionResponse, 0, len(items))
			for _, item := range items {
				payload = append(payload, toTransactionResponse(item))
			}
			sendEvent(w, flusher, "transactions", payload)
		case items, ok := <-debts:
			if !ok {
				return
			}
			payload := make([]debtResponse, 0, len(items))
			for _, item := range items {
				payload = append(payload, toDebtResponse(item))
			}
			sendEvent(w, flusher, "debts", payload)
		case items, ok := <-goals:
			if !ok {
				return
			}
			payload := make([]goalResponse, 0, len(items))
			for _, item := range items {
				payload = append(payload, toGoalResponse(item))
			}
			sendEvent(w, flusher, "goals", payload)
		case items, ok := <-budgets:
			if !ok {
				return
			}
			payload := make([]budgetResponse, 0, len(items))
			for _, item := range items {
				payload = append(payload, toBudgetResponse(item))
			}
			sendEvent(w, flusher, "budgets", payload)
		case items, ok := <-expenseCategories:
			if !ok {
				return
			}
			sendEvent(w, flusher, "expense_categories", toCategoryResponses(items))
		case items, ok := <-incomeCategories:
			if !ok {
				return
			}
			sendEvent(w, flusher, "income_categories", toCategoryResponses(items))
		}
	}
}

func toCategoryResponses(items []categoriesdomain.Category) []categoryResponse {
	payload := make([]categoryResponse, 0, len(items))
	for _, item := range items {
		payload = append(payload, toCategoryResponse(item))
	}
	return payload
}

func sendEvent(w io.Writer, flusher http.Flusher, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	flusher.Flush()
}
