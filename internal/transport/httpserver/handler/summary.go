package handler

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	ledgerdomain "finance-tracker-go/internal/domain/ledger"
	"finance-tracker-go/internal/transport/httpserver/middleware"
)

type summaryResponse struct {
	Period          string          `json:"period"`
	Income          decimal.Decimal `json:"income"`
	Expenses        decimal.Decimal `json:"expenses"`
	Balance         decimal.Decimal `json:"balance"`
	OutstandingDebt decimal.Decimal `json:"outstanding_debt"`
}

// Summary derives the headline figures for the dashboard. Everything is
// recomputed from the stored transactions and debts on each call.
func (h *Handlers) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "user_not_resolved", "user not resolved")
		return
	}

	period := ledgerdomain.Period(strings.TrimSpace(r.URL.Query().Get("period")))
	if period == "" {
		period = ledgerdomain.PeriodMonth
	}
	if period != ledgerdomain.PeriodMonth && period != ledgerdomain.PeriodAll {
		writeError(w, http.StatusBadRequest, "invalid_request", "period must be month or all")
		return
	}

	totals, err := h.Ledger.Totals(r.Context(), userID, period)
	if err != nil {
		h.log.InternalError("summary: totals failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	debts, err := h.Ledger.ListDebts(r.Context(), userID)
	if err != nil {
		h.log.InternalError("summary: list debts failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		Period:          string(period),
		Income:          totals.Income,
		Expenses:        totals.Expenses,
		Balance:         totals.Balance,
		OutstandingDebt: ledgerdomain.OutstandingDebt(debts),
	})
}
