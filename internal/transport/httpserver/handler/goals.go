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

type createGoalRequest struct {
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	TargetDate   string          `json:"target_date"`
}

type goalContributionRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *Handlers) ListGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "user_not_resolved", "user not resolved")
		return
	}

	items, err := h.Ledger.ListGoals(r.Context(), userID)
	if err != nil {
		h.log.InternalError("goals.list: list failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]goalResponse, 0, len(items))
	for _, goal := range items {
		response = append(response, toGoalResponse(goal))
	}
	writeJSON(w, http.StatusOK, goalListResponse{Items: response})
}

func (h *Handlers) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "user_not_resolved", "user not resolved")
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}
	if !req.TargetAmount.IsPositive() {
		writeError(w, http.StatusBadRequest, "invalid_request", "target amount must be positive")
		return
	}
	targetDate, err := parseDateRequired(req.TargetDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid target date")
		return
	}

	created, err := h.Ledger.CreateGoal(r.Context(), userID, ledgerdomain.CreateGoalInput{
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		TargetDate:   targetDate,
	})
	if err != nil {
		h.log.InternalError("goals.create: create failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toGoalResponse(*created))
}

func (h *Handlers) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	goalID := strings.TrimSpace(chi.URLParam(r, "id"))
	if goalID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "user_not_resolved", "user not resolved")
		return
	}

	if err := h.Ledger.DeleteGoal(r.Context(), userID, goalID); err != nil {
		switch {
		case errors.Is(err, ledgerdomain.ErrGoalNotFound):
			h.log.BusinessError("goals.delete: goal not found", err, "user_id", userID, "goal_id", goalID)
			writeError(w, http.StatusNotFound, "goal_not_found", "goal not found")
		case errors.Is(err, ledgerdomain.ErrGoalHasContributions):
			h.log.BusinessError("goals.delete: goal has contributions", err, "user_id", userID, "goal_id", goalID)
			writeError(w, http.StatusConflict, "goal_has_contributions", "delete the contribution transactions first")
		default:
			h.log.InternalError("goals.delete: delete failed", err, "user_id", userID, "goal_id", goalID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) CreateGoalContribution(w http.ResponseWriter, r *http.Request) {
	var req goalContributionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	goalID := strings.TrimSpace(chi.URLParam(r, "id"))
	if goalID == "" {
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

	updated, err := h.Ledger.ContributeToGoal(r.Context(), userID, goalID, req.Amount)
	if err != nil {
		if errors.Is(err, ledgerdomain.ErrGoalNotFound) {
			h.log.BusinessError("goals.contribute: goal not found", err, "user_id", userID, "goal_id", goalID)
			writeError(w, http.StatusNotFound, "goal_not_found", "goal not found")
			return
		}
		h.log.InternalError("goals.contribute: contribution failed", err, "user_id", userID, "goal_id", goalID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toGoalResponse(*updated))
}

type goalResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	TargetDate    string          `json:"target_date"`
	CreatedAt     time.Time       `json:"created_at"`
}

type goalListResponse struct {
	Items []goalResponse `json:"items"`
}

func toGoalResponse(goal ledgerdomain.Goal) goalResponse {
	return goalResponse{
		ID:            goal.ID,
		Name:          goal.Name,
		TargetAmount:  goal.TargetAmount,
		CurrentAmount: goal.CurrentAmount,
		TargetDate:    goal.TargetDate.Format("2006-01-02"),
		CreatedAt:     goal.CreatedAt,
	}
}
