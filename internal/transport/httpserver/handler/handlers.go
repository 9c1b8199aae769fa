package handler

import (
	"net/http"

	budgetsdomain "finance-tracker-go/internal/domain/budgets"
	categoriesdomain "finance-tracker-go/internal/domain/categories"
	ledgerdomain "finance-tracker-go/internal/domain/ledger"
	"finance-tracker-go/pkg/logger"
)

type Handlers struct {
	Ledger     *ledgerdomain.Service
	Budgets    *budgetsdomain.Service
	Categories *categoriesdomain.Service

	log logger.Logger
}

func New(ledger *ledgerdomain.Service, budgets *budgetsdomain.Service, categories *categoriesdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Ledger:     ledger,
		Budgets:    budgets,
		Categories: categories,
		log:        log,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
