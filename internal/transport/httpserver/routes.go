package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"finance-tracker-go/internal/config"
	"finance-tracker-go/internal/transport/httpserver/handler"
	authmw "finance-tracker-go/internal/transport/httpserver/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(authmw.NewCORS([]string{"http://localhost:5173"}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		resolver := authmw.NewUserResolver(cfg.Auth)
		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(30 * time.Second))
			r.Use(resolver.Middleware)

			r.Get("/transactions", handlers.ListTransactions)
			r.Post("/transactions", handlers.CreateTransaction)
			r.Put("/transactions/{id}", handlers.UpdateTransaction)
			r.Delete("/transactions/{id}", handlers.DeleteTransaction)

			r.Get("/debts", handlers.ListDebts)
			r.Post("/debts", handlers.CreateDebt)
			r.Delete("/debts/{id}", handlers.DeleteDebt)
			r.Post("/debts/{id}/payments", handlers.CreateDebtPayment)

			r.Get("/goals", handlers.ListGoals)
			r.Post("/goals", handlers.CreateGoal)
			r.Delete("/goals/{id}", handlers.DeleteGoal)
			r.Post("/goals/{id}/contributions", handlers.CreateGoalContribution)

			r.Get("/budgets", handlers.ListBudgets)
			r.Put("/budgets", handlers.UpsertBudget)
			r.Delete("/budgets/{id}", handlers.DeleteBudget)
			r.Get("/budgets/progress", handlers.BudgetProgress)

			r.Get("/categories", handlers.ListCategories)
			r.Post("/categories", handlers.CreateCategory)
			r.Delete("/categories/{id}", handlers.DeleteCategory)

			r.Get("/summary", handlers.Summary)
		})

		// The stream stays open until the client disconnects, so it lives
		// outside the timeout group.
		r.Group(func(r chi.Router) {
			r.Use(resolver.Middleware)
			r.Get("/stream", handlers.Stream)
		})
	})

	return r
}
