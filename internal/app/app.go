package app

import (
	"net/http"

	"gorm.io/gorm"

	"finance-tracker-go/internal/config"
	"finance-tracker-go/internal/db"
	budgetsdomain "finance-tracker-go/internal/domain/budgets"
	categoriesdomain "finance-tracker-go/internal/domain/categories"
	ledgerdomain "finance-tracker-go/internal/domain/ledger"
	budgetsrepo "finance-tracker-go/internal/repository/postgres/budgets"
	categoriesrepo "finance-tracker-go/internal/repository/postgres/categories"
	ledgerrepo "finance-tracker-go/internal/repository/postgres/ledger"
	"finance-tracker-go/internal/transport/httpserver"
	"finance-tracker-go/internal/transport/httpserver/handler"
	"finance-tracker-go/pkg/logger"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		return nil, err
	}

	log.Info("app: initializing services")
	ledgerService := ledgerdomain.NewService(ledgerrepo.NewPostgres(dbConn))
	budgetsService := budgetsdomain.NewService(budgetsrepo.NewPostgres(dbConn))
	categoriesService := categoriesdomain.NewService(categoriesrepo.NewPostgres(dbConn))

	log.Info("app: initializing router")
	handlers := handler.New(ledgerService, budgetsService, categoriesService, log)
	router := httpserver.NewRouter(cfg, handlers)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
