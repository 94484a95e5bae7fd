package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"

	"github.com/dromero/quarryops-recon/internal/auth"
	"github.com/dromero/quarryops-recon/internal/config"
	"github.com/dromero/quarryops-recon/internal/db"
	"github.com/dromero/quarryops-recon/internal/excel"
	httphandler "github.com/dromero/quarryops-recon/internal/http"
	"github.com/dromero/quarryops-recon/internal/http/middleware"
	"github.com/dromero/quarryops-recon/internal/logger"
	"github.com/dromero/quarryops-recon/internal/metrics"
	"github.com/dromero/quarryops-recon/internal/pdf"
	"github.com/dromero/quarryops-recon/internal/recon"
	"github.com/dromero/quarryops-recon/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	recorder := metrics.New(registry)

	masterData := repository.NewMasterDataRepository(database)
	saleRepo := repository.NewSaleRepository(database)
	ledgerRepo := repository.NewLedgerRepository(database)
	operationRepo := repository.NewOperationRepository(database)

	engine := recon.NewEngine(
		masterData,
		saleRepo,
		ledgerRepo,
		operationRepo,
		recon.Config{
			StockpileNames:  cfg.Recon.StockpileNames,
			DefaultHourRate: decimal.NewFromFloat(cfg.Recon.DefaultHourRate),
			DedupEpsilon:    decimal.NewFromFloat(cfg.Recon.DedupEpsilon),
			PaymentTerms:    cfg.Recon.PaymentTerms,
		},
		log,
		recorder,
	)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(engine, saleRepo, excel.NewGenerator(), pdf.NewGenerator(), log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, registry, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting reconciliation service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
