package app

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"accounfix/internal/config"
	"accounfix/internal/httpx"
	"accounfix/internal/integrations/ai"
	"accounfix/internal/integrations/erp"
	"accounfix/internal/server"
	"accounfix/internal/store"
)

func Main() {
	cfg := config.LoadConfig()
	appliedHTTPTimeout := httpx.ConfigureExternalHTTPClient(cfg.ExternalHTTPTimeoutSeconds)
	log.Printf(
		"Config loaded. ListenAddr=%s Model=%s DefaultReporter=%q ERPSyncDelay=%s SeedDemoData=%t ExternalHTTPTimeout=%s",
		cfg.ListenAddr,
		cfg.AIModel,
		cfg.DefaultReporter,
		time.Duration(cfg.ERPSyncDelayMillis)*time.Millisecond,
		cfg.SeedDemoData,
		appliedHTTPTimeout,
	)

	errorStore := store.New()
	if cfg.SeedDemoData {
		errorStore.SeedDemo()
		log.Printf("Seeded demo data, records=%d", errorStore.Stats().Total)
	}

	gateway := ai.NewClient(cfg.APIKey, cfg.AIModel)
	connector := &erp.SimulatedDynamics{Delay: time.Duration(cfg.ERPSyncDelayMillis) * time.Millisecond}
	syncService := erp.NewService(errorStore, connector)

	e := echo.New()
	e.HideBanner = true
	e.Validator = server.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())
	server.Register(e, server.NewHandler(errorStore, gateway, syncService, cfg.DefaultReporter))

	log.Println("Starting AccounFix service...")
	if err := e.Start(cfg.ListenAddr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
