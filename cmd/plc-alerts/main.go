package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/plcwatch/go-plc-alerts/internal/api"
	"github.com/plcwatch/go-plc-alerts/internal/config"
	"github.com/plcwatch/go-plc-alerts/internal/correlator"
	"github.com/plcwatch/go-plc-alerts/internal/ingestion"
	"github.com/plcwatch/go-plc-alerts/internal/logging"
	"github.com/plcwatch/go-plc-alerts/internal/mqtt"
	"github.com/plcwatch/go-plc-alerts/internal/notifier"
	"github.com/plcwatch/go-plc-alerts/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	db, err := repository.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.DB.CatalogPath != "" {
		entries, err := repository.LoadCatalogFile(cfg.DB.CatalogPath)
		if err != nil {
			logging.Fatalf("Failed to load error catalog: %v", err)
		}
		if err := db.Seed(ctx, entries); err != nil {
			logging.Fatalf("Failed to seed error catalog: %v", err)
		}
		slog.Info("error catalog seeded", "entries", len(entries))
	}

	broker, err := mqtt.NewClient(mqtt.Config{
		BrokerURL: cfg.MQTT.BrokerURL,
		ClientID:  cfg.MQTT.ClientID,
		Username:  cfg.MQTT.Username,
		Password:  cfg.MQTT.Password,
		QoS:       byte(cfg.MQTT.QoS),
	})
	if err != nil {
		logging.Fatalf("Failed to connect to MQTT broker: %v", err)
	}
	defer broker.Disconnect()

	n := notifier.New(broker, cfg.MQTT.StatusTopicPrefix, cfg.PLC.MaxErrorCode)
	corr := correlator.New(db, db)

	mgr := ingestion.NewManager(cfg, broker, n, corr)
	if err := mgr.Start(ctx); err != nil {
		logging.Fatalf("Failed to start ingestion: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "PUT", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // Set to false when using wildcard origins
	}))
	router.Use(api.RateLimitMiddleware(5)) // 5 req/s global limit

	handler := api.NewHandler(db, db)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	cancel()
	mgr.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}
