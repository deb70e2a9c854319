package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"vivesbank/internal/auth"
	"vivesbank/internal/backup"
	"vivesbank/internal/config"
	"vivesbank/internal/currency"
	"vivesbank/internal/database"
	httpserver "vivesbank/internal/http"
	"vivesbank/internal/logging"
	"vivesbank/internal/metrics"
	"vivesbank/internal/notify"
	"vivesbank/internal/repository"
	"vivesbank/internal/service"
	"vivesbank/internal/storage"
)

func main() {
	_ = godotenv.Load(".env")

	cfg := config.Load()
	logger := logging.New(cfg)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		logger.Error("storage init failed", "driver", cfg.StorageDriver, "err", err)
		os.Exit(1)
	}
	defer closeStore()

	hub := notify.NewHub(logger)
	defer hub.Close()

	users := service.NewUserService(store, auth.NewTokens(cfg.JWTSecret, cfg.JWTExpiration()))
	if cfg.AdminUsername != "" {
		created, err := users.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword)
		if err != nil {
			logger.Error("admin bootstrap failed", "err", err)
			os.Exit(1)
		}
		if created {
			logger.Info("admin user created", "username", cfg.AdminUsername)
		}
	}

	r := httpserver.NewServer(cfg, httpserver.Deps{
		Store:     store,
		Users:     users,
		Clients:   service.NewClientService(store),
		Accounts:  service.NewAccountService(store, hub),
		Cards:     service.NewCardService(store, hub),
		Movements: service.NewMovementService(store, hub),
		Products:  service.NewProductService(store),
		Backup:    backup.NewExporter(store),
		Hub:       hub,
		Currency:  currency.NewClient(cfg),
		Files:     storage.NewFiles(cfg.UploadDir, cfg.MaxUploadMB),
		Metrics:   metrics.New(),
		Log:       logger,
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("listening", "port", cfg.Port, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			stop <- syscall.SIGTERM
		}
	}()

	<-stop
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
}

func openStore(cfg *config.Config) (repository.Store, func(), error) {
	if cfg.StorageDriver == "memory" {
		return repository.NewMemoryStore(), func() {}, nil
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	return repository.NewGormStore(db), func() { _ = sqlDB.Close() }, nil
}
