package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/prasad123-hub/bill-splitter/internal/auth"
	"github.com/prasad123-hub/bill-splitter/internal/config"
	httpapi "github.com/prasad123-hub/bill-splitter/internal/http"
	"github.com/prasad123-hub/bill-splitter/internal/service"
	"github.com/prasad123-hub/bill-splitter/internal/storage/sqlite"
	"github.com/prasad123-hub/bill-splitter/pkg/logging"
)

func main() {
	logging.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.SQLiteDBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.SQLiteDBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)
	locks := service.NewGroupLocker(cfg.GroupLockTimeout)

	server := httpapi.New(
		service.NewAuthService(authenticator, jwtManager, store),
		service.NewGroupService(store, locks),
		service.NewExpenseService(store, locks),
		jwtManager,
	)

	// h2c allows HTTP/2 without TLS for clients that speak it; plain
	// HTTP/1.1 keeps working.
	handler := h2c.NewHandler(server.Handler(), &http2.Server{})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}
