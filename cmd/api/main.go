package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/tally/internal/account"
	accountStore "github.com/MrJamesThe3rd/tally/internal/account/store"
	"github.com/MrJamesThe3rd/tally/internal/audit"
	auditAMQP "github.com/MrJamesThe3rd/tally/internal/audit/amqp"
	"github.com/MrJamesThe3rd/tally/internal/config"
	"github.com/MrJamesThe3rd/tally/internal/database"
	tallyHttp "github.com/MrJamesThe3rd/tally/internal/http"
	accountHandler "github.com/MrJamesThe3rd/tally/internal/http/account"
	loanHandler "github.com/MrJamesThe3rd/tally/internal/http/loan"
	txHandler "github.com/MrJamesThe3rd/tally/internal/http/transaction"
	"github.com/MrJamesThe3rd/tally/internal/loan"
	loanStore "github.com/MrJamesThe3rd/tally/internal/loan/store"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
	txStore "github.com/MrJamesThe3rd/tally/internal/transaction/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(cfg))

	if cfg.DB.Driver == config.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DB.Path), 0o755); err != nil {
			slog.Error("failed to create database directory", "error", err)
			os.Exit(1)
		}
	}

	db, err := database.New(cfg.DB.Driver, cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var publisher audit.Publisher = audit.Nop{}

	if cfg.Audit.AMQPURL != "" {
		p, err := auditAMQP.NewPublisher(cfg.Audit.AMQPURL, cfg.Audit.Exchange, cfg.Audit.RoutingKey)
		if err != nil {
			slog.Error("failed to connect to audit broker", "error", err)
			os.Exit(1)
		}
		defer p.Close()

		publisher = p
	}

	var (
		accountService     = account.NewService(accountStore.New(db))
		transactionService = transaction.NewService(txStore.New(db), transaction.WithPublisher(publisher))
		loanService        = loan.NewService(loanStore.New(db), loan.WithPublisher(publisher))
	)

	var (
		accountH     = accountHandler.NewHandler(accountService, transactionService)
		transactionH = txHandler.NewHandler(transactionService)
		loanH        = loanHandler.NewHandler(loanService)
	)

	router := tallyHttp.New(tallyHttp.Options{
		AuthSecret:     cfg.Auth.Secret,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, accountH, transactionH, loanH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting server", "app", cfg.App.Name, "port", srv.Addr, "db_driver", cfg.DB.Driver)

	if err := serve(ctx, srv, cfg.Server.Timeout); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

// serve runs srv until ctx is cancelled, then drains in-flight requests for up to timeout.
func serve(ctx context.Context, srv *http.Server, timeout time.Duration) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}

	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}

	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
