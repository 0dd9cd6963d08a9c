// Command sd-server serves the staffdesk data service over JSON/HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/staffdesk/internal/migrate"
	"github.com/and161185/staffdesk/internal/repository"
	"github.com/and161185/staffdesk/internal/repository/memory"
	"github.com/and161185/staffdesk/internal/repository/postgres"
	"github.com/and161185/staffdesk/internal/seed"
	"github.com/and161185/staffdesk/internal/server/httpapi"
	"github.com/and161185/staffdesk/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

type options struct {
	addr string
	dsn  string
	seed string
}

// main parses flags, prepares storage, and serves until SIGINT/SIGTERM.
func main() {
	var opts options
	flag.StringVar(&opts.addr, "addr", ":3000", "listen address")
	flag.StringVar(&opts.dsn, "dsn", "", "PostgreSQL DSN (empty: in-memory storage)")
	flag.StringVar(&opts.seed, "seed", "", "db.json fixture loaded at start")
	dev := flag.Bool("dev", false, "development logging")
	flag.Parse()

	logger, _ := zap.NewProduction()
	if *dev {
		logger, _ = zap.NewDevelopment()
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", opts.addr),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler, cleanup, err := build(ctx, opts, logger)
	if err != nil {
		logger.Fatal("setup", zap.Error(err))
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", opts.addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("forced shutdown", zap.Error(err))
			_ = srv.Close()
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			cleanup()
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}

// build assembles storage, services and the router.
func build(ctx context.Context, opts options, logger *zap.Logger) (http.Handler, func(), error) {
	var (
		users     repository.UserRepository
		tokens    repository.TokenRepository
		employees repository.EmployeeRepository
		health    httpapi.Pinger
		cleanup   = func() {}
	)

	if opts.dsn == "" {
		logger.Info("using in-memory storage")
		users, tokens, employees = memory.NewUserRepo(), memory.NewTokenRepo(), memory.NewEmployeeRepo()
	} else {
		if err := migrate.Up(ctx, opts.dsn); err != nil {
			return nil, nil, err
		}
		db, err := postgres.New(ctx, opts.dsn)
		if err != nil {
			return nil, nil, err
		}
		cleanup = db.Close
		health = db
		users, tokens, employees = postgres.NewUserRepo(db), postgres.NewTokenRepo(db), postgres.NewEmployeeRepo(db)
	}

	userSvc := service.NewUserService(users, nil)
	tokenSvc := service.NewTokenService(tokens, nil)
	empSvc := service.NewEmployeeService(employees, nil)

	if opts.seed != "" {
		f, err := seed.LoadFile(opts.seed)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		target := service.Seeder{Users: userSvc, Tokens: tokenSvc, Employees: empSvc}
		if _, err := seed.Apply(ctx, target, f, logger.Named("seed")); err != nil {
			cleanup()
			return nil, nil, err
		}
	}

	app := httpapi.New(userSvc, tokenSvc, empSvc, health, logger.Named("http"))
	return app.Router(), cleanup, nil
}
