// File: app/app.go
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-bankist/config"
	"go-bankist/db"
	"go-bankist/format"
	"go-bankist/handler"
	"go-bankist/logger"
	"go-bankist/repository"
	"go-bankist/router"
	"go-bankist/scheduler"
	"go-bankist/service"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// App holds every wired component. Both the HTTP server and the terminal
// client are built on it.
type App struct {
	Scheduler  *scheduler.Scheduler
	Auth       *service.AuthService
	Ledger     *service.Ledger
	Statements *service.StatementService
	Sessions   *service.SessionManager
	Router     http.Handler
	DB         *sql.DB
	Redis      *redis.Client
}

// New wires the application from config.AppConfig. Postgres and Redis are
// used only when their hosts are configured.
func New(ctx context.Context, hooks service.SessionHooks) (*App, error) {
	cfg := config.AppConfig
	a := &App{Scheduler: scheduler.New()}

	secret := cfg.JWT.SecretKey
	if secret == "" {
		logger.Log.Warn("jwt.secret_key is not set; using a random key for this process")
		secret = uuid.NewString() + uuid.NewString()
	}
	a.Auth = service.NewAuthService(secret, cfg.Security.PinHashCost)
	a.Ledger = service.NewLedger(a.Auth, a.Scheduler, service.LedgerOptions{
		LoanDelay:        cfg.Loan.ApprovalDelay,
		EligibilityRatio: decimal.NewFromFloat(cfg.Loan.EligibilityRatio),
	})

	if db.Enabled() {
		if err := a.openDatabase(ctx, cfg.Accounts); err != nil {
			a.Close()
			return nil, err
		}
	} else {
		logger.Log.Info("No database configured; seeding accounts from configuration")
		if err := a.seed(cfg.Accounts, nil); err != nil {
			a.Close()
			return nil, err
		}
	}

	var cache service.ICacheClient
	if db.RedisEnabled() {
		rdb, err := db.ConnectRedis(ctx)
		if err != nil {
			logger.Log.WithError(err).Warn("Statement cache disabled")
		} else {
			a.Redis = rdb
			cache = rdb
		}
	}
	a.Statements = service.NewStatementService(format.NewLocale(), cache, cfg.Redis.TTL, nil)
	a.Ledger.Subscribe(a.Statements)

	a.Sessions = service.NewSessionManager(a.Ledger, a.Scheduler, cfg.Session.Timeout, cfg.Session.TickInterval, hooks)

	checks := map[string]handler.HealthCheckFunc{}
	if a.DB != nil {
		checks["postgres"] = a.DB.PingContext
	}
	if a.Redis != nil {
		rdb := a.Redis
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	accountHandler := handler.NewAccountHandler(a.Sessions, a.Statements)
	a.Router = router.NewRouter(router.Handlers{
		Health:      handler.NewHealthHandler(checks),
		Session:     handler.NewSessionHandler(a.Sessions, a.Auth, a.Statements, cfg.JWT.TTL),
		Account:     accountHandler,
		Transaction: handler.NewTransactionHandler(a.Sessions, accountHandler, cfg.Loan.ApprovalDelay),
		Auth:        handler.AuthMiddleware(a.Auth, a.Sessions),
	})

	a.Scheduler.Start()
	return a, nil
}

func (a *App) openDatabase(ctx context.Context, seeds []config.AccountSeed) error {
	database, err := db.Connect()
	if err != nil {
		return err
	}
	a.DB = database

	if err := db.Migrate(db.DSN()); err != nil {
		return err
	}

	repo := repository.NewAccountRepository(database)
	exists, err := repo.HasAccounts(ctx)
	if err != nil {
		return fmt.Errorf("check stored accounts: %w", err)
	}
	if !exists {
		logger.Log.Info("Database is empty; storing seed accounts")
		if err := a.seed(seeds, repo); err != nil {
			return err
		}
	} else {
		accounts, err := repo.GetActiveAccounts(ctx)
		if err != nil {
			return fmt.Errorf("load accounts: %w", err)
		}
		for _, acc := range accounts {
			if err := a.Ledger.Restore(acc); err != nil {
				return fmt.Errorf("restore %s: %w", acc.Username, err)
			}
		}
	}

	a.Ledger.Subscribe(repository.Journal{Repo: repo})
	return nil
}

// seed registers the configured accounts, storing each one when repo is
// not nil.
func (a *App) seed(seeds []config.AccountSeed, repo repository.IAccountRepository) error {
	now := time.Now()
	for _, s := range seeds {
		in, err := seedAccount(s, now)
		if err != nil {
			return err
		}
		acc, err := a.Ledger.Register(in)
		if err != nil {
			return fmt.Errorf("register %q: %w", s.Owner, err)
		}
		if repo != nil {
			if err := repo.CreateAccount(context.Background(), acc); err != nil {
				return fmt.Errorf("store %q: %w", s.Owner, err)
			}
		}
	}
	return nil
}

// Close stops the scheduler and releases connections.
func (a *App) Close() {
	if a.Scheduler != nil {
		stopped := a.Scheduler.Stop()
		select {
		case <-stopped.Done():
		case <-time.After(5 * time.Second):
			logger.Log.Warn("Scheduled jobs still running at shutdown")
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

// Run serves the HTTP API until SIGINT or SIGTERM.
func Run() error {
	if err := config.LoadConfig("."); err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	logger.Init()
	logger.Log.Info("Configuration loaded successfully")

	a, err := New(context.Background(), service.SessionHooks{})
	if err != nil {
		return fmt.Errorf("starting application: %w", err)
	}
	defer a.Close()

	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("serving on :%s: %w", port, err)
	case <-quit:
	}

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
	return nil
}
