package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/swim-school-site/internal/repository"
	"github.com/noah-isme/swim-school-site/internal/server"
	"github.com/noah-isme/swim-school-site/pkg/cache"
	"github.com/noah-isme/swim-school-site/pkg/config"
	"github.com/noah-isme/swim-school-site/pkg/database"
	"github.com/noah-isme/swim-school-site/pkg/logger"
	"github.com/noah-isme/swim-school-site/pkg/mailer"
)

// @title Swim School Site API
// @version 1.0.0
// @description Course catalog, enrollment wizard and staff inquiry log
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	sender := mailer.NewClient(cfg.Email, nil)
	infra := server.Infra{Sender: sender}
	if !sender.Configured() {
		logr.Warn("email service is not configured, submissions will fail")
	}

	switch cfg.Wizard.Store {
	case config.StoreRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect wizard store: %w", err)
		}
		defer client.Close()
		infra.Store = repository.NewRedisWizardStore(client, cfg.Wizard.SessionTTL, logr)
	default:
		infra.Store = repository.NewMemoryWizardStore(cfg.Wizard.SessionTTL)
	}

	if cfg.Database.Enabled {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connect inquiry log: %w", err)
		}
		defer db.Close()
		if err := database.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate inquiry log: %w", err)
		}
		infra.DB = db
	}

	app, err := server.NewApp(cfg, logr, infra)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           app.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	app.Start(ctx)
	defer app.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logr.Sugar().Infow("server starting",
			"addr", srv.Addr,
			"env", cfg.Env,
			"wizard_store", cfg.Wizard.Store,
			"inquiry_log", cfg.Database.Enabled,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		logr.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
