package server

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/swim-school-site/internal/handler"
	"github.com/noah-isme/swim-school-site/internal/models"
	"github.com/noah-isme/swim-school-site/internal/repository"
	"github.com/noah-isme/swim-school-site/internal/service"
	"github.com/noah-isme/swim-school-site/internal/web"
	"github.com/noah-isme/swim-school-site/pkg/config"
	"github.com/noah-isme/swim-school-site/pkg/jobs"
	"github.com/noah-isme/swim-school-site/pkg/signing"
)

// Infra holds the external resources the application runs against.
type Infra struct {
	Store  service.WizardStore
	Sender service.Sender
	// DB enables the inquiry log when set.
	DB *sqlx.DB
}

// App is the assembled site.
type App struct {
	Engine  *gin.Engine
	Wizards *service.WizardService
	Metrics *service.MetricsService

	queue  *jobs.Queue[models.InquiryRecord]
	logger *zap.Logger
}

// NewApp wires repositories, services and handlers into a router.
func NewApp(cfg *config.Config, logger *zap.Logger, infra Infra) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if infra.Store == nil {
		infra.Store = repository.NewMemoryWizardStore(cfg.Wizard.SessionTTL)
	}

	catalog, err := repository.NewCatalogRepository()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	validate := validator.New()
	metrics := service.NewMetricsService()
	resolver := service.NewResolverService(catalog, metrics, logger)
	catalogSvc := service.NewCatalogService(catalog, resolver)
	dispatcher := service.NewDispatcherService(infra.Sender, metrics, logger)
	wizardSvc := service.NewWizardService(
		infra.Store,
		catalog,
		resolver,
		dispatcher,
		service.NewWizard(validate, service.WizardTimings{
			ShakeDuration: cfg.Wizard.ShakeDuration,
			ToastDuration: cfg.Wizard.ToastDuration,
		}),
		metrics,
		logger,
		service.WizardServiceConfig{SuccessDelay: cfg.Wizard.SuccessDelay},
	)

	app := &App{Wizards: wizardSvc, Metrics: metrics, logger: logger}

	checks := map[string]handler.ReadinessCheck{"wizard_store": wizardSvc.Ready}

	var inquirySvc *service.InquiryService
	if infra.DB != nil {
		inquirySvc = service.NewInquiryService(repository.NewInquiryRepository(infra.DB), metrics, logger)
		app.queue = jobs.NewQueue[models.InquiryRecord]("inquiry-log", inquirySvc.Persist, jobs.QueueConfig{
			Workers:    cfg.Inquiries.WorkerConcurrency,
			MaxRetries: cfg.Inquiries.WorkerRetries,
			RetryDelay: cfg.Inquiries.RetryDelay,
			Logger:     logger,
		})
		inquirySvc.AttachQueue(app.queue)
		wizardSvc.OnSuccess(inquirySvc.Record)
		checks["inquiry_log"] = infra.DB.PingContext
	} else {
		inquirySvc = service.NewInquiryService(nil, metrics, logger)
	}

	confirmations := service.NewConfirmationService(
		signing.NewSigner(cfg.Confirmation.Secret, cfg.Confirmation.TTL),
		resolver,
		cfg.BaseURL,
	)
	auth := service.NewAuthService(validate, logger, service.AuthConfig{
		Username:          cfg.Admin.Username,
		PasswordHash:      cfg.Admin.PasswordHash,
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	pages := service.NewPageService(service.SiteConfig{
		Name:      cfg.SiteName,
		BaseURL:   cfg.BaseURL,
		Locality:  cfg.SiteLocality,
		Region:    cfg.SiteRegion,
		Telephone: cfg.SiteTelephone,
	})

	app.Engine = New(Deps{
		Config:   cfg,
		Logger:   logger,
		Metrics:  metrics,
		Renderer: renderer,
		Tokens:   auth,
		Pages:    handler.NewPageHandler(catalogSvc, pages, confirmations, cfg.Theme.Available),
		Catalog:  handler.NewCatalogHandler(catalogSvc),
		Wizards:  handler.NewWizardHandler(wizardSvc, confirmations, logger),
		Admin:    handler.NewAdminHandler(auth, inquirySvc),
		Probes:   handler.NewMetricsHandler(metrics, checks),
	})
	return app, nil
}

// Start launches background workers.
func (a *App) Start(ctx context.Context) {
	if a.queue != nil {
		a.queue.Start(ctx)
	}
}

// Stop drains background workers.
func (a *App) Stop() {
	if a.queue != nil {
		a.queue.Stop()
	}
}
