package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/swim-school-site/api/swagger"
	"github.com/noah-isme/swim-school-site/internal/handler"
	"github.com/noah-isme/swim-school-site/internal/middleware"
	"github.com/noah-isme/swim-school-site/internal/models"
	"github.com/noah-isme/swim-school-site/internal/service"
	"github.com/noah-isme/swim-school-site/internal/web"
	"github.com/noah-isme/swim-school-site/pkg/config"
	"github.com/noah-isme/swim-school-site/pkg/logger"
	corsmiddleware "github.com/noah-isme/swim-school-site/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/swim-school-site/pkg/middleware/requestid"
)

// Deps carries everything the router mounts.
type Deps struct {
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *service.MetricsService
	Renderer *web.Renderer
	Tokens   middleware.TokenValidator

	Pages   *handler.PageHandler
	Catalog *handler.CatalogHandler
	Wizards *handler.WizardHandler
	Admin   *handler.AdminHandler
	Probes  *handler.MetricsHandler
}

// New builds the gin engine serving pages, the JSON API and probes.
func New(d Deps) *gin.Engine {
	cfg := d.Config

	r := gin.New()
	r.HTMLRender = d.Renderer
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(d.Logger, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(d.Metrics))
	r.Use(middleware.Theme(cfg.Theme.Default, cfg.Theme.Available))

	r.GET("/health", d.Probes.Health)
	r.GET("/ready", d.Probes.Ready)
	r.GET("/metrics", d.Probes.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.StaticFS("/static", http.FS(web.Static()))

	r.GET("/", d.Pages.Home)
	r.GET("/timeplan", d.Pages.Schedule)
	r.GET("/kurs/:id", d.Pages.Course)
	r.GET("/kurs/:id/qr.png", d.Pages.CourseQR)
	r.GET("/nyheter", d.Pages.Articles)
	r.GET("/nyheter/:slug", d.Pages.Article)
	r.GET("/om-oss", d.Pages.Static("om-oss"))
	r.GET("/vilkar", d.Pages.Static("vilkar"))
	r.GET("/svommekurs/:region", d.Pages.Region)
	r.GET("/bekreftelse/:token", d.Pages.Confirmation)
	r.NoRoute(d.Pages.NotFound)

	api := r.Group(cfg.APIPrefix)
	api.GET("/courses", d.Catalog.Courses)
	api.GET("/courses/:id", d.Catalog.Course)
	api.GET("/schedule", d.Catalog.Schedule)
	api.GET("/resolve", d.Catalog.Resolve)

	wizards := api.Group("/wizards")
	wizards.POST("", d.Wizards.Open)
	wizards.GET("/:id", d.Wizards.Get)
	wizards.PATCH("/:id", d.Wizards.Update)
	wizards.DELETE("/:id", d.Wizards.Close)
	wizards.POST("/:id/next", d.Wizards.Next)
	wizards.POST("/:id/back", d.Wizards.Back)
	wizards.POST("/:id/jump", d.Wizards.Jump)
	wizards.POST("/:id/course", d.Wizards.ChangeCourse)
	wizards.POST("/:id/submit", d.Wizards.Submit)

	admin := api.Group("/admin")
	admin.POST("/login", d.Admin.Login)

	staff := admin.Group("", middleware.JWT(d.Tokens), middleware.RequireRoles(models.RoleStaff))
	staff.GET("/inquiries", d.Admin.ListInquiries)
	staff.GET("/inquiries/export", d.Admin.ExportInquiries)

	return r
}
