// Package server assembles the HTTP router of the dashboard.
package server

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/korepetycje-admin/internal/handler"
	"github.com/noah-isme/korepetycje-admin/internal/middleware"
	"github.com/noah-isme/korepetycje-admin/internal/models"
	"github.com/noah-isme/korepetycje-admin/internal/service"
	"github.com/noah-isme/korepetycje-admin/pkg/logger"
	corsmiddleware "github.com/noah-isme/korepetycje-admin/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/korepetycje-admin/pkg/middleware/requestid"
)

// TokenValidator verifies session tokens.
type TokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

// Config holds the router settings taken from the process config.
type Config struct {
	APIPrefix      string
	EnableDocs     bool
	CookieName     string
	AllowedOrigins []string
}

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Auth         *handler.AuthHandler
	Dashboard    *handler.DashboardHandler
	Students     *handler.StudentHandler
	Clients      *handler.ClientHandler
	Tutors       *handler.TutorHandler
	Reservations *handler.ReservationHandler
	Payments     *handler.PaymentHandler
	Webhooks     *handler.WebhookHandler
	Metrics      *handler.MetricsHandler
}

// Deps are the collaborators of the router.
type Deps struct {
	Config    Config
	Handlers  Handlers
	Auth      TokenValidator
	Templates *template.Template
	Metrics   *service.MetricsService
	Logger    *zap.Logger
}

// New builds the router: the HTML pages behind the session gate, the JSON
// API under the API prefix and the operational endpoints.
func New(deps Deps) *gin.Engine {
	cfg := deps.Config
	h := deps.Handlers
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(middleware.Metrics(deps.Metrics, "/metrics"))
	r.Use(corsmiddleware.New(cfg.AllowedOrigins))
	if deps.Templates != nil {
		r.SetHTMLTemplate(deps.Templates)
	}

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)
	if cfg.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	pages := r.Group("", middleware.Flashes())
	pages.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, middleware.DashboardPath) })
	pages.POST("/logout", h.Auth.Logout)

	guest := pages.Group("", middleware.GuestOnly(deps.Auth, cfg.CookieName))
	guest.GET("/login", h.Auth.LoginPage)
	guest.POST("/login", h.Auth.LoginSubmit)
	guest.GET("/register", h.Auth.RegisterPage)
	guest.POST("/register", h.Auth.RegisterSubmit)

	gated := pages.Group("", middleware.SessionGate(deps.Auth, cfg.CookieName))
	gated.GET("/dashboard", h.Dashboard.Page)
	gated.GET("/uczniowie", h.Students.Page)
	gated.POST("/uczniowie/:id/assign", h.Students.AssignForm)
	gated.POST("/uczniowie/:id/notes", h.Students.NotesForm)
	gated.GET("/klienci", h.Clients.Page)
	gated.POST("/enrollments/:id/assign", h.Clients.AssignForm)
	gated.GET("/korepetytorzy", h.Tutors.Page)
	gated.POST("/korepetytorzy/bulk", h.Tutors.BulkForm)
	gated.GET("/korepetytorzy/export", h.Tutors.ExportFile)
	gated.GET("/korepetytorzy/:id", h.Tutors.DetailPage)
	gated.GET("/rezerwacje", h.Reservations.Page)
	gated.POST("/rezerwacje", h.Reservations.CreateForm)
	gated.POST("/rezerwacje/:id/cancel", h.Reservations.CancelForm)
	gated.GET("/platnosci", h.Payments.Page)
	gated.POST("/platnosci/actions", h.Payments.ActionForm)
	gated.GET("/platnosci/report", h.Payments.ReportFile)
	gated.GET("/webhook-test", h.Webhooks.Page)
	gated.POST("/webhook-test", h.Webhooks.Submit)

	api := r.Group(cfg.APIPrefix, middleware.WithResponseMeta())
	api.POST("/auth/login", h.Auth.Login)

	secured := api.Group("", middleware.JWT(deps.Auth, cfg.CookieName))
	secured.GET("/auth/me", h.Auth.Me)
	secured.GET("/dashboard", h.Dashboard.Summary)
	secured.GET("/students", h.Students.List)
	secured.POST("/students/:id/assign", h.Students.Assign)
	secured.GET("/clients", h.Clients.List)
	secured.PUT("/enrollments/:id/tutor", h.Clients.AssignEnrollment)
	secured.GET("/tutors", h.Tutors.List)
	secured.POST("/tutors/bulk", middleware.RequireRoles(models.RoleAdmin), h.Tutors.Bulk)
	secured.GET("/tutors/:id", h.Tutors.Detail)
	secured.GET("/reservations", h.Reservations.List)
	secured.POST("/reservations", h.Reservations.Create)
	secured.POST("/reservations/:id/cancel", h.Reservations.Cancel)
	secured.GET("/payments", h.Payments.List)
	secured.GET("/system/metrics", h.Metrics.System)

	return r
}
