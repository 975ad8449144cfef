package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/printmanage/console/docs"
	"github.com/printmanage/console/internal/api/handler"
	"github.com/printmanage/console/internal/api/middleware"
	"github.com/printmanage/console/internal/core/confirm"
	"github.com/printmanage/console/internal/core/domain"
	"github.com/printmanage/console/internal/core/listview"
	"github.com/printmanage/console/internal/core/ports"
	"github.com/printmanage/console/internal/core/service"
)

// Deps are the collaborators the router wires into the handlers.
type Deps struct {
	Stores    ports.StoreFactory
	Sessions  ports.SessionStore
	JWTSecret string
	TokenTTL  time.Duration
	// Checks are run by the readiness probe.
	Checks map[string]handler.Check
	// DefaultPerPage is the page size of server-paged lists.
	DefaultPerPage int
	// ConfirmTTL bounds how long a delete waits for its confirmation.
	ConfirmTTL time.Duration
	// Registerer receives the HTTP metrics; nil means the default registry.
	Registerer prometheus.Registerer
	Log        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	registerer := d.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "printmanage_http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/health"
		},
	}))

	// --- Dependencies ---
	authService := service.NewAuthService(d.Stores, d.Sessions, d.JWTSecret, d.TokenTTL, d.Log.With().Str("component", "auth").Logger())
	authHandler := handler.NewAuthHandler(authService)
	authMiddleware := middleware.Auth(d.JWTSecret, authService)
	confirms := confirm.NewRegistry[handler.DeleteTarget](d.ConfirmTTL)

	log := d.Log.With().Str("component", "api").Logger()
	brandCfg := listview.PagedConfig{DefaultPerPage: d.DefaultPerPage}

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	auth := e.Group("/auth", authMiddleware)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me)
	auth.PUT("/preferences", authHandler.Preferences)

	// --- Console API ---
	v1 := e.Group("/v1", authMiddleware)
	admin := middleware.RBAC(domain.RoleAdmin)
	field := middleware.RBAC(domain.RoleAdmin, domain.RoleTechnician)

	handler.NewResourceHandler(companies, d.Stores, confirms, log).Mount(v1, "/companies", admin)
	handler.NewResourceHandler(departments, d.Stores, confirms, log).Mount(v1, "/departments", admin)
	handler.NewResourceHandler(printerModels, d.Stores, confirms, log).Mount(v1, "/printer-models", admin)
	handler.NewResourceHandler(materiel, d.Stores, confirms, log).Mount(v1, "/materiel", admin)
	handler.NewResourceHandler(users, d.Stores, confirms, log).Mount(v1, "/users", admin)
	handler.NewResourceHandler(printers, d.Stores, confirms, log).Mount(v1, "/printers", field)

	brands := handler.NewBrandHandler(d.Stores, confirms, brandCfg, log)
	v1.GET("/brands", brands.List, admin)
	v1.POST("/brands", brands.Save, admin)
	v1.GET("/brands/:id", brands.Get, admin)
	v1.PUT("/brands/:id", brands.Save, admin)
	v1.DELETE("/brands/:id", brands.Delete, admin)

	fleet := handler.NewFleetHandler(d.Stores, log)
	v1.GET("/printer-movements", fleet.Movements, field)
	v1.PUT("/printers/:id/move", fleet.Move, field)
	v1.GET("/options/departments", fleet.DepartmentOptions, field)
	v1.GET("/options/printers", fleet.PrinterOptions, field)

	confirmations := handler.NewConfirmationHandler(confirms, log)
	v1.POST("/confirmations/:id", confirmations.Confirm)
	v1.DELETE("/confirmations/:id", confirmations.Cancel)

	analytics := handler.NewAnalyticsHandler(d.Stores, log)
	v1.GET("/analytics/dashboard", analytics.Dashboard)
	v1.GET("/analytics/requests/:number", analytics.SearchRequest)
	v1.GET("/analytics/interventions", analytics.Interventions)
	v1.GET("/analytics/trends", analytics.Trends)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger logs one line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
