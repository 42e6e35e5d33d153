package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	handlers "github.com/smartrogo/safephoneng/internal/adapter/handler/http"
	"github.com/smartrogo/safephoneng/internal/config"
	"github.com/smartrogo/safephoneng/internal/domain/service"
	"github.com/smartrogo/safephoneng/internal/middleware/auth"
	"github.com/smartrogo/safephoneng/internal/usecase"
	"github.com/smartrogo/safephoneng/pkg/logger"
	"github.com/smartrogo/safephoneng/pkg/metrics"
	"go.uber.org/zap"
)

type Server struct {
	config   *config.Config
	logger   *zap.Logger
	echo     *echo.Echo
	usecases *usecase.Usecases
	resolver service.IdentityResolver
	metrics  *metrics.Metrics
}

// NewServer builds the echo instance and registers every route. m may be nil
// when metrics are disabled.
func NewServer(
	cfg *config.Config,
	log *zap.Logger,
	usecases *usecase.Usecases,
	resolver service.IdentityResolver,
	m *metrics.Metrics,
) *Server {
	e := echo.New()
	e.HideBanner = true
	logger.WithEchoLogger(e, log)

	// Middleware
	if m != nil {
		e.Use(metrics.EchoMiddleware(m, "/health", cfg.Metrics.Path))
	}
	e.Use(logger.NewEchoRequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.Service.ClientURL},
		AllowMethods:     []string{echo.GET, echo.POST, echo.PUT, echo.PATCH, echo.DELETE},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	s := &Server{
		config:   cfg,
		logger:   log,
		echo:     e,
		usecases: usecases,
		resolver: resolver,
		metrics:  m,
	}
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	s.echo.Server.ReadTimeout = s.config.Server.HTTP.ReadTimeout
	s.echo.Server.WriteTimeout = s.config.Server.HTTP.WriteTimeout
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	if s.metrics != nil {
		s.echo.GET(s.config.Metrics.Path, s.metrics.Handler())
	}

	deviceHandler := handlers.NewDeviceHandler(s.usecases.Registry, s.logger)
	reportHandler := handlers.NewTheftReportHandler(s.usecases.Ledger, s.logger)
	verificationHandler := handlers.NewVerificationHandler(s.usecases.Verification, s.logger)
	profileHandler := handlers.NewProfileHandler(s.usecases.Profiles, s.logger)
	adminHandler := handlers.NewAdminHandler(s.usecases.Admin, s.logger)

	authConfig := auth.Config{
		Resolver: s.resolver,
		Logger:   s.logger,
	}
	requireIdentity := auth.RequireIdentity(authConfig)

	v1 := s.echo.Group("/api/v1")

	// Public lookups
	v1.GET("/verify/:imei", verificationHandler.Verify)
	v1.GET("/theft-reports", reportHandler.ListByIMEI)

	// Anyone may report a theft; a signed-in reporter is recorded
	v1.POST("/theft-reports", reportHandler.FileReport, auth.OptionalIdentity(authConfig))

	devices := v1.Group("/devices", requireIdentity)
	devices.POST("", deviceHandler.RegisterDevice)
	devices.GET("/mine", deviceHandler.ListMyDevices)
	devices.PATCH("/:imei/status", deviceHandler.UpdateStatus)

	profiles := v1.Group("/profiles", requireIdentity)
	profiles.GET("/me", profileHandler.GetMyProfile)
	profiles.PUT("/me", profileHandler.UpdateMyProfile)

	admin := v1.Group("/admin", requireIdentity)
	admin.GET("/devices", adminHandler.ListDevices)
	admin.GET("/theft-reports", adminHandler.ListReports)
	admin.GET("/stats", adminHandler.Stats)
	admin.POST("/reconcile", adminHandler.Reconcile)
}
