package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/ntandostore/core/docs"
	httpHandlers "github.com/ntandostore/core/internal/adapters/http"
	"github.com/ntandostore/core/internal/application"
	"github.com/ntandostore/core/internal/infrastructure/config"
	"github.com/ntandostore/core/internal/infrastructure/logger"
	"github.com/ntandostore/core/internal/ports"
)

// Server represents the HTTP server
type Server struct {
	echo   *echo.Echo
	config *config.Config
	logger *logger.Logger
	app    *application.App
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance
func New(app *application.App) (*Server, error) {
	e := echo.New()

	// Set custom validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Configure Echo
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = app.Config.Server.ReadTimeout
	e.Server.WriteTimeout = app.Config.Server.WriteTimeout
	e.Server.IdleTimeout = app.Config.Server.IdleTimeout

	// Custom error handler
	e.HTTPErrorHandler = customErrorHandler(app.Logger)

	// Initialize handlers
	authHandler := httpHandlers.NewAuthHandler(app.Auth, app.Logger)
	catalogHandler := httpHandlers.NewCatalogHandler(app.Catalog, app.Logger)
	uploadHandler := httpHandlers.NewUploadHandler(app.Upload, app.Logger)
	backupHandler := httpHandlers.NewBackupHandler(app.Backup, app.Transfer, app.System, app.Logger)

	server := &Server{
		echo:   e,
		config: app.Config,
		logger: app.Logger.WithComponent("http"),
		app:    app,
	}

	// Setup middleware
	server.setupMiddleware()

	// Setup metrics
	if app.Config.Metrics.Enabled {
		server.setupMetrics()
	}

	// Setup routes
	server.setupRoutes(authHandler, catalogHandler, uploadHandler, backupHandler, app.Auth)
	server.setupStatic()

	return server, nil
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Request ID middleware
	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	// Logger middleware
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			reqLogger := s.logger.WithRequestID(values.RequestID)
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
				"remote_ip", values.RemoteIP,
				"user_agent", values.UserAgent,
			}

			if values.Error != nil {
				reqLogger.WithError(values.Error).Errorw("HTTP request failed", fields...)
			} else {
				reqLogger.Infow("HTTP request", fields...)
			}

			return nil
		},
	}))

	// CORS middleware
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods: []string{echo.GET, echo.HEAD, echo.PUT, echo.POST, echo.DELETE},
	}))

	// Rate limiting middleware, applied to the API only
	requests := s.config.Security.RateLimitRequests
	window := s.config.Security.RateLimitWindow
	if requests > 0 && window > 0 {
		s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Skipper: func(c echo.Context) bool {
				return !strings.HasPrefix(c.Request().URL.Path, "/api/")
			},
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(
				middleware.RateLimiterMemoryStoreConfig{Rate: rate.Every(window / time.Duration(requests)), Burst: requests, ExpiresIn: window},
			),
			IdentifierExtractor: func(ctx echo.Context) (string, error) {
				return ctx.RealIP(), nil
			},
			ErrorHandler: func(c echo.Context, err error) error {
				return echo.NewHTTPError(http.StatusForbidden, "Rate limit exceeded")
			},
			DenyHandler: func(c echo.Context, identifier string, err error) error {
				s.logger.LogSecurityEvent("rate_limited", "", identifier, nil)
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests, please try again later")
			},
		}))
	}

	// Security headers
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "SAMEORIGIN",
		HSTSMaxAge:         31536000,
	}))

	// Compress everything but media, which is already compressed
	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, s.app.Config.Upload.URLPrefix+"/")
		},
	}))

	// Multipart overhead on top of the largest accepted upload
	s.echo.Use(middleware.BodyLimit(strconv.FormatInt(s.config.Upload.MaxSize/1024+1024, 10) + "K"))

	// Timeout middleware
	if s.config.Server.RequestTimeout > 0 {
		s.echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
			Timeout:      s.config.Server.RequestTimeout,
			ErrorMessage: `{"success":false,"message":"Request timed out"}`,
		}))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(authHandler *httpHandlers.AuthHandler, catalogHandler *httpHandlers.CatalogHandler, uploadHandler *httpHandlers.UploadHandler, backupHandler *httpHandlers.BackupHandler, authService ports.AuthService) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// Swagger documentation
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	api := s.echo.Group("/api")

	// Public routes
	api.GET("/services", catalogHandler.ListServices)
	api.GET("/domains", catalogHandler.ListDomains)
	api.GET("/settings", catalogHandler.GetSettings)
	api.POST("/contact", catalogHandler.SubmitContact)
	api.POST("/admin/login", authHandler.Login)

	// Admin routes (authenticated)
	admin := api.Group("/admin", s.authMiddleware(authService))
	admin.GET("/dashboard", catalogHandler.Dashboard)

	admin.GET("/services", catalogHandler.ListServices)
	admin.POST("/services", catalogHandler.CreateService)
	admin.PUT("/services/:id", catalogHandler.UpdateService)
	admin.DELETE("/services/:id", catalogHandler.DeleteService)

	admin.GET("/domains", catalogHandler.ListDomains)
	admin.POST("/domains", catalogHandler.CreateDomain)
	admin.PUT("/domains/:index", catalogHandler.UpdateDomain)
	admin.DELETE("/domains/:index", catalogHandler.DeleteDomain)

	admin.GET("/settings", catalogHandler.GetSettings)
	admin.PUT("/settings", catalogHandler.UpdateSettings)

	admin.POST("/upload/logo", uploadHandler.Upload(ports.UploadTargetLogo))
	admin.POST("/upload/background", uploadHandler.Upload(ports.UploadTargetBackground))
	admin.POST("/upload/music", uploadHandler.Upload(ports.UploadTargetMusic))

	admin.GET("/contacts", catalogHandler.ListContacts)

	admin.GET("/backup/list", backupHandler.ListBackups)
	admin.POST("/backup/create", backupHandler.CreateBackup)
	admin.GET("/backup/download/:filename", backupHandler.DownloadBackup)
	admin.POST("/backup/restore/:filename", backupHandler.RestoreBackup)
	admin.GET("/export", backupHandler.Export)
	admin.POST("/import", backupHandler.Import)
	admin.GET("/system", backupHandler.SystemInfo)
}

// setupMetrics configures Prometheus metrics on the application registry
func (s *Server) setupMetrics() {
	registry := s.app.Registry

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	registry.MustRegister(
		requestsTotal,
		requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Custom metrics middleware
	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start)
			status := c.Response().Status
			var he *echo.HTTPError
			if errors.As(err, &he) {
				status = he.Code
			}

			requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				strconv.Itoa(status),
			).Inc()

			requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(duration.Seconds())

			return err
		}
	})

	// Metrics endpoint
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	s.echo.GET("/metrics", echo.WrapHandler(metricsHandler))
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.config.App.Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// readinessCheck reports ready once every storage directory is reachable
func (s *Server) readinessCheck(c echo.Context) error {
	dirs := map[string]string{
		"backups":           s.app.Backups.Dir(),
		"uploads":           s.app.Media.PrimaryDir(),
		"permanent_uploads": s.app.Media.PermanentDir(),
	}
	for name, dir := range dirs {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": name + "_unavailable",
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Infow("Starting server", "address", address)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Infow("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// customErrorHandler renders every error as {success: false, message}
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  = "Something went wrong!"
		)

		var he *echo.HTTPError
		var ve validator.ValidationErrors
		if errors.As(err, &he) {
			code = he.Code
			msg = fmt.Sprint(he.Message)
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		} else if errors.As(err, &ve) {
			code = http.StatusBadRequest
			msg = ve.Error()
		}

		if code >= http.StatusInternalServerError {
			logger.WithError(err).Errorw("Internal server error", "path", c.Request().URL.Path)
		}

		// Send response
		if !c.Response().Committed {
			if c.Request().Method == echo.HEAD {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, httpHandlers.ErrorResponse{Success: false, Message: msg})
			}
			if err != nil {
				logger.Errorw("Error sending response", "error", err)
			}
		}
	}
}
