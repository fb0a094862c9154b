package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"golang.org/x/net/http2"

	"storefront/config"
	"storefront/internal/delivery"
	apimiddleware "storefront/internal/delivery/api/middleware"
	"storefront/internal/delivery/api/router"
	"storefront/internal/delivery/middleware"
	"storefront/internal/domain/lifecycle"
	"storefront/internal/errors"
	"storefront/internal/infra/validation"
)

const (
	readTimeout        = 15 * time.Second
	readHeaderTimeout  = 5 * time.Second
	writeTimeout       = 30 * time.Second
	idleTimeout        = 2 * time.Minute
	maxRequestBodySize = "10M"
)

// Server is the sandbox backend.
type Server struct {
	cfg    *config.Config
	logger *slog.Logger
	server *echo.Echo
}

var _ delivery.Delivery = (*Server)(nil)

// ServerParams holds dependencies for HTTP server, injected by Fx.
type ServerParams struct {
	fx.In

	Lc           fx.Lifecycle
	Cfg          *config.Config
	Logger       *slog.Logger
	Validator    *validation.Validator
	RouterParams router.RouterParams
}

// NewServer builds the sandbox server and registers its shutdown with the lifecycle.
func NewServer(params ServerParams) (*Server, error) {
	srv, err := NewHandler(params.Cfg, params.Logger, params.Validator, params.RouterParams)
	if err != nil {
		return nil, err
	}

	params.Lc.Append(fx.Hook{
		OnStop: srv.stop,
	})

	return srv, nil
}

// NewHandler builds the sandbox server without binding it to a lifecycle.
func NewHandler(cfg *config.Config, logger *slog.Logger, validator *validation.Validator, routerParams router.RouterParams) (*Server, error) {
	if cfg.Sandbox == nil {
		return nil, errors.New("sandbox configuration is required")
	}

	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Server.ReadTimeout = readTimeout
	echoServer.Server.ReadHeaderTimeout = readHeaderTimeout
	echoServer.Server.WriteTimeout = writeTimeout
	echoServer.Server.IdleTimeout = idleTimeout

	// Set up middleware in correct order
	// 1. Recover middleware first (to catch panics early)
	echoServer.Use(echomiddleware.Recover())

	// 2. Request ID middleware (must be before logger to include in logs)
	requestIDMiddleware := middleware.NewRequestIDMiddleware(logger)
	echoServer.Use(requestIDMiddleware.Process)

	// 3. Logger middleware
	loggerMiddleware := middleware.NewLoggerMiddleware(logger, cfg, "/health")
	echoServer.Use(loggerMiddleware.Handle)

	// 4. CORS middleware; cookies need credentials, so origins are echoed rather than "*"
	echoServer.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOriginFunc:  func(string) (bool, error) { return true, nil },
		AllowCredentials: true,
	}))

	// 5. Request body size limit
	echoServer.Use(echomiddleware.BodyLimit(maxRequestBodySize))

	// Set up centralized error handler
	errorMiddleware := apimiddleware.NewErrorMiddleware(logger)
	echoServer.HTTPErrorHandler = errorMiddleware.HandleHTTPError

	// Set up validator
	echoServer.Validator = validator

	router.NewRouter(routerParams).RegisterRoutes(echoServer)

	return &Server{
		cfg:    cfg,
		logger: logger,
		server: echoServer,
	}, nil
}

// ServeHTTP lets tests drive the server without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.server.ServeHTTP(w, r)
}

func (s *Server) Serve(ctx context.Context) error {
	hostPort := net.JoinHostPort("0.0.0.0", strconv.Itoa(s.cfg.Sandbox.Port))
	s.logger.Info("Starting sandbox HTTP server", slog.String("host_port", hostPort))
	h2Server := &http2.Server{
		IdleTimeout: idleTimeout,
	}
	if err := s.server.StartH2CServer(hostPort, h2Server); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.WithStack(err)
	}

	return nil
}

func (s *Server) stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.Info("Shutting down sandbox HTTP server")

	return errors.WithStack(s.server.Shutdown(shutdownCtx))
}
