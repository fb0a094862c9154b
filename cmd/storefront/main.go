// Command storefront runs the headless storefront client: it restores the session,
// keeps the reactive stores in sync with the backend and logs their state changes.
package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"storefront/config"
	"storefront/internal/delivery/navigation"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/lifecycle"
	"storefront/internal/domain/service"
	"storefront/internal/errors"
	logs "storefront/internal/infra/log"
	"storefront/internal/infra/transport"
	"storefront/internal/infra/validation"
	"storefront/internal/usecase"
	"storefront/internal/usecase/impl"
)

type startClientParams struct {
	fx.In
	fx.Lifecycle

	Config   *config.Config
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Session  usecase.SessionUsecase
	Cart     usecase.CartUsecase
	Browser  usecase.CatalogBrowser
	Router   *navigation.Router
}

func main() {
	fx.New(
		injectInfra(),
		injectNavigation(),
		injectUsecase(),
		fx.Invoke(
			startClient,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		validation.New,
		newRegistry,
		transport.New,
		func(c *transport.Client) impl.Transport { return c },
	)
}

func newRegistry() (*prometheus.Registry, prometheus.Registerer) {
	reg := prometheus.NewRegistry()

	return reg, reg
}

func injectNavigation() fx.Option {
	return fx.Provide(
		func(cfg *config.Config, logger *slog.Logger) *navigation.History {
			return navigation.NewHistory(cfg.Navigation.HomePath, logger)
		},
		func(h *navigation.History) service.Navigator { return h },
		navigation.NewRouter,
	)
}

func injectUsecase() fx.Option {
	return fx.Provide(
		impl.NewSessionService,
		impl.NewCartService,
		impl.NewCatalogService,
		impl.NewCatalogBrowser,
		impl.NewOrderService,
		impl.NewAdminService,
		impl.NewCheckoutService,
	)
}

func startClient(params startClientParams) {
	var cancels []func()
	var metricsServer *http.Server

	params.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			cancels = append(cancels,
				params.Session.Subscribe(func(s entity.Session) {
					params.Logger.Info("Session changed",
						slog.String("status", string(s.Status)),
						slog.Bool("authenticated", s.Authenticated()),
					)
				}),
				params.Router.Subscribe(func(location string) {
					params.Logger.Info("Location changed", slog.String("location", location))
				}),
			)

			if params.Config.Metrics.Addr != "" {
				metricsServer = serveMetrics(params.Config.Metrics, params.Registry, params.Logger)
			}

			// Restore any session the cookie jar still carries, then warm the stores.
			go func() {
				bg := context.Background()
				params.Session.Probe(bg)
				if err := params.Browser.Load(bg); err != nil {
					params.Logger.Warn("Failed to load catalog", slog.Any("error", err))
				}
				if params.Session.Authenticated() {
					if err := params.Cart.Load(bg); err != nil {
						params.Logger.Warn("Failed to load cart", slog.Any("error", err))
					}
				}
				params.Router.Navigate(bg, params.Config.Navigation.HomePath)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			for _, cancel := range cancels {
				cancel()
			}
			if metricsServer == nil {
				return nil
			}

			shutdownCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
			defer cancel()

			return errors.WithStack(metricsServer.Shutdown(shutdownCtx))
		},
	})
}

func serveMetrics(cfg config.MetricsConfig, reg *prometheus.Registry, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{Addr: cfg.Addr, Handler: mux, ReadHeaderTimeout: lifecycle.DefaultTimeout}
	go func() {
		logger.Info("Serving client metrics", slog.String("addr", cfg.Addr), slog.String("path", cfg.Path))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", slog.Any("error", err))
		}
	}()

	return srv
}
