package server

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/campusware/campus/pkg/application"
	"github.com/campusware/campus/pkg/configuration"
	"github.com/campusware/campus/pkg/metrics"
	"github.com/campusware/campus/pkg/middleware"
	"github.com/campusware/campus/pkg/server"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Application   application.Application
	Pool          *pgxpool.Pool
}

// Default assembles the HTTP server: ambient middleware first, then every
// controller the modules registered.
func Default(options *DefaultOptions) (*server.HTTPServer, error) {
	app := options.Application

	app.RegisterMiddleware(
		middleware.WithLogger(options.Logger),
		middleware.Recover(options.Logger),
		middleware.WithPool(options.Pool),
		middleware.CampusFromHeader("X-Campus-ID"),
	)

	if options.Configuration.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(options.Configuration.Prometheus.Path))
	}

	return server.NewHTTPServer(app), nil
}
