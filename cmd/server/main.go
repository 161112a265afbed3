package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusware/campus/internal/server"
	"github.com/campusware/campus/modules"
	"github.com/campusware/campus/pkg/application"
	"github.com/campusware/campus/pkg/composables"
	"github.com/campusware/campus/pkg/configuration"
	"github.com/campusware/campus/pkg/eventbus"
	"github.com/campusware/campus/pkg/logging"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()
	if conf.GoAppEnvironment != configuration.Production {
		logger = logging.ConsoleLogger(conf.LogrusLogLevel())
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		panic(err)
	}
	defer pool.Close()

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	if err := modules.Load(app, modules.BuiltInModules...); err != nil {
		log.Fatalf("failed to load modules: %v", err)
	}

	serverInstance, err := server.Default(&server.DefaultOptions{
		Logger:        logger,
		Configuration: conf,
		Application:   app,
		Pool:          pool,
	})
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}

	jobCtx, stopJobs := context.WithCancel(composables.WithPool(context.Background(), pool))
	for _, job := range app.Jobs() {
		go func(job application.Job) {
			logger.WithField("job", job.Name()).Info("job started")
			if err := job.Run(jobCtx); err != nil {
				logger.WithError(err).WithField("job", job.Name()).Error("job stopped")
			}
		}(job)
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		stopJobs()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := serverInstance.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("server shutdown failed")
		}
	}()

	log.Printf("Listening on: %s\n", conf.SocketAddress)
	if err := serverInstance.Start(conf.SocketAddress); err != nil {
		logger.WithError(err).Info("server stopped")
	}
}
