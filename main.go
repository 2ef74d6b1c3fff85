// main.go
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"cinema-checkout/cmd"
	"cinema-checkout/internal/backendsim"
	"cinema-checkout/internal/data/repository"
	"cinema-checkout/internal/wire"
	"cinema-checkout/pkg/apiclient"
	"cinema-checkout/pkg/database"
	"cinema-checkout/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	envFile := flag.String("env", ".env", "path to the .env config file")
	flag.Parse()

	// Load config
	config, err := utils.LoadConfig(*envFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("port", config.App.Port),
		zap.String("backend", config.Backend.BaseURL),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Attempt journal is optional
	var db database.PgxIface
	if config.Database.Enabled {
		db, err = database.InitDB(ctx, config.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		logger.Info("Database connected successfully")
	}

	g, gctx := errgroup.WithContext(ctx)

	// Embedded backend for local runs
	if config.Sim.Enabled {
		opts := backendsim.DefaultOptions()
		opts.LockTTL = config.Sim.LockTTL
		opts.DeclineMethods = config.Sim.DeclineMethods

		sim, err := backendsim.New(opts, logger)
		if err != nil {
			logger.Fatal("Failed to start backend simulator", zap.Error(err))
		}
		g.Go(func() error {
			return cmd.APIServer(gctx, "backendsim", sim.Router(), config.Sim.Port, logger)
		})
	}

	client := apiclient.New(config.Backend.BaseURL, config.Backend.Timeout, logger)
	repos := repository.NewRepository(client, db, logger)
	app := wire.Wiring(repos, config, logger)
	defer app.Shutdown()

	g.Go(func() error {
		return cmd.APIServer(gctx, "kiosk", app.Router, config.App.Port, logger)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return
	}
	logger.Info("Server stopped")
}
