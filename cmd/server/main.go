// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fiscal-print-service/internal/config"
	"fiscal-print-service/internal/printer"
	"fiscal-print-service/internal/routes"
	"fiscal-print-service/internal/service"
	"fiscal-print-service/internal/utils"
)

// Application holds all application dependencies
type Application struct {
	config        *config.Config
	logger        *zap.Logger
	serviceLogger *utils.ServiceLogger
	settings      *config.Store
	spooler       *printer.Spooler
	printService  *service.PrintService
	router        *gin.Engine
	server        *http.Server
}

func main() {
	app, err := initializeApplication()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.run(); err != nil {
		app.logger.Fatal("Application failed", zap.Error(err))
	}
}

// initializeApplication sets up all application dependencies
func initializeApplication() (*Application, error) {
	app := &Application{}

	if err := app.initializeConfig(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	if err := app.initializeLogger(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initializeRouter()
	app.initializeServer()

	return app, nil
}

// initializeConfig loads application configuration
func (app *Application) initializeConfig() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	app.config = cfg
	return nil
}

// initializeLogger sets up structured logging
func (app *Application) initializeLogger() error {
	logger, err := utils.NewLogger(&app.config.Logging)
	if err != nil {
		return err
	}
	app.logger = logger
	app.serviceLogger = utils.NewServiceLogger(logger, "fiscal-print-server")
	return nil
}

// initializeServices sets up the settings store, spooler and print service
func (app *Application) initializeServices() error {
	settings, err := config.NewStore(app.config.Printing.SettingsPath, app.logger)
	if err != nil {
		return fmt.Errorf("failed to open settings store: %w", err)
	}
	app.settings = settings
	app.spooler = printer.NewSpooler(settings, nil, app.logger)
	app.printService = service.NewPrintService(app.config, settings, app.spooler, app.logger)

	app.logger.Info("Services initialized",
		zap.String("settings_path", app.config.Printing.SettingsPath),
		zap.String("default_printer", settings.PrinterName()),
	)
	return nil
}

// initializeRouter sets up HTTP routes
func (app *Application) initializeRouter() {
	router := routes.NewRouter(app.config, app.logger, app.printService)
	app.router = router.SetupRouter()
}

// initializeServer creates the HTTP server
func (app *Application) initializeServer() {
	app.server = &http.Server{
		Addr:         app.config.GetServerAddr(),
		Handler:      app.router,
		ReadTimeout:  app.config.Server.ReadTimeout,
		WriteTimeout: app.config.Server.WriteTimeout,
		IdleTimeout:  app.config.Server.IdleTimeout,
	}
}

// run starts the application and handles graceful shutdown
func (app *Application) run() error {
	defer utils.CloseLogger(app.logger)

	app.serviceLogger.LogServiceStart(app.config.App.Version)

	serverErrors := make(chan error, 1)
	go func() {
		app.logger.Info("HTTP server listening",
			zap.String("addr", app.server.Addr),
			zap.String("environment", app.config.App.Environment),
		)
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		app.logger.Info("Shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := app.server.Shutdown(ctx); err != nil {
			app.server.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	app.serviceLogger.LogServiceStop("shutdown signal")
	return nil
}
