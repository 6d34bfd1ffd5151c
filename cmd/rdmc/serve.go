package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.uber.org/zap"

	"github.com/totegamma/rdmc-registry/internal/infra/database"
	"github.com/totegamma/rdmc-registry/internal/logging"
	"github.com/totegamma/rdmc-registry/internal/present/rest"
	restmw "github.com/totegamma/rdmc-registry/internal/present/rest/middleware"
	"github.com/totegamma/rdmc-registry/internal/service"
	"github.com/totegamma/rdmc-registry/internal/tracing"
)

const shutdownTimeout = 10 * time.Second

var serveViper = viper.New()

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the registry HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("listen", "", "listen address, e.g. :8000")
	serveCmd.Flags().String("driver", "", "database driver (postgres, sqlite)")
	_ = serveViper.BindPFlag("listenAddr", serveCmd.Flags().Lookup("listen"))
	_ = serveViper.BindPFlag("databaseDriver", serveCmd.Flags().Lookup("driver"))
}

func runServe(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig(serveViper)
	if err != nil {
		return err
	}

	logger, err := logging.New(conf.Server.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider, err := tracing.NewProvider(ctx, tracing.Config{
		Enabled:  conf.Server.EnableTrace,
		Exporter: conf.Server.TraceExporter,
		Endpoint: conf.Server.TraceEndpoint,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("failed to flush traces", zap.Error(err))
		}
	}()

	db, err := database.NewDatabase(conf.Server, logger)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	rdb := database.NewRedis(conf.Server)
	if rdb != nil {
		defer rdb.Close()
	}

	signals := service.NewSignalService(rdb, logger)
	handler := rest.NewHandler(buildUsecase(conf, db, signals, logger), signals, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	if provider.Enabled() {
		e.Use(otelecho.Middleware(tracing.ServiceName))
	}
	e.Use(restmw.RequestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	handler.RegisterRoutes(e)

	go func() {
		logger.Info("server starting",
			zap.String("addr", conf.Server.ListenAddr),
			zap.String("driver", conf.Server.DatabaseDriver),
		)
		if err := e.Start(conf.Server.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("server shutting down")
	return e.Shutdown(shutdownCtx)
}
