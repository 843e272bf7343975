package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mfportal/src/api"
	"mfportal/src/config"
	"mfportal/src/utils"
	aws_handler "mfportal/src/utils/aws"
	"mfportal/src/worker"

	"github.com/sirupsen/logrus"
)

func main() {
	logger := utils.NewLogger(logrus.InfoLevel, false, "")

	cfg, err := config.LoadConfig("./settings", config.Env())
	if err != nil {
		logger.WithError(err).Error("Error while loading config")
		os.Exit(1)
	}

	if cfg.Secrets.AWSRegion != "" {
		awsHandler, err := aws_handler.NewAWSHandler(cfg.Secrets.AWSRegion)
		if err != nil {
			logger.WithError(err).Error("Couldn't create AWS session")
			os.Exit(1)
		}
		if err := config.ResolveSecrets(cfg, awsHandler.SecretManager); err != nil {
			logger.WithError(err).Error("Couldn't resolve secrets")
			os.Exit(1)
		}
	}

	logger = utils.NewLoggerFromConfig(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Error("Error while running")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	var (
		httpServer *http.Server
		closeFn    func()
	)
	if cfg.Service.Type == config.API {
		server, err := api.NewServer(ctx, cfg, logger)
		if err != nil {
			return err
		}
		httpServer = api.NewHTTPServer(server, cfg.Service.Port)
		closeFn = server.Handler.Close
	} else {
		server, err := worker.NewServer(ctx, cfg, logger)
		if err != nil {
			return err
		}
		httpServer = worker.NewHTTPServer(server, cfg.Service.Port)
		closeFn = server.Handler.Close
	}
	defer closeFn()

	errC := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"type": cfg.Service.Type,
			"port": cfg.Service.Port,
		}).Info("Starting server")

		// "ListenAndServe always returns a non-nil error. After Shutdown or Close, the returned error is
		// ErrServerClosed."
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
		close(errC)
	}()

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
