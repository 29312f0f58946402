package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kariqs/shopfront-api/app"
	"github.com/Kariqs/shopfront-api/initializers"
	"github.com/Kariqs/shopfront-api/metrics"
	"github.com/Kariqs/shopfront-api/utils"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, logger, db, err := bootstrap()
	if err != nil {
		return err
	}

	mailer, err := utils.NewMailer(cfg.Mail, logger)
	if err != nil {
		return err
	}

	deps := app.Deps{
		Config: cfg,
		DB:     db,
		Logger: logger,
		Mailer: mailer,
	}

	rdb, err := initializers.ConnectRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		deps.Cache = utils.NewRedisCache(rdb)
	}

	if cfg.S3Bucket != "" {
		uploader, err := utils.NewS3Uploader(ctx, cfg.S3Bucket)
		if err != nil {
			return err
		}
		deps.Uploader = uploader
	}

	metrics.MustRegister(nil)
	a := app.New(deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "api_prefix", cfg.APIPrefix, "db_driver", cfg.Database.Driver)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
