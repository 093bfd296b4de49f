package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/K-Thour/PointsServer/config"
	"github.com/K-Thour/PointsServer/routes"
	"github.com/K-Thour/PointsServer/services"
	"github.com/K-Thour/PointsServer/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "pointsd",
	Short: "Daily habit points server",
	// serve is the default action
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func bootstrap() (config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, nil, err
	}
	log, err := config.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return cfg, nil, nil, err
	}
	db, err := config.InitDB(cfg, log)
	if err != nil {
		return cfg, log, nil, err
	}
	if err := config.Migrate(db); err != nil {
		return cfg, log, nil, err
	}
	return cfg, log, db, nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	_, log, _, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()
	log.Info("schema up to date")
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	var mailer services.Mailer = utils.NopMailer{}
	if cfg.MailFrom != "" {
		m, err := utils.NewSESMailerFromEnv(cmd.Context(), cfg.AWSRegion, cfg.MailFrom)
		if err != nil {
			return fmt.Errorf("init mailer: %w", err)
		}
		mailer = m
	}

	tokens := utils.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	hub := services.NewRealtimeHub()

	gin.SetMode(cfg.GinMode)
	r := routes.SetupRouter(routes.Deps{
		Config: cfg,
		DB:     db,
		Log:    log,
		Tokens: tokens,
		Auth:   services.NewAuthService(services.NewUserStore(db), tokens, mailer, log.Named("auth")),
		Points: services.NewRecordService(services.NewRecordStore(db), hub, loc, log.Named("points")),
		Hub:    hub,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
