package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-cms/pkg/handlers"
	"portfolio-cms/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the admin and the public site",
	Long: `The serve command starts the admin API behind GitHub sign-in, the preview
directory under the preview URL and the published site under /site/.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig
		if serveAddr != "" {
			cfg.Addr = serveAddr
		}
		if !cfg.OAuthEnabled() && !cfg.AuthDisabled {
			return errors.New("GitHub login is not configured: set github_client_id and github_client_secret, or auth_disabled for local use")
		}
		if cfg.SessionSecret == "" {
			return errors.New("session_secret is required")
		}
		if cfg.AuthDisabled {
			logger.Warn("authentication is disabled, the admin is open to anyone who can reach it")
		}
		if cfg.LogFormat == "json" {
			gin.SetMode(gin.ReleaseMode)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg, logger)
		if err != nil {
			return err
		}

		authOpts := handlers.AuthOptions{
			Allowed:  cfg.IsAllowed,
			GitHub:   a.github,
			Disabled: cfg.AuthDisabled,
			Logger:   logger.Named("auth"),
		}
		if cfg.OAuthEnabled() {
			authOpts.OAuth = cfg.OAuth()
		}

		router := handlers.NewRouter(handlers.RouterOptions{
			API: handlers.NewAPI(handlers.APIOptions{
				Workspace:  a.workspace,
				Registry:   a.registry,
				Settings:   a.settings,
				Preview:    a.preview,
				Index:      a.index,
				Mirror:     a.mirror,
				Media:      services.Media{MaxSize: cfg.MaxUpload},
				GitHub:     a.github,
				PreviewURL: cfg.PreviewURL,
				Logger:     logger.Named("api"),
			}),
			Auth:          handlers.NewAuth(authOpts),
			Site:          handlers.NewSite(a.loader, cfg.DefaultLanguage, logger.Named("site")),
			SessionSecret: []byte(cfg.SessionSecret),
			PreviewDir:    cfg.PreviewPath,
			PreviewURL:    cfg.PreviewURL,
			Logger:        logger,
		})
		if err := os.MkdirAll(cfg.PreviewPath, 0o755); err != nil {
			return fmt.Errorf("create preview directory: %w", err)
		}

		srv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}
		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening", zap.String("addr", cfg.Addr), zap.String("publish_target", cfg.PublishTarget))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address, overrides the configured addr")
	rootCmd.AddCommand(serveCmd)
}
