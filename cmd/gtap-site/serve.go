package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joelkehle/gtap-site/internal/auth"
	"github.com/joelkehle/gtap-site/internal/catalog"
	"github.com/joelkehle/gtap-site/internal/certificate"
	"github.com/joelkehle/gtap-site/internal/content"
	"github.com/joelkehle/gtap-site/internal/site"
	"github.com/joelkehle/gtap-site/internal/store"
	"github.com/joelkehle/gtap-site/internal/telemetry"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Addr = addr
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func (a *app) serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := a.cfg
	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry.OTLPEndpoint, cfg.Telemetry.ServiceName)
	if err != nil {
		return err
	}

	st, err := store.Open(store.Driver(cfg.Storage.Driver), cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	lib, err := content.Default()
	if err != nil {
		return err
	}
	// Aggregate both fixtures up front so a bad seed fails at startup.
	for _, name := range catalog.FixtureNames() {
		if _, err := catalog.Load(name); err != nil {
			return err
		}
	}

	certs := certificate.NewService(cfg.CertificateDelay())
	defer certs.Close()
	certs.OnReady(func(l certificate.Lookup) {
		a.logger.Debug("certificate lookup ready", zap.String("token", l.Token))
	})

	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		a.logger.Warn("admin credentials not configured; admin login is disabled")
	}
	webDir := resolveWebDir(cfg.WebDir)
	handler := site.NewServer(site.Options{
		Logger:         a.logger,
		Store:          st,
		Authenticator:  auth.NewStubAuthenticator(cfg.Admin.Email, cfg.Admin.Password),
		Certificates:   certs,
		Content:        lib,
		WebDir:         webDir,
		PageSize:       cfg.Rankings.PageSize,
		SummaryLimit:   cfg.Rankings.SummaryLimit,
		ExportCacheTTL: cfg.Rankings.ExportCacheTTL,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		ChromePath:     cfg.PDF.ChromePath,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// PDF exports drive a headless browser.
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("gtap-site listening",
			zap.String("addr", cfg.Addr),
			zap.String("web_dir", webDir),
			zap.String("storage", cfg.Storage.Driver),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "listen")
		}
	}

	a.logger.Info("shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown", zap.Error(err))
	}
	return nil
}
