package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/myui-dev/myui/internal/config"
	"github.com/myui-dev/myui/internal/logging"
)

const shutdownTimeout = 10 * time.Second

type serveFlags struct {
	port      int
	host      string
	driver    string
	storePath string
	logLevel  string
	debug     bool
}

func serveCmd(configPath *string) *cobra.Command {
	var f serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the student registry server",
		Long: `Start the HTTP server: the /students JSON API, the live UI at /,
/healthz and Prometheus metrics.

Examples:
  myui serve
  myui serve --port=8080 --host=0.0.0.0
  myui serve --store=bolt
  MYUI_STORE_DRIVER=s3 MYUI_S3_BUCKET=registry myui serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if err := f.apply(cmd, cfg); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().IntVarP(&f.port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&f.host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().StringVar(&f.driver, "store", "", "Store driver: memory, file, bolt or s3")
	cmd.Flags().StringVar(&f.storePath, "store-path", "", "JSON file for the file driver")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "Check hook order and disable client caching")

	return cmd
}

// apply copies the flags the user set onto cfg and revalidates it.
func (f serveFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Server.Port = f.port
	}
	if flags.Changed("host") {
		cfg.Server.Host = f.host
	}
	if flags.Changed("store") {
		cfg.Store.Driver = f.driver
	}
	if flags.Changed("store-path") {
		cfg.Store.Path = f.storePath
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if flags.Changed("debug") {
		cfg.Live.Debug = f.debug
	}
	return cfg.Validate()
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	srv := newServer(cfg, logger, store)

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		store.Close()
		return err
	}
	httpServer := &http.Server{
		Handler:           srv.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	success("Serving the student registry")
	info("UI:      http://%s/", ln.Addr())
	info("API:     http://%s/students", ln.Addr())
	if cfg.MetricsEnabled() {
		info("Metrics: http://%s%s", ln.Addr(), cfg.Metrics.Path)
	}
	logger.Info("server started",
		"addr", ln.Addr().String(),
		"store", cfg.Store.Driver,
		"config", cfg.Path(),
		"version", version)

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.Serve(ln) }()

	select {
	case err := <-errCh:
		srv.shutdown(context.Background())
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Hijacked WebSocket connections are not tracked by http.Server, so the
	// live sessions are closed explicitly.
	err = httpServer.Shutdown(shutdownCtx)
	if serr := srv.shutdown(shutdownCtx); err == nil {
		err = serr
	}
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	logger.Info("server stopped", "error", err)
	return err
}
