package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mhanna50/Michaels-Portfolio-sub000/internal/app"
	"github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/config"
	applog "github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/logging"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	defer func() {
		if err := applog.Sync(); err != nil {
			applog.LogError(context.Background(), "logger sync error", err)
		}
	}()
	if err := applog.Err(); err != nil {
		applog.LogError(context.Background(), "logger init error", err)
	}
	if err := config.LoadDotEnv(); err != nil {
		applog.LogError(context.Background(), "dotenv load failed", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		applog.LogError(context.Background(), "invalid configuration", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := app.New(ctx, cfg)
	if err != nil {
		applog.LogError(ctx, "dependency setup failed", err)
		os.Exit(1)
	}
	defer func() {
		if err := deps.Close(); err != nil {
			applog.LogError(context.Background(), "dependency close error", err)
		}
	}()

	router, _ := app.NewRouter(cfg, deps, Version)
	srv := newServer(":"+cfg.Port, router)

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		applog.LogError(ctx, "listen failed", err, zap.String("addr", srv.Addr))
		os.Exit(1)
	}
	if err := serve(ctx, srv, ln); err != nil {
		applog.LogError(context.Background(), "server error", err, zap.String("addr", srv.Addr))
		os.Exit(1)
	}
	applog.LogInfo(context.Background(), "server exited")
}

func newServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10, // 64 KB
	}
}

// serve runs srv on ln until ctx is cancelled, then shuts it down gracefully.
// It returns the serve error, if any, or the shutdown error.
func serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	serveErr := make(chan error, 1)
	go func() {
		applog.LogInfo(context.Background(), "server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		applog.LogInfo(context.Background(), "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
