// Package main initializes and starts the GophPass server, setting up
// configuration, logging, the optional Redis range cache, services, handlers
// and TLS.
package main

import (
	"cmp"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/GophPass/internal/config"
	"github.com/atinyakov/GophPass/internal/db"
	"github.com/atinyakov/GophPass/internal/logger"
	"github.com/atinyakov/GophPass/internal/repository"
	"github.com/atinyakov/GophPass/internal/server/handler/http"
	"github.com/atinyakov/GophPass/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const (
	// breachRPS caps calls to the Pwned Passwords API.
	breachRPS = 10
	// shutdownTimeout bounds draining of in-flight requests.
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run owns every resource so that deferred cleanup happens before main exits.
func run() error {
	// Parse command-line, config file and environment configuration.
	options, err := config.Parse()
	if err != nil {
		return err
	}

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	if err := log.Init("Info"); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	zapLogger := log.Log
	defer func() { _ = zapLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect the breach range cache when configured.
	breachOpts := service.BreachOptions{
		BaseURL: options.HIBPURL,
		RPS:     breachRPS,
		Burst:   breachRPS,
		Logger:  zapLogger,
	}
	if options.RedisAddr != "" {
		rdb, err := db.InitRedis(ctx, options.RedisAddr)
		if err != nil {
			zapLogger.Error("cannot init redis", zap.Error(err))
			return err
		}
		defer func() { _ = rdb.Close() }()
		breachOpts.Cache = repository.NewRedisRangeCache(rdb, repository.DefaultRangeTTL)
		zapLogger.Info("breach range cache enabled", zap.String("redis", options.RedisAddr))
	}

	// Initialize business-logic services.
	passwordService := service.NewPasswordService(
		service.NewRemoteWords(options.WordsURL, zapLogger),
		service.NewBreachChecker(breachOpts),
	)

	// Build the router with middleware and routes.
	passwordHandler := &http.PasswordHandler{Service: passwordService, Log: zapLogger}
	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           http.NewRouter(passwordHandler, zapLogger),
		ReadHeaderTimeout: 5 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
	}

	ln, err := net.Listen("tcp", options.Port)
	if err != nil {
		zapLogger.Error("cannot listen", zap.String("addr", options.Port), zap.Error(err))
		return err
	}

	if err := serve(ctx, server, ln, options.CertFile, options.KeyFile, zapLogger); err != nil {
		zapLogger.Error("server failed", zap.Error(err))
		return err
	}
	zapLogger.Info("server stopped")
	return nil
}

// serve runs server on ln until ctx is canceled, then drains in-flight
// requests before returning. TLS is used when certFile is set.
func serve(ctx context.Context, server *nethttp.Server, ln net.Listener, certFile, keyFile string, log *zap.Logger) error {
	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownErr <- server.Shutdown(shutdownCtx)
	}()

	var err error
	if certFile != "" {
		log.Info("starting HTTPS server", zap.String("addr", ln.Addr().String()))
		err = server.ServeTLS(ln, certFile, keyFile)
	} else {
		log.Info("starting HTTP server", zap.String("addr", ln.Addr().String()))
		err = server.Serve(ln)
	}
	if !errors.Is(err, nethttp.ErrServerClosed) {
		return err
	}
	// Serve returns as soon as Shutdown starts; wait for the drain.
	if err := <-shutdownErr; err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
