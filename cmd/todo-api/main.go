package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"todo-api/internal/config"
	"todo-api/internal/httpapi"
	"todo-api/internal/observability/logging"
	"todo-api/internal/store"
	"todo-api/internal/todo"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Getenv, os.Stderr); err != nil {
		log.Fatal("todo-api", "err", err)
	}
}

// run serves until ctx is cancelled. Startup failures are returned before
// the listener is opened.
func run(ctx context.Context, args []string, getenv func(string) string, stderr io.Writer) error {
	fs := flag.NewFlagSet("todo-api", flag.ContinueOnError)
	fs.SetOutput(stderr)

	cfg, err := config.Load(fs, args, getenv)
	if err != nil {
		return err
	}

	logger, err := logging.New(stderr, logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	if err != nil {
		return err
	}

	backend, err := store.Open(ctx, store.Options{
		URI:             cfg.DBURL,
		Database:        cfg.Database,
		Collection:      cfg.Collection,
		ConnectAttempts: cfg.ConnectAttempts,
		Logger:          logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout.Duration)
		defer cancel()
		if err := backend.Close(closeCtx); err != nil {
			logger.Warn("close storage", "err", err)
		}
	}()
	logger.Info("storage connected", "uri", store.Redact(cfg.DBURL))

	svc := todo.NewService(backend)
	handler := httpapi.NewServer(svc,
		httpapi.WithLogger(logger),
		httpapi.WithRequestTimeout(cfg.RequestTimeout.Duration),
	)

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          logging.StdLogger(logger),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout.Duration)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("bye")
	return nil
}
