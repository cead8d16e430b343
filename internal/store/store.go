// Package store opens the storage backend named by a connection string.
package store

import (
	"context"
	"database/sql"
	"math/rand"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"

	"todo-api/internal/store/memorystore"
	"todo-api/internal/store/mongostore"
	"todo-api/internal/store/postgres"
	"todo-api/internal/todo"
)

var ErrUnsupportedScheme = errors.New("unsupported storage scheme")

// Backend is a repository that owns a connection and must be closed.
type Backend interface {
	todo.Repository
	Close(ctx context.Context) error
}

type Options struct {
	URI             string
	Database        string
	Collection      string
	ConnectAttempts int
	Backoff         BackoffConfig
	Logger          *log.Logger
}

type dialFunc func(ctx context.Context, opts Options) (Backend, error)

// Open dials the backend selected by the URI scheme, retrying failed
// connects with capped exponential backoff up to ConnectAttempts times.
func Open(ctx context.Context, opts Options) (Backend, error) {
	return openWith(ctx, opts, dial)
}

func openWith(ctx context.Context, opts Options, dial dialFunc) (Backend, error) {
	if opts.ConnectAttempts < 1 {
		opts.ConnectAttempts = 1
	}
	if opts.Backoff.BaseDelay == 0 && opts.Backoff.MaxDelay == 0 {
		opts.Backoff = DefaultBackoff()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 1; ; attempt++ {
		b, err := dial(ctx, opts)
		if err == nil {
			return b, nil
		}
		if errors.Is(err, ErrUnsupportedScheme) || attempt >= opts.ConnectAttempts {
			return nil, err
		}

		delay := NextDelay(attempt, opts.Backoff, rng)
		logger.Warn("storage connect failed, retrying",
			"attempt", attempt, "max_attempts", opts.ConnectAttempts, "delay", delay, "err", err)

		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "storage connect")
		case <-time.After(delay):
		}
	}
}

func Scheme(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", errors.Wrap(err, "parse storage uri")
	}
	if u.Scheme == "" {
		return "", errors.Wrapf(ErrUnsupportedScheme, "%q has no scheme", Redact(uri))
	}
	return strings.ToLower(u.Scheme), nil
}

func dial(ctx context.Context, opts Options) (Backend, error) {
	scheme, err := Scheme(opts.URI)
	if err != nil {
		return nil, err
	}

	switch scheme {
	case "mongodb", "mongodb+srv":
		return mongostore.Open(ctx, opts.URI, opts.Database, opts.Collection)
	case "postgres", "postgresql":
		return openPostgres(ctx, opts.URI)
	case "memory":
		return memorystore.NewTodoStore(), nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedScheme, "%q", scheme)
	}
}

func openPostgres(ctx context.Context, uri string) (Backend, error) {
	db, err := sql.Open("pgx", uri)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}

	repo := postgres.NewTodoRepo(db)
	if err := repo.EnsureTable(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Redact drops the password from a connection string so it can be logged.
func Redact(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.User == nil {
		return uri
	}
	return u.Redacted()
}
