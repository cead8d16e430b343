package main

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"todo-api/internal/config"
	"todo-api/internal/store"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestRunRequiresDBURL(t *testing.T) {
	err := run(context.Background(), nil, envMap(nil), io.Discard)
	if !errors.Is(err, config.ErrMissingDBURL) {
		t.Fatalf("err=%v, want ErrMissingDBURL", err)
	}
}

func TestRunRejectsUnknownScheme(t *testing.T) {
	err := run(context.Background(), nil, envMap(map[string]string{"DB_URL": "redis://localhost"}), io.Discard)
	if !errors.Is(err, store.ErrUnsupportedScheme) {
		t.Fatalf("err=%v, want ErrUnsupportedScheme", err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, []string{"-addr", "127.0.0.1:0", "-db-url", "memory://"}, envMap(nil), io.Discard)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}
