package web

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/falconusers/internal/logging"
)

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := NewHTTPServer("127.0.0.1:0", logging.Nop(), http.NotFoundHandler())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ListenError(t *testing.T) {
	srv := NewHTTPServer("256.0.0.1:-1", logging.Nop(), http.NotFoundHandler())
	if err := srv.Run(context.Background()); err == nil {
		t.Fatal("expected listen error")
	}
}
