package main

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkotlarz/streampulse/internal/config"
)

type fakeService struct {
	started bool
	stopped bool
}

func (f *fakeService) Start(context.Context) error {
	f.started = true
	return nil
}

func (f *fakeService) Stop() {
	f.stopped = true
}

type fakeHTTP struct {
	listenCalled chan struct{}
	shutdownOnce sync.Once
	shutdownCh   chan struct{}
}

func newFakeHTTP() *fakeHTTP {
	return &fakeHTTP{
		listenCalled: make(chan struct{}),
		shutdownCh:   make(chan struct{}),
	}
}

func (f *fakeHTTP) ListenAndServe(string) error {
	close(f.listenCalled)
	<-f.shutdownCh
	return http.ErrServerClosed
}

func (f *fakeHTTP) Shutdown(context.Context) error {
	f.shutdownOnce.Do(func() { close(f.shutdownCh) })
	return nil
}

func TestRun_StartsServiceAndHTTP(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Addr:            "127.0.0.1:0",
			ShutdownTimeout: time.Second,
		},
	}
	svc := &fakeService{}
	srv := newFakeHTTP()

	doneCh := make(chan error, 1)
	go func() {
		doneCh <- run(ctx, cfg, svc, srv)
	}()

	select {
	case <-srv.listenCalled:
	case <-time.After(2 * time.Second):
		t.Fatal("http server did not start")
	}

	cancel()

	select {
	case err := <-doneCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not exit after cancellation")
	}

	assert.True(t, svc.started)
	assert.True(t, svc.stopped)
}
