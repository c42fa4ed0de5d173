package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestServer_ListenServeStop(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	srv := NewServer("127.0.0.1:0", h, ServerTimeouts{ReadHeader: time.Second, Write: time.Second, Idle: time.Second}, zap.NewNop())
	require.NoError(t, srv.Listen())
	assert.NotEqual(t, "127.0.0.1:0", srv.Addr())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve() }()

	resp, err := http.Get("http://" + srv.Addr() + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))

	select {
	case err := <-errCh:
		assert.NoError(t, err, "clean shutdown is not an error")
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after Stop")
	}
}

func TestServer_Timeouts(t *testing.T) {
	srv := NewServer(":0", http.NotFoundHandler(), ServerTimeouts{ReadHeader: 2 * time.Second, Write: 3 * time.Second, Idle: 4 * time.Second}, zap.NewNop())
	assert.Equal(t, 2*time.Second, srv.httpServer.ReadHeaderTimeout)
	assert.Equal(t, 3*time.Second, srv.httpServer.WriteTimeout)
	assert.Equal(t, 4*time.Second, srv.httpServer.IdleTimeout)
	assert.Equal(t, ":0", srv.Addr())
}

func TestServer_ListenErrors(t *testing.T) {
	first := NewServer("127.0.0.1:0", http.NotFoundHandler(), ServerTimeouts{}, zap.NewNop())
	require.NoError(t, first.Listen())
	defer first.Stop(context.Background())

	second := NewServer(first.Addr(), http.NotFoundHandler(), ServerTimeouts{}, zap.NewNop())
	assert.Error(t, second.Listen())

	idle := NewServer("127.0.0.1:0", http.NotFoundHandler(), ServerTimeouts{}, zap.NewNop())
	assert.Error(t, idle.Serve())
}
