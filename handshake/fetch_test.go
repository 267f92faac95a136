package handshake

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("PSK: deadbeef\nServer: s1\nServer: s2\n"))
	}))
	defer srv.Close()

	resp, err := Fetch(context.Background(), srv.Client(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", resp.PSK)
	assert.Equal(t, []string{"s1", "s2"}, resp.Servers)
}

func TestFetch_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), srv.Client(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestFetchWithRetry_RecoversFromTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("SSHPort: 22\n"))
	}))
	defer srv.Close()

	resp, err := FetchWithRetry(context.Background(), srv.Client(), srv.URL, 5)
	require.NoError(t, err)
	assert.Equal(t, "22", resp.SSHPort)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchWithRetry_ExhaustsTries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := FetchWithRetry(context.Background(), srv.Client(), srv.URL, 2)
	require.Error(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("PSK: x\n"))
	}))
	defer srv.Close()

	_, err := FetchWithRetry(ctx, srv.Client(), srv.URL, 3)
	require.Error(t, err)
}
