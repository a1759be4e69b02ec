package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitReady(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	err := waitReady(context.Background(), ts.URL, make(chan error, 1))
	assert.NoError(t, err)
}

// A server that fails to start must cut the wait short with its own error,
// not leave the caller polling a dead address until the deadline.
func TestWaitReadySurfacesServerError(t *testing.T) {
	srvErr := make(chan error, 1)
	srvErr <- errors.New("listen tcp 127.0.0.1:8080: bind: address already in use")

	start := time.Now()
	err := waitReady(context.Background(), "http://127.0.0.1:0", srvErr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address already in use")
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestWaitReadyServerExitsCleanly(t *testing.T) {
	srvErr := make(chan error, 1)
	srvErr <- nil

	err := waitReady(context.Background(), "http://127.0.0.1:0", srvErr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before becoming ready")
}

func TestWaitReadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := waitReady(ctx, "http://127.0.0.1:0", make(chan error, 1))
	assert.ErrorIs(t, err, context.Canceled)
}
