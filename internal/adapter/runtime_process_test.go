package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLocalRuntimeProcess_WaitReady(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	process := &localRuntimeProcess{
		cmd:          &exec.Cmd{},
		addr:         server.URL,
		readyTimeout: time.Second,
		pollInterval: 10 * time.Millisecond,
		client:       &http.Client{Timeout: time.Second},
	}

	require.NoError(t, process.WaitReady(context.Background()))
	require.NoError(t, process.Kill())
	require.NoError(t, process.Kill())
}

func TestLocalRuntimeProcess_WaitReadyTimeout(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	process := &localRuntimeProcess{
		cmd:          &exec.Cmd{},
		addr:         addr,
		readyTimeout: 50 * time.Millisecond,
		pollInterval: 10 * time.Millisecond,
		client:       &http.Client{Timeout: 20 * time.Millisecond},
	}

	err := process.WaitReady(context.Background())
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
