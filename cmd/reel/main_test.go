package main

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"testing"

	"github.com/mmcdole/reel/internal/adapter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	srv, err := serveMetrics("127.0.0.1:0", reg, adapter.NullLogger())
	require.NoError(t, err)
	defer srv.Close()

	resp, err := http.Get("http://" + srv.Addr + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The port is taken now
	_, err = serveMetrics(srv.Addr, reg, adapter.NullLogger())
	assert.Error(t, err)
}

func TestStopMetrics_LogsShutdownError(t *testing.T) {
	var buf bytes.Buffer
	srv, err := serveMetrics("127.0.0.1:0", prometheus.NewRegistry(), adapter.NullLogger())
	require.NoError(t, err)
	defer srv.Close()

	// A fresh connection that never sends a request keeps Shutdown waiting.
	held, err := net.Dial("tcp", srv.Addr)
	require.NoError(t, err)
	defer held.Close()

	// Connections are accepted in order, so once this request is answered the
	// held connection is tracked by the server.
	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + srv.Addr + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()

	a := &app{logger: adapter.NewLogger(&buf, "INFO", "reel"), metrics: srv}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a.stopMetrics(ctx)

	assert.Contains(t, buf.String(), "failed to stop metrics server")
	assert.Contains(t, buf.String(), "context canceled")
}

func TestStopMetrics_NoServer(t *testing.T) {
	var buf bytes.Buffer
	a := &app{logger: adapter.NewLogger(&buf, "INFO", "reel")}
	a.stopMetrics(context.Background())
	assert.Empty(t, buf.String())
}
