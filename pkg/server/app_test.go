package server

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BuyBio/pkg/config"
	xhttp "BuyBio/pkg/http"
)

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func TestAppRunStopsOnCancel(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	port := freePort(t)
	cfg.Server.Port = port

	srv := xhttp.NewServer(nil, nil,
		xhttp.WithHost("127.0.0.1"),
		xhttp.WithPort(port),
		xhttp.WithMetrics(false),
	)
	app := New(cfg, nil, srv, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	url := "http://127.0.0.1:" + strconv.Itoa(port) + "/nothing"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusNotFound
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestAppRunReturnsBindError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Server.Port = port

	srv := xhttp.NewServer(nil, nil,
		xhttp.WithHost("127.0.0.1"),
		xhttp.WithPort(port),
		xhttp.WithMetrics(false),
	)

	done := make(chan error, 1)
	go func() { done <- New(cfg, nil, srv, nil).Run(context.Background()) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "listen")
	case <-time.After(3 * time.Second):
		t.Fatal("app kept running on an occupied port")
	}
}
