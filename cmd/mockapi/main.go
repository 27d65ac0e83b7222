package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mmcdole/reel/internal/adapter"
	"github.com/mmcdole/reel/internal/metrics"
	"github.com/mmcdole/reel/internal/mockapi"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	var (
		addr     string
		pages    int
		seed     uint64
		offline  bool
		latency  time.Duration
		logLevel string
	)
	flag.StringVar(&addr, "addr", ":8080", "listen address")
	flag.IntVar(&pages, "pages", mockapi.DefaultPages, "pages per category")
	flag.Uint64Var(&seed, "seed", 1, "data seed")
	flag.BoolVar(&offline, "offline", false, "start with every API call failing")
	flag.DurationVar(&latency, "latency", 0, "artificial response delay")
	flag.StringVar(&logLevel, "log-level", "INFO", "DEBUG, INFO, WARN or ERROR")
	flag.Parse()

	logger := adapter.NewLogger(os.Stderr, logLevel, "mockapi")

	if err := run(addr, pages, seed, offline, latency, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(addr string, pages int, seed uint64, offline bool, latency time.Duration, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	srv := mockapi.NewServer(
		mockapi.NewGenerator(pages, seed, time.Now()),
		mockapi.WithMetrics(metrics.New(reg), reg),
		mockapi.WithLogger(logger),
	)
	srv.SetOffline(offline)
	srv.SetLatency(latency)

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("mock api listening", "addr", addr, "pages", pages, "seed", seed)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
