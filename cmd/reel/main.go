package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/adapter"
	"github.com/mmcdole/reel/internal/adapter/source"
	"github.com/mmcdole/reel/internal/comment"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/feed"
	"github.com/mmcdole/reel/internal/metrics"
	"github.com/mmcdole/reel/internal/profile"
	"github.com/mmcdole/reel/internal/search"
	"github.com/mmcdole/reel/internal/store"
	"github.com/mmcdole/reel/internal/tui"
	"github.com/mmcdole/reel/internal/video"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

const usage = `Usage: reel [flags] [command] [args]

With no command on a terminal, reel opens the interactive browser.

Commands:
  feed      [-category c] [-page n] [-size n] [-refresh]   list a feed page
  comments  [-page n] [-size n] <video-id>                 list comments
  post      <video-id> <text...>                           write a comment
  like      <video-id>                                     like a cached video
  unlike    <video-id>                                     remove a like
  search    [-author] [-limit n] <query>                   search cached videos
  prune     [-max-age d]                                   drop stale cached videos
  avatar    [set <uri|path> | clear]                       show or change the avatar
  reset     [-all]                                         wipe this server's cache (or every server's)
  setup                                                    write a config file

Flags:
`

func main() {
	var (
		showVersion bool
		configFile  string
		serverURL   string
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&configFile, "config", "", "config file (default ~/.config/reel/config.yaml)")
	flag.StringVar(&serverURL, "server", "", "API server URL, overrides config")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("reel %s\n", Version)
		return
	}

	if err := run(configFile, serverURL, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile, serverURL string, args []string) error {
	// Load configuration
	cfg, err := adapter.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if serverURL != "" {
		cfg.Server.URL = serverURL
	}

	if len(args) > 0 && args[0] == "setup" {
		return runSetup(cfg, configFile)
	}
	if len(args) == 2 && args[0] == "reset" && args[1] == "-all" {
		if err := adapter.ClearCache(cfg); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Println("Cache cleared for all servers")
		return nil
	}
	if !cfg.IsConfigured() {
		if len(args) > 0 {
			return errors.New("no server configured; run 'reel setup' or pass -server")
		}
		fmt.Println("No server configured.")
		if err := runSetup(cfg, configFile); err != nil {
			return err
		}
	}
	// Setup logger
	logger, logFile, err := adapter.SetupLogger(&cfg.Logging, "reel")
	if err != nil {
		// Fall back to null logger if file logging fails
		logger, logFile = adapter.NullLogger(), io.NopCloser(nil)
	}
	defer logFile.Close()
	slog.SetDefault(logger)
	logger.Info("starting reel", "version", Version, "server", cfg.Server.URL)

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) == 0 {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			flag.Usage()
			return errors.New("no command given and stdout is not a terminal")
		}
		return a.runTUI()
	}
	return a.dispatch(args[0], args[1:])
}

// app wires the store, remote client and services together.
type app struct {
	cfg      *adapter.Config
	logger   *slog.Logger
	store    *store.Store
	videos   *video.Service
	comments *comment.Service
	profile  *profile.Service
	search   *search.Service
	metrics  *http.Server
}

func newApp(cfg *adapter.Config, logger *slog.Logger) (*app, error) {
	reconcile, err := comment.ParseReconcilePolicy(cfg.Comments.Reconcile)
	if err != nil {
		return nil, err
	}

	st, err := store.NewStore(adapter.GetCachePath(cfg), cfg.Server.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	client, err := source.NewClientFromConfig(cfg, logger)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	a := &app{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		videos:   video.NewService(client, st, m, logger),
		comments: comment.NewService(client, st, reconcile, m, logger),
		search:   search.NewService(st, logger),
		profile: profile.NewService(st, domain.Author{
			UserID:    cfg.Profile.UserID,
			UserName:  cfg.Profile.UserName,
			AvatarURL: cfg.Profile.AvatarURL,
		}, logger),
	}

	if cfg.Metrics.Addr != "" {
		srv, err := serveMetrics(cfg.Metrics.Addr, reg, logger)
		if err != nil {
			st.Close()
			return nil, err
		}
		a.metrics = srv
	}
	return a, nil
}

// serveMetrics binds addr before returning so a busy port fails startup.
// The returned server's Addr is the bound address.
func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen for metrics: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: ln.Addr().String(), Handler: mux}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err, "addr", srv.Addr)
		}
	}()
	logger.Info("serving metrics", "addr", srv.Addr)
	return srv, nil
}

func (a *app) stopMetrics(ctx context.Context) {
	if a.metrics == nil {
		return
	}
	if err := a.metrics.Shutdown(ctx); err != nil {
		a.logger.Error("failed to stop metrics server", "error", err, "addr", a.metrics.Addr)
	}
}

// Close stops the metrics listener and closes the store.
func (a *app) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	a.stopMetrics(ctx)
	cancel()
	if err := a.store.Close(); err != nil {
		a.logger.Error("failed to close cache", "error", err)
	}
	a.logger.Info("shutting down")
}

func (a *app) defaultCategory() domain.Category {
	c, err := domain.ParseCategory(a.cfg.Feed.DefaultCategory)
	if err != nil {
		a.logger.Warn("invalid default category, using recommend", "category", a.cfg.Feed.DefaultCategory)
		return domain.CategoryRecommend
	}
	return c
}

func (a *app) runTUI() error {
	feeds := make(map[domain.Category]*feed.Feed)
	for _, c := range domain.Categories() {
		feeds[c] = feed.NewFeed(a.videos, c, a.cfg.Feed.PageSize, a.logger)
	}
	thread := feed.NewThread(a.comments, a.profile.Author, a.cfg.Feed.PageSize, a.logger)

	model := tui.NewModel(feeds, thread, a.videos, a.defaultCategory())
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())

	a.logger.Info("starting TUI")
	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
