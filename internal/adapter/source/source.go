package source

import (
	"fmt"
	"log/slog"
	"net/url"

	"github.com/mmcdole/reel/internal/adapter"
	"github.com/mmcdole/reel/internal/adapter/source/api"
	"github.com/mmcdole/reel/internal/domain"
)

// Remote combines the repository interfaces a backend must implement.
type Remote interface {
	domain.VideoRepository
	domain.CommentRepository
}

// NewClientFromConfig creates a Remote from the application config.
func NewClientFromConfig(cfg *adapter.Config, logger *slog.Logger) (Remote, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if cfg.Server.URL == "" {
		return nil, fmt.Errorf("server URL is required")
	}
	u, err := url.Parse(cfg.Server.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q", cfg.Server.URL)
	}

	return api.NewClient(cfg.Server.URL, cfg.Server.Token, cfg.Server.Timeout, logger), nil
}
