// Package profile manages the local user's identity and avatar.
package profile

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmcdole/reel/internal/domain"
)

// Service persists the avatar and builds the comment author identity.
type Service struct {
	store    domain.ProfileStore
	identity domain.Author // configured identity; AvatarURL is the fallback avatar
	logger   *slog.Logger
}

// NewService creates a new profile service
func NewService(store domain.ProfileStore, identity domain.Author, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		identity: identity,
		logger:   logger,
	}
}

// SetAvatar validates and stores an avatar location. Accepted forms are
// file, content, http and https URIs, or a path to an existing local file,
// which is stored as a file URI. Returns the stored URI.
func (s *Service) SetAvatar(location string) (string, error) {
	uri, err := normalizeAvatar(location)
	if err != nil {
		return "", err
	}
	if err := s.store.SaveAvatar(uri); err != nil {
		return "", fmt.Errorf("failed to save avatar: %w", err)
	}
	s.logger.Info("avatar updated", "uri", uri)
	return uri, nil
}

// Avatar returns the stored avatar, falling back to the configured one.
func (s *Service) Avatar() (string, bool) {
	if uri, ok := s.store.GetAvatar(); ok {
		return uri, true
	}
	if s.identity.AvatarURL != "" {
		return s.identity.AvatarURL, true
	}
	return "", false
}

// HasAvatar reports whether an avatar has been stored locally.
func (s *Service) HasAvatar() bool {
	_, ok := s.store.GetAvatar()
	return ok
}

// ClearAvatar removes the stored avatar.
func (s *Service) ClearAvatar() error {
	if err := s.store.ClearAvatar(); err != nil {
		return fmt.Errorf("failed to clear avatar: %w", err)
	}
	s.logger.Info("avatar cleared")
	return nil
}

// Author returns the identity to post comments as. Empty fields are left
// for the comment service to default.
func (s *Service) Author() domain.Author {
	a := s.identity
	if uri, ok := s.Avatar(); ok {
		a.AvatarURL = uri
	}
	return a
}

func normalizeAvatar(location string) (string, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return "", fmt.Errorf("%w: empty", domain.ErrInvalidAvatar)
	}

	u, err := url.Parse(location)
	if err == nil && len(u.Scheme) > 1 {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			if u.Host == "" {
				return "", fmt.Errorf("%w: missing host in %q", domain.ErrInvalidAvatar, location)
			}
			return location, nil
		case "file", "content":
			if u.Host == "" && u.Path == "" && u.Opaque == "" {
				return "", fmt.Errorf("%w: %q has no path", domain.ErrInvalidAvatar, location)
			}
			return location, nil
		default:
			return "", fmt.Errorf("%w: unsupported scheme %q", domain.ErrInvalidAvatar, u.Scheme)
		}
	}

	// Anything else must be a local image file
	abs, err := filepath.Abs(location)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidAvatar, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidAvatar, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", domain.ErrInvalidAvatar, abs)
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}
