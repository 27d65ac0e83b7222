// Package pagecache implements the read-through policy shared by the feed and
// comment access layers: trust the cache for a cold first page, otherwise go
// to the network, and fall back to the cache when the network fails.
package pagecache

import (
	"context"
	"log/slog"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/metrics"
)

// Request selects one page of a partition.
type Request struct {
	Page         int
	PageSize     int
	ForceRefresh bool // Skip the page-0 cache check
}

// Offset is the cache offset of the requested page.
func (r Request) Offset() int {
	return r.Page * r.PageSize
}

// Source binds one cache partition to its remote listing.
type Source[T any] struct {
	// Cached reads the partition, newest first
	Cached func(limit, offset int) ([]T, error)
	// Fetch asks the remote for one page
	Fetch func(ctx context.Context, page, size int) (domain.Listing[T], error)
	// Clear empties the partition before a fresh first page is stored
	Clear func() error
	// Save upserts items by ID
	Save func(items []T) error
}

// Loader runs the policy for one resource kind ("videos", "comments").
type Loader[T any] struct {
	resource string
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewLoader creates a Loader. A nil logger uses slog.Default; nil metrics are ignored.
func NewLoader[T any](resource string, logger *slog.Logger, m *metrics.Metrics) *Loader[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader[T]{resource: resource, logger: logger, metrics: m}
}

// Load returns the requested page. It fails only when the remote failed and
// the cache has nothing at the requested offset; the remote error is returned
// unchanged in that case.
//
// A forced refresh that fails remotely still falls back to the cached page at
// offset 0, so callers may see data older than they asked for.
func (l *Loader[T]) Load(ctx context.Context, partition string, src Source[T], req Request) (domain.Page[T], error) {
	if req.Page == 0 && !req.ForceRefresh {
		if items := l.cached(partition, src, req.PageSize, 0); len(items) > 0 {
			l.logger.Debug("cache hit", "resource", l.resource, "partition", partition, "count", len(items))
			return l.served(domain.Page[T]{
				Items:    items,
				HasMore:  len(items) == req.PageSize,
				NextPage: 1,
				Origin:   domain.OriginCache,
			}), nil
		}
	}

	listing, err := src.Fetch(ctx, req.Page, req.PageSize)
	if err == nil {
		l.reconcile(partition, src, req.Page, listing.Items)
		l.logger.Debug("fetched page", "resource", l.resource, "partition", partition,
			"page", req.Page, "count", len(listing.Items))
		return l.served(domain.Page[T]{
			Items:    listing.Items,
			HasMore:  listing.HasMore,
			NextPage: listing.NextPage,
			Origin:   domain.OriginNetwork,
		}), nil
	}

	l.metrics.RemoteFailed(l.resource, err)
	l.logger.Warn("remote fetch failed, trying cache", "resource", l.resource,
		"partition", partition, "page", req.Page, "error", err)

	if items := l.cached(partition, src, req.PageSize, req.Offset()); len(items) > 0 {
		return l.served(domain.Page[T]{
			Items:    items,
			HasMore:  len(items) == req.PageSize,
			NextPage: req.Page + 1,
			Origin:   domain.OriginFallback,
		}), nil
	}

	l.logger.Error("no cached page to fall back to", "resource", l.resource,
		"partition", partition, "page", req.Page, "error", err)
	return domain.Page[T]{}, err
}

// cached treats read errors as a miss.
func (l *Loader[T]) cached(partition string, src Source[T], limit, offset int) []T {
	items, err := src.Cached(limit, offset)
	if err != nil {
		l.logger.Warn("cache read failed", "resource", l.resource, "partition", partition, "error", err)
		return nil
	}
	return items
}

// reconcile writes a fresh page back. A first page replaces the partition.
// Write errors are logged; the caller still gets the network page.
func (l *Loader[T]) reconcile(partition string, src Source[T], page int, items []T) {
	if page == 0 {
		if err := src.Clear(); err != nil {
			l.logger.Error("failed to clear cache partition", "resource", l.resource,
				"partition", partition, "error", err)
		}
	}
	if err := src.Save(items); err != nil {
		l.logger.Error("failed to cache page", "resource", l.resource,
			"partition", partition, "page", page, "error", err)
	}
}

func (l *Loader[T]) served(p domain.Page[T]) domain.Page[T] {
	l.metrics.PageLoaded(l.resource, p.Origin)
	return p
}
