package video

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/metrics"
	"github.com/mmcdole/reel/internal/pagecache"
)

const resource = "videos"

// DefaultPageSize matches the feed page the API serves by default.
const DefaultPageSize = 20

// Service orchestrates the video API client and the local cache.
type Service struct {
	repo    domain.VideoRepository
	store   domain.VideoStore
	loader  *pagecache.Loader[domain.Video]
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates a new video service.
func NewService(repo domain.VideoRepository, store domain.VideoStore, m *metrics.Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:    repo,
		store:   store,
		loader:  pagecache.NewLoader[domain.Video](resource, logger, m),
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// ListVideos returns one page of a category feed.
//
// Page 0 is served from the cache when it has anything, unless forceRefresh
// is set. A fresh page 0 from the network replaces the category's cached
// records. When the network fails, the cached page at page*pageSize is
// returned instead, if there is one.
func (s *Service) ListVideos(
	ctx context.Context,
	category domain.Category,
	page, pageSize int,
	forceRefresh bool,
) (domain.Page[domain.Video], error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	src := pagecache.Source[domain.Video]{
		Cached: func(limit, offset int) ([]domain.Video, error) {
			return s.store.VideosByCategory(category, limit, offset)
		},
		Fetch: func(ctx context.Context, page, size int) (domain.Listing[domain.Video], error) {
			listing, err := s.repo.ListVideos(ctx, category, page, size)
			if err != nil {
				return listing, err
			}
			listing.Items = s.stamp(category, listing.Items)
			return listing, nil
		},
		Clear: func() error {
			return s.store.DeleteVideosByCategory(category)
		},
		Save: func(items []domain.Video) error {
			return s.store.SaveVideos(items)
		},
	}

	req := pagecache.Request{Page: page, PageSize: pageSize, ForceRefresh: forceRefresh}
	return s.loader.Load(ctx, string(category), src, req)
}

// GetVideo is a cache-only lookup.
func (s *Service) GetVideo(id string) (domain.Video, bool) {
	return s.store.GetVideo(id)
}

// SetLiked records a like or unlike remotely, then mirrors it in the cache.
// A remote failure leaves the cache untouched. A video that is not cached is
// not an error.
func (s *Service) SetLiked(ctx context.Context, id string, liked bool) error {
	var err error
	if liked {
		err = s.repo.LikeVideo(ctx, id)
	} else {
		err = s.repo.UnlikeVideo(ctx, id)
	}
	if err != nil {
		s.metrics.RemoteFailed(resource, err)
		s.logger.Error("failed to set like", "error", err, "videoID", id, "liked", liked)
		return err
	}

	v, ok := s.store.GetVideo(id)
	if !ok {
		s.logger.Debug("liked video not cached", "videoID", id)
		return nil
	}
	if err := s.store.UpdateVideo(v.WithLike(liked)); err != nil {
		s.logger.Error("failed to update cached video", "error", err, "videoID", id)
		return fmt.Errorf("update cached video: %w", err)
	}
	s.logger.Debug("set like", "videoID", id, "liked", liked)
	return nil
}

// ToggleLike flips the cached liked state and returns the updated record.
func (s *Service) ToggleLike(ctx context.Context, id string) (domain.Video, error) {
	v, ok := s.store.GetVideo(id)
	if !ok {
		return domain.Video{}, domain.ErrVideoNotFound
	}
	if err := s.SetLiked(ctx, id, !v.Liked); err != nil {
		return v, err
	}
	updated, ok := s.store.GetVideo(id)
	if !ok {
		// Evicted by a concurrent refresh; report what we wrote
		return v.WithLike(!v.Liked), nil
	}
	return updated, nil
}

// PruneCache evicts videos cached longer ago than maxAge.
func (s *Service) PruneCache(maxAge time.Duration) (int, error) {
	n, err := s.store.PruneVideos(s.now().Add(-maxAge))
	if err != nil {
		s.logger.Error("failed to prune video cache", "error", err)
		return 0, err
	}
	s.logger.Info("pruned video cache", "removed", n, "maxAge", maxAge)
	return n, nil
}

// InvalidateCategory drops a category's cached records.
func (s *Service) InvalidateCategory(category domain.Category) error {
	if err := s.store.DeleteVideosByCategory(category); err != nil {
		return err
	}
	s.logger.Info("invalidated category cache", "category", category)
	return nil
}

// stamp fills in fields the cache relies on when the API left them empty.
func (s *Service) stamp(category domain.Category, items []domain.Video) []domain.Video {
	now := s.now().UnixMilli()
	out := make([]domain.Video, len(items))
	for i, v := range items {
		if v.Category == "" {
			v.Category = category
		}
		if v.Timestamp == 0 {
			v.Timestamp = now
		}
		out[i] = v
	}
	return out
}
