package comment

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/metrics"
	"github.com/mmcdole/reel/internal/pagecache"
)

const (
	resource = "comments"

	// DefaultPageSize is the thread page size.
	DefaultPageSize = 20

	defaultAvatarURL = "https://picsum.photos/100"
)

// ReconcilePolicy decides what happens to the server's copy of a posted comment.
type ReconcilePolicy int

const (
	// ReconcileNone keeps the locally authored record in the cache and only
	// hands the server copy back to the caller. Local and server records may
	// diverge (ID, timestamp) until the next first-page refresh.
	ReconcileNone ReconcilePolicy = iota

	// ReconcileServerCopy also writes the server copy to the cache.
	ReconcileServerCopy
)

// ParseReconcilePolicy maps a config value ("none", "server") to a policy.
func ParseReconcilePolicy(s string) (ReconcilePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ReconcileNone, nil
	case "server":
		return ReconcileServerCopy, nil
	default:
		return ReconcileNone, fmt.Errorf("unknown reconcile policy %q", s)
	}
}

func (p ReconcilePolicy) String() string {
	if p == ReconcileServerCopy {
		return "server"
	}
	return "none"
}

// Service orchestrates the comment API client and the local cache.
type Service struct {
	repo      domain.CommentRepository
	store     domain.CommentStore
	loader    *pagecache.Loader[domain.Comment]
	reconcile ReconcilePolicy
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// NewService creates a new comment service.
func NewService(
	repo domain.CommentRepository,
	store domain.CommentStore,
	reconcile ReconcilePolicy,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		store:     store,
		loader:    pagecache.NewLoader[domain.Comment](resource, logger, m),
		reconcile: reconcile,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

// ListComments returns one page of a video's thread, with the same
// cache/network/fallback policy as the video feed.
func (s *Service) ListComments(ctx context.Context, videoID string, page, pageSize int) (domain.Page[domain.Comment], error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	src := pagecache.Source[domain.Comment]{
		Cached: func(limit, offset int) ([]domain.Comment, error) {
			return s.store.CommentsByVideo(videoID, limit, offset)
		},
		Fetch: func(ctx context.Context, page, size int) (domain.Listing[domain.Comment], error) {
			listing, err := s.repo.ListComments(ctx, videoID, page, size)
			if err != nil {
				return listing, err
			}
			for i := range listing.Items {
				if listing.Items[i].VideoID == "" {
					listing.Items[i].VideoID = videoID
				}
			}
			return listing, nil
		},
		Clear: func() error {
			return s.store.DeleteCommentsByVideo(videoID)
		},
		Save: s.store.SaveComments,
	}

	return s.loader.Load(ctx, videoID, src, pagecache.Request{Page: page, PageSize: pageSize})
}

// PostComment writes a new comment locally, then submits it.
//
// Only a failed local write is an error. When the submission fails the local
// record is returned; when it succeeds the server's copy is returned.
func (s *Service) PostComment(ctx context.Context, videoID, content string, author domain.Author) (domain.Comment, error) {
	author = s.withDefaults(author)
	c := domain.Comment{
		ID:        s.newID(),
		VideoID:   videoID,
		UserID:    author.UserID,
		UserName:  author.UserName,
		AvatarURL: author.AvatarURL,
		Content:   content,
		Timestamp: s.now().UnixMilli(),
	}

	if err := s.store.SaveComment(c); err != nil {
		s.logger.Error("failed to save comment", "error", err, "videoID", videoID)
		return domain.Comment{}, fmt.Errorf("save comment: %w", err)
	}

	created, err := s.repo.PostComment(ctx, c)
	if err != nil || created == nil {
		s.metrics.RemoteFailed(resource, err)
		s.metrics.LocalWrite(resource, "local_only")
		s.logger.Warn("comment kept locally", "error", err, "commentID", c.ID, "videoID", videoID)
		return c, nil
	}
	s.metrics.LocalWrite(resource, "synced")

	if s.reconcile == ReconcileServerCopy {
		s.replaceLocal(c, *created)
	}
	s.logger.Debug("posted comment", "commentID", created.ID, "videoID", videoID)
	return *created, nil
}

// replaceLocal swaps the optimistic record for the server copy.
func (s *Service) replaceLocal(local, server domain.Comment) {
	if server.VideoID == "" {
		server.VideoID = local.VideoID
	}
	if err := s.store.SaveComment(server); err != nil {
		s.logger.Error("failed to cache server comment", "error", err, "commentID", server.ID)
		return
	}
	if server.ID == local.ID {
		return
	}
	if err := s.store.DeleteComment(local.ID); err != nil {
		s.logger.Error("failed to drop optimistic comment", "error", err, "commentID", local.ID)
	}
}

func (s *Service) withDefaults(a domain.Author) domain.Author {
	if a.UserID == "" {
		a.UserID = fmt.Sprintf("user_%d", s.now().UnixMilli())
	}
	if a.UserName == "" {
		a.UserName = fmt.Sprintf("User %d", 1000+rand.IntN(9000))
	}
	if a.AvatarURL == "" {
		a.AvatarURL = defaultAvatarURL
	}
	return a
}
