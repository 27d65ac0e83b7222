package feed

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mmcdole/reel/internal/domain"
)

// VideoSource serves feed pages. Implemented by *video.Service.
type VideoSource interface {
	ListVideos(ctx context.Context, category domain.Category, page, pageSize int, forceRefresh bool) (domain.Page[domain.Video], error)
}

// State is a snapshot of a feed.
type State struct {
	Category   domain.Category
	Videos     []domain.Video
	NextPage   int
	HasMore    bool
	Loading    bool // load-more in flight
	Refreshing bool // refresh in flight
	Origin     domain.Origin
	Err        error
}

// Busy reports whether any load is in flight.
func (s State) Busy() bool {
	return s.Loading || s.Refreshing
}

// Feed accumulates pages of one category.
type Feed struct {
	src      VideoSource
	pageSize int
	logger   *slog.Logger

	mu    sync.Mutex // serializes state transitions
	gen   uint64     // bumped by Refresh; loads from older generations are dropped
	state *Value[State]
}

// NewFeed creates a feed for category. Nothing is loaded until LoadMore or
// Refresh is called.
func NewFeed(src VideoSource, category domain.Category, pageSize int, logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.Default()
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return &Feed{
		src:      src,
		pageSize: pageSize,
		logger:   logger,
		state: NewValue(State{
			Category: category,
			HasMore:  true,
		}),
	}
}

// State returns the observable feed state.
func (f *Feed) State() *Value[State] {
	return f.state
}

// Snapshot returns the current state.
func (f *Feed) Snapshot() State {
	return f.state.Get()
}

// Refresh resets the feed to category and loads page 0 from the network.
// It supersedes any load already in flight.
func (f *Feed) Refresh(ctx context.Context, category domain.Category) error {
	f.mu.Lock()
	f.gen++
	gen := f.gen
	f.state.Update(func(s State) State {
		if s.Category != category {
			s.Videos = nil
		}
		s.Category = category
		s.NextPage = 0
		s.HasMore = true
		s.Loading = false
		s.Refreshing = true
		s.Err = nil
		return s
	})
	f.mu.Unlock()

	page, err := f.src.ListVideos(ctx, category, 0, f.pageSize, true)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		f.logger.Debug("dropping superseded refresh", "category", category)
		return nil
	}
	f.state.Update(func(s State) State {
		s.Refreshing = false
		if err != nil {
			s.Err = err
			return s
		}
		s.Videos = page.Items
		s.NextPage = page.NextPage
		s.HasMore = page.HasMore
		s.Origin = page.Origin
		return s
	})
	if err != nil {
		f.logger.Error("feed refresh failed", "error", err, "category", category)
	}
	return err
}

// LoadMore appends the next page. It returns false without loading when a
// load is already in flight or the feed has no more pages.
func (f *Feed) LoadMore(ctx context.Context) (bool, error) {
	f.mu.Lock()
	cur := f.state.Get()
	if cur.Busy() || !cur.HasMore {
		f.mu.Unlock()
		return false, nil
	}
	gen := f.gen
	category, page := cur.Category, cur.NextPage
	f.state.Update(func(s State) State {
		s.Loading = true
		s.Err = nil
		return s
	})
	f.mu.Unlock()

	result, err := f.src.ListVideos(ctx, category, page, f.pageSize, false)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		f.logger.Debug("dropping superseded page", "category", category, "page", page)
		return false, nil
	}
	f.state.Update(func(s State) State {
		s.Loading = false
		if err != nil {
			s.Err = err
			return s
		}
		s.Videos = appendNew(s.Videos, result.Items)
		s.NextPage = result.NextPage
		s.HasMore = result.HasMore
		s.Origin = result.Origin
		return s
	})
	if err != nil {
		f.logger.Error("feed load failed", "error", err, "category", category, "page", page)
		return false, err
	}
	return true, nil
}

// ReplaceVideo swaps in an updated copy of a video already in the feed.
func (f *Feed) ReplaceVideo(v domain.Video) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Update(func(s State) State {
		for i := range s.Videos {
			if s.Videos[i].ID == v.ID {
				videos := make([]domain.Video, len(s.Videos))
				copy(videos, s.Videos)
				videos[i] = v
				s.Videos = videos
				break
			}
		}
		return s
	})
}

// appendNew appends items whose IDs are not already present. Returns a new
// slice so published snapshots are never mutated.
func appendNew(existing, items []domain.Video) []domain.Video {
	seen := make(map[string]struct{}, len(existing))
	out := make([]domain.Video, 0, len(existing)+len(items))
	for _, v := range existing {
		seen[v.ID] = struct{}{}
		out = append(out, v)
	}
	for _, v := range items {
		if _, dup := seen[v.ID]; dup {
			continue
		}
		seen[v.ID] = struct{}{}
		out = append(out, v)
	}
	return out
}
