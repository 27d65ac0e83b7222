package feed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/mmcdole/reel/internal/domain"
)

// CommentSource serves and accepts comments. Implemented by *comment.Service.
type CommentSource interface {
	ListComments(ctx context.Context, videoID string, page, pageSize int) (domain.Page[domain.Comment], error)
	PostComment(ctx context.Context, videoID, content string, author domain.Author) (domain.Comment, error)
}

// ThreadState is a snapshot of one video's comments.
type ThreadState struct {
	VideoID  string
	Comments []domain.Comment
	NextPage int
	HasMore  bool
	Loading  bool
	Posting  bool
	Err      error
}

// Thread holds the comment list of the video currently open.
type Thread struct {
	src      CommentSource
	author   func() domain.Author
	pageSize int
	logger   *slog.Logger

	mu    sync.Mutex
	gen   uint64
	state *Value[ThreadState]
}

// NewThread creates a thread. author is asked for the poster's identity on
// every Post; nil posts anonymously and lets the access layer fill defaults.
func NewThread(src CommentSource, author func() domain.Author, pageSize int, logger *slog.Logger) *Thread {
	if logger == nil {
		logger = slog.Default()
	}
	if author == nil {
		author = func() domain.Author { return domain.Author{} }
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return &Thread{
		src:      src,
		author:   author,
		pageSize: pageSize,
		logger:   logger,
		state:    NewValue(ThreadState{}),
	}
}

// State returns the observable thread state.
func (t *Thread) State() *Value[ThreadState] {
	return t.state
}

// Snapshot returns the current state.
func (t *Thread) Snapshot() ThreadState {
	return t.state.Get()
}

// Load loads comments for videoID. Switching videos or passing restart
// starts over from page 0; otherwise the next page is appended. Page 0 goes
// through the comment cache policy, so a restart on a cached thread re-reads
// the cache without contacting the server.
func (t *Thread) Load(ctx context.Context, videoID string, restart bool) error {
	t.mu.Lock()
	cur := t.state.Get()
	restart = restart || cur.VideoID != videoID
	if !restart && (cur.Loading || !cur.HasMore) {
		t.mu.Unlock()
		return nil
	}
	if restart {
		t.gen++
	}
	gen := t.gen
	page := cur.NextPage
	if restart {
		page = 0
	}
	t.state.Update(func(s ThreadState) ThreadState {
		if restart {
			s = ThreadState{VideoID: videoID, HasMore: true}
		}
		s.Loading = true
		s.Err = nil
		return s
	})
	t.mu.Unlock()

	result, err := t.src.ListComments(ctx, videoID, page, t.pageSize)

	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen {
		return nil
	}
	t.state.Update(func(s ThreadState) ThreadState {
		s.Loading = false
		if err != nil {
			s.Err = err
			return s
		}
		if page == 0 {
			s.Comments = result.Items
		} else {
			s.Comments = append(append([]domain.Comment(nil), s.Comments...), result.Items...)
		}
		s.NextPage = result.NextPage
		s.HasMore = result.HasMore
		return s
	})
	if err != nil {
		t.logger.Error("comment load failed", "error", err, "video_id", videoID, "page", page)
	}
	return err
}

// Post writes a comment to the open video and prepends it on success.
// Blank content is rejected with domain.ErrEmptyComment.
func (t *Thread) Post(ctx context.Context, content string) (domain.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return domain.Comment{}, domain.ErrEmptyComment
	}

	t.mu.Lock()
	videoID := t.state.Get().VideoID
	if videoID == "" {
		t.mu.Unlock()
		return domain.Comment{}, fmt.Errorf("no video open")
	}
	t.state.Update(func(s ThreadState) ThreadState {
		s.Posting = true
		s.Err = nil
		return s
	})
	t.mu.Unlock()

	created, err := t.src.PostComment(ctx, videoID, content, t.author())

	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Update(func(s ThreadState) ThreadState {
		s.Posting = false
		if err != nil {
			s.Err = err
			return s
		}
		if s.VideoID == videoID {
			s.Comments = append([]domain.Comment{created}, s.Comments...)
		}
		return s
	})
	if err != nil {
		t.logger.Error("comment post failed", "error", err, "video_id", videoID)
		return domain.Comment{}, err
	}
	return created, nil
}
