package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/feed"
)

// Command factories for async operations. Results reach the model through
// the feed and thread subscriptions; commands only report errors.

const requestTimeout = 30 * time.Second

// RefreshFeedCmd forces page 0 of a category from the network
func RefreshFeedCmd(f *feed.Feed, category domain.Category) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := f.Refresh(ctx, category); err != nil {
			return ErrMsg{Err: err, Context: "refreshing " + category.DisplayName()}
		}
		return nil
	}
}

// LoadMoreCmd appends the next page of a feed
func LoadMoreCmd(f *feed.Feed) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if _, err := f.LoadMore(ctx); err != nil {
			return ErrMsg{Err: err, Context: "loading videos"}
		}
		return nil
	}
}

// ToggleLikeCmd flips the like state of a video
func ToggleLikeCmd(likes Liker, videoID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		v, err := likes.ToggleLike(ctx, videoID)
		if err != nil {
			return ErrMsg{Err: err, Context: "updating like"}
		}
		return LikeToggledMsg{Video: v}
	}
}

// LoadThreadCmd loads comments for a video
func LoadThreadCmd(th *feed.Thread, videoID string, restart bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := th.Load(ctx, videoID, restart); err != nil {
			return ErrMsg{Err: err, Context: "loading comments"}
		}
		return nil
	}
}

// PostCommentCmd posts to the open thread
func PostCommentCmd(th *feed.Thread, content string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		c, err := th.Post(ctx, content)
		if err != nil {
			return ErrMsg{Err: err, Context: "posting comment"}
		}
		return CommentPostedMsg{Comment: c}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
