package tui

import (
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/feed"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// FeedStateMsg carries a published feed snapshot
type FeedStateMsg struct {
	Category domain.Category
	State    feed.State
}

// ThreadStateMsg carries a published comment thread snapshot
type ThreadStateMsg struct {
	State feed.ThreadState
}

// LikeToggledMsg signals that a like toggle was applied locally
type LikeToggledMsg struct {
	Video domain.Video
}

// CommentPostedMsg signals that a comment was stored
type CommentPostedMsg struct {
	Comment domain.Comment
}

// TickMsg drives the spinner
type TickMsg struct{}

// ClearStatusMsg clears the status line
type ClearStatusMsg struct{}
