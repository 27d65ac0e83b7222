package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/feed"
)

// listenFeedCmd waits for the next snapshot of a feed. Update re-issues it
// after every FeedStateMsg, so one subscription pumps all updates.
func listenFeedCmd(category domain.Category, ch <-chan feed.State) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return FeedStateMsg{Category: category, State: s}
	}
}

// listenThreadCmd waits for the next snapshot of the comment thread.
func listenThreadCmd(ch <-chan feed.ThreadState) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return ThreadStateMsg{State: s}
	}
}
