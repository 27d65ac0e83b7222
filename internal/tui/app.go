package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/feed"
	"github.com/mmcdole/reel/internal/tui/components"
)

// ApplicationState represents the current screen
type ApplicationState int

const (
	StateFeed ApplicationState = iota
	StateComments
	StateCompose
	StateHelp
)

// Vertical chrome: header, tab margin and footer
const ChromeHeight = 4

// Liker toggles likes. Implemented by *video.Service.
type Liker interface {
	ToggleLike(ctx context.Context, videoID string) (domain.Video, error)
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State     ApplicationState
	prevState ApplicationState
	Ready     bool

	// Services
	Feeds  map[domain.Category]*feed.Feed
	Thread *feed.Thread
	Likes  Liker

	// Data
	Categories   []domain.Category
	Tab          int
	FeedStates   map[domain.Category]feed.State
	Cursors      map[domain.Category]int
	ThreadState  feed.ThreadState
	ThreadScroll int
	OpenVideo    domain.Video

	// UI components
	Compose components.ComposeBox

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	SpinnerFrame int

	feedChans   map[domain.Category]<-chan feed.State
	threadChan  <-chan feed.ThreadState
	unsubscribe []func()
}

// NewModel creates the application model. Every feed and the thread are
// subscribed immediately; call Close when the program exits.
func NewModel(feeds map[domain.Category]*feed.Feed, thread *feed.Thread, likes Liker, initial domain.Category) Model {
	m := Model{
		State:      StateFeed,
		Feeds:      feeds,
		Thread:     thread,
		Likes:      likes,
		FeedStates: make(map[domain.Category]feed.State),
		Cursors:    make(map[domain.Category]int),
		Compose:    components.NewComposeBox(),
		feedChans:  make(map[domain.Category]<-chan feed.State),
	}

	for _, c := range domain.Categories() {
		f, ok := feeds[c]
		if !ok {
			continue
		}
		if c == initial {
			m.Tab = len(m.Categories)
		}
		m.Categories = append(m.Categories, c)
		ch, cancel := f.State().Subscribe()
		m.feedChans[c] = ch
		m.unsubscribe = append(m.unsubscribe, cancel)
		m.FeedStates[c] = f.Snapshot()
	}

	ch, cancel := thread.State().Subscribe()
	m.threadChan = ch
	m.unsubscribe = append(m.unsubscribe, cancel)
	return m
}

// Close releases the state subscriptions.
func (m Model) Close() {
	for _, cancel := range m.unsubscribe {
		cancel()
	}
}

// Init starts the subscriptions and loads the initial category
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		listenThreadCmd(m.threadChan),
		TickCmd(100 * time.Millisecond),
	}
	for c, ch := range m.feedChans {
		cmds = append(cmds, listenFeedCmd(c, ch))
	}
	if c, ok := m.currentCategory(); ok {
		cmds = append(cmds, LoadMoreCmd(m.Feeds[c]))
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Compose.SetWidth(msg.Width - 8)
		m.Ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		return m, TickCmd(100 * time.Millisecond)

	case FeedStateMsg:
		m.FeedStates[msg.Category] = msg.State
		m.clampCursor(msg.Category)
		return m, listenFeedCmd(msg.Category, m.feedChans[msg.Category])

	case ThreadStateMsg:
		m.ThreadState = msg.State
		m.ThreadScroll = min(m.ThreadScroll, max(0, len(msg.State.Comments)-1))
		return m, listenThreadCmd(m.threadChan)

	case LikeToggledMsg:
		for _, f := range m.Feeds {
			f.ReplaceVideo(msg.Video)
		}
		if m.OpenVideo.ID == msg.Video.ID {
			m.OpenVideo = msg.Video
		}
		if msg.Video.Liked {
			m.StatusMsg = "Liked"
		} else {
			m.StatusMsg = "Like removed"
		}
		m.StatusIsErr = false
		return m, ClearStatusCmd(2 * time.Second)

	case CommentPostedMsg:
		m.StatusMsg = "Comment posted"
		m.StatusIsErr = false
		m.ThreadScroll = 0
		return m, ClearStatusCmd(2 * time.Second)

	case ErrMsg:
		m.StatusMsg = msg.Error()
		m.StatusIsErr = true
		return m, ClearStatusCmd(5 * time.Second)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	if m.State == StateCompose {
		var cmd tea.Cmd
		m.Compose, cmd, _ = m.Compose.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.State {
	case StateHelp:
		if key.Matches(msg, Keys.Back, Keys.Help, Keys.Quit) {
			m.State = m.prevState
		}
		return m, nil

	case StateCompose:
		return m.handleComposeKey(msg)

	case StateComments:
		return m.handleThreadKey(msg)
	}
	return m.handleFeedKey(msg)
}

func (m Model) handleFeedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c, ok := m.currentCategory()
	if !ok {
		if key.Matches(msg, Keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}
	s := m.FeedStates[c]

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.prevState = m.State
		m.State = StateHelp

	case key.Matches(msg, Keys.NextTab):
		return m.switchTab(1)

	case key.Matches(msg, Keys.PrevTab):
		return m.switchTab(-1)

	case key.Matches(msg, Keys.Up):
		if m.Cursors[c] > 0 {
			m.Cursors[c]--
		}

	case key.Matches(msg, Keys.Down):
		if m.Cursors[c] < len(s.Videos)-1 {
			m.Cursors[c]++
		}
		if m.Cursors[c] >= len(s.Videos)-1 && s.HasMore && !s.Busy() {
			return m, LoadMoreCmd(m.Feeds[c])
		}

	case key.Matches(msg, Keys.Top):
		m.Cursors[c] = 0

	case key.Matches(msg, Keys.Bottom):
		m.Cursors[c] = max(0, len(s.Videos)-1)

	case key.Matches(msg, Keys.LoadMore):
		return m, LoadMoreCmd(m.Feeds[c])

	case key.Matches(msg, Keys.Refresh):
		return m, RefreshFeedCmd(m.Feeds[c], c)

	case key.Matches(msg, Keys.Like):
		if v, ok := m.selectedVideo(); ok {
			return m, ToggleLikeCmd(m.Likes, v.ID)
		}

	case key.Matches(msg, Keys.Comments):
		if v, ok := m.selectedVideo(); ok {
			m.OpenVideo = v
			m.State = StateComments
			m.ThreadScroll = 0
			return m, LoadThreadCmd(m.Thread, v.ID, true)
		}
	}
	return m, nil
}

func (m Model) handleThreadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Back):
		m.State = StateFeed

	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.prevState = m.State
		m.State = StateHelp

	case key.Matches(msg, Keys.Up):
		if m.ThreadScroll > 0 {
			m.ThreadScroll--
		}

	case key.Matches(msg, Keys.Down):
		n := len(m.ThreadState.Comments)
		if m.ThreadScroll < n-1 {
			m.ThreadScroll++
		}
		if m.ThreadScroll >= n-1 && m.ThreadState.HasMore && !m.ThreadState.Loading {
			return m, LoadThreadCmd(m.Thread, m.OpenVideo.ID, false)
		}

	case key.Matches(msg, Keys.LoadMore):
		return m, LoadThreadCmd(m.Thread, m.OpenVideo.ID, false)

	case key.Matches(msg, Keys.Refresh):
		return m, LoadThreadCmd(m.Thread, m.OpenVideo.ID, true)

	case key.Matches(msg, Keys.Like):
		return m, ToggleLikeCmd(m.Likes, m.OpenVideo.ID)

	case key.Matches(msg, Keys.Compose):
		m.State = StateCompose
		return m, m.Compose.Show()
	}
	return m, nil
}

func (m Model) handleComposeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	compose, cmd, submitted := m.Compose.Update(msg)
	m.Compose = compose
	if !m.Compose.IsVisible() {
		m.State = StateComments
		return m, nil
	}
	if !submitted {
		return m, cmd
	}

	if m.Compose.IsBlank() {
		m.StatusMsg = domain.ErrEmptyComment.Error()
		m.StatusIsErr = true
		return m, ClearStatusCmd(2 * time.Second)
	}
	content := m.Compose.Value()
	m.Compose.Hide()
	m.State = StateComments
	return m, PostCommentCmd(m.Thread, content)
}

// switchTab moves to another category, loading it if nothing is shown yet
func (m Model) switchTab(delta int) (tea.Model, tea.Cmd) {
	if len(m.Categories) == 0 {
		return m, nil
	}
	m.Tab = (m.Tab + delta + len(m.Categories)) % len(m.Categories)
	c := m.Categories[m.Tab]
	s := m.FeedStates[c]
	if len(s.Videos) == 0 && !s.Busy() && s.HasMore {
		return m, LoadMoreCmd(m.Feeds[c])
	}
	return m, nil
}

func (m Model) currentCategory() (domain.Category, bool) {
	if m.Tab < 0 || m.Tab >= len(m.Categories) {
		return "", false
	}
	return m.Categories[m.Tab], true
}

func (m Model) selectedVideo() (domain.Video, bool) {
	c, ok := m.currentCategory()
	if !ok {
		return domain.Video{}, false
	}
	videos := m.FeedStates[c].Videos
	i := m.Cursors[c]
	if i < 0 || i >= len(videos) {
		return domain.Video{}, false
	}
	return videos[i], true
}

func (m Model) clampCursor(c domain.Category) {
	n := len(m.FeedStates[c].Videos)
	if m.Cursors[c] >= n {
		m.Cursors[c] = max(0, n-1)
	}
}
