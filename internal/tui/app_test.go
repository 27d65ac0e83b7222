package tui

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/adapter"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/feed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVideos struct{}

func (stubVideos) ListVideos(ctx context.Context, category domain.Category, page, pageSize int, force bool) (domain.Page[domain.Video], error) {
	return domain.Page[domain.Video]{
		Items: []domain.Video{
			{ID: fmt.Sprintf("%s-%d", category, page), Title: "clip", Category: category},
		},
		HasMore:  page < 2,
		NextPage: page + 1,
	}, nil
}

type stubComments struct{}

func (stubComments) ListComments(ctx context.Context, videoID string, page, pageSize int) (domain.Page[domain.Comment], error) {
	return domain.Page[domain.Comment]{}, nil
}

func (stubComments) PostComment(ctx context.Context, videoID, content string, author domain.Author) (domain.Comment, error) {
	return domain.Comment{ID: "c", VideoID: videoID, Content: content}, nil
}

type stubLikes struct{}

func (stubLikes) ToggleLike(ctx context.Context, id string) (domain.Video, error) {
	return domain.Video{ID: id, Liked: true}, nil
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	logger := adapter.NullLogger()
	feeds := make(map[domain.Category]*feed.Feed)
	for _, c := range domain.Categories() {
		feeds[c] = feed.NewFeed(stubVideos{}, c, 20, logger)
	}
	m := NewModel(feeds, feed.NewThread(stubComments{}, nil, 20, logger), stubLikes{}, domain.CategoryFollowing)
	t.Cleanup(m.Close)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, keys ...string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m, cmd
}

func TestNewModel_StartsOnInitialCategory(t *testing.T) {
	m := newTestModel(t)
	c, ok := m.currentCategory()
	require.True(t, ok)
	assert.Equal(t, domain.CategoryFollowing, c)
	assert.Len(t, m.Categories, 3)
}

func TestFeedStateMsg_UpdatesAndClampsCursor(t *testing.T) {
	m := newTestModel(t)
	c := domain.CategoryFollowing
	m.Cursors[c] = 5

	next, cmd := m.Update(FeedStateMsg{Category: c, State: feed.State{
		Category: c,
		Videos:   []domain.Video{{ID: "a"}, {ID: "b"}},
	}})
	m = next.(Model)
	assert.NotNil(t, cmd, "keeps listening")
	assert.Equal(t, 1, m.Cursors[c])

	v, ok := m.selectedVideo()
	require.True(t, ok)
	assert.Equal(t, "b", v.ID)
}

func TestTabSwitchWraps(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(m, "tab", "tab")
	c, _ := m.currentCategory()
	assert.Equal(t, domain.CategoryRecommend, c)
}

func TestOpenCommentsAndCompose(t *testing.T) {
	m := newTestModel(t)
	c := domain.CategoryFollowing
	next, _ := m.Update(FeedStateMsg{Category: c, State: feed.State{
		Category: c,
		Videos:   []domain.Video{{ID: "v1", Title: "clip"}},
	}})
	m = next.(Model)

	m, cmd := press(m, "enter")
	assert.Equal(t, StateComments, m.State)
	assert.Equal(t, "v1", m.OpenVideo.ID)
	assert.NotNil(t, cmd)

	m, _ = press(m, "i")
	assert.Equal(t, StateCompose, m.State)

	// Blank submit stays in compose with an error
	m, _ = press(m, "enter")
	assert.Equal(t, StateCompose, m.State)
	assert.True(t, m.StatusIsErr)

	m, _ = press(m, "h", "i")
	assert.Equal(t, "hi", m.Compose.Value())
	m, cmd = press(m, "enter")
	assert.Equal(t, StateComments, m.State)
	assert.NotNil(t, cmd)

	m, _ = press(m, "esc")
	assert.Equal(t, StateFeed, m.State)
}

func TestLikeToggledMsg_SetsStatus(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(LikeToggledMsg{Video: domain.Video{ID: "v1", Liked: true}})
	m = next.(Model)
	assert.Equal(t, "Liked", m.StatusMsg)
	assert.False(t, m.StatusIsErr)
}

func TestView_RendersWithoutPanicking(t *testing.T) {
	m := newTestModel(t)
	c := domain.CategoryFollowing
	next, _ := m.Update(FeedStateMsg{Category: c, State: feed.State{
		Category: c,
		Videos:   []domain.Video{{ID: "v1", Title: "A very long title for a short clip", AuthorName: "sam", LikeCount: 12_345}},
		Origin:   domain.OriginFallback,
	}})
	m = next.(Model)
	out := m.View()
	assert.Contains(t, out, "Following")
	assert.Contains(t, out, "12.3k")
	assert.Contains(t, out, "[offline]")

	m, _ = press(m, "?")
	assert.Contains(t, m.View(), "Keys")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 10))
	assert.Equal(t, "hel…", truncate("hello", 4))
	assert.Equal(t, "hello", truncate("hello", 0))
}
