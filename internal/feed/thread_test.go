package feed

import (
	"context"
	"fmt"
	"testing"

	"github.com/mmcdole/reel/internal/adapter"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeComments struct {
	pages   int
	calls   []int
	posted  []domain.Author
	postErr error
}

func (f *fakeComments) ListComments(ctx context.Context, videoID string, page, pageSize int) (domain.Page[domain.Comment], error) {
	f.calls = append(f.calls, page)
	return domain.Page[domain.Comment]{
		Items:    []domain.Comment{{ID: fmt.Sprintf("%s-c%d", videoID, page), VideoID: videoID}},
		HasMore:  page+1 < f.pages,
		NextPage: page + 1,
	}, nil
}

func (f *fakeComments) PostComment(ctx context.Context, videoID, content string, author domain.Author) (domain.Comment, error) {
	f.posted = append(f.posted, author)
	if f.postErr != nil {
		return domain.Comment{}, f.postErr
	}
	return domain.Comment{ID: "new", VideoID: videoID, Content: content, UserName: author.UserName}, nil
}

func commentIDs(cs []domain.Comment) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

func TestThread_LoadPagesAndSwitch(t *testing.T) {
	src := &fakeComments{pages: 2}
	th := NewThread(src, nil, 20, adapter.NullLogger())
	ctx := context.Background()

	require.NoError(t, th.Load(ctx, "v1", false))
	require.NoError(t, th.Load(ctx, "v1", false))
	require.NoError(t, th.Load(ctx, "v1", false)) // exhausted, no-op
	assert.Equal(t, []string{"v1-c0", "v1-c1"}, commentIDs(th.Snapshot().Comments))

	require.NoError(t, th.Load(ctx, "v2", false))
	s := th.Snapshot()
	assert.Equal(t, "v2", s.VideoID)
	assert.Equal(t, []string{"v2-c0"}, commentIDs(s.Comments))

	require.NoError(t, th.Load(ctx, "v2", true))
	assert.Equal(t, []string{"v2-c0"}, commentIDs(th.Snapshot().Comments))
}

func TestThread_RestartReadsPageZeroAgain(t *testing.T) {
	src := &fakeComments{pages: 3}
	th := NewThread(src, nil, 20, adapter.NullLogger())
	ctx := context.Background()

	require.NoError(t, th.Load(ctx, "v1", false))
	require.NoError(t, th.Load(ctx, "v1", false))
	require.NoError(t, th.Load(ctx, "v1", true))

	assert.Equal(t, []int{0, 1, 0}, src.calls)
	s := th.Snapshot()
	assert.Equal(t, []string{"v1-c0"}, commentIDs(s.Comments))
	assert.Equal(t, 1, s.NextPage)
	assert.True(t, s.HasMore)
}

func TestThread_PostPrepends(t *testing.T) {
	src := &fakeComments{pages: 1}
	me := domain.Author{UserID: "u1", UserName: "sam"}
	th := NewThread(src, func() domain.Author { return me }, 20, adapter.NullLogger())
	ctx := context.Background()
	require.NoError(t, th.Load(ctx, "v1", true))

	created, err := th.Post(ctx, "great clip")
	require.NoError(t, err)
	assert.Equal(t, "sam", created.UserName)
	assert.Equal(t, []string{"new", "v1-c0"}, commentIDs(th.Snapshot().Comments))
	assert.Equal(t, []domain.Author{me}, src.posted)
}

func TestThread_PostRejectsBlank(t *testing.T) {
	src := &fakeComments{pages: 1}
	th := NewThread(src, nil, 20, adapter.NullLogger())
	require.NoError(t, th.Load(context.Background(), "v1", true))

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := th.Post(context.Background(), content)
		assert.ErrorIs(t, err, domain.ErrEmptyComment)
	}
	assert.Empty(t, src.posted, "blank content never reaches the access layer")
}

func TestThread_PostErrorLeavesList(t *testing.T) {
	src := &fakeComments{pages: 1, postErr: fmt.Errorf("disk full")}
	th := NewThread(src, nil, 20, adapter.NullLogger())
	require.NoError(t, th.Load(context.Background(), "v1", true))

	_, err := th.Post(context.Background(), "hello")
	assert.Error(t, err)
	s := th.Snapshot()
	assert.Equal(t, []string{"v1-c0"}, commentIDs(s.Comments))
	assert.Error(t, s.Err)
	assert.False(t, s.Posting)
}

func TestThread_PostWithoutVideo(t *testing.T) {
	th := NewThread(&fakeComments{}, nil, 20, adapter.NullLogger())
	_, err := th.Post(context.Background(), "hello")
	assert.Error(t, err)
}
