package comment

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	listing domain.Listing[domain.Comment]
	listErr error
	calls   int

	created *domain.Comment
	postErr error
	posted  []domain.Comment
}

func (f *fakeRepo) ListComments(_ context.Context, _ string, _, _ int) (domain.Listing[domain.Comment], error) {
	f.calls++
	return f.listing, f.listErr
}

func (f *fakeRepo) PostComment(_ context.Context, c domain.Comment) (*domain.Comment, error) {
	f.posted = append(f.posted, c)
	if f.postErr != nil {
		return nil, f.postErr
	}
	return f.created, nil
}

func setup(t *testing.T, policy ReconcilePolicy) (*Service, *fakeRepo, *store.Store) {
	t.Helper()
	st, err := store.NewStore(t.TempDir(), "")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	repo := &fakeRepo{}
	svc := NewService(repo, st, policy, nil, nil)
	svc.now = func() time.Time { return time.UnixMilli(1_700_000_000_000) }
	svc.newID = func() string { return "local-id" }
	return svc, repo, st
}

func comments(videoID string, n int) []domain.Comment {
	out := make([]domain.Comment, n)
	for i := range out {
		out[i] = domain.Comment{
			ID:        fmt.Sprintf("%s-c%02d", videoID, i),
			VideoID:   videoID,
			UserName:  "someone",
			Content:   fmt.Sprintf("comment %d", i),
			Timestamp: int64(50_000 - i*60_000/1000),
		}
	}
	return out
}

func TestListComments_CachedFirstPage(t *testing.T) {
	svc, repo, st := setup(t, ReconcileNone)
	require.NoError(t, st.SaveComments(comments("abc", 3)))

	page, err := svc.ListComments(context.Background(), "abc", 0, 20)
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, domain.OriginCache, page.Origin)
	assert.Zero(t, repo.calls)
}

func TestListComments_NetworkReplacesThread(t *testing.T) {
	svc, repo, st := setup(t, ReconcileNone)
	fresh := comments("abc", 2)
	for i := range fresh {
		fresh[i].VideoID = "" // API omitted it
	}
	repo.listing = domain.Listing[domain.Comment]{Items: fresh, HasMore: false}

	page, err := svc.ListComments(context.Background(), "abc", 0, 20)
	require.NoError(t, err)
	assert.Equal(t, domain.OriginNetwork, page.Origin)
	for _, c := range page.Items {
		assert.Equal(t, "abc", c.VideoID)
	}

	cached, err := st.CommentsByVideo("abc", 0, 0)
	require.NoError(t, err)
	assert.Len(t, cached, 2)
}

func TestListComments_TransportFaultFallsBackToOffset(t *testing.T) {
	svc, repo, st := setup(t, ReconcileNone)
	all := comments("abc", 25)
	require.NoError(t, st.SaveComments(all))
	repo.listErr = &domain.TransportError{Op: "GET /comments/abc", Err: errors.New("timeout")}

	page, err := svc.ListComments(context.Background(), "abc", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, domain.OriginFallback, page.Origin)
	assert.Equal(t, all[20:], page.Items)
}

func TestListComments_RemoteErrorWithoutCache(t *testing.T) {
	svc, repo, _ := setup(t, ReconcileNone)
	repo.listErr = &domain.RemoteError{Code: 500, Message: "comments unavailable"}

	_, err := svc.ListComments(context.Background(), "abc", 0, 20)
	assert.EqualError(t, err, "comments unavailable")
}

func TestPostComment_RemoteFailureStillSucceeds(t *testing.T) {
	svc, repo, st := setup(t, ReconcileNone)
	repo.postErr = &domain.TransportError{Op: "POST /comments", Err: errors.New("offline")}

	c, err := svc.PostComment(context.Background(), "abc", "first!", domain.Author{UserID: "u1", UserName: "me"})
	require.NoError(t, err)
	assert.Equal(t, "first!", c.Content)
	assert.Equal(t, "local-id", c.ID)
	assert.Equal(t, "abc", c.VideoID)
	assert.Equal(t, int64(1_700_000_000_000), c.Timestamp)

	cached, err := st.CommentsByVideo("abc", 20, 0)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, c, cached[0])
}

func TestPostComment_ReturnsServerCopy(t *testing.T) {
	svc, repo, st := setup(t, ReconcileNone)
	repo.created = &domain.Comment{ID: "server-id", VideoID: "abc", Content: "hello", Timestamp: 42}

	c, err := svc.PostComment(context.Background(), "abc", "hello", domain.Author{})
	require.NoError(t, err)
	assert.Equal(t, "server-id", c.ID)
	assert.Equal(t, "hello", c.Content)

	require.Len(t, repo.posted, 1)
	assert.Equal(t, "local-id", repo.posted[0].ID)

	// Without reconciliation only the local record is cached
	cached, err := st.CommentsByVideo("abc", 0, 0)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "local-id", cached[0].ID)
}

func TestPostComment_ReconcileServerCopy(t *testing.T) {
	svc, repo, st := setup(t, ReconcileServerCopy)
	repo.created = &domain.Comment{ID: "server-id", Content: "hello", Timestamp: 1_700_000_000_500}

	_, err := svc.PostComment(context.Background(), "abc", "hello", domain.Author{})
	require.NoError(t, err)

	cached, err := st.CommentsByVideo("abc", 0, 0)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "server-id", cached[0].ID)
	assert.Equal(t, "abc", cached[0].VideoID)
}

func TestPostComment_DefaultsAuthor(t *testing.T) {
	svc, repo, _ := setup(t, ReconcileNone)
	repo.postErr = errors.New("nope")

	c, err := svc.PostComment(context.Background(), "abc", "hi", domain.Author{})
	require.NoError(t, err)
	assert.Equal(t, "user_1700000000000", c.UserID)
	assert.Regexp(t, `^User \d{4}$`, c.UserName)
	assert.Equal(t, defaultAvatarURL, c.AvatarURL)
}

func TestParseReconcilePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    ReconcilePolicy
		wantErr bool
	}{
		{"", ReconcileNone, false},
		{"none", ReconcileNone, false},
		{"Server", ReconcileServerCopy, false},
		{"merge", ReconcileNone, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseReconcilePolicy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
