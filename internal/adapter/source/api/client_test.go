package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mmcdole/reel/internal/adapter/source/api"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/mockapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockClient(t *testing.T) (*api.Client, *mockapi.Server) {
	t.Helper()
	srv := mockapi.NewServer(mockapi.NewGenerator(3, 42, time.Now()))
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return api.NewClient(ts.URL, "", 5*time.Second, nil), srv
}

func TestClient_ListVideos(t *testing.T) {
	c, _ := newMockClient(t)
	ctx := context.Background()

	first, err := c.ListVideos(ctx, domain.CategoryRecommend, 0, 20)
	require.NoError(t, err)
	assert.Len(t, first.Items, 20)
	assert.True(t, first.HasMore)
	assert.Equal(t, 1, first.NextPage)
	assert.Equal(t, domain.CategoryRecommend, first.Items[0].Category)
	assert.NotZero(t, first.Items[0].Timestamp)

	last, err := c.ListVideos(ctx, domain.CategoryRecommend, 2, 20)
	require.NoError(t, err)
	assert.False(t, last.HasMore)
}

func TestClient_CommentsRoundTrip(t *testing.T) {
	c, _ := newMockClient(t)
	ctx := context.Background()

	videos, err := c.ListVideos(ctx, domain.CategoryNearby, 0, 1)
	require.NoError(t, err)
	videoID := videos.Items[0].ID

	created, err := c.PostComment(ctx, domain.Comment{
		ID:       "local-1",
		VideoID:  videoID,
		UserID:   "user_1",
		UserName: "tester",
		Content:  "nice one",
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "nice one", created.Content)
	assert.Equal(t, videoID, created.VideoID)

	page, err := c.ListComments(ctx, videoID, 0, 10)
	require.NoError(t, err)
	require.NotEmpty(t, page.Items)
	assert.Equal(t, created.ID, page.Items[0].ID)
}

func TestClient_LikeAndUnlike(t *testing.T) {
	c, _ := newMockClient(t)
	ctx := context.Background()

	videos, err := c.ListVideos(ctx, domain.CategoryFollowing, 0, 1)
	require.NoError(t, err)
	id := videos.Items[0].ID

	require.NoError(t, c.LikeVideo(ctx, id))
	require.NoError(t, c.UnlikeVideo(ctx, id))

	err = c.LikeVideo(ctx, "does-not-exist")
	var remote *domain.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusNotFound, remote.Code)
}

func TestClient_OfflineIsRemoteError(t *testing.T) {
	c, srv := newMockClient(t)
	srv.SetOffline(true)

	_, err := c.ListVideos(context.Background(), domain.CategoryRecommend, 0, 20)
	var remote *domain.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, 500, remote.Code)
	assert.Equal(t, "server offline", remote.Error())
	assert.False(t, errors.Is(err, domain.ErrServerOffline))
}

func TestClient_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := api.NewClient(url, "", time.Second, nil)
	_, err := c.ListComments(context.Background(), "v1", 0, 20)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrServerOffline))

	var transport *domain.TransportError
	require.ErrorAs(t, err, &transport)
	assert.Contains(t, transport.Op, "/comments/v1")
}

func TestClient_NonEnvelopeErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "<html>bad gateway</html>", http.StatusBadGateway)
	}))
	defer ts.Close()

	c := api.NewClient(ts.URL, "", time.Second, nil)
	err := c.LikeVideo(context.Background(), "v1")
	var remote *domain.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusBadGateway, remote.Code)
	assert.Equal(t, "Bad Gateway", remote.Message)
}

func TestClient_SendsBearerToken(t *testing.T) {
	var auth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Write([]byte(`{"code":200,"message":"ok","data":{"videos":[],"hasMore":false,"nextPage":1}}`))
	}))
	defer ts.Close()

	c := api.NewClient(ts.URL+"/", "secret", time.Second, nil)
	page, err := c.ListVideos(context.Background(), domain.CategoryRecommend, 0, 20)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, "Bearer secret", auth)
}

func TestMapVideo_ClampsCounts(t *testing.T) {
	v := api.MapVideo(api.VideoDTO{ID: "v", LikeCount: -3, Category: "nearby", IsLiked: true})
	assert.Equal(t, 0, v.LikeCount)
	assert.Equal(t, domain.CategoryNearby, v.Category)
	assert.True(t, v.Liked)
	assert.Equal(t, "nearby", api.ToVideoDTO(v).Category)
}
