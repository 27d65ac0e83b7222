package pagecache

import (
	"context"
	"errors"
	"testing"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePartition is an in-memory cache partition plus a scripted remote.
type fakePartition struct {
	cache    []string
	readErr  error
	clearErr error

	listing  domain.Listing[string]
	fetchErr error

	fetches []int
	cleared int
}

func (f *fakePartition) source() Source[string] {
	return Source[string]{
		Cached: func(limit, offset int) ([]string, error) {
			if f.readErr != nil {
				return nil, f.readErr
			}
			if offset >= len(f.cache) {
				return nil, nil
			}
			end := offset + limit
			if end > len(f.cache) {
				end = len(f.cache)
			}
			return f.cache[offset:end], nil
		},
		Fetch: func(_ context.Context, page, _ int) (domain.Listing[string], error) {
			f.fetches = append(f.fetches, page)
			return f.listing, f.fetchErr
		},
		Clear: func() error {
			f.cleared++
			if f.clearErr != nil {
				return f.clearErr
			}
			f.cache = nil
			return nil
		},
		Save: func(items []string) error {
			f.cache = append(f.cache, items...)
			return nil
		},
	}
}

func load(t *testing.T, f *fakePartition, req Request) (domain.Page[string], error) {
	t.Helper()
	return NewLoader[string]("test", nil, nil).Load(context.Background(), "p", f.source(), req)
}

func TestLoad_PageZeroCacheHitSkipsRemote(t *testing.T) {
	f := &fakePartition{cache: []string{"a", "b"}}

	page, err := load(t, f, Request{Page: 0, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, page.Items)
	assert.Equal(t, domain.OriginCache, page.Origin)
	assert.False(t, page.HasMore)
	assert.Empty(t, f.fetches)
}

func TestLoad_ForceRefreshBypassesCache(t *testing.T) {
	f := &fakePartition{
		cache:   []string{"stale"},
		listing: domain.Listing[string]{Items: []string{"x", "y"}, HasMore: true, NextPage: 1},
	}

	page, err := load(t, f, Request{Page: 0, PageSize: 2, ForceRefresh: true})
	require.NoError(t, err)
	assert.Equal(t, domain.OriginNetwork, page.Origin)
	assert.Equal(t, []string{"x", "y"}, page.Items)
	assert.True(t, page.HasMore)
	assert.Equal(t, 1, page.NextPage)
	assert.Equal(t, []string{"x", "y"}, f.cache, "page 0 replaces the partition")
	assert.Equal(t, 1, f.cleared)
}

func TestLoad_LaterPagesAppendWithoutClearing(t *testing.T) {
	f := &fakePartition{
		cache:   []string{"a", "b"},
		listing: domain.Listing[string]{Items: []string{"c", "d"}, NextPage: 2},
	}

	page, err := load(t, f, Request{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, domain.OriginNetwork, page.Origin)
	assert.Equal(t, []int{1}, f.fetches)
	assert.Zero(t, f.cleared)
	assert.Equal(t, []string{"a", "b", "c", "d"}, f.cache)
}

func TestLoad_FallbackUsesRequestedOffset(t *testing.T) {
	f := &fakePartition{
		cache:    []string{"a", "b", "c", "d", "e"},
		fetchErr: &domain.TransportError{Op: "GET", Err: errors.New("refused")},
	}

	page, err := load(t, f, Request{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, domain.OriginFallback, page.Origin)
	assert.Equal(t, []string{"c", "d"}, page.Items)
	assert.Equal(t, 2, page.NextPage)
}

func TestLoad_ForcedRefreshFailureFallsBackToOffsetZero(t *testing.T) {
	f := &fakePartition{
		cache:    []string{"stale"},
		fetchErr: &domain.RemoteError{Code: 503, Message: "down"},
	}

	page, err := load(t, f, Request{Page: 0, PageSize: 10, ForceRefresh: true})
	require.NoError(t, err)
	assert.Equal(t, domain.OriginFallback, page.Origin)
	assert.Equal(t, []string{"stale"}, page.Items)
}

func TestLoad_FailsWithRemoteErrorWhenCacheEmpty(t *testing.T) {
	remote := &domain.RemoteError{Code: 500, Message: "server exploded"}
	f := &fakePartition{fetchErr: remote}

	_, err := load(t, f, Request{Page: 0, PageSize: 20})
	require.Error(t, err)
	assert.Same(t, remote, err)
	assert.EqualError(t, err, "server exploded")
	assert.Equal(t, []int{0}, f.fetches, "page 0 miss goes to the network")
}

func TestLoad_CacheReadErrorIsAMiss(t *testing.T) {
	f := &fakePartition{
		readErr: errors.New("corrupt"),
		listing: domain.Listing[string]{Items: []string{"net"}},
	}

	page, err := load(t, f, Request{Page: 0, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, domain.OriginNetwork, page.Origin)
}

func TestLoad_ClearFailureStillServesNetworkPage(t *testing.T) {
	f := &fakePartition{
		clearErr: errors.New("readonly"),
		listing:  domain.Listing[string]{Items: []string{"n"}},
	}

	page, err := load(t, f, Request{Page: 0, PageSize: 20, ForceRefresh: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"n"}, page.Items)
}

func TestRequest_Offset(t *testing.T) {
	assert.Equal(t, 0, Request{Page: 0, PageSize: 20}.Offset())
	assert.Equal(t, 60, Request{Page: 3, PageSize: 20}.Offset())
}
