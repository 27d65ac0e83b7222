package search

import (
	"testing"

	"github.com/mmcdole/reel/internal/adapter"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSearchService(t *testing.T) *Service {
	t.Helper()
	st, err := store.NewStore(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	require.NoError(t, st.SaveVideos([]domain.Video{
		{ID: "1", Title: "Sunset over the harbor", AuthorName: "Travel Zhang", Category: domain.CategoryRecommend, Timestamp: 30},
		{ID: "2", Title: "Easy dumpling recipe", AuthorName: "Foodie Li", Category: domain.CategoryRecommend, Timestamp: 20},
		{ID: "3", Title: "Harbor night market", AuthorName: "Foodie Li", Category: domain.CategoryNearby, Timestamp: 10},
		{ID: "4", Title: "Morning run", AuthorName: "Travel Zhao", Category: domain.CategoryFollowing, Timestamp: 5},
	}))
	return NewService(st, adapter.NullLogger())
}

func resultIDs(rs []Result) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Video.ID
	}
	return out
}

func TestSearch_AcrossCategories(t *testing.T) {
	s := newSearchService(t)

	results, err := s.Search("harbor", 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1", "3"}, resultIDs(results))
	for _, r := range results {
		assert.NotEmpty(t, r.MatchedIndexes)
	}
}

func TestSearch_CaseInsensitiveAndLimit(t *testing.T) {
	s := newSearchService(t)

	results, err := s.Search("HARBOR", 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearch_EmptyAndNoMatch(t *testing.T) {
	s := newSearchService(t)

	results, err := s.Search("   ", 10)
	require.NoError(t, err)
	assert.Nil(t, results)

	results, err = s.Search("zzzzqqq", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestByAuthor(t *testing.T) {
	s := newSearchService(t)

	videos, err := s.ByAuthor("foodie")
	require.NoError(t, err)
	ids := make([]string, len(videos))
	for i, v := range videos {
		ids[i] = v.ID
	}
	assert.Equal(t, []string{"2", "3"}, ids)

	videos, err = s.ByAuthor("travel")
	require.NoError(t, err)
	assert.Len(t, videos, 2)

	videos, err = s.ByAuthor("nobody")
	require.NoError(t, err)
	assert.Empty(t, videos)
}
