package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/reel/internal/domain"
)

// ByAuthor returns cached videos whose author name fuzzily contains query,
// closest authors first. Ties keep feed order.
func (s *Service) ByAuthor(query string) ([]domain.Video, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	videos, err := s.cachedVideos()
	if err != nil {
		return nil, err
	}

	// Rank distinct names once
	var names []string
	seen := make(map[string]bool)
	for _, v := range videos {
		if !seen[v.AuthorName] {
			seen[v.AuthorName] = true
			names = append(names, v.AuthorName)
		}
	}

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	distance := make(map[string]int, len(ranks))
	for _, r := range ranks {
		distance[r.Target] = r.Distance
	}

	var out []domain.Video
	for _, v := range videos {
		if _, ok := distance[v.AuthorName]; ok {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return distance[out[i].AuthorName] < distance[out[j].AuthorName]
	})

	s.logger.Debug("author search", "query", query, "authors", len(ranks), "results", len(out))
	return out, nil
}
