// Package search finds cached videos offline.
package search

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/sahilm/fuzzy"
)

// Result is a title match with metadata for highlighting.
type Result struct {
	Video          domain.Video
	MatchedIndexes []int // rune positions in Video.Title
	Score          int   // higher is better
}

// Index implements fuzzy.Source over video titles.
type Index struct {
	videos      []domain.Video
	lowerTitles []string
}

// NewIndex builds an index over videos.
func NewIndex(videos []domain.Video) *Index {
	idx := &Index{
		videos:      videos,
		lowerTitles: make([]string, len(videos)),
	}
	for i, v := range videos {
		idx.lowerTitles[i] = strings.ToLower(v.Title)
	}
	return idx
}

// String returns the lowercase title at index i (implements fuzzy.Source)
func (idx *Index) String(i int) string { return idx.lowerTitles[i] }

// Len returns the number of videos (implements fuzzy.Source)
func (idx *Index) Len() int { return len(idx.videos) }

// Service searches every cached category.
type Service struct {
	store  domain.VideoStore
	logger *slog.Logger
}

// NewService creates a new search service
func NewService(store domain.VideoStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		logger: logger,
	}
}

// Search ranks cached videos by fuzzy title match. limit <= 0 returns all
// matches.
func (s *Service) Search(query string, limit int) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	videos, err := s.cachedVideos()
	if err != nil {
		return nil, err
	}

	matches := fuzzy.FindFrom(strings.ToLower(query), NewIndex(videos))
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Video:          videos[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	s.logger.Debug("title search", "query", query, "candidates", len(videos), "results", len(results))
	return results, nil
}

// cachedVideos gathers every category in feed order.
func (s *Service) cachedVideos() ([]domain.Video, error) {
	var all []domain.Video
	for _, c := range domain.Categories() {
		vs, err := s.store.VideosByCategory(c, 0, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s cache: %w", c, err)
		}
		all = append(all, vs...)
	}
	return all, nil
}
