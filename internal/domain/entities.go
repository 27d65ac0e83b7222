package domain

import (
	"fmt"
	"strings"
)

// Category identifies a feed partition.
type Category string

const (
	CategoryRecommend Category = "recommend"
	CategoryFollowing Category = "following"
	CategoryNearby    Category = "nearby"
)

// Categories returns the feed partitions in display order.
func Categories() []Category {
	return []Category{CategoryRecommend, CategoryFollowing, CategoryNearby}
}

// ParseCategory maps a raw string to a known Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories() {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// DisplayName returns the tab label for a category.
func (c Category) DisplayName() string {
	switch c {
	case CategoryRecommend:
		return "For You"
	case CategoryFollowing:
		return "Following"
	case CategoryNearby:
		return "Nearby"
	default:
		return string(c)
	}
}

// Video is a short video as cached locally.
type Video struct {
	ID           string // Globally unique across categories
	CoverURL     string
	VideoURL     string
	Title        string
	Description  string
	AuthorName   string
	AuthorAvatar string
	LikeCount    int
	CommentCount int
	ShareCount   int
	Width        int
	Height       int
	Category     Category
	Timestamp    int64 // Unix millis, cache ingestion time
	Liked        bool
}

// AspectRatio returns height over width, or 0 when the size is unknown.
func (v Video) AspectRatio() float64 {
	if v.Width <= 0 || v.Height <= 0 {
		return 0
	}
	return float64(v.Height) / float64(v.Width)
}

// WithLike returns a copy with the liked flag set and the counter adjusted.
// Unliking never takes the counter below zero.
func (v Video) WithLike(liked bool) Video {
	v.Liked = liked
	if liked {
		v.LikeCount++
	} else if v.LikeCount > 0 {
		v.LikeCount--
	}
	return v
}

// Comment belongs to a single video; threads are ordered newest first.
type Comment struct {
	ID        string
	VideoID   string // Not enforced at storage level
	UserID    string
	UserName  string
	AvatarURL string
	Content   string
	Timestamp int64 // Unix millis
	LikeCount int
}

// Author is the identity used when writing a comment.
type Author struct {
	UserID    string
	UserName  string
	AvatarURL string
}

// FormatCount renders engagement counters the way feeds usually do (1.2k, 3.4M).
func FormatCount(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 10_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}
