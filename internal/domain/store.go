package domain

import "time"

// VideoStore is the local video cache.
// Scoped reads are ordered by Timestamp descending.
type VideoStore interface {
	GetVideo(id string) (Video, bool)
	VideosByCategory(category Category, limit, offset int) ([]Video, error)

	SaveVideo(v Video) error     // Insert or replace by ID
	SaveVideos(vs []Video) error // Insert or replace by ID
	UpdateVideo(v Video) error   // No-op when the ID is not cached
	DeleteVideosByCategory(category Category) error
	PruneVideos(before time.Time) (int, error)
}

// CommentStore is the local comment cache.
type CommentStore interface {
	CommentsByVideo(videoID string, limit, offset int) ([]Comment, error)

	SaveComment(c Comment) error
	SaveComments(cs []Comment) error
	DeleteComment(id string) error
	DeleteCommentsByVideo(videoID string) error
}

// ProfileStore persists the local user's profile settings.
type ProfileStore interface {
	GetAvatar() (string, bool)
	SaveAvatar(uri string) error
	ClearAvatar() error
}

// Store is the full local cache (BoltDB + memory).
type Store interface {
	VideoStore
	CommentStore
	ProfileStore

	InvalidateAll() error
	Close() error
}
