package domain

import "context"

// VideoRepository is the remote side of video access.
type VideoRepository interface {
	// ListVideos returns one page of a category feed
	ListVideos(ctx context.Context, category Category, page, size int) (Listing[Video], error)

	// LikeVideo records a like for the current user
	LikeVideo(ctx context.Context, videoID string) error

	// UnlikeVideo removes the current user's like
	UnlikeVideo(ctx context.Context, videoID string) error
}

// CommentRepository is the remote side of comment access.
type CommentRepository interface {
	// ListComments returns one page of a video's comments, newest first
	ListComments(ctx context.Context, videoID string, page, size int) (Listing[Comment], error)

	// PostComment submits a comment and returns the server's canonical copy
	PostComment(ctx context.Context, comment Comment) (*Comment, error)
}
