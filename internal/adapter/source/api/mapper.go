package api

import "github.com/mmcdole/reel/internal/domain"

// MapVideo converts a wire video to a domain video.
func MapVideo(d VideoDTO) domain.Video {
	return domain.Video{
		ID:           d.ID,
		CoverURL:     d.CoverURL,
		VideoURL:     d.VideoURL,
		Title:        d.Title,
		Description:  d.Description,
		AuthorName:   d.AuthorName,
		AuthorAvatar: d.AuthorAvatar,
		LikeCount:    nonNegative(d.LikeCount),
		CommentCount: nonNegative(d.CommentCount),
		ShareCount:   nonNegative(d.ShareCount),
		Width:        d.Width,
		Height:       d.Height,
		Category:     domain.Category(d.Category),
		Timestamp:    d.Timestamp,
		Liked:        d.IsLiked,
	}
}

// MapVideos converts a page of wire videos.
func MapVideos(ds []VideoDTO) []domain.Video {
	videos := make([]domain.Video, 0, len(ds))
	for _, d := range ds {
		videos = append(videos, MapVideo(d))
	}
	return videos
}

// ToVideoDTO converts a domain video to its wire form.
func ToVideoDTO(v domain.Video) VideoDTO {
	return VideoDTO{
		ID:           v.ID,
		CoverURL:     v.CoverURL,
		VideoURL:     v.VideoURL,
		Title:        v.Title,
		Description:  v.Description,
		AuthorName:   v.AuthorName,
		AuthorAvatar: v.AuthorAvatar,
		LikeCount:    v.LikeCount,
		CommentCount: v.CommentCount,
		ShareCount:   v.ShareCount,
		Width:        v.Width,
		Height:       v.Height,
		Category:     string(v.Category),
		Timestamp:    v.Timestamp,
		IsLiked:      v.Liked,
	}
}

// MapComment converts a wire comment to a domain comment.
func MapComment(d CommentDTO) domain.Comment {
	return domain.Comment{
		ID:        d.ID,
		VideoID:   d.VideoID,
		UserID:    d.UserID,
		UserName:  d.UserName,
		AvatarURL: d.AvatarURL,
		Content:   d.Content,
		Timestamp: d.Timestamp,
		LikeCount: nonNegative(d.LikeCount),
	}
}

// MapComments converts a page of wire comments.
func MapComments(ds []CommentDTO) []domain.Comment {
	comments := make([]domain.Comment, 0, len(ds))
	for _, d := range ds {
		comments = append(comments, MapComment(d))
	}
	return comments
}

// ToCommentDTO converts a domain comment to its wire form.
func ToCommentDTO(c domain.Comment) CommentDTO {
	return CommentDTO{
		ID:        c.ID,
		VideoID:   c.VideoID,
		UserID:    c.UserID,
		UserName:  c.UserName,
		AvatarURL: c.AvatarURL,
		Content:   c.Content,
		Timestamp: c.Timestamp,
		LikeCount: c.LikeCount,
	}
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
