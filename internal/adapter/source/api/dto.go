package api

import "encoding/json"

// SuccessCode is the envelope code for a successful call.
const SuccessCode = 200

// Envelope wraps every API response.
type Envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// VideoListResponse is the data of GET /videos
type VideoListResponse struct {
	Videos   []VideoDTO `json:"videos"`
	HasMore  bool       `json:"hasMore"`
	NextPage int        `json:"nextPage"`
}

// CommentListResponse is the data of GET /comments/{videoId}
type CommentListResponse struct {
	Comments []CommentDTO `json:"comments"`
	HasMore  bool         `json:"hasMore"`
	NextPage int          `json:"nextPage"`
}

// VideoDTO is a video on the wire.
type VideoDTO struct {
	ID           string `json:"id"`
	CoverURL     string `json:"coverUrl"`
	VideoURL     string `json:"videoUrl"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	AuthorName   string `json:"authorName"`
	AuthorAvatar string `json:"authorAvatar"`
	LikeCount    int    `json:"likeCount"`
	CommentCount int    `json:"commentCount"`
	ShareCount   int    `json:"shareCount"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Category     string `json:"category"`
	Timestamp    int64  `json:"timestamp"`
	IsLiked      bool   `json:"isLiked"`
}

// CommentDTO is a comment on the wire. POST /comments takes one as its body.
type CommentDTO struct {
	ID        string `json:"id"`
	VideoID   string `json:"videoId"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	AvatarURL string `json:"avatarUrl"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
	LikeCount int    `json:"likeCount"`
}
