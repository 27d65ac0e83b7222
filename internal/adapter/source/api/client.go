package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/reel/internal/domain"
)

const defaultTimeout = 15 * time.Second

// Client implements domain.VideoRepository and domain.CommentRepository
// against the REST API. Every call is attempted exactly once.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new API client. A zero timeout uses the default.
func NewClient(baseURL, token string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// doRequest performs a request and unwraps the response envelope.
// Returns the envelope data on code 200, a *domain.RemoteError on any other
// code, and a *domain.TransportError when no response arrived.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	reqURL := c.baseURL + path
	if query != nil {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("api request", "method", method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("api request failed", "error", err, "op", op)
		return nil, &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.TransportError{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode != http.StatusOK {
			// Not an envelope at all (proxy error page, etc.)
			return nil, &domain.RemoteError{Code: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if env.Code != SuccessCode {
		c.logger.Warn("api error", "op", op, "code", env.Code, "message", env.Message, "status", resp.StatusCode)
		return nil, &domain.RemoteError{Code: env.Code, Message: env.Message}
	}
	return env.Data, nil
}

// ListVideos fetches one page of a category feed.
func (c *Client) ListVideos(ctx context.Context, category domain.Category, page, size int) (domain.Listing[domain.Video], error) {
	query := url.Values{}
	query.Set("category", string(category))
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))

	data, err := c.doRequest(ctx, http.MethodGet, "/videos", query, nil)
	if err != nil {
		return domain.Listing[domain.Video]{}, err
	}

	var resp VideoListResponse
	if err := decodeData(data, &resp); err != nil {
		return domain.Listing[domain.Video]{}, err
	}

	return domain.Listing[domain.Video]{
		Items:    MapVideos(resp.Videos),
		HasMore:  resp.HasMore,
		NextPage: resp.NextPage,
	}, nil
}

// ListComments fetches one page of a video's comments.
func (c *Client) ListComments(ctx context.Context, videoID string, page, size int) (domain.Listing[domain.Comment], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))

	path := "/comments/" + url.PathEscape(videoID)
	data, err := c.doRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return domain.Listing[domain.Comment]{}, err
	}

	var resp CommentListResponse
	if err := decodeData(data, &resp); err != nil {
		return domain.Listing[domain.Comment]{}, err
	}

	return domain.Listing[domain.Comment]{
		Items:    MapComments(resp.Comments),
		HasMore:  resp.HasMore,
		NextPage: resp.NextPage,
	}, nil
}

// PostComment submits a comment and returns the server's copy.
func (c *Client) PostComment(ctx context.Context, comment domain.Comment) (*domain.Comment, error) {
	data, err := c.doRequest(ctx, http.MethodPost, "/comments", nil, ToCommentDTO(comment))
	if err != nil {
		return nil, err
	}

	var dto CommentDTO
	if err := decodeData(data, &dto); err != nil {
		return nil, err
	}
	created := MapComment(dto)
	return &created, nil
}

// LikeVideo likes a video.
func (c *Client) LikeVideo(ctx context.Context, videoID string) error {
	_, err := c.doRequest(ctx, http.MethodPost, likePath(videoID), nil, nil)
	return err
}

// UnlikeVideo removes a like.
func (c *Client) UnlikeVideo(ctx context.Context, videoID string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, likePath(videoID), nil, nil)
	return err
}

func likePath(videoID string) string {
	return "/videos/" + url.PathEscape(videoID) + "/like"
}

// decodeData parses envelope data; a missing payload is an error.
func decodeData(data json.RawMessage, dest any) error {
	if len(data) == 0 || string(data) == "null" {
		return fmt.Errorf("response has no data")
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to parse response data: %w", err)
	}
	return nil
}
