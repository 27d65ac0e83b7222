package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrVideoNotFound indicates the video is not in the local cache
	ErrVideoNotFound = errors.New("video not found")

	// ErrServerOffline indicates the API server could not be reached
	ErrServerOffline = errors.New("api server is unreachable")

	// ErrInvalidCategory indicates an unknown feed category
	ErrInvalidCategory = errors.New("invalid category")

	// ErrEmptyComment indicates a comment with no visible content
	ErrEmptyComment = errors.New("comment is empty")

	// ErrInvalidAvatar indicates an avatar location that cannot be used
	ErrInvalidAvatar = errors.New("invalid avatar location")
)

// RemoteError is a response envelope whose code signalled failure.
type RemoteError struct {
	Code    int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("remote error: code %d", e.Code)
}

// TransportError wraps a request that never produced a response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is lets callers test any transport failure against ErrServerOffline.
func (e *TransportError) Is(target error) bool {
	return target == ErrServerOffline
}
