package storage

import (
	"context"
	"errors"
	"io"
)

var ErrInvalidKey = errors.New("storage: invalid object key")

// Provider stores partner images in a blob store and returns their public URLs.
type Provider interface {
	Upload(ctx context.Context, request *UploadRequest) (*UploadResponse, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	URL(key string) string
}

type UploadRequest struct {
	Key          string            `json:"key"`
	Reader       io.Reader         `json:"-"`
	ContentType  string            `json:"content_type"`
	Size         int64             `json:"size"`
	Metadata     map[string]string `json:"metadata"`
	CacheControl string            `json:"cache_control"`
}

type UploadResponse struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
	ETag string `json:"etag,omitempty"`
}
