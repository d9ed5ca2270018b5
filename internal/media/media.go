package media

import (
	"context"
	"errors"
)

var (
	ErrBadStatus = errors.New("unexpected media response status")
	ErrEmptyURL  = errors.New("media url is empty")
)

//go:generate go run go.uber.org/mock/mockgen -source=media.go -destination=mocks/mock.go

// Loader fetches a story's media and reports when it is ready to display.
type Loader interface {
	Load(ctx context.Context, url string) error
}

// Entry is a fetched media body.
type Entry struct {
	ContentType string
	Data        []byte
}

// Cache serves media already fetched by a Loader or Prefetcher.
type Cache interface {
	Cached(url string) (Entry, bool)
}

// Prefetcher warms the media cache. It never blocks and its outcome is discarded.
type Prefetcher interface {
	Prefetch(url string)
}
