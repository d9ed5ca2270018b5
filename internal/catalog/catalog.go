package catalog

import (
	"context"
	"errors"

	"github.com/orgball2608/insta-stories-viewer/internal/domain"
)

var (
	ErrNotLoaded = errors.New("catalog not loaded yet")
	ErrBadStatus = errors.New("unexpected catalog response status")
)

//go:generate go run go.uber.org/mock/mockgen -source=catalog.go -destination=mocks/mock.go

// Source acquires the user/story collection from somewhere outside the viewer.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]domain.User, error)
}

// Catalog keeps the latest playable collection.
type Catalog interface {
	// Users returns the last successfully loaded collection. It fails only
	// when no load has succeeded yet.
	Users() ([]domain.User, error)
	// Err reports the most recent load failure, nil after a success.
	Err() error
	Refresh(ctx context.Context) error
	Schedule(ctx context.Context) error
}
