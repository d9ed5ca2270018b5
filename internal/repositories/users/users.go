package users

import (
	"context"
	"errors"

	"github.com/orgball2608/insta-stories-viewer/internal/domain"
)

// Users and their stories as stored in postgres. Story columns are nullable
// because the list query left-joins users without stories.
type User struct {
	ID        string
	Username  string
	AvatarURL string
	Position  int
}

type Story struct {
	ID         *string
	URL        *string
	DurationMs *int64
}

var ErrCannotList = errors.New("error list users")

//go:generate go run go.uber.org/mock/mockgen -source=users.go -destination=mocks/mock.go

type Repository interface {
	// List returns visible users ordered by position, each with stories in
	// position order.
	List(ctx context.Context) ([]domain.User, error)
}
