package users

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/insta-stories-viewer/internal/domain"
	"github.com/orgball2608/insta-stories-viewer/internal/repositories"
	"github.com/orgball2608/insta-stories-viewer/pkg/logger"
)

type PgxRepository struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

func NewPgxRepository(pool *pgxpool.Pool, log logger.Logger) *PgxRepository {
	return &PgxRepository{
		pool:   pool,
		logger: log.WithComponent("users_repository"),
	}
}

var _ Repository = (*PgxRepository)(nil)

func listQuery() (string, []any, error) {
	return repositories.SqBuilder.
		Select("u.id", "u.username", "u.avatar_url", "u.position", "s.id", "s.url", "s.duration_ms").
		From("users u").
		LeftJoin("stories s ON s.user_id = u.id").
		Where(sq.Eq{"u.hidden": false}).
		OrderBy("u.position", "u.id", "s.position", "s.id").
		ToSql()
}

func (r *PgxRepository) List(ctx context.Context) ([]domain.User, error) {
	query, args, err := listQuery()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to query users: %w", err), ErrCannotList)
	}
	joined, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (joinedRow, error) {
		var jr joinedRow
		err := row.Scan(
			&jr.user.ID,
			&jr.user.Username,
			&jr.user.AvatarURL,
			&jr.user.Position,
			&jr.story.ID,
			&jr.story.URL,
			&jr.story.DurationMs,
		)
		return jr, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan user rows: %w", err)
	}

	users := groupRows(joined)
	r.logger.Debug("Loaded users from postgres", "users", len(users), "rows", len(joined))
	return users, nil
}

type joinedRow struct {
	user  User
	story Story
}

// groupRows folds the ordered join back into users. Rows of one user are
// adjacent because the query orders by user first.
func groupRows(rows []joinedRow) []domain.User {
	var users []domain.User
	for _, jr := range rows {
		if len(users) == 0 || users[len(users)-1].ID != jr.user.ID {
			users = append(users, domain.User{
				ID:        jr.user.ID,
				Username:  jr.user.Username,
				AvatarURL: jr.user.AvatarURL,
				Stories:   []domain.Story{},
			})
		}
		if jr.story.ID == nil || jr.story.URL == nil {
			continue
		}

		s := domain.Story{ID: *jr.story.ID, URL: *jr.story.URL}
		if jr.story.DurationMs != nil && *jr.story.DurationMs > 0 {
			s.DurationMs = *jr.story.DurationMs
		}
		last := &users[len(users)-1]
		last.Stories = append(last.Stories, s)
	}
	return users
}
