package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateStories, downCreateStories)
}

// duration_ms is nullable: a missing duration falls back to the viewer default.
func upCreateStories(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	CREATE TABLE stories (
		id          VARCHAR PRIMARY KEY,
		user_id     VARCHAR NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		url         VARCHAR NOT NULL,
		duration_ms BIGINT,
		position    INTEGER NOT NULL DEFAULT 0,
		created_at  TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	);
	CREATE INDEX stories_user_position_idx ON stories (user_id, position);
	`)
	if err != nil {
		return err
	}
	return nil
}

func downCreateStories(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	DROP TABLE stories;
	`)
	if err != nil {
		return err
	}
	return nil
}
