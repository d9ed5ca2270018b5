package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateUsers, downCreateUsers)
}

func upCreateUsers(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	CREATE TABLE users (
		id         VARCHAR PRIMARY KEY,
		username   VARCHAR NOT NULL,
		avatar_url VARCHAR NOT NULL DEFAULT '',
		position   INTEGER NOT NULL DEFAULT 0,
		hidden     BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	);
	CREATE INDEX users_position_idx ON users (position);
	`)
	if err != nil {
		return err
	}
	return nil
}

func downCreateUsers(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	DROP TABLE users;
	`)
	if err != nil {
		return err
	}
	return nil
}
