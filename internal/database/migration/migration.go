package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_counters",
		SQL: `CREATE TABLE IF NOT EXISTS counters (
  category TEXT    PRIMARY KEY,
  sequence BIGINT  NOT NULL CHECK (sequence BETWEEN 0 AND 4294967295)
);`,
	},
	{
		Name: "create_table_categories",
		SQL: `CREATE TABLE IF NOT EXISTS categories (
  id   BIGINT  PRIMARY KEY,
  name TEXT    NOT NULL
);`,
	},
	{
		Name: "create_table_forums",
		SQL: `CREATE TABLE IF NOT EXISTS forums (
  id               BIGINT  PRIMARY KEY,
  category_id      BIGINT  NOT NULL REFERENCES categories (id),
  name             TEXT    NOT NULL,
  latest_thread_id BIGINT  NOT NULL DEFAULT 0
);`,
	},
	{
		Name: "create_table_threads",
		SQL: `CREATE TABLE IF NOT EXISTS threads (
  id             BIGINT  PRIMARY KEY,
  forum_id       BIGINT  NOT NULL REFERENCES forums (id),
  origin_post_id BIGINT  NOT NULL,
  subject        TEXT    NOT NULL
);`,
	},
	{
		Name: "create_table_posts",
		SQL: `CREATE TABLE IF NOT EXISTS posts (
  id         BIGINT      PRIMARY KEY,
  thread_id  BIGINT      NOT NULL REFERENCES threads (id),
  content    TEXT        NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_attachments",
		SQL: `CREATE TABLE IF NOT EXISTS attachments (
  id           UUID        PRIMARY KEY,
  post_id      BIGINT      NOT NULL REFERENCES posts (id),
  filename     TEXT        NOT NULL,
  storage_path TEXT        NOT NULL UNIQUE,
  size         BIGINT      NOT NULL CHECK (size >= 0),
  content_type TEXT        NOT NULL,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_forums_category_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_forums_category_id ON forums (category_id);`,
	},
	{
		Name: "create_index_threads_forum_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_threads_forum_id ON threads (forum_id, id DESC);`,
	},
	{
		Name: "create_index_posts_thread_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_posts_thread_id ON posts (thread_id, id);`,
	},
	{
		Name: "create_index_attachments_post_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_attachments_post_id ON attachments (post_id, created_at);`,
	},
}

// EnsureMigrated checks if the 'posts' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger *slog.Logger, dbHost string) error {
	start := time.Now()
	log := logger.With("component", "database", "db_host", dbHost)

	log.Info("db_migration_check", "status", "starting")

	var exists bool
	query := "SELECT to_regclass('public.posts') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			"status", "error",
			"error_message", fmt.Sprintf("failed to check sentinel table: %v", err),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			"status", "success",
			"detail", "schema already exists, skipping migration",
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}

	log.Info("db_migration_start", "status", "in_progress")

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				"status", "error",
				"migration_step", step.Name,
				"error_message", err.Error(),
				"duration_ms", time.Since(start).Milliseconds(),
				"step_duration_ms", time.Since(stepStart).Milliseconds(),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			"status", "success",
			"migration_step", step.Name,
			"step_duration_ms", time.Since(stepStart).Milliseconds(),
		)
	}

	log.Info("db_migration_success",
		"status", "success",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
