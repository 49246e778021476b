package migrations

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Migration struct {
	ID    string
	UpSQL string
}

// DB - методы пула, необходимые для применения миграций.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var allMigrations = []Migration{
	{
		ID: "20240503120000_create_notify_runs_table",
		UpSQL: `
		CREATE TABLE notify_runs(
		run_id UUID PRIMARY KEY,
		started_at TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ NOT NULL,
		items_fetched INTEGER NOT NULL DEFAULT 0,
		items_kept INTEGER NOT NULL DEFAULT 0,
		failure TEXT
		);`,
	},
	{
		ID: "20240503120100_create_notify_deliveries_table",
		UpSQL: `
		CREATE TABLE notify_deliveries(
		id BIGSERIAL PRIMARY KEY,
		run_id UUID NOT NULL REFERENCES notify_runs(run_id) ON DELETE CASCADE,
		kind TEXT NOT NULL,
		platform_name TEXT NOT NULL DEFAULT '',
		created_date TEXT NOT NULL DEFAULT '',
		text TEXT NOT NULL,
		sent_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX notify_deliveries_run_id_idx ON notify_deliveries(run_id);`,
	},
}

// Apply применяет все необходимые миграции журнала доставок.
func Apply(ctx context.Context, log *slog.Logger, db DB) error {
	return apply(ctx, log, db, allMigrations)
}

func apply(ctx context.Context, log *slog.Logger, db DB, migrations []Migration) (err error) {
	log = log.With(slog.String("component", "migrations"))
	log.Info("Starting database migrations check...")
	_, err = db.Exec(ctx, `
	CREATE TABLE IF NOT EXISTS schema_migrations (
	id TEXT PRIMARY KEY
	);
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}
	rows, err := db.Query(ctx, "SELECT id FROM schema_migrations")
	if err != nil {
		return fmt.Errorf("failed to query applied migrations: %w", err)
	}
	applied, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return fmt.Errorf("failed to scan migration id: %w", err)
	}
	appliedMigrations := make(map[string]bool, len(applied))
	for _, id := range applied {
		appliedMigrations[id] = true
	}

	pending := make([]Migration, 0, len(migrations))
	for _, m := range migrations {
		if !appliedMigrations[m.ID] {
			pending = append(pending, m)
		}
	}
	if len(pending) == 0 {
		log.Info("Database is up to date, no new migrations found.")
		return nil
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].ID < pending[j].ID
	})

	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(context.Background())
		}
	}()
	for _, m := range pending {
		log.Info("Applying migration", slog.String("id", m.ID))
		if _, err = tx.Exec(ctx, m.UpSQL); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", m.ID, err)
		}
		if _, err = tx.Exec(ctx, "INSERT INTO schema_migrations (id) VALUES ($1)", m.ID); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", m.ID, err)
		}
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit migrations transaction: %w", err)
	}
	log.Info("Database migrations applied successfully", slog.Int("count", len(pending)))
	return nil
}
