package storage

import (
	"context"
	"fmt"
	"log/slog"
	"newsnotifier/internal/domain"
)

const (
	insertRunQuery = `
	INSERT INTO notify_runs (run_id, started_at, finished_at, items_fetched, items_kept, failure)
	VALUES ($1, $2, $3, $4, $5, $6);
	`
	insertDeliveryQuery = `
	INSERT INTO notify_deliveries (run_id, kind, platform_name, created_date, text, sent_at)
	VALUES ($1, $2, $3, $4, $5, $6);
	`
)

// PostgresJournal сохраняет отчеты о запусках и отправленные сообщения в PostgreSQL.
type PostgresJournal struct {
	pool DBPool
	log  *slog.Logger
}

func NewPostgresJournal(pool DBPool, log *slog.Logger) *PostgresJournal {
	log.Info("Initializing Postgres delivery journal", slog.String("component", "storage"))
	return &PostgresJournal{
		pool: pool,
		log:  log.With(slog.String("component", "storage")),
	}
}

func (db *PostgresJournal) Close() {
	db.log.Info("Closing database connection pool")
	db.pool.Close()
}

// SaveRun записывает запуск и все его доставки в одной транзакции.
// Возвращает количество записанных доставок.
func (db *PostgresJournal) SaveRun(ctx context.Context, report *domain.RunReport) (saved int, err error) {
	const op = "storage.postgres.SaveRun"
	log := db.log.With(slog.String("op", op), slog.String("run_id", report.RunID))

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		log.Error("Failed to begin transaction", slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(context.Background()); rollbackErr != nil {
				log.Error("Failed to rollback transaction", slog.Any("error", rollbackErr))
			}
		}
	}()

	var failure *string
	if report.Failure != "" {
		failure = &report.Failure
	}
	if _, err = tx.Exec(ctx, insertRunQuery,
		report.RunID,
		report.StartedAt,
		report.FinishedAt,
		report.ItemsFetched,
		report.ItemsKept,
		failure,
	); err != nil {
		log.Error("Failed to insert run", slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to insert run: %w", op, err)
	}

	for _, d := range report.Deliveries {
		if _, err = tx.Exec(ctx, insertDeliveryQuery,
			report.RunID,
			string(d.Kind),
			d.PlatformName,
			d.CreatedDate,
			d.Text,
			d.SentAt,
		); err != nil {
			log.Error("Failed to insert delivery", slog.Any("error", err))
			return 0, fmt.Errorf("%s: failed to insert delivery: %w", op, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		log.Error("Failed to commit transaction", slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}
	log.Info("Run saved", slog.Int("count", len(report.Deliveries)))
	return len(report.Deliveries), nil
}
