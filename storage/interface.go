package storage

import (
	"context"
	"newsnotifier/internal/domain"

	"github.com/jackc/pgx/v5"
)

// Journal определяет интерфейс журнала запусков уведомителя.
// Журнал только пишет: прочитанные из него данные не влияют на отбор новостей.
type Journal interface {
	SaveRun(ctx context.Context, report *domain.RunReport) (int, error)
	Close()
}

// DBPool - подмножество методов pgxpool.Pool, используемое журналом.
// Позволяет подменять пул в тестах.
type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}
