package storage

import (
	"context"
	"newsnotifier/internal/domain"
)

// NopJournal используется, когда журнал доставок выключен.
type NopJournal struct{}

func (NopJournal) SaveRun(context.Context, *domain.RunReport) (int, error) { return 0, nil }

func (NopJournal) Close() {}
