package usecase

import (
	"context"
	"io"
	"newsnotifier/internal/domain"
)

// FeedFetcher определяет интерфейс загрузки сырых данных ленты.
// Возвращает io.ReadCloser, который должен быть закрыт после использования.
type FeedFetcher interface {
	Fetch(ctx context.Context, req domain.FeedRequest) (io.ReadCloser, error)
}

// FeedParser определяет интерфейс разбора ответа ленты в список новостей.
type FeedParser interface {
	Parse(ctx context.Context, reader io.Reader) ([]domain.NewsItem, error)
}

// MessageSender отправляет одно сообщение в канал уведомлений.
type MessageSender interface {
	Send(ctx context.Context, text string) error
}

// RunJournal сохраняет отчет о запуске. Возвращает количество записанных доставок.
type RunJournal interface {
	SaveRun(ctx context.Context, report *domain.RunReport) (int, error)
}
