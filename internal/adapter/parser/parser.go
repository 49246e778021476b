package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"newsnotifier/internal/config"
	"newsnotifier/internal/domain"
)

// FeedParser преобразует тело ответа ленты в список новостей.
type FeedParser interface {
	Parse(ctx context.Context, reader io.Reader) ([]domain.NewsItem, error)
}

// New возвращает парсер для указанного режима ленты.
func New(mode string, log *slog.Logger) (FeedParser, error) {
	switch mode {
	case config.ModeNextData:
		return NewNextDataParser(log), nil
	case config.ModeAPI:
		return NewJSONParser(log), nil
	default:
		return nil, fmt.Errorf("unknown feed mode %q", mode)
	}
}

// decodeItems разбирает JSON-массив новостей. Любое другое значение,
// включая null, считается ошибкой разбора.
func decodeItems(raw []byte) ([]domain.NewsItem, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected JSON array of news", domain.ErrParse)
	}
	items := make([]domain.NewsItem, 0)
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("%w: failed to decode news: %w", domain.ErrParse, err)
	}
	return items, nil
}
