package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"newsnotifier/internal/domain"
)

// JSONParser разбирает ответ API ленты, который сразу является массивом новостей.
type JSONParser struct {
	log *slog.Logger
}

func NewJSONParser(log *slog.Logger) *JSONParser {
	return &JSONParser{
		log: log.With(slog.String("component", "parser")),
	}
}

func (p *JSONParser) Parse(ctx context.Context, reader io.Reader) ([]domain.NewsItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		p.log.Error("Error reading response body", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to read response body: %w", domain.ErrTransport, err)
	}
	items, err := decodeItems(data)
	if err != nil {
		p.log.Error("Error decoding JSON", slog.Any("error", err))
		return nil, err
	}
	return items, nil
}
