package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"newsnotifier/internal/domain"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const nextDataSelector = "script#__NEXT_DATA__"

// newsPath - путь к списку новостей внутри JSON __NEXT_DATA__.
var newsPath = []string{"props", "pageProps", "news"}

// NextDataParser извлекает новости из HTML-страницы Next.js:
// находит script#__NEXT_DATA__ и спускается по props.pageProps.news.
type NextDataParser struct {
	log *slog.Logger
}

func NewNextDataParser(log *slog.Logger) *NextDataParser {
	return &NextDataParser{
		log: log.With(slog.String("component", "parser")),
	}
}

func (p *NextDataParser) Parse(ctx context.Context, reader io.Reader) ([]domain.NewsItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := p.log.With(slog.String("op", "parser.NextData"))
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		log.Error("Error parsing HTML", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to parse HTML: %w", domain.ErrParse, err)
	}
	script := doc.Find(nextDataSelector).First()
	if script.Length() == 0 {
		log.Error("Next.js data script not found")
		return nil, fmt.Errorf("%w: %s not found in page", domain.ErrParse, nextDataSelector)
	}

	raw := json.RawMessage(script.Text())
	for i, key := range newsPath {
		var node map[string]json.RawMessage
		if err := json.Unmarshal(raw, &node); err != nil {
			log.Error("Error decoding page data", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to decode %s: %w", domain.ErrParse, pathString(i), err)
		}
		next, ok := node[key]
		if !ok {
			return nil, fmt.Errorf("%w: key %s is missing in page data", domain.ErrParse, pathString(i+1))
		}
		raw = next
	}

	items, err := decodeItems(raw)
	if err != nil {
		log.Error("Error decoding news list", slog.Any("error", err))
		return nil, err
	}
	log.Debug("Page data parsed", slog.Int("items_found", len(items)))
	return items, nil
}

// pathString возвращает первые n сегментов newsPath через точку;
// для n=0 - корень документа.
func pathString(n int) string {
	if n == 0 {
		return nextDataSelector
	}
	return strings.Join(newsPath[:n], ".")
}
