package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"newsnotifier/internal/domain"
)

// HTTPFetcher загружает ленту новостей по HTTP.
// Сетевые ошибки оборачиваются в domain.ErrTransport,
// ответы со статусом вне 2xx - в domain.ErrUpstreamResponse.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	log       *slog.Logger
}

// NewHTTPFetcher создает загрузчик поверх переданного HTTP-клиента.
// Таймауты задаются на уровне клиента.
func NewHTTPFetcher(client *http.Client, userAgent string, log *slog.Logger) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{
		client:    client,
		userAgent: userAgent,
		log:       log.With(slog.String("component", "fetcher")),
	}
}

// Fetch выполняет запрос и возвращает тело ответа, которое должно быть закрыто
// вызывающей стороной.
func (f *HTTPFetcher) Fetch(ctx context.Context, fr domain.FeedRequest) (io.ReadCloser, error) {
	log := f.log.With(slog.String("url", fr.URL), slog.String("method", fr.Method))
	log.Info("Fetching feed")

	var body io.Reader
	if fr.Body != nil {
		body = bytes.NewReader(fr.Body)
	}
	req, err := http.NewRequestWithContext(ctx, fr.Method, fr.URL, body)
	if err != nil {
		log.Error("Failed to create HTTP request", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to create request for url %s: %w", domain.ErrTransport, fr.URL, err)
	}
	if fr.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "text/html,application/json;q=0.9,*/*;q=0.8")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		log.Error("HTTP request failed", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to fetch url %s: %w", domain.ErrTransport, fr.URL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		log.Error("Unexpected status code", slog.Int("status_code", resp.StatusCode))
		return nil, fmt.Errorf("%w: unexpected status code: %d for url %s", domain.ErrUpstreamResponse, resp.StatusCode, fr.URL)
	}
	log.Info("Feed fetched", slog.Int("status_code", resp.StatusCode))
	return resp.Body, nil
}
