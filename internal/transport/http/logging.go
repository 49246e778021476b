package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// LoggingTransport логирует исходящие HTTP-запросы: метод, хост, путь,
// статус и время выполнения. Секреты из secrets (например, токен бота)
// вырезаются из пути перед записью в лог.
type LoggingTransport struct {
	next    http.RoundTripper
	log     *slog.Logger
	secrets []string
}

// NewLoggingTransport оборачивает next. Если next равен nil, используется
// http.DefaultTransport.
func NewLoggingTransport(next http.RoundTripper, log *slog.Logger, secrets ...string) *LoggingTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	nonEmpty := make([]string, 0, len(secrets))
	for _, s := range secrets {
		if s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	return &LoggingTransport{
		next:    next,
		log:     log.With(slog.String("component", "http")),
		secrets: nonEmpty,
	}
}

func (t *LoggingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	entry := t.log.With(
		slog.String("method", r.Method),
		slog.String("host", r.URL.Host),
		slog.String("path", t.redact(r.URL.Path)),
	)
	entry.Debug("request started")
	start := time.Now()

	resp, err := t.next.RoundTrip(r)
	if err != nil {
		entry.Warn("request failed",
			slog.Duration("duration", time.Since(start)),
			slog.String("error", t.redact(err.Error())),
		)
		return nil, err
	}
	entry.Debug("request completed",
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)
	return resp, nil
}

func (t *LoggingTransport) redact(s string) string {
	for _, secret := range t.secrets {
		s = strings.ReplaceAll(s, secret, "***")
	}
	return s
}
