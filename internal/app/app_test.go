package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"newsnotifier/internal/config"
	"newsnotifier/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const botOK = `{"ok":true,"result":{"message_id":1,"date":1714725000,"chat":{"id":42,"type":"private"},"text":"ok"}}`

type botServer struct {
	*httptest.Server
	mu    sync.Mutex
	texts []string
}

func newBotServer(t *testing.T) *botServer {
	t.Helper()
	b := &botServer{}
	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "42", r.PostForm.Get("chat_id"))
		assert.Equal(t, "HTML", r.PostForm.Get("parse_mode"))
		b.mu.Lock()
		b.texts = append(b.texts, r.PostForm.Get("text"))
		b.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, botOK)
	}))
	t.Cleanup(b.Close)
	return b
}

func (b *botServer) sent() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.texts...)
}

func recentFeed(now time.Time) []domain.NewsItem {
	const layout = "2006-01-02T15:04:05"
	return []domain.NewsItem{
		{PlatformName: "Mintos", NewsText: "Today news", CreatedDate: now.Add(-time.Hour).Format(layout)},
		{PlatformName: "Twino", NewsText: "Old news", CreatedDate: now.AddDate(0, 0, -3).Format(layout)},
		{PlatformName: "PeerBerry", NewsText: "Yesterday news", CreatedDate: now.AddDate(0, 0, -1).Format(layout)},
	}
}

func newFeedServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, feedURL, botURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.New()
	cfg.Logger.File = filepath.Join(dir, "app.log")
	cfg.Logger.ErrorFile = filepath.Join(dir, "error.log")
	cfg.Feed.URL = feedURL
	cfg.Telegram.BotToken = "123:secret"
	cfg.Telegram.ChatID = "42"
	cfg.Telegram.APIEndpoint = botURL + "/bot%s/%s"
	cfg.HTTP.Timeout = "5s"
	require.NoError(t, cfg.Validate())
	return cfg
}

func runApp(t *testing.T, cfg *config.Config) error {
	t.Helper()
	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close()
	return a.Run(context.Background())
}

func TestApp_Run_NextDataEndToEnd(t *testing.T) {
	payload, err := json.Marshal(map[string]any{
		"props": map[string]any{"pageProps": map[string]any{"news": recentFeed(time.Now().UTC())}},
	})
	require.NoError(t, err)
	feed := newFeedServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		fmt.Fprintf(w, `<html><body><script id="__NEXT_DATA__" type="application/json">%s</script></body></html>`, payload)
	})
	bot := newBotServer(t)

	err = runApp(t, testConfig(t, feed.URL+"/en/newsfeed", bot.URL))

	require.NoError(t, err)
	assert.Equal(t, []string{
		"🗞️ <b>Mintos</b> 🗞️\n\nToday news",
		"🗞️ <b>PeerBerry</b> 🗞️\n\nYesterday news",
	}, bot.sent())
}

func TestApp_Run_APIModeEndToEnd(t *testing.T) {
	feed := newFeedServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"Id":"-1","SelectedLanguage":"en"}`, string(body))
		w.Header().Set("Content-Type", "application/json")
		assert.NoError(t, json.NewEncoder(w).Encode(recentFeed(time.Now().UTC())))
	})
	bot := newBotServer(t)
	cfg := testConfig(t, feed.URL+"/api/news", bot.URL)
	cfg.Feed.Mode = config.ModeAPI

	err := runApp(t, cfg)

	require.NoError(t, err)
	assert.Len(t, bot.sent(), 2)
}

func TestApp_Run_FeedFailureIsReportedToChat(t *testing.T) {
	feed := newFeedServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	bot := newBotServer(t)

	err := runApp(t, testConfig(t, feed.URL, bot.URL))

	require.NoError(t, err)
	sent := bot.sent()
	require.Len(t, sent, 1)
	assert.True(t, strings.HasPrefix(sent[0], "fetch failed: upstream response failure: unexpected status code: 500"), sent[0])
}

func TestApp_Run_FailureReportNotDelivered(t *testing.T) {
	feed := newFeedServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html><body>maintenance</body></html>")
	})
	bot := httptest.NewServer(http.NotFoundHandler())
	botURL := bot.URL
	bot.Close()

	err := runApp(t, testConfig(t, feed.URL, botURL))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestNew_DatabaseUnavailable(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1/feed", "http://127.0.0.1")
	cfg.Database = config.DatabaseConfig{
		Enabled:  true,
		Host:     "127.0.0.1",
		Port:     1,
		Username: "notifier",
		DBName:   "news",
		SSLMode:  "disable",
	}

	a, err := New(cfg)

	require.Error(t, err)
	assert.Nil(t, a)
	assert.Contains(t, err.Error(), "database")
}

func TestNew_LoggerFileUnavailable(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1/feed", "http://127.0.0.1")
	cfg.Logger.File = filepath.Join(t.TempDir(), "missing", "app.log")

	_, err := New(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to setup logger")
}
