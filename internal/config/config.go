package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// ModeNextData - разбор HTML-страницы ленты со встроенным __NEXT_DATA__.
	ModeNextData = "nextdata"
	// ModeAPI - прямой вызов JSON API ленты.
	ModeAPI = "api"

	DefaultNewsfeedURL         = "https://p2pempire.com/en/newsfeed"
	DefaultTelegramAPIEndpoint = "https://api.telegram.org/bot%s/%s"
)

// Переменные окружения, перекрывающие значения из файла.
const (
	EnvConfigPath       = "NEWSNOTIFIER_CONFIG"
	EnvTelegramBotToken = "TELEGRAM_BOT_TOKEN"
	EnvTelegramChatID   = "TELEGRAM_CHAT_ID"
	EnvFeedURL          = "FEED_URL"
	EnvDatabasePassword = "DATABASE_PASSWORD"
)

// Config представляет основную конфигурацию уведомителя.
// Содержит настройки логгера, источника новостей, Telegram-бота,
// HTTP-клиента, фильтра и необязательного журнала доставок.
type Config struct {
	Logger   LoggerConfig   `json:"logger"`
	Feed     FeedConfig     `json:"feed"`
	Telegram TelegramConfig `json:"telegram"`
	HTTP     HTTPConfig     `json:"http"`
	App      AppConfig      `json:"app"`
	Database DatabaseConfig `json:"database"`
}

// LoggerConfig содержит настройки системы логирования.
// Пустые File/ErrorFile означают вывод в stdout/stderr.
type LoggerConfig struct {
	Level     string `json:"level"`
	File      string `json:"file"`
	ErrorFile string `json:"error_file"`
}

// FeedConfig описывает источник новостей и способ его разбора.
type FeedConfig struct {
	Mode     string `json:"mode"`
	URL      string `json:"url"`
	Language string `json:"language"`
}

// TelegramConfig содержит параметры бота-получателя.
type TelegramConfig struct {
	BotToken    string `json:"bot_token"`
	ChatID      string `json:"chat_id"`
	APIEndpoint string `json:"api_endpoint"`
}

type HTTPConfig struct {
	Timeout   string `json:"timeout"`
	UserAgent string `json:"user_agent"`
}

// AppConfig содержит настройки фильтра свежести.
type AppConfig struct {
	LookbackDays int    `json:"lookback_days"`
	Timezone     string `json:"timezone"`
}

// DatabaseConfig содержит параметры подключения к PostgreSQL
// для журнала доставок. Журнал выключен, пока Enabled=false.
type DatabaseConfig struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

// DSN возвращает строку подключения к PostgreSQL в формате URI.
func (c *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// TimeoutDuration возвращает таймаут HTTP-клиента. Значение должно быть
// предварительно проверено в Validate.
func (c *HTTPConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Location возвращает часовой пояс, в котором трактуются даты без зоны.
func (c *AppConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Load загружает конфигурацию из JSON-файла поверх значений по умолчанию,
// затем подхватывает .env и применяет переопределения из окружения.
// Отсутствующий файл конфигурации не является ошибкой.
func Load(configPath string) (*Config, error) {
	cfg := New()
	fileData, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	default:
		if err := json.Unmarshal(fileData, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON from file %s: %w", configPath, err)
		}
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg.applyEnv()
	return cfg, nil
}

// Path возвращает путь к файлу конфигурации с учетом NEWSNOTIFIER_CONFIG.
func Path() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p
	}
	return "config.json"
}

func (c *Config) applyEnv() {
	override := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	override(&c.Telegram.BotToken, EnvTelegramBotToken)
	override(&c.Telegram.ChatID, EnvTelegramChatID)
	override(&c.Feed.URL, EnvFeedURL)
	override(&c.Database.Password, EnvDatabasePassword)
}

// New создает новый экземпляр Config с значениями по умолчанию.
func New() *Config {
	return &Config{
		Logger: LoggerConfig{
			Level: "info",
		},
		Feed: FeedConfig{
			Mode:     ModeNextData,
			URL:      DefaultNewsfeedURL,
			Language: "en",
		},
		Telegram: TelegramConfig{
			APIEndpoint: DefaultTelegramAPIEndpoint,
		},
		HTTP: HTTPConfig{
			Timeout:   "30s",
			UserAgent: "newsnotifier/1.0",
		},
		App: AppConfig{
			LookbackDays: 2,
			Timezone:     "UTC",
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			SSLMode: "disable",
		},
	}
}

// Validate проверяет корректность конфигурации.
// Возвращает ошибку с описанием первой найденной проблемы.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is not set")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is not set")
	}
	if strings.Count(c.Telegram.APIEndpoint, "%s") != 2 {
		return fmt.Errorf("telegram.api_endpoint must contain two %%s placeholders: %s", c.Telegram.APIEndpoint)
	}
	switch c.Feed.Mode {
	case ModeNextData, ModeAPI:
	default:
		return fmt.Errorf("unknown feed.mode %q", c.Feed.Mode)
	}
	if _, err := url.ParseRequestURI(c.Feed.URL); err != nil {
		return fmt.Errorf("invalid feed.url: %s", c.Feed.URL)
	}
	if c.Feed.Mode == ModeAPI && c.Feed.URL == DefaultNewsfeedURL {
		return fmt.Errorf("feed.url must point to the news API when feed.mode is %q", ModeAPI)
	}
	if d, err := time.ParseDuration(c.HTTP.Timeout); err != nil {
		return fmt.Errorf("invalid http.timeout: %w", err)
	} else if d < 0 {
		return fmt.Errorf("http.timeout must not be negative")
	}
	if c.App.LookbackDays <= 0 {
		return fmt.Errorf("app.lookback_days must be a positive number")
	}
	if _, err := c.App.Location(); err != nil {
		return fmt.Errorf("invalid app.timezone: %w", err)
	}
	if c.Database.Enabled {
		if c.Database.Host == "" {
			return fmt.Errorf("database host is not set")
		}
		if c.Database.Username == "" {
			return fmt.Errorf("database username is not set")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("database dbname is not set")
		}
	}
	return nil
}
