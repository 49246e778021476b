package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"newsnotifier/internal/adapter/fetcher"
	"newsnotifier/internal/adapter/parser"
	"newsnotifier/internal/adapter/telegram"
	"newsnotifier/internal/config"
	"newsnotifier/internal/logger"
	"newsnotifier/internal/migrations"
	transport "newsnotifier/internal/transport/http"
	"newsnotifier/internal/usecase"
	"newsnotifier/storage"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const dbConnectTimeout = 10 * time.Second

// App представляет уведомитель: собранный по конфигурации сценарий
// одного запуска и ресурсы, которые нужно освободить после него.
type App struct {
	config   *config.Config
	logger   *slog.Logger
	notifier *usecase.NotifyUseCase
	journal  storage.Journal
	closeLog func() error
}

// New создает и инициализирует приложение.
// Выполняет настройку логгера, HTTP-клиента, загрузчика, парсера и
// отправителя. Если журнал включен, подключается к базе данных и
// применяет миграции. Сетевых запросов к ленте и Telegram не делает.
func New(cfg *config.Config) (*App, error) {
	appLogger, closeLog, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}
	slog.SetDefault(appLogger)

	a := &App{
		config:   cfg,
		logger:   appLogger,
		closeLog: closeLog,
	}
	if err := a.build(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) build() error {
	cfg := a.config
	client := &http.Client{
		Timeout:   cfg.HTTP.TimeoutDuration(),
		Transport: transport.NewLoggingTransport(nil, a.logger, cfg.Telegram.BotToken),
	}

	request, err := fetcher.NewFeedRequest(cfg.Feed)
	if err != nil {
		return fmt.Errorf("bad feed config: %w", err)
	}
	httpFetcher := fetcher.NewHTTPFetcher(client, cfg.HTTP.UserAgent, a.logger)

	feedParser, err := parser.New(cfg.Feed.Mode, a.logger)
	if err != nil {
		return fmt.Errorf("bad feed config: %w", err)
	}

	sender, err := telegram.NewSender(cfg.Telegram, client, a.logger)
	if err != nil {
		return fmt.Errorf("failed to setup telegram sender: %w", err)
	}

	loc, err := cfg.App.Location()
	if err != nil {
		return fmt.Errorf("bad init app: %w", err)
	}

	a.journal, err = a.openJournal()
	if err != nil {
		return err
	}

	a.notifier = usecase.NewNotifyUseCase(httpFetcher, feedParser, sender, a.journal, request, usecase.NotifyOptions{
		LookbackDays: cfg.App.LookbackDays,
		Location:     loc,
	}, a.logger)
	return nil
}

// openJournal подключает журнал доставок к PostgreSQL, если он включен.
func (a *App) openJournal() (storage.Journal, error) {
	if !a.config.Database.Enabled {
		a.logger.Debug("Delivery journal disabled", slog.String("component", "app"))
		return storage.NopJournal{}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), dbConnectTimeout)
	defer cancel()

	dbPool, err := pgxpool.New(ctx, a.config.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := dbPool.Ping(ctx); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	a.logger.Info("Database connection established", slog.String("component", "database"))
	if err := migrations.Apply(ctx, a.logger, dbPool); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("migrations failed: %w", err)
	}
	return storage.NewPostgresJournal(dbPool, a.logger), nil
}

// Run выполняет один запуск уведомителя. Ошибка возвращается только
// когда не удалось доставить сообщение о сбое.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("Starting news notifier",
		slog.String("component", "app"),
		slog.String("mode", a.config.Feed.Mode),
		slog.Int("lookback_days", a.config.App.LookbackDays),
	)
	return a.notifier.Notify(ctx)
}

// Close освобождает пул соединений и файлы логов.
func (a *App) Close() {
	if a.journal != nil {
		a.journal.Close()
	}
	if a.closeLog != nil {
		if err := a.closeLog(); err != nil {
			fmt.Printf("failed to close log files: %v\n", err)
		}
	}
}
