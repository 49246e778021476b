package usecase

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"newsnotifier/internal/domain"
	"time"

	"github.com/google/uuid"
)

const journalTimeout = 10 * time.Second

// NotifyOptions задает параметры фильтра свежести.
type NotifyOptions struct {
	LookbackDays int
	Location     *time.Location
	// Now подменяется в тестах; по умолчанию time.Now.
	Now func() time.Time
}

// NotifyUseCase реализует один запуск уведомителя: загрузка ленты, разбор,
// фильтр по дате и последовательная отправка сообщений. Любая ошибка этих
// этапов отправляется в тот же чат текстом; ошибка этой отправки возвращается
// вызывающей стороне.
type NotifyUseCase struct {
	fetcher FeedFetcher
	parser  FeedParser
	sender  MessageSender
	journal RunJournal
	request domain.FeedRequest
	opts    NotifyOptions
	log     *slog.Logger
}

// NewNotifyUseCase создает сценарий уведомления. journal может быть nil.
func NewNotifyUseCase(
	fetcher FeedFetcher,
	parser FeedParser,
	sender MessageSender,
	journal RunJournal,
	request domain.FeedRequest,
	opts NotifyOptions,
	log *slog.Logger,
) *NotifyUseCase {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &NotifyUseCase{
		fetcher: fetcher,
		parser:  parser,
		sender:  sender,
		journal: journal,
		request: request,
		opts:    opts,
		log:     log.With(slog.String("component", "notifier")),
	}
}

// Notify выполняет один запуск. Возвращает ошибку только если не удалось
// доставить сообщение о сбое.
func (uc *NotifyUseCase) Notify(ctx context.Context) error {
	report := &domain.RunReport{
		RunID:     uuid.NewString(),
		StartedAt: uc.opts.Now(),
	}
	log := uc.log.With(slog.String("run_id", report.RunID))
	log.Info("Run started", slog.String("url", uc.request.URL))
	defer uc.saveReport(ctx, log, report)

	err := uc.deliver(ctx, log, report)
	if err == nil {
		log.Info("Run completed",
			slog.Int("items_found", report.ItemsFetched),
			slog.Int("items_kept", report.ItemsKept),
			slog.Int("sent", len(report.Deliveries)),
			slog.Duration("duration", uc.opts.Now().Sub(report.StartedAt)),
		)
		return nil
	}

	report.Failure = err.Error()
	log.Warn("Run failed, reporting to chat", slog.Any("error", err))
	text := html.EscapeString(err.Error())
	if sendErr := uc.sender.Send(ctx, text); sendErr != nil {
		log.Error("Failure report not delivered", slog.Any("error", sendErr))
		return fmt.Errorf("failed to report run failure: %w", sendErr)
	}
	report.Deliveries = append(report.Deliveries, domain.Delivery{
		Kind:   domain.DeliveryFailure,
		Text:   text,
		SentAt: uc.opts.Now(),
	})
	return nil
}

// deliver выполняет fetch -> parse -> filter -> send. Паника на любом этапе
// превращается в ошибку.
func (uc *NotifyUseCase) deliver(ctx context.Context, log *slog.Logger, report *domain.RunReport) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Run panicked", slog.Any("panic", r))
			err = fmt.Errorf("unexpected failure: %v", r)
		}
	}()

	items, err := uc.fetchNews(ctx)
	if err != nil {
		return err
	}
	report.ItemsFetched = len(items)
	log.Debug("Feed parsed", slog.Int("items_found", len(items)))

	recent, err := FilterRecent(items, uc.opts.Now(), uc.opts.LookbackDays, uc.opts.Location)
	if err != nil {
		return fmt.Errorf("filter failed: %w", err)
	}
	report.ItemsKept = len(recent)

	for _, item := range recent {
		text := domain.FormatNews(item)
		if err := uc.sender.Send(ctx, text); err != nil {
			return fmt.Errorf("send failed for %s: %w", item.PlatformName, err)
		}
		report.Deliveries = append(report.Deliveries, domain.Delivery{
			Kind:         domain.DeliveryNews,
			PlatformName: item.PlatformName,
			CreatedDate:  item.CreatedDate,
			Text:         text,
			SentAt:       uc.opts.Now(),
		})
		log.Info("News sent",
			slog.String("platform", item.PlatformName),
			slog.String("created", item.CreatedDate),
		)
	}
	return nil
}

func (uc *NotifyUseCase) fetchNews(ctx context.Context) ([]domain.NewsItem, error) {
	reader, err := uc.fetcher.Fetch(ctx, uc.request)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	defer reader.Close()
	items, err := uc.parser.Parse(ctx, reader)
	if err != nil {
		return nil, fmt.Errorf("parse failed: %w", err)
	}
	return items, nil
}

// saveReport пишет отчет в журнал. Ошибки журнала только логируются.
func (uc *NotifyUseCase) saveReport(ctx context.Context, log *slog.Logger, report *domain.RunReport) {
	if uc.journal == nil {
		return
	}
	report.FinishedAt = uc.opts.Now()
	jctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), journalTimeout)
	defer cancel()
	saved, err := uc.journal.SaveRun(jctx, report)
	if err != nil {
		log.Error("Run report not saved", slog.Any("error", err))
		return
	}
	log.Debug("Run report saved", slog.Int("deliveries", saved))
}
