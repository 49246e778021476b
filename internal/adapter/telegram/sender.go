package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"newsnotifier/internal/config"
	"newsnotifier/internal/domain"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender отправляет сообщения в чат через Telegram Bot API (sendMessage, parse_mode=HTML).
type Sender struct {
	api    *tgbotapi.BotAPI
	chatID int64
	// channel задан, если chat_id указан как имя канала (@name).
	channel string
	token   string
	log     *slog.Logger
}

// redactedError скрывает токен бота: net/http включает полный URL запроса
// в текст ошибки, а этот текст уходит в лог и в чат.
type redactedError struct {
	err    error
	secret string
}

func (e *redactedError) Error() string {
	return strings.ReplaceAll(e.err.Error(), e.secret, "***")
}

func (e *redactedError) Unwrap() error { return e.err }

// NewSender создает отправителя без обращения к getMe, поэтому
// конструктор не выполняет сетевых запросов.
func NewSender(cfg config.TelegramConfig, client *http.Client, log *slog.Logger) (*Sender, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("telegram bot token is empty")
	}
	if client == nil {
		client = http.DefaultClient
	}
	endpoint := cfg.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	api := &tgbotapi.BotAPI{
		Token:  cfg.BotToken,
		Client: client,
		Buffer: 100,
	}
	api.SetAPIEndpoint(endpoint)

	s := &Sender{
		api:   api,
		token: cfg.BotToken,
		log:   log.With(slog.String("component", "telegram")),
	}
	chat := strings.TrimSpace(cfg.ChatID)
	if id, err := strconv.ParseInt(chat, 10, 64); err == nil {
		s.chatID = id
	} else if chat != "" {
		s.channel = chat
	} else {
		return nil, fmt.Errorf("telegram chat id is empty")
	}
	return s, nil
}

// Send отправляет одно сообщение и дожидается ответа API.
func (s *Sender) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var msg tgbotapi.MessageConfig
	if s.channel != "" {
		msg = tgbotapi.NewMessageToChannel(s.channel, text)
	} else {
		msg = tgbotapi.NewMessage(s.chatID, text)
	}
	msg.ParseMode = tgbotapi.ModeHTML

	sent, err := s.api.Send(msg)
	if err != nil {
		var apiErr *tgbotapi.Error
		if errors.As(err, &apiErr) {
			s.log.Error("Telegram rejected message",
				slog.Int("code", apiErr.Code),
				slog.Any("error", err),
			)
			return fmt.Errorf("%w: telegram sendMessage: %w", domain.ErrUpstreamResponse, err)
		}
		err = &redactedError{err: err, secret: s.token}
		s.log.Error("Telegram request failed", slog.Any("error", err))
		return fmt.Errorf("%w: telegram sendMessage: %w", domain.ErrTransport, err)
	}
	s.log.Debug("Message sent", slog.Int("message_id", sent.MessageID))
	return nil
}
