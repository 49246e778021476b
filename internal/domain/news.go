package domain

import (
	"fmt"
	"time"
)

// newsTemplate - шаблон Telegram-сообщения с новостью (разметка HTML).
const newsTemplate = "🗞️ <b>%s</b> 🗞️\n\n%s"

// NewsItem представляет отдельную новость из ленты платформы.
// CreatedDate хранится в исходном виде, разбор даты выполняет фильтр.
type NewsItem struct {
	PlatformName string `json:"platformName"`
	NewsText     string `json:"newsText"`
	CreatedDate  string `json:"createdDate"`
}

// FormatNews собирает текст уведомления для новости.
func FormatNews(item NewsItem) string {
	return fmt.Sprintf(newsTemplate, item.PlatformName, item.NewsText)
}

// DeliveryKind различает обычные уведомления и сообщения об ошибке.
type DeliveryKind string

const (
	DeliveryNews    DeliveryKind = "news"
	DeliveryFailure DeliveryKind = "failure"
)

// Delivery - одно отправленное сообщение в рамках запуска.
type Delivery struct {
	Kind         DeliveryKind
	PlatformName string
	CreatedDate  string
	Text         string
	SentAt       time.Time
}

// RunReport описывает один запуск уведомителя для журнала доставок.
type RunReport struct {
	RunID        string
	StartedAt    time.Time
	FinishedAt   time.Time
	ItemsFetched int
	ItemsKept    int
	Failure      string
	Deliveries   []Delivery
}
