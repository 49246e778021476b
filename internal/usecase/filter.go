package usecase

import (
	"fmt"
	"newsnotifier/internal/domain"
	"strings"
	"time"
)

// createdDateLayouts - поддерживаемые форматы createdDate. Форматы без зоны
// трактуются в часовом поясе фильтра.
var createdDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// FilterRecent оставляет новости, созданные строго позже now минус lookbackDays
// календарных дней. Порядок сохраняется. Новость с неразбираемой датой
// прерывает фильтрацию ошибкой domain.ErrDateParse.
func FilterRecent(items []domain.NewsItem, now time.Time, lookbackDays int, loc *time.Location) ([]domain.NewsItem, error) {
	if loc == nil {
		loc = time.UTC
	}
	cutoff := now.In(loc).AddDate(0, 0, -lookbackDays)
	recent := make([]domain.NewsItem, 0, len(items))
	for _, item := range items {
		created, err := parseCreatedDate(item.CreatedDate, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: news from %s: %w", domain.ErrDateParse, item.PlatformName, err)
		}
		if created.After(cutoff) {
			recent = append(recent, item)
		}
	}
	return recent, nil
}

func parseCreatedDate(value string, loc *time.Location) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range createdDateLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("could not parse date in any known format: %q", value)
}
