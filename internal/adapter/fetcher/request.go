package fetcher

import (
	"encoding/json"
	"fmt"
	"net/http"
	"newsnotifier/internal/config"
	"newsnotifier/internal/domain"
)

// newsFeedQuery - тело запроса к API ленты.
type newsFeedQuery struct {
	ID               string `json:"Id"`
	SelectedLanguage string `json:"SelectedLanguage"`
}

// NewFeedRequest строит запрос к ленте для выбранного режима:
// GET страницы для nextdata и POST с JSON-телом для api.
func NewFeedRequest(cfg config.FeedConfig) (domain.FeedRequest, error) {
	switch cfg.Mode {
	case config.ModeNextData:
		return domain.FeedRequest{Method: http.MethodGet, URL: cfg.URL}, nil
	case config.ModeAPI:
		body, err := json.Marshal(newsFeedQuery{ID: "-1", SelectedLanguage: cfg.Language})
		if err != nil {
			return domain.FeedRequest{}, fmt.Errorf("failed to encode news feed query: %w", err)
		}
		return domain.FeedRequest{Method: http.MethodPost, URL: cfg.URL, Body: body}, nil
	default:
		return domain.FeedRequest{}, fmt.Errorf("unknown feed mode %q", cfg.Mode)
	}
}
