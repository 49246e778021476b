package fetcher

import (
	"net/http"
	"testing"

	"newsnotifier/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFeedRequest_NextData(t *testing.T) {
	fr, err := NewFeedRequest(config.FeedConfig{Mode: config.ModeNextData, URL: config.DefaultNewsfeedURL})

	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, fr.Method)
	assert.Equal(t, config.DefaultNewsfeedURL, fr.URL)
	assert.Nil(t, fr.Body)
}

func TestNewFeedRequest_API(t *testing.T) {
	fr, err := NewFeedRequest(config.FeedConfig{
		Mode:     config.ModeAPI,
		URL:      "https://api.example.com/api/NewsFeed/GetAllNews",
		Language: "en",
	})

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, fr.Method)
	assert.Equal(t, "https://api.example.com/api/NewsFeed/GetAllNews", fr.URL)
	assert.JSONEq(t, `{"Id":"-1","SelectedLanguage":"en"}`, string(fr.Body))
}

func TestNewFeedRequest_UnknownMode(t *testing.T) {
	_, err := NewFeedRequest(config.FeedConfig{Mode: "rss"})

	assert.Error(t, err)
}
