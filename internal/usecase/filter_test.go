package usecase

import (
	"errors"
	"testing"
	"time"

	"newsnotifier/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)

func news(platform, created string) domain.NewsItem {
	return domain.NewsItem{PlatformName: platform, NewsText: platform + " text", CreatedDate: created}
}

func TestFilterRecent_Boundary(t *testing.T) {
	items := []domain.NewsItem{
		news("exact-cutoff", "2024-05-01T12:00:00"),
		news("just-after", "2024-05-01T12:00:01"),
		news("just-before", "2024-05-01T11:59:59"),
	}

	recent, err := FilterRecent(items, fixedNow, 2, time.UTC)

	require.NoError(t, err)
	assert.Equal(t, []domain.NewsItem{news("just-after", "2024-05-01T12:00:01")}, recent)
}

func TestFilterRecent_PreservesOrder(t *testing.T) {
	items := []domain.NewsItem{
		news("b", "2024-05-02T09:00:00"),
		news("old", "2024-04-20T09:00:00"),
		news("a", "2024-05-03T09:00:00"),
		news("c", "2024-05-01T18:00:00"),
	}

	recent, err := FilterRecent(items, fixedNow, 2, time.UTC)

	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "b", recent[0].PlatformName)
	assert.Equal(t, "a", recent[1].PlatformName)
	assert.Equal(t, "c", recent[2].PlatformName)
}

func TestFilterRecent_DateFormats(t *testing.T) {
	tests := []struct {
		created string
		kept    bool
	}{
		{"2024-05-02T10:00:00Z", true},
		{"2024-05-02T10:00:00+02:00", true},
		{"2024-05-02T10:00:00.1234567", true},
		{"2024-05-02 10:00:00", true},
		{"2024-05-02", true},
		{"  2024-05-02T10:00:00  ", true},
		{"2024-05-01", false},
		{"2024-04-30T23:59:59.999Z", false},
	}
	for _, tt := range tests {
		t.Run(tt.created, func(t *testing.T) {
			recent, err := FilterRecent([]domain.NewsItem{news("p", tt.created)}, fixedNow, 2, time.UTC)

			require.NoError(t, err)
			assert.Equal(t, tt.kept, len(recent) == 1)
		})
	}
}

func TestFilterRecent_ZonelessDatesUseLocation(t *testing.T) {
	plus3 := time.FixedZone("UTC+3", 3*60*60)
	// 14:30 at UTC+3 is 11:30 UTC, before the 12:00 UTC cutoff.
	items := []domain.NewsItem{news("p", "2024-05-01T14:30:00")}

	recent, err := FilterRecent(items, fixedNow, 2, plus3)
	require.NoError(t, err)
	assert.Empty(t, recent)

	recent, err = FilterRecent(items, fixedNow, 2, time.UTC)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestFilterRecent_UnparseableDateFails(t *testing.T) {
	items := []domain.NewsItem{
		news("good", "2024-05-03T09:00:00"),
		news("Bondora", "yesterday-ish"),
	}

	recent, err := FilterRecent(items, fixedNow, 2, time.UTC)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDateParse))
	assert.Contains(t, err.Error(), "Bondora")
	assert.Contains(t, err.Error(), `"yesterday-ish"`)
	assert.Nil(t, recent)
}

func TestFilterRecent_Empty(t *testing.T) {
	recent, err := FilterRecent(nil, fixedNow, 2, nil)

	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestFilterRecent_CalendarDays(t *testing.T) {
	items := []domain.NewsItem{news("p", "2024-04-28T12:00:01")}

	recent, err := FilterRecent(items, fixedNow, 5, time.UTC)

	require.NoError(t, err)
	assert.Len(t, recent, 1)
}
