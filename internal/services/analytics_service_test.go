package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/zaplink/zaplink/internal/errors"
	"github.com/zaplink/zaplink/internal/models"
)

func TestGetStatsEmptyProfile(t *testing.T) {
	e := newEnv(t)
	e.createProfile(t, "user-1", "alice")
	e.fixNow(windowNow)

	report, err := e.analytics.GetStats("user-1", StatsQuery{})
	require.NoError(t, err)

	assert.Zero(t, report.TotalViews)
	assert.Zero(t, report.TotalClicks)
	assert.Zero(t, report.CTR, "no views must not divide by zero")
	assert.Zero(t, report.ViewsChange)
	assert.Zero(t, report.ClicksChange)
	assert.Zero(t, report.CTRChange)
	assert.Empty(t, report.ChartData)
	assert.Empty(t, report.TopLinks)
}

func TestGetStatsComputesCTR(t *testing.T) {
	e := newEnv(t)
	profile := e.createProfile(t, "user-1", "alice")
	link := e.createCustomLink(t, "user-1", "blog")
	e.fixNow(windowNow)

	at := windowNow.Add(-time.Hour)
	for i := 0; i < 4; i++ {
		e.insertEvent(t, profile.ID, nil, models.EventTypeView, at)
	}
	id := link.ID
	e.insertEvent(t, profile.ID, &id, models.EventTypeClick, at)

	report, err := e.analytics.GetStats("user-1", StatsQuery{})
	require.NoError(t, err)

	assert.EqualValues(t, 4, report.TotalViews)
	assert.EqualValues(t, 1, report.TotalClicks)
	assert.InDelta(t, 25.0, report.CTR, 0.001)
}

func TestGetStatsPercentChange(t *testing.T) {
	e := newEnv(t)
	profile := e.createProfile(t, "user-1", "alice")
	e.fixNow(windowNow)

	// Current last7 window holds 6 views, the preceding window 4.
	current := windowNow.Add(-time.Hour)
	previous := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		e.insertEvent(t, profile.ID, nil, models.EventTypeView, current)
	}
	for i := 0; i < 4; i++ {
		e.insertEvent(t, profile.ID, nil, models.EventTypeView, previous)
	}

	report, err := e.analytics.GetStats("user-1", StatsQuery{Range: RangeLast7})
	require.NoError(t, err)
	assert.InDelta(t, 50.0, report.ViewsChange, 0.001)
}

func TestGetStatsPercentChangeFromZero(t *testing.T) {
	e := newEnv(t)
	profile := e.createProfile(t, "user-1", "alice")
	e.fixNow(windowNow)

	// Activity appears from nothing: the change is pinned at 100.
	e.insertEvent(t, profile.ID, nil, models.EventTypeView, windowNow.Add(-time.Hour))

	report, err := e.analytics.GetStats("user-1", StatsQuery{Range: RangeLast7})
	require.NoError(t, err)
	assert.InDelta(t, 100.0, report.ViewsChange, 0.001)
	assert.Zero(t, report.ClicksChange, "empty in both periods stays at 0")
}

func TestGetStatsHourlyBuckets(t *testing.T) {
	e := newEnv(t)
	profile := e.createProfile(t, "user-1", "alice")
	e.fixNow(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))

	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	e.insertEvent(t, profile.ID, nil, models.EventTypeView, day.Add(10*time.Hour+5*time.Minute))
	e.insertEvent(t, profile.ID, nil, models.EventTypeView, day.Add(10*time.Hour+42*time.Minute))
	e.insertEvent(t, profile.ID, nil, models.EventTypeView, day.Add(11*time.Hour+1*time.Minute))

	report, err := e.analytics.GetStats("user-1", StatsQuery{Range: RangeToday})
	require.NoError(t, err)

	require.Len(t, report.ChartData, 2, "empty hours are omitted")
	assert.Equal(t, "2024-03-15 10:00:00", report.ChartData[0].Timestamp)
	assert.EqualValues(t, 2, report.ChartData[0].Views)
	assert.Equal(t, "2024-03-15 11:00:00", report.ChartData[1].Timestamp)
	assert.EqualValues(t, 1, report.ChartData[1].Views)
}

func TestGetStatsTopLinksTiebreak(t *testing.T) {
	e := newEnv(t)
	profile := e.createProfile(t, "user-1", "alice")
	first := e.createCustomLink(t, "user-1", "one")
	second := e.createCustomLink(t, "user-1", "two")
	third := e.createCustomLink(t, "user-1", "three")
	e.fixNow(windowNow)

	at := windowNow.Add(-time.Hour)
	clicks := map[uint]int{first.ID: 5, second.ID: 5, third.ID: 10}
	for _, link := range []*models.Link{first, second, third} {
		id := link.ID
		for i := 0; i < clicks[id]; i++ {
			e.insertEvent(t, profile.ID, &id, models.EventTypeClick, at)
		}
	}

	report, err := e.analytics.GetStats("user-1", StatsQuery{})
	require.NoError(t, err)

	require.Len(t, report.TopLinks, 3)
	// Clicks descending, lower id first on ties.
	assert.Equal(t, third.ID, report.TopLinks[0].LinkID)
	assert.EqualValues(t, 10, report.TopLinks[0].Clicks)
	assert.Equal(t, first.ID, report.TopLinks[1].LinkID)
	assert.Equal(t, second.ID, report.TopLinks[2].LinkID)
}

func TestGetStatsIgnoresOtherProfiles(t *testing.T) {
	e := newEnv(t)
	mine := e.createProfile(t, "user-1", "alice")
	other := e.createProfile(t, "user-2", "bob")
	e.fixNow(windowNow)

	at := windowNow.Add(-time.Hour)
	e.insertEvent(t, mine.ID, nil, models.EventTypeView, at)
	e.insertEvent(t, other.ID, nil, models.EventTypeView, at)
	e.insertEvent(t, other.ID, nil, models.EventTypeView, at)

	report, err := e.analytics.GetStats("user-1", StatsQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, report.TotalViews)
}

func TestGetStatsWithoutProfile(t *testing.T) {
	e := newEnv(t)

	_, err := e.analytics.GetStats("nobody", StatsQuery{})
	assert.ErrorIs(t, err, apperrors.ErrProfileNotFound)
}

func TestGetLinkClickCount(t *testing.T) {
	e := newEnv(t)
	profile := e.createProfile(t, "user-1", "alice")
	link := e.createCustomLink(t, "user-1", "blog")

	id := link.ID
	// All-time count: events far outside any stats window still count.
	e.insertEvent(t, profile.ID, &id, models.EventTypeClick, windowNow.AddDate(-1, 0, 0))
	e.insertEvent(t, profile.ID, &id, models.EventTypeClick, windowNow)

	stats, err := e.analytics.GetLinkClickCount("user-1", link.ID)
	require.NoError(t, err)
	assert.Equal(t, link.ID, stats.LinkID)
	assert.EqualValues(t, 2, stats.ClickCount)
}

func TestGetLinkClickCountAuthorization(t *testing.T) {
	e := newEnv(t)
	e.createProfile(t, "user-1", "alice")
	e.createProfile(t, "user-2", "bob")
	theirs := e.createCustomLink(t, "user-2", "bobs")

	_, err := e.analytics.GetLinkClickCount("user-1", theirs.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = e.analytics.GetLinkClickCount("no-profile", theirs.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = e.analytics.GetLinkClickCount("user-1", 9999)
	assert.ErrorIs(t, err, apperrors.ErrLinkNotFound)
}

func TestRecordViewPersistsEvent(t *testing.T) {
	e := newEnv(t)
	profile := e.createProfile(t, "user-1", "alice")
	e.fixNow(windowNow)

	e.analytics.RecordView("Alice", "203.0.113.7", "test-agent")

	var events []models.AnalyticsEvent
	require.NoError(t, e.db.Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, profile.ID, events[0].ProfileID)
	assert.Equal(t, models.EventTypeView, events[0].Type)
	assert.Nil(t, events[0].LinkID)
	assert.Equal(t, "203.0.113.7", events[0].IPAddress)
	assert.Equal(t, "test-agent", events[0].UserAgent)
}

func TestRecordClickPersistsEvent(t *testing.T) {
	e := newEnv(t)
	profile := e.createProfile(t, "user-1", "alice")
	link := e.createCustomLink(t, "user-1", "blog")
	e.fixNow(windowNow)

	e.analytics.RecordClick(link.ID, "203.0.113.7", "test-agent")

	var events []models.AnalyticsEvent
	require.NoError(t, e.db.Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, profile.ID, events[0].ProfileID)
	assert.Equal(t, models.EventTypeClick, events[0].Type)
	require.NotNil(t, events[0].LinkID)
	assert.Equal(t, link.ID, *events[0].LinkID)
}

func TestRecordIgnoresUnknownTargets(t *testing.T) {
	e := newEnv(t)
	e.createProfile(t, "user-1", "alice")

	e.analytics.RecordView("ghost", "203.0.113.7", "test-agent")
	e.analytics.RecordClick(9999, "203.0.113.7", "test-agent")

	var count int64
	require.NoError(t, e.db.Model(&models.AnalyticsEvent{}).Count(&count).Error)
	assert.Zero(t, count, "unknown targets are dropped silently")
}
