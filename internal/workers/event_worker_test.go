package workers

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zaplink/zaplink/internal/models"
	"github.com/zaplink/zaplink/internal/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.AnalyticsEvent{}))
	return db
}

func TestEventWorkersDrainChannel(t *testing.T) {
	db := newTestDB(t)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	events := make(chan models.TrackedEvent, 16)
	StartEventWorkers(3, events, analyticsRepo)

	linkID := uint(42)
	now := time.Now().UTC()
	events <- models.TrackedEvent{ProfileID: 1, Type: models.EventTypeView, IPAddress: "203.0.113.7", Timestamp: now}
	events <- models.TrackedEvent{ProfileID: 1, LinkID: &linkID, Type: models.EventTypeClick, Timestamp: now}
	events <- models.TrackedEvent{ProfileID: 2, Type: models.EventTypeView, Timestamp: now}
	close(events)

	assert.Eventually(t, func() bool {
		var count int64
		if err := db.Model(&models.AnalyticsEvent{}).Count(&count).Error; err != nil {
			return false
		}
		return count == 3
	}, 2*time.Second, 10*time.Millisecond)

	var click models.AnalyticsEvent
	require.NoError(t, db.Where("type = ?", models.EventTypeClick).First(&click).Error)
	require.NotNil(t, click.LinkID)
	assert.Equal(t, linkID, *click.LinkID)
	assert.EqualValues(t, 1, click.ProfileID)
}

func TestEventWorkerCarriesEventTimestamp(t *testing.T) {
	db := newTestDB(t)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	events := make(chan models.TrackedEvent, 1)
	StartEventWorkers(1, events, analyticsRepo)

	// The persisted row keeps the ingestion timestamp, not the write time.
	at := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	events <- models.TrackedEvent{ProfileID: 1, Type: models.EventTypeView, Timestamp: at}
	close(events)

	assert.Eventually(t, func() bool {
		var saved models.AnalyticsEvent
		if err := db.First(&saved).Error; err != nil {
			return false
		}
		return saved.CreatedAt.UTC().Equal(at)
	}, 2*time.Second, 10*time.Millisecond)
}
