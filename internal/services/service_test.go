package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/zaplink/zaplink/internal/models"
	"github.com/zaplink/zaplink/internal/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full schema. The
// connection pool is pinned to one connection so every query sees the same
// in-memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.Profile{},
		&models.Link{},
		&models.LinkPlatform{},
		&models.LinkCustom{},
		&models.LinkContact{},
		&models.AnalyticsEvent{},
	))
	return db
}

// env bundles the services under test over one shared database.
type env struct {
	db            *gorm.DB
	profiles      *ProfileService
	links         *LinkService
	analytics     *AnalyticsService
	analyticsRepo repository.AnalyticsRepository
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := newTestDB(t)
	profileRepo := repository.NewProfileRepository(db)
	linkRepo := repository.NewLinkRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	return &env{
		db:            db,
		profiles:      NewProfileService(profileRepo, linkRepo),
		links:         NewLinkService(profileRepo, linkRepo),
		analytics:     NewAnalyticsService(analyticsRepo, linkRepo, profileRepo, nil),
		analyticsRepo: analyticsRepo,
	}
}

func (e *env) createProfile(t *testing.T, userID, username string) *models.Profile {
	t.Helper()
	profile, err := e.profiles.CreateProfile(userID, CreateProfileInput{Username: username})
	require.NoError(t, err)
	return profile
}

func (e *env) createCustomLink(t *testing.T, userID, title string) *models.Link {
	t.Helper()
	link, err := e.links.CreateLink(userID, CreateLinkInput{
		Title: title,
		URL:   "https://example.com/" + title,
	})
	require.NoError(t, err)
	return link
}

func (e *env) insertEvent(t *testing.T, profileID uint, linkID *uint, eventType string, at time.Time) {
	t.Helper()
	require.NoError(t, e.analyticsRepo.CreateEvent(&models.AnalyticsEvent{
		ProfileID: profileID,
		LinkID:    linkID,
		Type:      eventType,
		CreatedAt: at,
	}))
}

// fixNow pins the analytics clock for deterministic window math.
func (e *env) fixNow(now time.Time) {
	e.analytics.now = func() time.Time { return now }
}
