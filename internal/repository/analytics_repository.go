package repository

import (
	"fmt"
	"time"

	"github.com/zaplink/zaplink/internal/models"
	"gorm.io/gorm"
)

// LinkClickCount is one row of the top-links aggregation.
type LinkClickCount struct {
	LinkID uint   `json:"id"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	Clicks int64  `json:"clicks"`
}

// AnalyticsRepository defines data access for analytics events.
type AnalyticsRepository interface {
	CreateEvent(event *models.AnalyticsEvent) error
	CountEvents(profileID uint, eventType string, start, end time.Time) (int64, error)
	ListEvents(profileID uint, start, end time.Time) ([]models.AnalyticsEvent, error)
	CountClicksByLink(linkID uint) (int64, error)
	TopClickedLinks(profileID uint, start, end time.Time, limit int) ([]LinkClickCount, error)
}

// GormAnalyticsRepository is the GORM-backed implementation of
// AnalyticsRepository.
type GormAnalyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new GormAnalyticsRepository.
func NewAnalyticsRepository(db *gorm.DB) *GormAnalyticsRepository {
	return &GormAnalyticsRepository{db: db}
}

// CreateEvent appends one analytics event.
func (r *GormAnalyticsRepository) CreateEvent(event *models.AnalyticsEvent) error {
	if err := r.db.Create(event).Error; err != nil {
		return fmt.Errorf("failed to record %s event for profile %d: %w", event.Type, event.ProfileID, err)
	}
	return nil
}

// CountEvents counts events of one type for a profile within [start, end].
func (r *GormAnalyticsRepository) CountEvents(profileID uint, eventType string, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.AnalyticsEvent{}).
		Where("profile_id = ? AND type = ? AND created_at BETWEEN ? AND ?", profileID, eventType, start, end).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count %s events for profile %d: %w", eventType, profileID, err)
	}
	return count, nil
}

// ListEvents returns all events for a profile within [start, end], oldest
// first. The aggregator buckets these in memory.
func (r *GormAnalyticsRepository) ListEvents(profileID uint, start, end time.Time) ([]models.AnalyticsEvent, error) {
	var events []models.AnalyticsEvent
	err := r.db.
		Where("profile_id = ? AND created_at BETWEEN ? AND ?", profileID, start, end).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list events for profile %d: %w", profileID, err)
	}
	return events, nil
}

// CountClicksByLink returns the all-time click count for one link.
func (r *GormAnalyticsRepository) CountClicksByLink(linkID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.AnalyticsEvent{}).
		Where("link_id = ? AND type = ?", linkID, models.EventTypeClick).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count clicks for link %d: %w", linkID, err)
	}
	return count, nil
}

// TopClickedLinks returns the most-clicked links for a profile within
// [start, end], most clicks first with the link id as tiebreak so repeated
// calls return the same order.
func (r *GormAnalyticsRepository) TopClickedLinks(profileID uint, start, end time.Time, limit int) ([]LinkClickCount, error) {
	var rows []LinkClickCount
	err := r.db.Model(&models.AnalyticsEvent{}).
		Select("links.id AS link_id, links.title AS title, links.url AS url, COUNT(*) AS clicks").
		Joins("JOIN links ON links.id = analytics_events.link_id").
		Where("analytics_events.profile_id = ? AND analytics_events.type = ? AND analytics_events.created_at BETWEEN ? AND ?",
			profileID, models.EventTypeClick, start, end).
		Group("links.id, links.title, links.url").
		Order("clicks DESC, links.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate top links for profile %d: %w", profileID, err)
	}
	return rows, nil
}
