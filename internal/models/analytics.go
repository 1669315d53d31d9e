package models

import "time"

// Analytics event types.
const (
	EventTypeView  = "view"
	EventTypeClick = "click"
)

// AnalyticsEvent is an append-only fact recording one profile view or one
// link click. Events are never updated or deleted except when their link or
// profile is removed. CreatedAt is authoritative for all time bucketing.
type AnalyticsEvent struct {
	ID        uint   `gorm:"primaryKey"`
	ProfileID uint   `gorm:"index;not null"`
	LinkID    *uint  `gorm:"index"`
	Type      string `gorm:"size:10;not null"`

	// Request context captured for later analysis.
	IPAddress string `gorm:"size:50"`
	UserAgent string `gorm:"size:255"`

	CreatedAt time.Time `gorm:"index"`
}

// TrackedEvent is the lightweight form of an analytics event passed through
// the ingestion channel between the public handlers and the worker pool.
type TrackedEvent struct {
	ProfileID uint
	LinkID    *uint
	Type      string
	IPAddress string
	UserAgent string
	Timestamp time.Time
}
