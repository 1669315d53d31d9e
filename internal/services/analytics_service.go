package services

import (
	"errors"
	"log"
	"sort"
	"time"

	apperrors "github.com/zaplink/zaplink/internal/errors"
	"github.com/zaplink/zaplink/internal/models"
	"github.com/zaplink/zaplink/internal/repository"
	"gorm.io/gorm"
)

// hourBucketFormat renders an hour-truncated UTC timestamp as the sortable
// chart bucket key, e.g. "2024-03-15 10:00:00".
const hourBucketFormat = "2006-01-02 15:04:05"

// ChartPoint is one hourly bucket of the stats time series. Buckets with no
// events are omitted; the renderer fills gaps.
type ChartPoint struct {
	Timestamp string `json:"timestamp"`
	Views     int64  `json:"views"`
	Clicks    int64  `json:"clicks"`
}

// StatsReport is the aggregated analytics view for one profile and window.
// Percentages are raw floats; rounding is left to the presentation layer.
type StatsReport struct {
	TotalViews   int64                       `json:"totalViews"`
	TotalClicks  int64                       `json:"totalClicks"`
	CTR          float64                     `json:"ctr"`
	ViewsChange  float64                     `json:"viewsChange"`
	ClicksChange float64                     `json:"clicksChange"`
	CTRChange    float64                     `json:"ctrChange"`
	ChartData    []ChartPoint                `json:"chartData"`
	TopLinks     []repository.LinkClickCount `json:"topLinks"`
}

// LinkClickStats is the all-time click count for a single link.
type LinkClickStats struct {
	LinkID     uint  `json:"linkId"`
	ClickCount int64 `json:"clickCount"`
}

// AnalyticsService ingests view/click events and computes range-bounded
// rollups, period-over-period comparisons and time-series buckets.
type AnalyticsService struct {
	analyticsRepo repository.AnalyticsRepository
	linkRepo      repository.LinkRepository
	profileRepo   repository.ProfileRepository

	// events, when set, receives tracked events for asynchronous persistence
	// by the worker pool. With a nil channel events are written inline.
	events chan<- models.TrackedEvent

	now func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService. Pass a nil events
// channel to persist events synchronously (CLI, tests).
func NewAnalyticsService(
	analyticsRepo repository.AnalyticsRepository,
	linkRepo repository.LinkRepository,
	profileRepo repository.ProfileRepository,
	events chan<- models.TrackedEvent,
) *AnalyticsService {
	return &AnalyticsService{
		analyticsRepo: analyticsRepo,
		linkRepo:      linkRepo,
		profileRepo:   profileRepo,
		events:        events,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// RecordView registers a profile view. This is a fire-and-forget telemetry
// path on the public render: unknown usernames and storage failures are
// swallowed so nothing ever propagates to the page being served.
func (s *AnalyticsService) RecordView(username, ipAddress, userAgent string) {
	profile, err := s.profileRepo.GetByUsername(normalizeUsername(username))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("ERROR: failed to resolve profile %q for view tracking: %v", username, err)
		}
		return
	}
	s.track(models.TrackedEvent{
		ProfileID: profile.ID,
		Type:      models.EventTypeView,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		Timestamp: s.now(),
	})
}

// RecordClick registers an outbound click on a link. Unknown link ids and
// storage failures are swallowed, same as RecordView.
func (s *AnalyticsService) RecordClick(linkID uint, ipAddress, userAgent string) {
	link, err := s.linkRepo.GetByID(linkID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("ERROR: failed to resolve link %d for click tracking: %v", linkID, err)
		}
		return
	}
	clickedID := link.ID
	s.track(models.TrackedEvent{
		ProfileID: link.ProfileID,
		LinkID:    &clickedID,
		Type:      models.EventTypeClick,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		Timestamp: s.now(),
	})
}

// track hands the event to the worker pool without blocking; a full buffer
// drops the event in favor of the visitor's request. Without a channel the
// event is written inline and failures are logged, not returned.
func (s *AnalyticsService) track(event models.TrackedEvent) {
	if s.events != nil {
		select {
		case s.events <- event:
		default:
			log.Printf("WARNING: analytics event buffer is full, dropping %s event for profile %d", event.Type, event.ProfileID)
		}
		return
	}
	record := &models.AnalyticsEvent{
		ProfileID: event.ProfileID,
		LinkID:    event.LinkID,
		Type:      event.Type,
		IPAddress: event.IPAddress,
		UserAgent: event.UserAgent,
		CreatedAt: event.Timestamp,
	}
	if err := s.analyticsRepo.CreateEvent(record); err != nil {
		log.Printf("ERROR: failed to persist %s event for profile %d: %v", event.Type, event.ProfileID, err)
	}
}

// GetStats computes the full analytics report for the caller's profile over
// the queried window. The sub-aggregations run as independent reads; slight
// skew between them is an accepted trade-off for a reporting view.
func (s *AnalyticsService) GetStats(userID string, query StatsQuery) (*StatsReport, error) {
	profile, err := s.profileRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, err
	}

	window := ResolveDateWindow(query, s.now())
	previous := window.Previous()

	totalViews, err := s.analyticsRepo.CountEvents(profile.ID, models.EventTypeView, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	totalClicks, err := s.analyticsRepo.CountEvents(profile.ID, models.EventTypeClick, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	prevViews, err := s.analyticsRepo.CountEvents(profile.ID, models.EventTypeView, previous.Start, previous.End)
	if err != nil {
		return nil, err
	}
	prevClicks, err := s.analyticsRepo.CountEvents(profile.ID, models.EventTypeClick, previous.Start, previous.End)
	if err != nil {
		return nil, err
	}

	ctr := clickThroughRate(totalClicks, totalViews)
	prevCTR := clickThroughRate(prevClicks, prevViews)

	chartData, err := s.buildChart(profile.ID, window)
	if err != nil {
		return nil, err
	}
	topLinks, err := s.analyticsRepo.TopClickedLinks(profile.ID, window.Start, window.End, 5)
	if err != nil {
		return nil, err
	}

	return &StatsReport{
		TotalViews:   totalViews,
		TotalClicks:  totalClicks,
		CTR:          ctr,
		ViewsChange:  percentChange(float64(totalViews), float64(prevViews)),
		ClicksChange: percentChange(float64(totalClicks), float64(prevClicks)),
		CTRChange:    percentChange(ctr, prevCTR),
		ChartData:    chartData,
		TopLinks:     topLinks,
	}, nil
}

// GetLinkClickCount returns the all-time click count for one of the caller's
// links.
func (s *AnalyticsService) GetLinkClickCount(userID string, linkID uint) (*LinkClickStats, error) {
	link, err := s.linkRepo.GetByID(linkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrLinkNotFound
		}
		return nil, err
	}
	profile, err := s.profileRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrForbidden
		}
		return nil, err
	}
	if link.ProfileID != profile.ID {
		return nil, apperrors.ErrForbidden
	}
	count, err := s.analyticsRepo.CountClicksByLink(linkID)
	if err != nil {
		return nil, err
	}
	return &LinkClickStats{LinkID: linkID, ClickCount: count}, nil
}

// buildChart groups the window's events into sparse hourly buckets ordered
// by bucket key.
func (s *AnalyticsService) buildChart(profileID uint, window DateWindow) ([]ChartPoint, error) {
	events, err := s.analyticsRepo.ListEvents(profileID, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*ChartPoint)
	for _, event := range events {
		key := event.CreatedAt.UTC().Truncate(time.Hour).Format(hourBucketFormat)
		point, ok := buckets[key]
		if !ok {
			point = &ChartPoint{Timestamp: key}
			buckets[key] = point
		}
		switch event.Type {
		case models.EventTypeView:
			point.Views++
		case models.EventTypeClick:
			point.Clicks++
		}
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	chart := make([]ChartPoint, 0, len(keys))
	for _, key := range keys {
		chart = append(chart, *buckets[key])
	}
	return chart, nil
}

// clickThroughRate is clicks/views as a percentage, 0 when there are no
// views.
func clickThroughRate(clicks, views int64) float64 {
	if views == 0 {
		return 0
	}
	return float64(clicks) / float64(views) * 100
}

// percentChange applies the period-over-period rule shared by every metric:
// a real percentage when the previous value is positive, 100 when something
// appeared from nothing, 0 when both periods are empty.
func percentChange(current, previous float64) float64 {
	if previous > 0 {
		return (current - previous) / previous * 100
	}
	if current > 0 {
		return 100
	}
	return 0
}
