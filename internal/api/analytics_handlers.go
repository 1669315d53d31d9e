package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zaplink/zaplink/internal/services"
)

// statsDateLayout is the calendar-day format accepted by the from/to query
// parameters.
const statsDateLayout = "2006-01-02"

// TrackViewRequest identifies the profile being viewed.
type TrackViewRequest struct {
	Username string `json:"username" binding:"required"`
}

// TrackClickRequest identifies the link being activated.
type TrackClickRequest struct {
	LinkID uint `json:"linkId" binding:"required"`
}

// TrackViewHandler records a profile view. The response is 202 regardless of
// whether the profile exists: this endpoint is called by anonymous visitors
// during page render and must neither block nor leak profile existence.
func TrackViewHandler(analyticsService *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TrackViewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}
		analyticsService.RecordView(req.Username, c.ClientIP(), c.GetHeader("User-Agent"))
		c.JSON(http.StatusAccepted, gin.H{"success": true})
	}
}

// TrackClickHandler records an outbound link click, same contract as
// TrackViewHandler.
func TrackClickHandler(analyticsService *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TrackClickRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}
		analyticsService.RecordClick(req.LinkID, c.ClientIP(), c.GetHeader("User-Agent"))
		c.JSON(http.StatusAccepted, gin.H{"success": true})
	}
}

// GetStatsHandler returns the aggregated analytics report for the caller's
// profile. The window comes from ?range=<selector> or explicit
// ?from=YYYY-MM-DD&to=YYYY-MM-DD (both required together); with neither it
// defaults to the last 7 days.
func GetStatsHandler(analyticsService *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := services.StatsQuery{}

		if rangeName := c.Query("range"); rangeName != "" {
			if !services.IsValidRange(rangeName) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown range selector"})
				return
			}
			query.Range = rangeName
		}

		fromParam, toParam := c.Query("from"), c.Query("to")
		if fromParam != "" || toParam != "" {
			from, err := time.Parse(statsDateLayout, fromParam)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'from' date, expected YYYY-MM-DD"})
				return
			}
			to, err := time.Parse(statsDateLayout, toParam)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'to' date, expected YYYY-MM-DD"})
				return
			}
			query.From, query.To = &from, &to
		}

		report, err := analyticsService.GetStats(callerID(c), query)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

// GetLinkClickCountHandler returns the all-time click count for one of the
// caller's links.
func GetLinkClickCountHandler(analyticsService *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		linkID, ok := linkIDParam(c)
		if !ok {
			return
		}
		stats, err := analyticsService.GetLinkClickCount(callerID(c), linkID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
