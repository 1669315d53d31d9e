// Package api wires the Gin HTTP surface over the service layer. Handlers
// bind and validate request shapes, delegate to services, and map domain
// errors to HTTP statuses.
package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/zaplink/zaplink/internal/errors"
	"github.com/zaplink/zaplink/internal/services"
)

// SetupRoutes configures all API routes and injects the services.
func SetupRoutes(
	router *gin.Engine,
	profileService *services.ProfileService,
	linkService *services.LinkService,
	analyticsService *services.AnalyticsService,
) {
	router.GET("/health", HealthCheckHandler)

	api := router.Group("/api/v1")
	{
		// Public routes: profile rendering and anonymous event tracking.
		api.GET("/profiles/:username", GetPublicProfileHandler(profileService))
		api.GET("/profiles/:username/links", ListPublicLinksHandler(linkService))
		api.POST("/analytics/views", TrackViewHandler(analyticsService))
		api.POST("/analytics/clicks", TrackClickHandler(analyticsService))

		// Authenticated routes: the dashboard surface.
		authed := api.Group("", RequireUser())
		{
			authed.GET("/profile", GetProfileHandler(profileService))
			authed.POST("/profile", CreateProfileHandler(profileService))
			authed.PATCH("/profile", UpdateProfileHandler(profileService))
			authed.GET("/onboarding", GetOnboardingStateHandler(profileService))
			authed.POST("/onboarding/complete", CompleteOnboardingHandler(profileService))

			authed.GET("/links", ListLinksHandler(linkService))
			authed.POST("/links", CreateLinkHandler(linkService))
			authed.PATCH("/links/:id", UpdateLinkHandler(linkService))
			authed.PUT("/links/order", ReorderLinksHandler(linkService))
			authed.DELETE("/links/:id", DeleteLinkHandler(linkService))

			authed.GET("/analytics/stats", GetStatsHandler(analyticsService))
			authed.GET("/analytics/links/:id/clicks", GetLinkClickCountHandler(analyticsService))
		}
	}
}

// HealthCheckHandler handles the /health route to verify service status.
func HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError translates domain errors into HTTP responses. Anything not in
// the taxonomy is a 500 with the detail kept server-side.
func respondError(c *gin.Context, err error) {
	var validation apperrors.ValidationError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.Is(err, apperrors.ErrProfileNotFound), errors.Is(err, apperrors.ErrLinkNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUsernameTaken), errors.Is(err, apperrors.ErrProfileExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
