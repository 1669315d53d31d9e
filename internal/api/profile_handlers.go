package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zaplink/zaplink/internal/services"
)

// CreateProfileRequest is the JSON body for claiming a profile.
type CreateProfileRequest struct {
	Username    string `json:"username" binding:"required"`
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
	AvatarURL   string `json:"avatarUrl"`
	BannerURL   string `json:"bannerUrl"`
}

// UpdateProfileRequest is the JSON body for a partial profile update.
// Omitted fields are left untouched.
type UpdateProfileRequest struct {
	Username      *string `json:"username"`
	DisplayName   *string `json:"displayName"`
	Bio           *string `json:"bio"`
	AvatarURL     *string `json:"avatarUrl"`
	BannerURL     *string `json:"bannerUrl"`
	SupportBanner *string `json:"supportBanner"`
}

// OnboardingLinkRequest is one starter link in the onboarding submission.
type OnboardingLinkRequest struct {
	Title            string `json:"title" binding:"required"`
	URL              string `json:"url" binding:"required"`
	Type             string `json:"type" binding:"required,oneof=custom platform"`
	PlatformName     string `json:"platformName"`
	PlatformCategory string `json:"platformCategory"`
}

// CompleteOnboardingRequest is the JSON body for the onboarding flow.
type CompleteOnboardingRequest struct {
	Username    string                  `json:"username" binding:"required"`
	DisplayName string                  `json:"displayName" binding:"required"`
	Bio         string                  `json:"bio"`
	AvatarURL   string                  `json:"avatarUrl"`
	BannerURL   string                  `json:"bannerUrl"`
	Links       []OnboardingLinkRequest `json:"links"`
}

// GetProfileHandler returns the caller's own profile.
func GetProfileHandler(profileService *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := profileService.GetProfile(callerID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

// GetPublicProfileHandler returns a profile by username with its visible
// links, for the public render.
func GetPublicProfileHandler(profileService *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, links, err := profileService.GetPublicProfile(c.Param("username"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"profile": profile,
			"links":   links,
		})
	}
}

// CreateProfileHandler claims a username for the caller.
func CreateProfileHandler(profileService *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}
		profile, err := profileService.CreateProfile(callerID(c), services.CreateProfileInput{
			Username:    req.Username,
			DisplayName: req.DisplayName,
			Bio:         req.Bio,
			AvatarURL:   req.AvatarURL,
			BannerURL:   req.BannerURL,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, profile)
	}
}

// UpdateProfileHandler applies a partial patch to the caller's profile.
func UpdateProfileHandler(profileService *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}
		profile, err := profileService.UpdateProfile(callerID(c), services.UpdateProfileInput{
			Username:      req.Username,
			DisplayName:   req.DisplayName,
			Bio:           req.Bio,
			AvatarURL:     req.AvatarURL,
			BannerURL:     req.BannerURL,
			SupportBanner: req.SupportBanner,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

// GetOnboardingStateHandler reports whether the caller has finished
// onboarding.
func GetOnboardingStateHandler(profileService *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		complete, err := profileService.OnboardingState(callerID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"isOnboardingComplete": complete})
	}
}

// CompleteOnboardingHandler saves profile and starter links in one shot.
func CompleteOnboardingHandler(profileService *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CompleteOnboardingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}
		input := services.OnboardingInput{
			Username:    req.Username,
			DisplayName: req.DisplayName,
			Bio:         req.Bio,
			AvatarURL:   req.AvatarURL,
			BannerURL:   req.BannerURL,
		}
		for _, starter := range req.Links {
			input.Links = append(input.Links, services.OnboardingLink{
				Title:            starter.Title,
				URL:              starter.URL,
				Type:             starter.Type,
				PlatformName:     starter.PlatformName,
				PlatformCategory: starter.PlatformCategory,
			})
		}
		if err := profileService.CompleteOnboarding(callerID(c), input); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
