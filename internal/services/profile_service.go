// Package services contains the business logic for profiles, links and
// analytics. Services validate input before any write and translate storage
// errors into the typed domain errors the API layer maps to HTTP statuses.
package services

import (
	"errors"
	"regexp"
	"strings"
	"time"

	apperrors "github.com/zaplink/zaplink/internal/errors"
	"github.com/zaplink/zaplink/internal/models"
	"github.com/zaplink/zaplink/internal/repository"
	"gorm.io/gorm"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

var supportBanners = map[string]bool{
	models.SupportBannerNone:             true,
	models.SupportBannerStopGenocide:     true,
	models.SupportBannerBlackLivesMatter: true,
	models.SupportBannerClimateAction:    true,
	models.SupportBannerMentalHealth:     true,
}

// CreateProfileInput carries the fields for a new profile.
type CreateProfileInput struct {
	Username    string
	DisplayName string
	Bio         string
	AvatarURL   string
	BannerURL   string
}

// UpdateProfileInput is a partial patch; nil fields are left untouched.
type UpdateProfileInput struct {
	Username      *string
	DisplayName   *string
	Bio           *string
	AvatarURL     *string
	BannerURL     *string
	SupportBanner *string
}

// OnboardingLink is one starter link submitted during onboarding.
type OnboardingLink struct {
	Title            string
	URL              string
	Type             string
	PlatformName     string
	PlatformCategory string
}

// OnboardingInput carries the whole onboarding submission.
type OnboardingInput struct {
	Username    string
	DisplayName string
	Bio         string
	AvatarURL   string
	BannerURL   string
	Links       []OnboardingLink
}

// ProfileService owns profile identity: username uniqueness, display fields
// and the onboarding flow.
type ProfileService struct {
	profileRepo repository.ProfileRepository
	linkRepo    repository.LinkRepository
	now         func() time.Time
}

// NewProfileService creates a new ProfileService.
func NewProfileService(profileRepo repository.ProfileRepository, linkRepo repository.LinkRepository) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		linkRepo:    linkRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// GetProfile returns the caller's own profile.
func (s *ProfileService) GetProfile(userID string) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// GetPublicProfile returns the named profile together with its visible links
// in display order.
func (s *ProfileService) GetPublicProfile(username string) (*models.Profile, []models.Link, error) {
	profile, err := s.profileRepo.GetByUsername(normalizeUsername(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrProfileNotFound
		}
		return nil, nil, err
	}
	links, err := s.linkRepo.ListByProfile(profile.ID, true)
	if err != nil {
		return nil, nil, err
	}
	return profile, links, nil
}

// CreateProfile claims a username for the caller. Each owner gets at most
// one profile.
func (s *ProfileService) CreateProfile(userID string, input CreateProfileInput) (*models.Profile, error) {
	username := normalizeUsername(input.Username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateProfileFields(input.DisplayName, input.Bio, input.AvatarURL, input.BannerURL); err != nil {
		return nil, err
	}

	if _, err := s.profileRepo.GetByUserID(userID); err == nil {
		return nil, apperrors.ErrProfileExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	taken, err := s.profileRepo.UsernameTaken(username, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrUsernameTaken
	}

	displayName := input.DisplayName
	if displayName == "" {
		displayName = username
	}
	profile := &models.Profile{
		UserID:        userID,
		Username:      username,
		DisplayName:   displayName,
		Bio:           input.Bio,
		AvatarURL:     input.AvatarURL,
		BannerURL:     input.BannerURL,
		SupportBanner: models.SupportBannerNone,
	}
	// The pre-check above races with concurrent creates; the unique index is
	// the real guard and surfaces as ErrUsernameTaken from the repository.
	if err := s.profileRepo.Create(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateProfile applies a partial patch to the caller's profile. Fields left
// nil are untouched.
func (s *ProfileService) UpdateProfile(userID string, patch UpdateProfileInput) (*models.Profile, error) {
	profile, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if patch.Username != nil {
		username := normalizeUsername(*patch.Username)
		if err := validateUsername(username); err != nil {
			return nil, err
		}
		taken, err := s.profileRepo.UsernameTaken(username, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.ErrUsernameTaken
		}
		profile.Username = username
	}
	if patch.DisplayName != nil {
		if len(*patch.DisplayName) > 30 {
			return nil, apperrors.NewValidation("displayName", "must be 30 characters or less")
		}
		profile.DisplayName = *patch.DisplayName
	}
	if patch.Bio != nil {
		if len(*patch.Bio) > 500 {
			return nil, apperrors.NewValidation("bio", "must be 500 characters or less")
		}
		profile.Bio = *patch.Bio
	}
	if patch.AvatarURL != nil {
		if err := validateOptionalURL("avatarUrl", *patch.AvatarURL); err != nil {
			return nil, err
		}
		profile.AvatarURL = *patch.AvatarURL
	}
	if patch.BannerURL != nil {
		if err := validateOptionalURL("bannerUrl", *patch.BannerURL); err != nil {
			return nil, err
		}
		profile.BannerURL = *patch.BannerURL
	}
	if patch.SupportBanner != nil {
		if !supportBanners[*patch.SupportBanner] {
			return nil, apperrors.NewValidation("supportBanner", "unknown banner type")
		}
		profile.SupportBanner = *patch.SupportBanner
	}

	if err := s.profileRepo.Update(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// OnboardingState reports whether the caller has completed onboarding. An
// owner without a profile has not.
func (s *ProfileService) OnboardingState(userID string) (bool, error) {
	profile, err := s.profileRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return profile.OnboardingCompletedAt != nil, nil
}

// CompleteOnboarding saves the profile and its starter links in one
// transaction and stamps the completion time. Re-running it updates the
// existing profile rather than failing.
func (s *ProfileService) CompleteOnboarding(userID string, input OnboardingInput) error {
	username := normalizeUsername(input.Username)
	if err := validateUsername(username); err != nil {
		return err
	}
	if input.DisplayName == "" || len(input.DisplayName) > 30 {
		return apperrors.NewValidation("displayName", "must be between 1 and 30 characters")
	}
	if err := validateProfileFields("", input.Bio, input.AvatarURL, input.BannerURL); err != nil {
		return err
	}

	starterLinks := make([]models.Link, 0, len(input.Links))
	for _, starter := range input.Links {
		link, err := buildStarterLink(starter)
		if err != nil {
			return err
		}
		starterLinks = append(starterLinks, link)
	}

	taken, err := s.profileRepo.UsernameTaken(username, userID)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.ErrUsernameTaken
	}

	profile, err := s.profileRepo.GetByUserID(userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		profile = &models.Profile{UserID: userID, SupportBanner: models.SupportBannerNone}
	}
	completedAt := s.now()
	profile.Username = username
	profile.DisplayName = input.DisplayName
	profile.Bio = input.Bio
	profile.AvatarURL = input.AvatarURL
	profile.BannerURL = input.BannerURL
	profile.OnboardingCompletedAt = &completedAt

	return s.profileRepo.SaveWithLinks(profile, starterLinks)
}

// buildStarterLink validates one onboarding link and converts it to a model.
// Starter links are limited to the custom and platform types.
func buildStarterLink(starter OnboardingLink) (models.Link, error) {
	if starter.Type != models.LinkTypeCustom && starter.Type != models.LinkTypePlatform {
		return models.Link{}, apperrors.NewValidation("links.type", "must be custom or platform")
	}
	if starter.Title == "" {
		return models.Link{}, apperrors.NewValidation("links.title", "must not be empty")
	}
	if err := validateAbsoluteURL("links.url", starter.URL); err != nil {
		return models.Link{}, err
	}
	link := models.Link{
		Type:  starter.Type,
		Title: starter.Title,
		URL:   starter.URL,
	}
	if starter.Type == models.LinkTypePlatform {
		if starter.PlatformName == "" {
			return models.Link{}, apperrors.NewValidation("links.platformName", "required for platform links")
		}
		category := starter.PlatformCategory
		if category == "" {
			category = models.PlatformCategorySocial
		}
		if err := validatePlatformCategory(category); err != nil {
			return models.Link{}, err
		}
		link.Platform = &models.LinkPlatform{Name: starter.PlatformName, Category: category}
	}
	return link, nil
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func validateUsername(username string) error {
	if len(username) < 3 || len(username) > 30 {
		return apperrors.NewValidation("username", "must be between 3 and 30 characters")
	}
	if !usernamePattern.MatchString(username) {
		return apperrors.NewValidation("username", "may only contain letters, numbers and underscores")
	}
	return nil
}

func validateProfileFields(displayName, bio, avatarURL, bannerURL string) error {
	if len(displayName) > 30 {
		return apperrors.NewValidation("displayName", "must be 30 characters or less")
	}
	if len(bio) > 500 {
		return apperrors.NewValidation("bio", "must be 500 characters or less")
	}
	if err := validateOptionalURL("avatarUrl", avatarURL); err != nil {
		return err
	}
	return validateOptionalURL("bannerUrl", bannerURL)
}
