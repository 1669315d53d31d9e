package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/zaplink/zaplink/internal/errors"
	"github.com/zaplink/zaplink/internal/models"
)

func TestCreateAndGetProfile(t *testing.T) {
	e := newEnv(t)

	created := e.createProfile(t, "user-1", "alice")
	assert.NotZero(t, created.ID)
	assert.Equal(t, "alice", created.Username)
	assert.Equal(t, "alice", created.DisplayName) // defaults to username

	fetched, err := e.profiles.GetProfile("user-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
}

func TestGetProfileNotFound(t *testing.T) {
	e := newEnv(t)

	_, err := e.profiles.GetProfile("nobody")
	assert.ErrorIs(t, err, apperrors.ErrProfileNotFound)
}

func TestCreateProfileNormalizesUsername(t *testing.T) {
	e := newEnv(t)

	profile := e.createProfile(t, "user-1", "  MixedCase_99 ")
	assert.Equal(t, "mixedcase_99", profile.Username)

	// Lookups go through the same normalization.
	_, _, err := e.profiles.GetPublicProfile("MIXEDCASE_99")
	assert.NoError(t, err)
}

func TestCreateProfileValidation(t *testing.T) {
	e := newEnv(t)

	_, err := e.profiles.CreateProfile("user-1", CreateProfileInput{Username: "ab"})
	assert.True(t, apperrors.IsValidation(err), "short username should be rejected")

	_, err = e.profiles.CreateProfile("user-1", CreateProfileInput{Username: "bad name!"})
	assert.True(t, apperrors.IsValidation(err), "pattern violation should be rejected")

	_, err = e.profiles.CreateProfile("user-1", CreateProfileInput{Username: "okname", AvatarURL: "not a url"})
	assert.True(t, apperrors.IsValidation(err), "malformed avatar URL should be rejected")
}

func TestUsernameUniqueness(t *testing.T) {
	e := newEnv(t)
	e.createProfile(t, "user-1", "taken")

	_, err := e.profiles.CreateProfile("user-2", CreateProfileInput{Username: "taken"})
	assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)

	// Case-insensitive: the normalized form collides.
	_, err = e.profiles.CreateProfile("user-3", CreateProfileInput{Username: "TAKEN"})
	assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)
}

func TestOneProfilePerOwner(t *testing.T) {
	e := newEnv(t)
	e.createProfile(t, "user-1", "first")

	_, err := e.profiles.CreateProfile("user-1", CreateProfileInput{Username: "second"})
	assert.ErrorIs(t, err, apperrors.ErrProfileExists)
}

func TestUpdateProfilePartialPatch(t *testing.T) {
	e := newEnv(t)
	e.createProfile(t, "user-1", "alice")

	bio := "hello there"
	updated, err := e.profiles.UpdateProfile("user-1", UpdateProfileInput{Bio: &bio})
	require.NoError(t, err)

	assert.Equal(t, "hello there", updated.Bio)
	assert.Equal(t, "alice", updated.Username, "absent fields stay untouched")
	assert.Equal(t, "alice", updated.DisplayName)
}

func TestUpdateProfileUsernameConflictExcludesSelf(t *testing.T) {
	e := newEnv(t)
	e.createProfile(t, "user-1", "alice")
	e.createProfile(t, "user-2", "bob")

	// Re-submitting your own username is not a conflict.
	own := "alice"
	_, err := e.profiles.UpdateProfile("user-1", UpdateProfileInput{Username: &own})
	assert.NoError(t, err)

	theirs := "bob"
	_, err = e.profiles.UpdateProfile("user-1", UpdateProfileInput{Username: &theirs})
	assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)
}

func TestUpdateProfileSupportBanner(t *testing.T) {
	e := newEnv(t)
	e.createProfile(t, "user-1", "alice")

	banner := models.SupportBannerClimateAction
	updated, err := e.profiles.UpdateProfile("user-1", UpdateProfileInput{SupportBanner: &banner})
	require.NoError(t, err)
	assert.Equal(t, models.SupportBannerClimateAction, updated.SupportBanner)

	unknown := "free_hugs"
	_, err = e.profiles.UpdateProfile("user-1", UpdateProfileInput{SupportBanner: &unknown})
	assert.True(t, apperrors.IsValidation(err))
}

func TestCompleteOnboardingCreatesProfileAndLinks(t *testing.T) {
	e := newEnv(t)

	complete, err := e.profiles.OnboardingState("user-1")
	require.NoError(t, err)
	assert.False(t, complete)

	err = e.profiles.CompleteOnboarding("user-1", OnboardingInput{
		Username:    "Alice",
		DisplayName: "Alice A.",
		Bio:         "hi",
		Links: []OnboardingLink{
			{Title: "My site", URL: "https://alice.dev", Type: models.LinkTypeCustom},
			{Title: "Instagram", URL: "https://instagram.com/alice", Type: models.LinkTypePlatform, PlatformName: "instagram"},
		},
	})
	require.NoError(t, err)

	complete, err = e.profiles.OnboardingState("user-1")
	require.NoError(t, err)
	assert.True(t, complete)

	links, err := e.links.ListForOwner("user-1")
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, models.LinkTypeCustom, links[0].Type)
	require.NotNil(t, links[1].Platform)
	assert.Equal(t, "instagram", links[1].Platform.Name)
	assert.Equal(t, models.PlatformCategorySocial, links[1].Platform.Category)
}

func TestCompleteOnboardingUsernameTaken(t *testing.T) {
	e := newEnv(t)
	e.createProfile(t, "user-1", "alice")

	err := e.profiles.CompleteOnboarding("user-2", OnboardingInput{
		Username:    "alice",
		DisplayName: "Impostor",
	})
	assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)
}

func TestCompleteOnboardingInvalidLinkWritesNothing(t *testing.T) {
	e := newEnv(t)

	err := e.profiles.CompleteOnboarding("user-1", OnboardingInput{
		Username:    "alice",
		DisplayName: "Alice",
		Links: []OnboardingLink{
			{Title: "Broken", URL: "nope", Type: models.LinkTypeCustom},
		},
	})
	assert.True(t, apperrors.IsValidation(err))

	_, err = e.profiles.GetProfile("user-1")
	assert.ErrorIs(t, err, apperrors.ErrProfileNotFound, "validation failure must not create the profile")
}

func TestGetPublicProfileReturnsVisibleLinks(t *testing.T) {
	e := newEnv(t)
	e.createProfile(t, "user-1", "alice")
	visible := e.createCustomLink(t, "user-1", "shown")
	hiddenLink := e.createCustomLink(t, "user-1", "hidden")

	hidden := true
	_, err := e.links.UpdateLink("user-1", hiddenLink.ID, UpdateLinkInput{IsHidden: &hidden})
	require.NoError(t, err)

	profile, links, err := e.profiles.GetPublicProfile("alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	require.Len(t, links, 1)
	assert.Equal(t, visible.ID, links[0].ID)
}
