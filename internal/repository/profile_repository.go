package repository

import (
	"fmt"
	"strings"

	apperrors "github.com/zaplink/zaplink/internal/errors"
	"github.com/zaplink/zaplink/internal/models"
	"gorm.io/gorm"
)

// ProfileRepository defines data access for profiles.
type ProfileRepository interface {
	Create(profile *models.Profile) error
	Update(profile *models.Profile) error
	GetByUserID(userID string) (*models.Profile, error)
	GetByUsername(username string) (*models.Profile, error)
	UsernameTaken(username string, excludeUserID string) (bool, error)
	SaveWithLinks(profile *models.Profile, links []models.Link) error
}

// GormProfileRepository is the GORM-backed implementation of ProfileRepository.
type GormProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new GormProfileRepository.
func NewProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// Create inserts a new profile. A late unique-index violation (two owners
// racing for the same username) surfaces as ErrUsernameTaken rather than a
// silent overwrite.
func (r *GormProfileRepository) Create(profile *models.Profile) error {
	if err := r.db.Create(profile).Error; err != nil {
		if translated := translateUniqueViolation(err); translated != nil {
			return translated
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// Update persists all fields of an existing profile.
func (r *GormProfileRepository) Update(profile *models.Profile) error {
	if err := r.db.Save(profile).Error; err != nil {
		if translated := translateUniqueViolation(err); translated != nil {
			return translated
		}
		return fmt.Errorf("failed to update profile %d: %w", profile.ID, err)
	}
	return nil
}

// GetByUserID fetches the profile owned by the given user.
func (r *GormProfileRepository) GetByUserID(userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetByUsername fetches a profile by its (case-normalized) username.
func (r *GormProfileRepository) GetByUsername(username string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("username = ?", username).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// UsernameTaken reports whether any profile other than excludeUserID's
// already uses the given username.
func (r *GormProfileRepository) UsernameTaken(username string, excludeUserID string) (bool, error) {
	var count int64
	query := r.db.Model(&models.Profile{}).Where("username = ?", username)
	if excludeUserID != "" {
		query = query.Where("user_id <> ?", excludeUserID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check username %q: %w", username, err)
	}
	return count > 0, nil
}

// SaveWithLinks writes the profile (insert or update) together with a batch
// of starter links in a single transaction. Used by onboarding: either the
// whole result is committed or nothing is.
func (r *GormProfileRepository) SaveWithLinks(profile *models.Profile, links []models.Link) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(profile).Error; err != nil {
			return err
		}
		for i := range links {
			links[i].ProfileID = profile.ID
			if err := tx.Create(&links[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if translated := translateUniqueViolation(err); translated != nil {
			return translated
		}
		return fmt.Errorf("failed to save profile with links: %w", err)
	}
	return nil
}

// translateUniqueViolation maps SQLite unique-index failures on the profiles
// table to domain errors. Returns nil for anything else.
func translateUniqueViolation(err error) error {
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return nil
	}
	switch {
	case strings.Contains(msg, "profiles.username"):
		return apperrors.ErrUsernameTaken
	case strings.Contains(msg, "profiles.user_id"):
		return apperrors.ErrProfileExists
	}
	return nil
}
