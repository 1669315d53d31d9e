package services

import (
	"errors"
	"net/url"

	apperrors "github.com/zaplink/zaplink/internal/errors"
	"github.com/zaplink/zaplink/internal/models"
	"github.com/zaplink/zaplink/internal/repository"
	"gorm.io/gorm"
)

// defaultSortOrder is assigned to newly created links. New links all land at
// the front with the same value; the id tiebreak keeps listings stable and
// clients submit a reorder call to pick the final position.
const defaultSortOrder = 0

var linkTypes = map[string]bool{
	models.LinkTypeCustom:   true,
	models.LinkTypePlatform: true,
	models.LinkTypeContact:  true,
	models.LinkTypeEmbed:    true,
}

var displayModes = map[string]bool{
	models.DisplayModeStandard: true,
	models.DisplayModeFeatured: true,
	models.DisplayModeGrid:     true,
}

var platformCategories = map[string]bool{
	models.PlatformCategorySocial:        true,
	models.PlatformCategoryBusiness:      true,
	models.PlatformCategoryMusic:         true,
	models.PlatformCategoryEntertainment: true,
	models.PlatformCategoryLifestyle:     true,
	models.PlatformCategoryNews:          true,
}

// CreateLinkInput carries the fields for a new link. Type may be left empty:
// it is inferred as platform when PlatformName is set, custom otherwise.
type CreateLinkInput struct {
	Title            string
	URL              string
	Type             string
	PlatformName     string
	PlatformCategory string
	DisplayMode      string
	ThumbnailURL     string
	ContactType      string
	ContactValue     string
}

// UpdateLinkInput is a partial patch; nil fields are left untouched.
// Extension fields only apply when they match the link's existing type.
type UpdateLinkInput struct {
	Title        *string
	URL          *string
	IsHidden     *bool
	DisplayMode  *string
	ThumbnailURL *string
	ContactType  *string
	ContactValue *string
}

// LinkService owns the per-profile link collection: the polymorphic link
// entities, their extension rows and the user-controlled ordering.
type LinkService struct {
	profileRepo repository.ProfileRepository
	linkRepo    repository.LinkRepository
}

// NewLinkService creates a new LinkService.
func NewLinkService(profileRepo repository.ProfileRepository, linkRepo repository.LinkRepository) *LinkService {
	return &LinkService{profileRepo: profileRepo, linkRepo: linkRepo}
}

// ListForOwner returns all of the caller's links in display order. An owner
// without a profile gets an empty list, not an error.
func (s *LinkService) ListForOwner(userID string) ([]models.Link, error) {
	profile, err := s.profileRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []models.Link{}, nil
		}
		return nil, err
	}
	return s.linkRepo.ListByProfile(profile.ID, false)
}

// ListPublic returns the named profile's visible links in display order. An
// unknown username yields an empty list so the endpoint does not leak
// profile existence.
func (s *LinkService) ListPublic(username string) ([]models.Link, error) {
	profile, err := s.profileRepo.GetByUsername(normalizeUsername(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []models.Link{}, nil
		}
		return nil, err
	}
	return s.linkRepo.ListByProfile(profile.ID, true)
}

// CreateLink validates the input, resolves the caller's profile and inserts
// the base link together with its extension row as one atomic unit. A
// validation failure writes nothing.
func (s *LinkService) CreateLink(userID string, input CreateLinkInput) (*models.Link, error) {
	if len(input.Title) < 1 || len(input.Title) > 200 {
		return nil, apperrors.NewValidation("title", "must be between 1 and 200 characters")
	}
	if err := validateAbsoluteURL("url", input.URL); err != nil {
		return nil, err
	}

	linkType := input.Type
	if linkType == "" {
		if input.PlatformName != "" {
			linkType = models.LinkTypePlatform
		} else {
			linkType = models.LinkTypeCustom
		}
	}
	if !linkTypes[linkType] {
		return nil, apperrors.NewValidation("type", "unknown link type")
	}

	link := &models.Link{
		Type:      linkType,
		Title:     input.Title,
		URL:       input.URL,
		SortOrder: defaultSortOrder,
	}

	switch linkType {
	case models.LinkTypePlatform:
		if input.PlatformName == "" {
			return nil, apperrors.NewValidation("platformName", "required for platform links")
		}
		category := input.PlatformCategory
		if category == "" {
			category = models.PlatformCategorySocial
		}
		if err := validatePlatformCategory(category); err != nil {
			return nil, err
		}
		link.Platform = &models.LinkPlatform{Name: input.PlatformName, Category: category}
	case models.LinkTypeCustom:
		displayMode := input.DisplayMode
		if displayMode == "" {
			displayMode = models.DisplayModeStandard
		}
		if !displayModes[displayMode] {
			return nil, apperrors.NewValidation("displayMode", "must be standard, featured or grid")
		}
		if err := validateOptionalURL("thumbnailUrl", input.ThumbnailURL); err != nil {
			return nil, err
		}
		link.Custom = &models.LinkCustom{DisplayMode: displayMode, ThumbnailURL: input.ThumbnailURL}
	case models.LinkTypeContact:
		if input.ContactType == "" || input.ContactValue == "" {
			return nil, apperrors.NewValidation("contact", "contactType and contactValue are required for contact links")
		}
		link.Contact = &models.LinkContact{ContactType: input.ContactType, ContactValue: input.ContactValue}
	}

	profile, err := s.profileRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, err
	}
	link.ProfileID = profile.ID

	if err := s.linkRepo.Create(link); err != nil {
		return nil, err
	}
	return link, nil
}

// UpdateLink applies a partial patch to one of the caller's links. Extension
// fields are only applied when they match the link's type; if the matching
// extension row is missing it is created rather than failing the patch.
func (s *LinkService) UpdateLink(userID string, linkID uint, patch UpdateLinkInput) (*models.Link, error) {
	link, err := s.ownedLink(userID, linkID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		if len(*patch.Title) < 1 || len(*patch.Title) > 200 {
			return nil, apperrors.NewValidation("title", "must be between 1 and 200 characters")
		}
		link.Title = *patch.Title
	}
	if patch.URL != nil {
		if err := validateAbsoluteURL("url", *patch.URL); err != nil {
			return nil, err
		}
		link.URL = *patch.URL
	}
	if patch.IsHidden != nil {
		link.IsHidden = *patch.IsHidden
	}

	switch link.Type {
	case models.LinkTypeCustom:
		if patch.DisplayMode != nil || patch.ThumbnailURL != nil {
			if link.Custom == nil {
				link.Custom = &models.LinkCustom{LinkID: link.ID, DisplayMode: models.DisplayModeStandard}
			}
			if patch.DisplayMode != nil {
				if !displayModes[*patch.DisplayMode] {
					return nil, apperrors.NewValidation("displayMode", "must be standard, featured or grid")
				}
				link.Custom.DisplayMode = *patch.DisplayMode
			}
			if patch.ThumbnailURL != nil {
				if err := validateOptionalURL("thumbnailUrl", *patch.ThumbnailURL); err != nil {
					return nil, err
				}
				link.Custom.ThumbnailURL = *patch.ThumbnailURL
			}
		}
	case models.LinkTypeContact:
		if patch.ContactType != nil || patch.ContactValue != nil {
			if link.Contact == nil {
				link.Contact = &models.LinkContact{LinkID: link.ID, ContactType: "email"}
			}
			if patch.ContactType != nil {
				link.Contact.ContactType = *patch.ContactType
			}
			if patch.ContactValue != nil {
				link.Contact.ContactValue = *patch.ContactValue
			}
		}
	}

	if err := s.linkRepo.SaveWithExtension(link); err != nil {
		return nil, err
	}
	return link, nil
}

// ReorderLinks assigns display positions following the given id order. The
// whole call fails with ErrForbidden and writes nothing if any id does not
// belong to the caller's profile.
func (s *LinkService) ReorderLinks(userID string, orderedIDs []uint) error {
	profile, err := s.profileRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrProfileNotFound
		}
		return err
	}
	return s.linkRepo.Reorder(profile.ID, orderedIDs)
}

// DeleteLink removes one of the caller's links along with its extension row
// and click history, returning the deleted row.
func (s *LinkService) DeleteLink(userID string, linkID uint) (*models.Link, error) {
	link, err := s.ownedLink(userID, linkID)
	if err != nil {
		return nil, err
	}
	if err := s.linkRepo.Delete(link); err != nil {
		return nil, err
	}
	return link, nil
}

// ownedLink loads a link and verifies it belongs to the caller's profile.
// Links owned by someone else report ErrLinkNotFound so the check does not
// reveal foreign link ids.
func (s *LinkService) ownedLink(userID string, linkID uint) (*models.Link, error) {
	profile, err := s.profileRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, err
	}
	link, err := s.linkRepo.GetByID(linkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrLinkNotFound
		}
		return nil, err
	}
	if link.ProfileID != profile.ID {
		return nil, apperrors.ErrLinkNotFound
	}
	return link, nil
}

func validatePlatformCategory(category string) error {
	if !platformCategories[category] {
		return apperrors.NewValidation("platformCategory", "unknown platform category")
	}
	return nil
}

// validateAbsoluteURL rejects anything that is not an absolute URL with a
// scheme.
func validateAbsoluteURL(field, value string) error {
	parsed, err := url.ParseRequestURI(value)
	if err != nil || parsed.Scheme == "" {
		return apperrors.NewValidation(field, "must be a valid absolute URL")
	}
	return nil
}

// validateOptionalURL is validateAbsoluteURL but accepts the empty string.
func validateOptionalURL(field, value string) error {
	if value == "" {
		return nil
	}
	return validateAbsoluteURL(field, value)
}
