package repository

import (
	"fmt"

	apperrors "github.com/zaplink/zaplink/internal/errors"
	"github.com/zaplink/zaplink/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// linkOrder is the canonical display ordering for every link listing.
// The id tiebreak keeps reads deterministic when sort orders collide
// (new links all start at sort order 0).
const linkOrder = "sort_order ASC, id ASC"

// LinkRepository defines data access for links and their extension rows.
type LinkRepository interface {
	ListByProfile(profileID uint, visibleOnly bool) ([]models.Link, error)
	GetByID(id uint) (*models.Link, error)
	GetAll() ([]models.Link, error)
	Create(link *models.Link) error
	SaveWithExtension(link *models.Link) error
	Reorder(profileID uint, orderedIDs []uint) error
	Delete(link *models.Link) error
}

// GormLinkRepository is the GORM-backed implementation of LinkRepository.
type GormLinkRepository struct {
	db *gorm.DB
}

// NewLinkRepository creates a new GormLinkRepository.
func NewLinkRepository(db *gorm.DB) *GormLinkRepository {
	return &GormLinkRepository{db: db}
}

// ListByProfile returns the profile's links in display order, each joined
// with its extension row. With visibleOnly set, hidden links are excluded.
func (r *GormLinkRepository) ListByProfile(profileID uint, visibleOnly bool) ([]models.Link, error) {
	query := r.db.Where("profile_id = ?", profileID)
	if visibleOnly {
		query = query.Where("is_hidden = ?", false)
	}
	var links []models.Link
	err := query.
		Preload("Platform").Preload("Custom").Preload("Contact").
		Order(linkOrder).
		Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list links for profile %d: %w", profileID, err)
	}
	return links, nil
}

// GetByID fetches one link joined with its extension row.
func (r *GormLinkRepository) GetByID(id uint) (*models.Link, error) {
	var link models.Link
	err := r.db.
		Preload("Platform").Preload("Custom").Preload("Contact").
		First(&link, id).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// GetAll returns every stored link without extension rows. Used by the URL
// health monitor.
func (r *GormLinkRepository) GetAll() ([]models.Link, error) {
	var links []models.Link
	if err := r.db.Find(&links).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve all links: %w", err)
	}
	return links, nil
}

// Create inserts the base link row and its populated extension row as one
// atomic unit. GORM wraps the association inserts in a transaction, so a
// failed extension insert rolls back the base row as well.
func (r *GormLinkRepository) Create(link *models.Link) error {
	if err := r.db.Create(link).Error; err != nil {
		return fmt.Errorf("failed to create link: %w", err)
	}
	return nil
}

// SaveWithExtension persists the base fields of an existing link and upserts
// whichever extension row is attached, in one transaction. The upsert covers
// links that were created without complete extension data.
func (r *GormLinkRepository) SaveWithExtension(link *models.Link) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(link).Error; err != nil {
			return fmt.Errorf("failed to update link %d: %w", link.ID, err)
		}
		upsert := clause.OnConflict{
			Columns:   []clause.Column{{Name: "link_id"}},
			UpdateAll: true,
		}
		if link.Platform != nil {
			if err := tx.Clauses(upsert).Create(link.Platform).Error; err != nil {
				return fmt.Errorf("failed to upsert platform row for link %d: %w", link.ID, err)
			}
		}
		if link.Custom != nil {
			if err := tx.Clauses(upsert).Create(link.Custom).Error; err != nil {
				return fmt.Errorf("failed to upsert custom row for link %d: %w", link.ID, err)
			}
		}
		if link.Contact != nil {
			if err := tx.Clauses(upsert).Create(link.Contact).Error; err != nil {
				return fmt.Errorf("failed to upsert contact row for link %d: %w", link.ID, err)
			}
		}
		return nil
	})
}

// Reorder assigns sortOrder = index for every id in the given order. The
// ownership check runs inside the same transaction as the writes: if any id
// does not belong to the profile the whole call fails with ErrForbidden and
// no sort order changes.
func (r *GormLinkRepository) Reorder(profileID uint, orderedIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if len(orderedIDs) == 0 {
			return nil
		}
		var owned int64
		err := tx.Model(&models.Link{}).
			Where("profile_id = ? AND id IN ?", profileID, orderedIDs).
			Count(&owned).Error
		if err != nil {
			return fmt.Errorf("failed to verify link ownership: %w", err)
		}
		if owned != int64(len(orderedIDs)) {
			return apperrors.ErrForbidden
		}
		for index, id := range orderedIDs {
			err := tx.Model(&models.Link{}).
				Where("id = ?", id).
				Update("sort_order", index).Error
			if err != nil {
				return fmt.Errorf("failed to reorder link %d: %w", id, err)
			}
		}
		return nil
	})
}

// Delete removes the link, its extension row and every analytics event that
// references it, in one transaction. SQLite foreign keys are not relied on
// for cascades; the deletes are issued explicitly.
func (r *GormLinkRepository) Delete(link *models.Link) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, extension := range []interface{}{
			&models.LinkPlatform{}, &models.LinkCustom{}, &models.LinkContact{},
		} {
			if err := tx.Where("link_id = ?", link.ID).Delete(extension).Error; err != nil {
				return fmt.Errorf("failed to delete extension rows for link %d: %w", link.ID, err)
			}
		}
		if err := tx.Where("link_id = ?", link.ID).Delete(&models.AnalyticsEvent{}).Error; err != nil {
			return fmt.Errorf("failed to delete analytics for link %d: %w", link.ID, err)
		}
		if err := tx.Delete(&models.Link{}, link.ID).Error; err != nil {
			return fmt.Errorf("failed to delete link %d: %w", link.ID, err)
		}
		return nil
	})
}
