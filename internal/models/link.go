package models

import "time"

// Link types.
const (
	LinkTypeCustom   = "custom"
	LinkTypePlatform = "platform"
	LinkTypeContact  = "contact"
	LinkTypeEmbed    = "embed"
)

// Display modes for custom links.
const (
	DisplayModeStandard = "standard"
	DisplayModeFeatured = "featured"
	DisplayModeGrid     = "grid"
)

// Platform categories.
const (
	PlatformCategorySocial        = "social"
	PlatformCategoryBusiness      = "business"
	PlatformCategoryMusic         = "music"
	PlatformCategoryEntertainment = "entertainment"
	PlatformCategoryLifestyle     = "lifestyle"
	PlatformCategoryNews          = "news"
)

// Link is one item in a profile's ordered list. The Type field selects which
// extension row (Platform, Custom or Contact) carries the type-specific data;
// a link has at most one extension row and it must match Type. Display order
// is sortOrder ascending with the id as tiebreak.
type Link struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProfileID uint   `gorm:"index;not null" json:"profileId"`
	Type      string `gorm:"size:10;not null;default:custom" json:"type"`
	Title     string `gorm:"size:200;not null" json:"title"`
	URL       string `gorm:"not null" json:"url"`
	SortOrder int    `gorm:"not null;default:0" json:"sortOrder"`
	IsHidden  bool   `gorm:"not null;default:false" json:"isHidden"`

	Platform *LinkPlatform `gorm:"foreignKey:LinkID" json:"platform,omitempty"`
	Custom   *LinkCustom   `gorm:"foreignKey:LinkID" json:"custom,omitempty"`
	Contact  *LinkContact  `gorm:"foreignKey:LinkID" json:"contact,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LinkPlatform holds the extension data for platform links (a known social
// or content platform such as instagram or youtube).
type LinkPlatform struct {
	LinkID   uint   `gorm:"primaryKey" json:"linkId"`
	Name     string `gorm:"size:50;not null" json:"name"`
	Category string `gorm:"size:20;default:social" json:"category"`
	IconURL  string `json:"iconUrl"`
}

// LinkCustom holds the extension data for custom links.
type LinkCustom struct {
	LinkID       uint   `gorm:"primaryKey" json:"linkId"`
	DisplayMode  string `gorm:"size:10;default:standard" json:"displayMode"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// LinkContact holds the extension data for contact links (email, phone,
// website and similar direct actions).
type LinkContact struct {
	LinkID       uint   `gorm:"primaryKey" json:"linkId"`
	ContactType  string `gorm:"size:20;not null" json:"contactType"`
	ContactValue string `gorm:"size:255;not null" json:"contactValue"`
}
