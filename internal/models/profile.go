package models

import "time"

// Support banner values a profile can display above its link list.
const (
	SupportBannerNone             = "none"
	SupportBannerStopGenocide     = "stop_genocide"
	SupportBannerBlackLivesMatter = "black_lives_matter"
	SupportBannerClimateAction    = "climate_action"
	SupportBannerMentalHealth     = "mental_health"
)

// Profile is the public identity container for one owner. UserID comes from
// the upstream session provider; at most one profile exists per owner, and
// usernames are globally unique (enforced by the unique index).
type Profile struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      string `gorm:"size:64;uniqueIndex;not null" json:"userId"`
	Username    string `gorm:"size:30;uniqueIndex;not null" json:"username"`
	DisplayName string `gorm:"size:30" json:"displayName"`
	Bio         string `gorm:"size:500" json:"bio"`

	// Avatar/banner images live in external object storage; only the
	// resolved URLs are kept here.
	AvatarURL     string `json:"avatarUrl"`
	BannerURL     string `json:"bannerUrl"`
	SupportBanner string `gorm:"size:30;default:none" json:"supportBanner"`

	OnboardingCompletedAt *time.Time `json:"onboardingCompletedAt"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}
