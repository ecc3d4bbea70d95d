package models

import "time"

// DesktopPairing binds a physical device (by its generated UUID) to a single
// desktop. Both columns carry a unique index: one device pairs with one
// desktop and one desktop with one device at any instant.
type DesktopPairing struct {
	ID         uint   `gorm:"primaryKey"`
	DeviceUUID string `gorm:"size:64;uniqueIndex;not null"`
	DesktopID  uint   `gorm:"uniqueIndex;not null"`
	PairedAt   time.Time

	Desktop Desktop `gorm:"constraint:OnDelete:CASCADE"`
}
