package models

import "time"

// HealthLog is one periodic agent report for a desktop. Rows are
// ingestion-only; only NetworkStatus feeds back into desktop state.
type HealthLog struct {
	ID            uint `gorm:"primaryKey"`
	DesktopID     uint `gorm:"index;not null"`
	Timestamp     time.Time
	CPUUsage      float64
	RAMUsage      float64
	NetworkStatus string `gorm:"size:32"` // connected / disconnected

	Desktop Desktop `gorm:"constraint:OnDelete:CASCADE"`
}
