package models

import "time"

// Session is a time-bounded reservation binding one student to one desktop.
// An active session has IsActive=true and a nil EndTime; termination (explicit
// end or detected expiry) sets both fields and never deletes the row.
type Session struct {
	ID              uint `gorm:"primaryKey"`
	StudentID       uint `gorm:"index;not null"`
	DesktopID       uint `gorm:"index;not null"`
	StartTime       time.Time
	EndTime         *time.Time
	IsActive        bool `gorm:"index;not null"`
	DurationMinutes int  `gorm:"default:60"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Student Student `gorm:"constraint:OnDelete:CASCADE"`
	Desktop Desktop `gorm:"constraint:OnDelete:CASCADE"`
}
