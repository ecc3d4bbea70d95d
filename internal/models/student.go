package models

import "time"

// Student represents a registered user identified by a university ID
// such as "ugr/32337/15".
type Student struct {
	ID             uint   `gorm:"primaryKey"`
	StudentID      string `gorm:"size:32;uniqueIndex;not null"`
	Name           string `gorm:"size:64;not null"`
	Email          string `gorm:"size:128;uniqueIndex;not null"`
	HashedPassword string `gorm:"size:255;not null"`
	IsAdmin        bool   `gorm:"default:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
