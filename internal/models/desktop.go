package models

import "time"

// Desktop statuses form a closed set; any other value is rejected at the
// boundary rather than coerced.
const (
	DesktopOffline     = "offline"
	DesktopAvailable   = "available"
	DesktopBusy        = "busy"
	DesktopMaintenance = "maintenance"
)

// ValidDesktopStatus reports whether s is one of the four known statuses.
func ValidDesktopStatus(s string) bool {
	switch s {
	case DesktopOffline, DesktopAvailable, DesktopBusy, DesktopMaintenance:
		return true
	}
	return false
}

// Desktop is a bookable physical machine in the pool.
type Desktop struct {
	ID            uint   `gorm:"primaryKey"`
	DesktopCode   string `gorm:"size:32;uniqueIndex;not null"` // e.g. "LIB-001"
	IPAddress     string `gorm:"size:64;not null"`
	MACAddress    string `gorm:"size:64"`
	Status        string `gorm:"size:16;index;default:offline"`
	LastHeartbeat time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
