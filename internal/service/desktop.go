package service

import (
	"time"

	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/models"
	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/store"
)

// DesktopService tracks desktop availability state. Status transitions are
// driven by the session lifecycle, by admin updates and by agent heartbeats.
type DesktopService struct {
	store *store.Store
}

func NewDesktopService(st *store.Store) *DesktopService {
	return &DesktopService{store: st}
}

func (d *DesktopService) List(skip, limit int) ([]models.Desktop, error) {
	return d.store.ListDesktops(skip, limit)
}

func (d *DesktopService) Create(code, ipAddress, macAddress, status string) (*models.Desktop, error) {
	if status == "" {
		status = models.DesktopOffline
	}
	if !models.ValidDesktopStatus(status) {
		return nil, ErrInvalidStatus
	}
	desktop := &models.Desktop{
		DesktopCode:   code,
		IPAddress:     ipAddress,
		MACAddress:    macAddress,
		Status:        status,
		LastHeartbeat: time.Now().UTC(),
	}
	if err := d.store.CreateDesktop(desktop); err != nil {
		return nil, err
	}
	return desktop, nil
}

func (d *DesktopService) Delete(id uint) error {
	deleted, err := d.store.DeleteDesktop(id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrDesktopNotFound
	}
	return nil
}

// SetStatus validates the value against the closed status set and applies it.
func (d *DesktopService) SetStatus(id uint, status string) (*models.Desktop, error) {
	if !models.ValidDesktopStatus(status) {
		return nil, ErrInvalidStatus
	}
	desktop, err := d.store.DesktopByID(id)
	if err != nil {
		return nil, err
	}
	if desktop == nil {
		return nil, ErrDesktopNotFound
	}
	if err := d.store.SetDesktopStatus(id, status); err != nil {
		return nil, err
	}
	return d.store.DesktopByID(id)
}

// ApplyHealthReport records an agent report and maps its network status onto
// desktop state: "connected" means available, anything else offline. The
// overwrite does not consult session state, so a busy desktop is reset too.
func (d *DesktopService) ApplyHealthReport(desktopID uint, cpuUsage, ramUsage float64, networkStatus string) error {
	desktop, err := d.store.DesktopByID(desktopID)
	if err != nil {
		return err
	}
	if desktop == nil {
		return ErrDesktopNotFound
	}

	if err := d.store.CreateHealthLog(&models.HealthLog{
		DesktopID:     desktopID,
		Timestamp:     time.Now().UTC(),
		CPUUsage:      cpuUsage,
		RAMUsage:      ramUsage,
		NetworkStatus: networkStatus,
	}); err != nil {
		return err
	}

	status := models.DesktopOffline
	if networkStatus == "connected" {
		status = models.DesktopAvailable
	}
	return d.store.SetDesktopStatus(desktopID, status)
}
