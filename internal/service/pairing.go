package service

import (
	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/models"
	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/store"

	"github.com/google/uuid"
)

// PairingService binds device identifiers to desktops. A pairing proves the
// requesting device sits at the desktop it wants a session on.
type PairingService struct {
	store *store.Store
}

func NewPairingService(st *store.Store) *PairingService {
	return &PairingService{store: st}
}

// Register pairs a device with the desktop identified by its external code.
// Re-registering the same device is an idempotent upsert that refreshes the
// pairing timestamp; a desktop already bound to a different device is a
// conflict. The desktop's code is returned alongside the pairing for caller
// convenience.
func (p *PairingService) Register(desktopCode, deviceUUID string) (*models.DesktopPairing, string, error) {
	if _, err := uuid.Parse(deviceUUID); err != nil {
		return nil, "", ErrInvalidDeviceUUID
	}

	desktop, err := p.store.DesktopByCode(desktopCode)
	if err != nil {
		return nil, "", err
	}
	if desktop == nil {
		return nil, "", ErrDesktopNotFound
	}

	existing, err := p.store.PairingByDesktop(desktop.ID)
	if err != nil {
		return nil, "", err
	}
	if existing != nil && existing.DeviceUUID != deviceUUID {
		return nil, "", ErrDesktopAlreadyPaired
	}

	pairing, err := p.store.UpsertPairing(deviceUUID, desktop.ID)
	if err != nil {
		return nil, "", err
	}
	return pairing, desktop.DesktopCode, nil
}

// ByDevice returns the pairing for a device, or nil if it has none.
func (p *PairingService) ByDevice(deviceUUID string) (*models.DesktopPairing, error) {
	return p.store.PairingByDevice(deviceUUID)
}
