package service

import (
	"errors"
	"testing"
	"time"

	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/models"
)

const (
	deviceA = "5f0c9a9e-aaaa-4000-8000-000000000001"
	deviceB = "5f0c9a9e-bbbb-4000-8000-000000000002"
)

func TestRegisterPairing_CreatesBinding(t *testing.T) {
	st := newTestStore(t)
	svc := NewPairingService(st)
	desktop := createDesktop(t, st, "LIB-001", models.DesktopAvailable)

	pairing, code, err := svc.Register("LIB-001", deviceA)
	if err != nil {
		t.Fatalf("Register() error = %v, want nil", err)
	}
	if pairing.DesktopID != desktop.ID {
		t.Errorf("pairing desktop = %d, want %d", pairing.DesktopID, desktop.ID)
	}
	if code != "LIB-001" {
		t.Errorf("returned desktop code = %q, want %q", code, "LIB-001")
	}

	found, err := svc.ByDevice(deviceA)
	if err != nil {
		t.Fatalf("ByDevice() error = %v", err)
	}
	if found == nil || found.DesktopID != desktop.ID {
		t.Errorf("ByDevice() = %+v, want binding to desktop %d", found, desktop.ID)
	}
}

func TestRegisterPairing_IdempotentSameDevice(t *testing.T) {
	st := newTestStore(t)
	svc := NewPairingService(st)
	createDesktop(t, st, "LIB-001", models.DesktopAvailable)

	first, _, err := svc.Register("LIB-001", deviceA)
	if err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	second, _, err := svc.Register("LIB-001", deviceA)
	if err != nil {
		t.Fatalf("repeat Register() error = %v, want nil (idempotent)", err)
	}
	if second.ID != first.ID {
		t.Errorf("repeat Register() created row %d, want same row %d", second.ID, first.ID)
	}
	if !second.PairedAt.After(first.PairedAt) {
		t.Error("repeat Register() should refresh the pairing timestamp")
	}
}

func TestRegisterPairing_ConflictOtherDevice(t *testing.T) {
	st := newTestStore(t)
	svc := NewPairingService(st)
	createDesktop(t, st, "LIB-001", models.DesktopAvailable)

	if _, _, err := svc.Register("LIB-001", deviceA); err != nil {
		t.Fatalf("seed Register() error = %v", err)
	}

	_, _, err := svc.Register("LIB-001", deviceB)
	if !errors.Is(err, ErrDesktopAlreadyPaired) {
		t.Errorf("Register() on taken desktop error = %v, want ErrDesktopAlreadyPaired", err)
	}
}

func TestRegisterPairing_DeviceMovesToNewDesktop(t *testing.T) {
	st := newTestStore(t)
	svc := NewPairingService(st)
	createDesktop(t, st, "LIB-001", models.DesktopAvailable)
	d2 := createDesktop(t, st, "LIB-002", models.DesktopAvailable)

	if _, _, err := svc.Register("LIB-001", deviceA); err != nil {
		t.Fatalf("seed Register() error = %v", err)
	}

	// the same device may re-pair to a free desktop, releasing the old one
	pairing, _, err := svc.Register("LIB-002", deviceA)
	if err != nil {
		t.Fatalf("re-pair Register() error = %v", err)
	}
	if pairing.DesktopID != d2.ID {
		t.Errorf("pairing desktop = %d, want %d", pairing.DesktopID, d2.ID)
	}

	// LIB-001 is free for another device now
	if _, _, err := svc.Register("LIB-001", deviceB); err != nil {
		t.Errorf("Register() on released desktop error = %v, want nil", err)
	}
}

func TestRegisterPairing_UnknownDesktop(t *testing.T) {
	st := newTestStore(t)
	svc := NewPairingService(st)

	_, _, err := svc.Register("NO-SUCH", deviceA)
	if !errors.Is(err, ErrDesktopNotFound) {
		t.Errorf("Register() error = %v, want ErrDesktopNotFound", err)
	}
}

func TestRegisterPairing_InvalidDeviceUUID(t *testing.T) {
	st := newTestStore(t)
	svc := NewPairingService(st)
	createDesktop(t, st, "LIB-001", models.DesktopAvailable)

	for _, device := range []string{"", "not-a-uuid", "12345"} {
		_, _, err := svc.Register("LIB-001", device)
		if !errors.Is(err, ErrInvalidDeviceUUID) {
			t.Errorf("Register(device=%q) error = %v, want ErrInvalidDeviceUUID", device, err)
		}
	}
}
