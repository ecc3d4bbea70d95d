package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/models"

	"gorm.io/gorm"
)

// Store is the persistence gateway for all records. Lookups return (nil, nil)
// when no row matches; only real storage failures produce an error. State
// decisions (expiry, availability, pairing rules) live in the service layer,
// not here.
type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// WithTx returns a Store bound to the given transaction handle.
func (s *Store) WithTx(tx *gorm.DB) *Store {
	return &Store{DB: tx}
}

// ---------- students ----------

func (s *Store) StudentByID(id uint) (*models.Student, error) {
	var st models.Student
	if err := s.DB.First(&st, id).Error; err != nil {
		return nil, ignoreNotFound(err, "query student")
	}
	return &st, nil
}

func (s *Store) StudentByEmail(email string) (*models.Student, error) {
	var st models.Student
	if err := s.DB.Where("LOWER(email) = LOWER(?)", email).First(&st).Error; err != nil {
		return nil, ignoreNotFound(err, "query student by email")
	}
	return &st, nil
}

// StudentByExternalID looks up a student by their university ID string.
func (s *Store) StudentByExternalID(studentID string) (*models.Student, error) {
	var st models.Student
	if err := s.DB.Where("LOWER(student_id) = LOWER(?)", studentID).First(&st).Error; err != nil {
		return nil, ignoreNotFound(err, "query student by student id")
	}
	return &st, nil
}

func (s *Store) CreateStudent(st *models.Student) error {
	if err := s.DB.Create(st).Error; err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

func (s *Store) ListStudents(skip, limit int) ([]models.Student, error) {
	var students []models.Student
	if err := s.DB.Offset(skip).Limit(limit).Find(&students).Error; err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// ---------- desktops ----------

func (s *Store) DesktopByID(id uint) (*models.Desktop, error) {
	var d models.Desktop
	if err := s.DB.First(&d, id).Error; err != nil {
		return nil, ignoreNotFound(err, "query desktop")
	}
	return &d, nil
}

func (s *Store) DesktopByCode(code string) (*models.Desktop, error) {
	var d models.Desktop
	if err := s.DB.Where("desktop_code = ?", code).First(&d).Error; err != nil {
		return nil, ignoreNotFound(err, "query desktop by code")
	}
	return &d, nil
}

func (s *Store) ListDesktops(skip, limit int) ([]models.Desktop, error) {
	var desktops []models.Desktop
	if err := s.DB.Offset(skip).Limit(limit).Find(&desktops).Error; err != nil {
		return nil, fmt.Errorf("list desktops: %w", err)
	}
	return desktops, nil
}

func (s *Store) CreateDesktop(d *models.Desktop) error {
	if err := s.DB.Create(d).Error; err != nil {
		return fmt.Errorf("create desktop: %w", err)
	}
	return nil
}

// DeleteDesktop removes a desktop and reports whether a row existed.
func (s *Store) DeleteDesktop(id uint) (bool, error) {
	res := s.DB.Delete(&models.Desktop{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete desktop: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// SetDesktopStatus updates the status column and refreshes the heartbeat
// timestamp, mirroring how agent status reports always carry both.
func (s *Store) SetDesktopStatus(id uint, status string) error {
	res := s.DB.Model(&models.Desktop{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":         status,
		"last_heartbeat": time.Now().UTC(),
	})
	if res.Error != nil {
		return fmt.Errorf("set desktop status: %w", res.Error)
	}
	return nil
}

func (s *Store) TouchHeartbeat(id uint) error {
	res := s.DB.Model(&models.Desktop{}).Where("id = ?", id).
		Update("last_heartbeat", time.Now().UTC())
	if res.Error != nil {
		return fmt.Errorf("touch heartbeat: %w", res.Error)
	}
	return nil
}

// DesktopStats returns desktop totals grouped by status for the admin
// analytics endpoint.
func (s *Store) DesktopStats() (map[string]int64, error) {
	var total int64
	if err := s.DB.Model(&models.Desktop{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count desktops: %w", err)
	}
	stats := map[string]int64{"total": total}
	for _, status := range []string{models.DesktopAvailable, models.DesktopBusy, models.DesktopOffline, models.DesktopMaintenance} {
		var n int64
		if err := s.DB.Model(&models.Desktop{}).Where("status = ?", status).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("count desktops by status: %w", err)
		}
		stats[status] = n
	}
	return stats, nil
}

// ---------- sessions ----------

func (s *Store) SessionByID(id uint) (*models.Session, error) {
	var sess models.Session
	if err := s.DB.First(&sess, id).Error; err != nil {
		return nil, ignoreNotFound(err, "query session")
	}
	return &sess, nil
}

// ActiveSessionForStudent returns the student's active session row as stored.
// Expiry is not applied here; callers go through the session service, which
// resolves stale rows before acting on them.
func (s *Store) ActiveSessionForStudent(studentID uint) (*models.Session, error) {
	var sess models.Session
	err := s.DB.Where("student_id = ? AND is_active = ?", studentID, true).First(&sess).Error
	if err != nil {
		return nil, ignoreNotFound(err, "query active session")
	}
	return &sess, nil
}

func (s *Store) ActiveSessions() ([]models.Session, error) {
	var sessions []models.Session
	if err := s.DB.Where("is_active = ?", true).Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("list active sessions: %w", err)
	}
	return sessions, nil
}

// ListSessions returns session history with student and desktop preloaded,
// newest first.
func (s *Store) ListSessions(skip, limit int) ([]models.Session, error) {
	var sessions []models.Session
	err := s.DB.Preload("Student").Preload("Desktop").
		Order("start_time DESC").Offset(skip).Limit(limit).Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

func (s *Store) CreateSession(sess *models.Session) error {
	if err := s.DB.Create(sess).Error; err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// FinishSession marks a session terminated at the given instant.
func (s *Store) FinishSession(id uint, endedAt time.Time) error {
	res := s.DB.Model(&models.Session{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_active": false,
		"end_time":  endedAt,
	})
	if res.Error != nil {
		return fmt.Errorf("finish session: %w", res.Error)
	}
	return nil
}

func (s *Store) CountSessions() (int64, error) {
	var n int64
	if err := s.DB.Model(&models.Session{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

// ---------- pairings ----------

func (s *Store) PairingByDevice(deviceUUID string) (*models.DesktopPairing, error) {
	var p models.DesktopPairing
	if err := s.DB.Where("device_uuid = ?", deviceUUID).First(&p).Error; err != nil {
		return nil, ignoreNotFound(err, "query pairing by device")
	}
	return &p, nil
}

func (s *Store) PairingByDesktop(desktopID uint) (*models.DesktopPairing, error) {
	var p models.DesktopPairing
	if err := s.DB.Where("desktop_id = ?", desktopID).First(&p).Error; err != nil {
		return nil, ignoreNotFound(err, "query pairing by desktop")
	}
	return &p, nil
}

// UpsertPairing creates the device's pairing row or rebinds the existing one,
// refreshing its timestamp either way.
func (s *Store) UpsertPairing(deviceUUID string, desktopID uint) (*models.DesktopPairing, error) {
	existing, err := s.PairingByDevice(deviceUUID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if existing != nil {
		existing.DesktopID = desktopID
		existing.PairedAt = now
		if err := s.DB.Save(existing).Error; err != nil {
			return nil, fmt.Errorf("update pairing: %w", err)
		}
		return existing, nil
	}
	p := &models.DesktopPairing{DeviceUUID: deviceUUID, DesktopID: desktopID, PairedAt: now}
	if err := s.DB.Create(p).Error; err != nil {
		return nil, fmt.Errorf("create pairing: %w", err)
	}
	return p, nil
}

// ---------- health logs ----------

func (s *Store) CreateHealthLog(l *models.HealthLog) error {
	if err := s.DB.Create(l).Error; err != nil {
		return fmt.Errorf("create health log: %w", err)
	}
	return nil
}

func ignoreNotFound(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
