package service

import (
	"time"

	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/models"
	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/store"

	"gorm.io/gorm"
)

// Duration bounds for a session, in minutes.
const (
	MinSessionMinutes = 15
	MaxSessionMinutes = 240
)

// SessionService owns the session lifecycle: creation, explicit termination
// and lazy expiry. Expiry is discovered, not scheduled; there is no
// background sweeper. A session past its duration stays active in storage
// until the next read touches it, at which point it is terminated and its
// desktop released as a side effect of that read.
type SessionService struct {
	store *store.Store
	locks *keyedMutex
}

func NewSessionService(st *store.Store) *SessionService {
	return &SessionService{store: st, locks: newKeyedMutex()}
}

// Start creates a session for the student on the given desktop.
//
// Preconditions, checked in order: the student has no active session, the
// desktop exists, a non-admin caller's device is paired to that desktop, and
// the desktop is available. The session row and the desktop's busy status are
// committed in one transaction, and the whole operation is serialized per
// student and per desktop.
func (s *SessionService) Start(studentID, desktopID uint, durationMinutes int, deviceUUID string, isAdmin bool) (*models.Session, error) {
	if durationMinutes < MinSessionMinutes || durationMinutes > MaxSessionMinutes {
		return nil, ErrDurationOutOfRange
	}

	unlockStudent := s.locks.lock(studentKey(studentID))
	defer unlockStudent()

	active, err := s.activeForStudentLocked(studentID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrActiveSessionExists
	}

	desktop, err := s.store.DesktopByID(desktopID)
	if err != nil {
		return nil, err
	}
	if desktop == nil {
		return nil, ErrDesktopNotFound
	}

	if !isAdmin {
		if deviceUUID == "" {
			return nil, ErrDeviceRequired
		}
		pairing, err := s.store.PairingByDevice(deviceUUID)
		if err != nil {
			return nil, err
		}
		if pairing == nil || pairing.DesktopID != desktop.ID {
			return nil, ErrDeviceNotPaired
		}
	}

	unlockDesktop := s.locks.lock(desktopKey(desktop.ID))
	defer unlockDesktop()

	// re-read status under the desktop lock
	desktop, err = s.store.DesktopByID(desktopID)
	if err != nil {
		return nil, err
	}
	if desktop == nil {
		return nil, ErrDesktopNotFound
	}
	if desktop.Status != models.DesktopAvailable {
		return nil, ErrDesktopUnavailable
	}

	sess := &models.Session{
		StudentID:       studentID,
		DesktopID:       desktop.ID,
		StartTime:       time.Now().UTC(),
		IsActive:        true,
		DurationMinutes: durationMinutes,
	}
	err = s.store.DB.Transaction(func(tx *gorm.DB) error {
		ts := s.store.WithTx(tx)
		if err := ts.CreateSession(sess); err != nil {
			return err
		}
		return ts.SetDesktopStatus(desktop.ID, models.DesktopBusy)
	})
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// End terminates a session on behalf of its owner or an administrator. The
// terminal effect is the same as expiry: end time set, inactive, desktop back
// to available.
func (s *SessionService) End(sessionID, callerID uint, isAdmin bool) (*models.Session, error) {
	sess, err := s.store.SessionByID(sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	if sess.StudentID != callerID && !isAdmin {
		return nil, ErrNotSessionOwner
	}

	unlockStudent := s.locks.lock(studentKey(sess.StudentID))
	defer unlockStudent()
	unlockDesktop := s.locks.lock(desktopKey(sess.DesktopID))
	defer unlockDesktop()

	// re-read under the locks
	sess, err = s.store.SessionByID(sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}

	if err := s.terminate(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// ActiveForStudent returns the student's active session, first resolving
// expiry: a session past its duration is terminated here and nil is returned
// instead of the stale row.
func (s *SessionService) ActiveForStudent(studentID uint) (*models.Session, error) {
	unlockStudent := s.locks.lock(studentKey(studentID))
	defer unlockStudent()
	return s.activeForStudentLocked(studentID)
}

func (s *SessionService) activeForStudentLocked(studentID uint) (*models.Session, error) {
	sess, err := s.store.ActiveSessionForStudent(studentID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}
	if s.expired(sess, time.Now().UTC()) {
		unlockDesktop := s.locks.lock(desktopKey(sess.DesktopID))
		err := s.terminate(sess)
		unlockDesktop()
		if err != nil {
			return nil, err
		}
		return nil, nil
	}
	return sess, nil
}

// ListActive returns all active sessions, expiring stale ones along the way
// and omitting them from the result.
func (s *SessionService) ListActive() ([]models.Session, error) {
	sessions, err := s.store.ActiveSessions()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	active := make([]models.Session, 0, len(sessions))
	for _, sess := range sessions {
		if s.expired(&sess, now) {
			unlockStudent := s.locks.lock(studentKey(sess.StudentID))
			unlockDesktop := s.locks.lock(desktopKey(sess.DesktopID))
			err := s.terminate(&sess)
			unlockDesktop()
			unlockStudent()
			if err != nil {
				return nil, err
			}
			continue
		}
		active = append(active, sess)
	}
	return active, nil
}

// Counts returns total and active session counts for analytics. The active
// count runs through ListActive so it reflects lazy expiry.
func (s *SessionService) Counts() (total, active int64, err error) {
	total, err = s.store.CountSessions()
	if err != nil {
		return 0, 0, err
	}
	sessions, err := s.ListActive()
	if err != nil {
		return 0, 0, err
	}
	return total, int64(len(sessions)), nil
}

// expired reports whether an active session has outlived its duration.
func (s *SessionService) expired(sess *models.Session, now time.Time) bool {
	if !sess.IsActive {
		return false
	}
	minutes := sess.DurationMinutes
	if minutes <= 0 {
		minutes = 60
	}
	deadline := sess.StartTime.Add(time.Duration(minutes) * time.Minute)
	return !now.Before(deadline)
}

// terminate applies the terminal transition and releases the desktop, both in
// one transaction. Callers hold the relevant locks.
func (s *SessionService) terminate(sess *models.Session) error {
	now := time.Now().UTC()
	err := s.store.DB.Transaction(func(tx *gorm.DB) error {
		ts := s.store.WithTx(tx)
		if err := ts.FinishSession(sess.ID, now); err != nil {
			return err
		}
		return ts.SetDesktopStatus(sess.DesktopID, models.DesktopAvailable)
	})
	if err != nil {
		return err
	}
	sess.IsActive = false
	sess.EndTime = &now
	return nil
}
