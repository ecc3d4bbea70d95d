package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/models"
	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/store"
)

// ==================== start ====================

func TestStartSession_SetsDesktopBusy(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st)
	student := createStudent(t, st, "ugr/10001/21", true)
	desktop := createDesktop(t, st, "LIB-001", models.DesktopAvailable)

	sess, err := svc.Start(student.ID, desktop.ID, 60, "", true)
	if err != nil {
		t.Fatalf("Start() error = %v, want nil", err)
	}
	if !sess.IsActive {
		t.Error("new session should be active")
	}
	if sess.EndTime != nil {
		t.Error("new session should have nil end time")
	}
	if got := desktopStatus(t, st, desktop.ID); got != models.DesktopBusy {
		t.Errorf("desktop status = %q, want %q", got, models.DesktopBusy)
	}
}

func TestStartSession_DurationOutOfRange(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st)
	student := createStudent(t, st, "ugr/10002/21", true)
	desktop := createDesktop(t, st, "LIB-001", models.DesktopAvailable)

	for _, minutes := range []int{0, 14, 241, -30} {
		_, err := svc.Start(student.ID, desktop.ID, minutes, "", true)
		if !errors.Is(err, ErrDurationOutOfRange) {
			t.Errorf("Start(duration=%d) error = %v, want ErrDurationOutOfRange", minutes, err)
		}
	}

	// no record may exist after a rejected duration
	count, err := st.CountSessions()
	if err != nil {
		t.Fatalf("count sessions: %v", err)
	}
	if count != 0 {
		t.Errorf("session count = %d, want 0", count)
	}

	// boundaries are accepted
	if _, err := svc.Start(student.ID, desktop.ID, 15, "", true); err != nil {
		t.Errorf("Start(duration=15) error = %v, want nil", err)
	}
}

func TestStartSession_SecondSessionRejected(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st)
	student := createStudent(t, st, "ugr/10003/21", true)
	d1 := createDesktop(t, st, "LIB-001", models.DesktopAvailable)
	d2 := createDesktop(t, st, "LIB-002", models.DesktopAvailable)

	if _, err := svc.Start(student.ID, d1.ID, 60, "", true); err != nil {
		t.Fatalf("first Start() error = %v", err)
	}
	_, err := svc.Start(student.ID, d2.ID, 60, "", true)
	if !errors.Is(err, ErrActiveSessionExists) {
		t.Errorf("second Start() error = %v, want ErrActiveSessionExists", err)
	}
}

func TestStartSession_DesktopNotFound(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st)
	student := createStudent(t, st, "ugr/10004/21", true)

	_, err := svc.Start(student.ID, 999, 60, "", true)
	if !errors.Is(err, ErrDesktopNotFound) {
		t.Errorf("Start() error = %v, want ErrDesktopNotFound", err)
	}
}

func TestStartSession_DesktopUnavailable(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st)
	student := createStudent(t, st, "ugr/10005/21", true)

	for _, status := range []string{models.DesktopOffline, models.DesktopBusy, models.DesktopMaintenance} {
		desktop := createDesktop(t, st, "LIB-"+status, status)
		_, err := svc.Start(student.ID, desktop.ID, 60, "", true)
		if !errors.Is(err, ErrDesktopUnavailable) {
			t.Errorf("Start() on %s desktop error = %v, want ErrDesktopUnavailable", status, err)
		}
	}
}

// ==================== pairing gate ====================

func TestStartSession_PairingGate(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st)
	student := createStudent(t, st, "ugr/10006/21", false)
	desktop := createDesktop(t, st, "LIB-001", models.DesktopAvailable)
	other := createDesktop(t, st, "LIB-002", models.DesktopAvailable)

	const device = "5f0c9a9e-0000-4000-8000-000000000001"
	if _, err := st.UpsertPairing(device, other.ID); err != nil {
		t.Fatalf("seed pairing: %v", err)
	}

	// no device identifier at all
	_, err := svc.Start(student.ID, desktop.ID, 60, "", false)
	if !errors.Is(err, ErrDeviceRequired) {
		t.Errorf("Start() without device error = %v, want ErrDeviceRequired", err)
	}

	// device paired to a different desktop
	_, err = svc.Start(student.ID, desktop.ID, 60, device, false)
	if !errors.Is(err, ErrDeviceNotPaired) {
		t.Errorf("Start() with foreign pairing error = %v, want ErrDeviceNotPaired", err)
	}

	// unknown device
	_, err = svc.Start(student.ID, desktop.ID, 60, "5f0c9a9e-0000-4000-8000-00000000dead", false)
	if !errors.Is(err, ErrDeviceNotPaired) {
		t.Errorf("Start() with unknown device error = %v, want ErrDeviceNotPaired", err)
	}

	// correctly paired device passes
	if _, err := st.UpsertPairing(device, desktop.ID); err != nil {
		t.Fatalf("rebind pairing: %v", err)
	}
	if _, err := svc.Start(student.ID, desktop.ID, 60, device, false); err != nil {
		t.Errorf("Start() with matching pairing error = %v, want nil", err)
	}
}

func TestStartSession_AdminBypassesPairing(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st)
	admin := createStudent(t, st, "ugr/10007/21", true)
	desktop := createDesktop(t, st, "LIB-001", models.DesktopAvailable)

	if _, err := svc.Start(admin.ID, desktop.ID, 60, "", true); err != nil {
		t.Errorf("admin Start() without device error = %v, want nil", err)
	}
}

// ==================== lazy expiry ====================

// backdate rewrites a session's start time so it is already past its duration.
func backdate(t *testing.T, st *store.Store, sessionID uint, minutesAgo int) {
	t.Helper()
	err := st.DB.Model(&models.Session{}).Where("id = ?", sessionID).
		Update("start_time", time.Now().UTC().Add(-time.Duration(minutesAgo)*time.Minute)).Error
	if err != nil {
		t.Fatalf("backdate session: %v", err)
	}
}

func TestActiveForStudent_ExpiresStaleSession(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st)
	student := createStudent(t, st, "ugr/10008/21", true)
	desktop := createDesktop(t, st, "LIB-001", models.DesktopAvailable)

	sess, err := svc.Start(student.ID, desktop.ID, 15, "", true)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	backdate(t, st, sess.ID, 16)

	got, err := svc.ActiveForStudent(student.ID)
	if err != nil {
		t.Fatalf("ActiveForStudent() error = %v", err)
	}
	if got != nil {
		t.Errorf("ActiveForStudent() = %+v, want nil after expiry", got)
	}

	// the read terminated the session and released the desktop
	stored, err := st.SessionByID(sess.ID)
	if err != nil {
		t.Fatalf("query session: %v", err)
	}
	if stored.IsActive {
		t.Error("expired session still active in storage")
	}
	if stored.EndTime == nil {
		t.Error("expired session has no end time")
	}
	if got := desktopStatus(t, st, desktop.ID); got != models.DesktopAvailable {
		t.Errorf("desktop status = %q, want %q", got, models.DesktopAvailable)
	}
}

func TestActiveForStudent_KeepsFreshSession(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st)
	student := createStudent(t, st, "ugr/10009/21", true)
	desktop := createDesktop(t, st, "LIB-001", models.DesktopAvailable)

	sess, err := svc.Start(student.ID, desktop.ID, 60, "", true)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	got, err := svc.ActiveForStudent(student.ID)
	if err != nil {
		t.Fatalf("ActiveForStudent() error = %v", err)
	}
	if got == nil || got.ID != sess.ID {
		t.Errorf("ActiveForStudent() = %+v, want session %d", got, sess.ID)
	}
}

func TestListActive_OmitsExpired(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st)
	s1 := createStudent(t, st, "ugr/10010/21", true)
	s2 := createStudent(t, st, "ugr/10011/21", true)
	d1 := createDesktop(t, st, "LIB-001", models.DesktopAvailable)
	d2 := createDesktop(t, st, "LIB-002", models.DesktopAvailable)

	stale, err := svc.Start(s1.ID, d1.ID, 15, "", true)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	fresh, err := svc.Start(s2.ID, d2.ID, 60, "", true)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	backdate(t, st, stale.ID, 20)

	active, err := svc.ListActive()
	if err != nil {
		t.Fatalf("ListActive() error = %v", err)
	}
	if len(active) != 1 || active[0].ID != fresh.ID {
		t.Errorf("ListActive() = %d sessions, want only session %d", len(active), fresh.ID)
	}
	if got := desktopStatus(t, st, d1.ID); got != models.DesktopAvailable {
		t.Errorf("expired session's desktop status = %q, want %q", got, models.DesktopAvailable)
	}
	if got := desktopStatus(t, st, d2.ID); got != models.DesktopBusy {
		t.Errorf("fresh session's desktop status = %q, want %q", got, models.DesktopBusy)
	}
}

// ==================== end ====================

func TestEndSession_ByOwner(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st)
	student := createStudent(t, st, "ugr/10012/21", true)
	desktop := createDesktop(t, st, "LIB-001", models.DesktopAvailable)

	sess, err := svc.Start(student.ID, desktop.ID, 60, "", true)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	ended, err := svc.End(sess.ID, student.ID, false)
	if err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if ended.IsActive {
		t.Error("ended session still active")
	}
	if ended.EndTime == nil {
		t.Error("ended session has no end time")
	}
	if got := desktopStatus(t, st, desktop.ID); got != models.DesktopAvailable {
		t.Errorf("desktop status = %q, want %q", got, models.DesktopAvailable)
	}
}

func TestEndSession_StrangerForbidden(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st)
	owner := createStudent(t, st, "ugr/10013/21", true)
	stranger := createStudent(t, st, "ugr/10014/21", false)
	desktop := createDesktop(t, st, "LIB-001", models.DesktopAvailable)

	sess, err := svc.Start(owner.ID, desktop.ID, 60, "", true)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	_, err = svc.End(sess.ID, stranger.ID, false)
	if !errors.Is(err, ErrNotSessionOwner) {
		t.Errorf("End() by stranger error = %v, want ErrNotSessionOwner", err)
	}

	// admin may end anyone's session
	if _, err := svc.End(sess.ID, stranger.ID, true); err != nil {
		t.Errorf("End() by admin error = %v, want nil", err)
	}
}

func TestEndSession_NotFound(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st)

	_, err := svc.End(42, 1, true)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("End() error = %v, want ErrSessionNotFound", err)
	}
}

// ==================== concurrency ====================

func TestStartSession_ConcurrentSameStudent(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st)
	student := createStudent(t, st, "ugr/10015/21", true)

	const n = 8
	desktops := make([]*models.Desktop, n)
	for i := 0; i < n; i++ {
		desktops[i] = createDesktop(t, st, "LIB-00"+string(rune('0'+i)), models.DesktopAvailable)
	}

	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(desktopID uint) {
			defer wg.Done()
			_, err := svc.Start(student.ID, desktopID, 60, "", true)
			results <- err
		}(desktops[i].ID)
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
		} else if !errors.Is(err, ErrActiveSessionExists) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Errorf("concurrent starts for one student: %d succeeded, want exactly 1", successes)
	}
}

func TestStartSession_ConcurrentSameDesktop(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st)
	desktop := createDesktop(t, st, "LIB-001", models.DesktopAvailable)

	const n = 8
	students := make([]*models.Student, n)
	for i := 0; i < n; i++ {
		students[i] = createStudent(t, st, "ugr/2000"+string(rune('0'+i))+"/21", true)
	}

	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(studentID uint) {
			defer wg.Done()
			_, err := svc.Start(studentID, desktop.ID, 60, "", true)
			results <- err
		}(students[i].ID)
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
		} else if !errors.Is(err, ErrDesktopUnavailable) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Errorf("concurrent starts on one desktop: %d succeeded, want exactly 1", successes)
	}
}
