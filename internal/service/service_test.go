package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/models"
	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/store"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestStore opens a fresh in-memory database per test.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	// single connection: in-memory sqlite rejects concurrent writers
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Student{},
		&models.Desktop{},
		&models.Session{},
		&models.DesktopPairing{},
		&models.HealthLog{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return store.New(db)
}

func createStudent(t *testing.T, st *store.Store, studentID string, admin bool) *models.Student {
	t.Helper()
	s := &models.Student{
		StudentID:      studentID,
		Name:           "Test Student",
		Email:          studentID + "@example.edu",
		HashedPassword: "x",
		IsAdmin:        admin,
	}
	if err := st.CreateStudent(s); err != nil {
		t.Fatalf("create student: %v", err)
	}
	return s
}

func createDesktop(t *testing.T, st *store.Store, code, status string) *models.Desktop {
	t.Helper()
	d := &models.Desktop{
		DesktopCode: code,
		IPAddress:   "10.0.0.1",
		Status:      status,
	}
	if err := st.CreateDesktop(d); err != nil {
		t.Fatalf("create desktop: %v", err)
	}
	return d
}

func desktopStatus(t *testing.T, st *store.Store, id uint) string {
	t.Helper()
	d, err := st.DesktopByID(id)
	if err != nil {
		t.Fatalf("query desktop: %v", err)
	}
	if d == nil {
		t.Fatalf("desktop %d vanished", id)
	}
	return d.Status
}
