package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/service"
	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/store"
	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// AnalyticsHandler serves the admin usage-statistics endpoints.
type AnalyticsHandler struct {
	Store    *store.Store
	Sessions *service.SessionService
}

func NewAnalyticsHandler(st *store.Store, sessions *service.SessionService) *AnalyticsHandler {
	return &AnalyticsHandler{Store: st, Sessions: sessions}
}

// Stats returns desktop counts by status plus session totals. The active
// session count goes through the lifecycle service, so stale sessions are
// expired before being counted.
func (h *AnalyticsHandler) Stats(c *gin.Context) {
	desktopStats, err := h.Store.DesktopStats()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "desktop stats failed")
		return
	}

	total, active, err := h.Sessions.Counts()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "session stats failed")
		return
	}

	util.Success(c, util.Response{
		"desktops": desktopStats,
		"sessions": gin.H{
			"total":  total,
			"active": active,
		},
	})
}

// ExportSessionsXLSX downloads session history as a spreadsheet.
func (h *AnalyticsHandler) ExportSessionsXLSX(c *gin.Context) {
	sessions, err := h.Store.ListSessions(0, 10000)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "list sessions failed")
		return
	}

	f := excelize.NewFile()
	sheetName := "Sessions"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "create sheet failed")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Session ID", "Student", "Desktop", "Start", "End", "Active", "Duration (min)"}
	for i, hd := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, hd)
	}

	for idx, s := range sessions {
		row := idx + 2

		endStr := ""
		if s.EndTime != nil {
			endStr = s.EndTime.Format("2006-01-02 15:04:05")
		}

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), s.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), s.Student.StudentID)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), s.Desktop.DesktopCode)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), s.StartTime.Format("2006-01-02 15:04:05"))
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), endStr)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), s.IsActive)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), s.DurationMinutes)
	}

	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "C", 16)
	f.SetColWidth(sheetName, "D", "E", 20)
	f.SetColWidth(sheetName, "F", "G", 12)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"sessions_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
	}
}
