package handler

import (
	"errors"
	"net/http"

	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/middleware"
	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/models"
	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/service"
	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/util"

	"github.com/gin-gonic/gin"
)

// currentStudent pulls the authenticated student from the request context.
// Returns nil after writing a 401 when the middleware did not run.
func currentStudent(c *gin.Context) *models.Student {
	v, ok := c.Get(middleware.CurrentStudentKey)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return nil
	}
	student, ok := v.(*models.Student)
	if !ok || student == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return nil
	}
	return student
}

// writeServiceError maps service sentinel errors onto the response envelope.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStudentNotFound),
		errors.Is(err, service.ErrDesktopNotFound),
		errors.Is(err, service.ErrSessionNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, err.Error())
	case errors.Is(err, service.ErrActiveSessionExists),
		errors.Is(err, service.ErrDesktopUnavailable),
		errors.Is(err, service.ErrDesktopAlreadyPaired):
		util.Error(c, http.StatusConflict, util.CodeConflict, err.Error())
	case errors.Is(err, service.ErrDeviceRequired),
		errors.Is(err, service.ErrNotSessionOwner):
		util.Error(c, http.StatusForbidden, util.CodeForbidden, err.Error())
	case errors.Is(err, service.ErrDurationOutOfRange),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidDeviceUUID),
		errors.Is(err, service.ErrDeviceNotPaired):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal error")
	}
}

// sessionJSON is the session shape shared by the session endpoints.
func sessionJSON(sess *models.Session) gin.H {
	return gin.H{
		"id":               sess.ID,
		"student_id":       sess.StudentID,
		"desktop_id":       sess.DesktopID,
		"start_time":       sess.StartTime,
		"end_time":         sess.EndTime,
		"is_active":        sess.IsActive,
		"duration_minutes": sess.DurationMinutes,
	}
}

// desktopJSON is the desktop shape shared by the desktop endpoints.
func desktopJSON(d *models.Desktop) gin.H {
	return gin.H{
		"id":             d.ID,
		"desktop_code":   d.DesktopCode,
		"ip_address":     d.IPAddress,
		"mac_address":    d.MACAddress,
		"status":         d.Status,
		"last_heartbeat": d.LastHeartbeat,
	}
}
