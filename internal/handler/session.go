package handler

import (
	"net/http"
	"strconv"

	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/service"
	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/util"

	"github.com/gin-gonic/gin"
)

// DeviceIDHeader carries the requesting device's pairing UUID. Non-admin
// session starts are gated on it.
const DeviceIDHeader = "X-Device-Id"

// SessionHandler serves the session lifecycle endpoints.
type SessionHandler struct {
	Sessions *service.SessionService
}

func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{Sessions: sessions}
}

// Me returns the caller's active session. Reading here resolves expiry, so a
// session past its duration comes back as 404 and its desktop is released.
func (h *SessionHandler) Me(c *gin.Context) {
	student := currentStudent(c)
	if student == nil {
		return
	}

	sess, err := h.Sessions.ActiveForStudent(student.ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if sess == nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "no active session")
		return
	}
	util.Success(c, util.Response{"session": sessionJSON(sess)})
}

// Active lists all active sessions, expiring stale ones on the way. Admin only.
func (h *SessionHandler) Active(c *gin.Context) {
	sessions, err := h.Sessions.ListActive()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	out := make([]gin.H, 0, len(sessions))
	for i := range sessions {
		out = append(out, sessionJSON(&sessions[i]))
	}
	util.Success(c, util.Response{"sessions": out})
}

type startSessionReq struct {
	DesktopID       uint `json:"desktop_id" binding:"required"`
	DurationMinutes int  `json:"duration_minutes"`
}

// Start opens a session on a desktop for the caller. Admins bypass the device
// pairing check; everyone else must present the device UUID paired to the
// requested desktop.
func (h *SessionHandler) Start(c *gin.Context) {
	student := currentStudent(c)
	if student == nil {
		return
	}

	var req startSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	if req.DurationMinutes == 0 {
		req.DurationMinutes = 60
	}

	device := c.GetHeader(DeviceIDHeader)
	sess, err := h.Sessions.Start(student.ID, req.DesktopID, req.DurationMinutes, device, student.IsAdmin)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	util.Success(c, util.Response{"session": sessionJSON(sess)})
}

// End terminates a session; allowed for its owner or an administrator.
func (h *SessionHandler) End(c *gin.Context) {
	student := currentStudent(c)
	if student == nil {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid session id")
		return
	}

	sess, err := h.Sessions.End(uint(id), student.ID, student.IsAdmin)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	util.Success(c, util.Response{"session": sessionJSON(sess)})
}
