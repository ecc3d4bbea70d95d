package handler

import (
	"net/http"
	"strconv"

	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/service"
	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/util"

	"github.com/gin-gonic/gin"
)

// DesktopHandler serves the desktop inventory endpoints.
type DesktopHandler struct {
	Desktops *service.DesktopService
}

func NewDesktopHandler(desktops *service.DesktopService) *DesktopHandler {
	return &DesktopHandler{Desktops: desktops}
}

// List returns a page of desktops with their current status.
func (h *DesktopHandler) List(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	desktops, err := h.Desktops.List(skip, limit)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "list desktops failed")
		return
	}

	out := make([]gin.H, 0, len(desktops))
	for i := range desktops {
		out = append(out, desktopJSON(&desktops[i]))
	}
	util.Success(c, util.Response{"desktops": out})
}

type createDesktopReq struct {
	DesktopCode string `json:"desktop_code" binding:"required"`
	IPAddress   string `json:"ip_address" binding:"required"`
	MACAddress  string `json:"mac_address"`
	Status      string `json:"status"`
}

// Create registers a new desktop in the pool. Admin only.
func (h *DesktopHandler) Create(c *gin.Context) {
	var req createDesktopReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	if err := util.ValidateDesktopCode(req.DesktopCode); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	desktop, err := h.Desktops.Create(req.DesktopCode, req.IPAddress, req.MACAddress, req.Status)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	util.Success(c, util.Response{"desktop": desktopJSON(desktop)})
}

type updateStatusReq struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus sets a desktop's status to one of the four known values.
// Admin only.
func (h *DesktopHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid desktop id")
		return
	}

	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	desktop, err := h.Desktops.SetStatus(uint(id), req.Status)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	util.Success(c, util.Response{"desktop": desktopJSON(desktop)})
}

// Delete removes a desktop from the pool. Admin only.
func (h *DesktopHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid desktop id")
		return
	}

	if err := h.Desktops.Delete(uint(id)); err != nil {
		writeServiceError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "desktop deleted"})
}
