package handler

import (
	"net/http"

	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/service"
	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/util"

	"github.com/gin-gonic/gin"
)

// AgentHandler ingests periodic health reports from desktop agents.
type AgentHandler struct {
	Desktops *service.DesktopService
}

func NewAgentHandler(desktops *service.DesktopService) *AgentHandler {
	return &AgentHandler{Desktops: desktops}
}

type heartbeatReq struct {
	DesktopID     uint    `json:"desktop_id" binding:"required"`
	CPUUsage      float64 `json:"cpu_usage"`
	RAMUsage      float64 `json:"ram_usage"`
	NetworkStatus string  `json:"network_status" binding:"required"`
}

// Heartbeat records an agent report and refreshes the desktop's status from
// its network state.
func (h *AgentHandler) Heartbeat(c *gin.Context) {
	var req heartbeatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	if err := h.Desktops.ApplyHealthReport(req.DesktopID, req.CPUUsage, req.RAMUsage, req.NetworkStatus); err != nil {
		writeServiceError(c, err)
		return
	}
	util.Success(c, util.Response{"status": "received"})
}
