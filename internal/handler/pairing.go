package handler

import (
	"net/http"

	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/service"
	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/util"

	"github.com/gin-gonic/gin"
)

// PairingHandler serves the device-to-desktop pairing endpoint.
type PairingHandler struct {
	Pairings *service.PairingService
}

func NewPairingHandler(pairings *service.PairingService) *PairingHandler {
	return &PairingHandler{Pairings: pairings}
}

type registerPairingReq struct {
	DesktopCode string `json:"desktop_code" binding:"required"`
	DeviceUUID  string `json:"device_uuid" binding:"required"`
}

// Register pairs the calling device with a desktop. Re-registering the same
// device is idempotent; a desktop held by another device is a conflict.
func (h *PairingHandler) Register(c *gin.Context) {
	var req registerPairingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	pairing, desktopCode, err := h.Pairings.Register(req.DesktopCode, req.DeviceUUID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	util.Success(c, util.Response{
		"pairing": gin.H{
			"id":           pairing.ID,
			"device_uuid":  pairing.DeviceUUID,
			"desktop_id":   pairing.DesktopID,
			"desktop_code": desktopCode,
			"paired_at":    pairing.PairedAt,
		},
	})
}
