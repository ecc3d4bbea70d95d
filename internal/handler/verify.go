package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/ocr"
	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/util"

	"github.com/gin-gonic/gin"
)

// VerifyHandler serves ID-card verification during registration.
type VerifyHandler struct {
	Verifier      *ocr.Verifier
	MaxImageBytes int64
}

func NewVerifyHandler(verifier *ocr.Verifier, maxImageBytes int64) *VerifyHandler {
	if maxImageBytes <= 0 {
		maxImageBytes = 10 << 20 // 10 MiB
	}
	return &VerifyHandler{Verifier: verifier, MaxImageBytes: maxImageBytes}
}

// Verify takes a multipart form with a claimed_id field and an image file,
// extracts the university ID from the photo and reports whether the two
// match.
func (h *VerifyHandler) Verify(c *gin.Context) {
	claimedID := c.PostForm("claimed_id")
	if claimedID == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "claimed_id is required")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "image file is required")
		return
	}
	if fileHeader.Size > h.MaxImageBytes {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "image too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "read image failed")
		return
	}
	defer file.Close()

	buf, err := io.ReadAll(io.LimitReader(file, h.MaxImageBytes))
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "read image failed")
		return
	}

	result, err := h.Verifier.Verify(c.Request.Context(), claimedID, buf)
	if err != nil {
		switch {
		case errors.Is(err, ocr.ErrInvalidClaimedID):
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		case errors.Is(err, ocr.ErrIDNotFound):
			util.Error(c, http.StatusNotFound, util.CodeNotFound, err.Error())
		case errors.Is(err, ocr.ErrEngineUnavailable):
			util.Error(c, http.StatusServiceUnavailable, util.CodeUnavailable, err.Error())
		default:
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "verification failed")
		}
		return
	}

	util.Success(c, util.Response{
		"extracted_id": result.ExtractedID,
		"matches":      result.Matches,
	})
}
