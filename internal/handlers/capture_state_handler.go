package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	capturemodels "github.com/friendo-app/friendo-server/internal/models/capture"
)

// GetCaptureState reports the session slot so the frontend can poll while an
// encode is in flight.
func (h *CaptureHandler) GetCaptureState(c *gin.Context) {
	cs, ok := h.lookup(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Capture session not found"})
		return
	}

	c.JSON(http.StatusOK, h.stateResponse(cs))
}

func (h *CaptureHandler) stateResponse(cs *captureSession) capturemodels.CaptureStateResponse {
	snap := cs.sess.Snapshot()
	return capturemodels.CaptureStateResponse{
		SessionID:  cs.id,
		State:      snap.State.String(),
		HasPreview: snap.Preview != "",
		MimeType:   snap.MimeType,
	}
}
