package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	capturemodels "github.com/friendo-app/friendo-server/internal/models/capture"
)

// SkipCapture declines the photo. Valid in any state, including while an
// encode is still in flight.
func (h *CaptureHandler) SkipCapture(c *gin.Context) {
	cs, ok := h.lookup(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Capture session not found"})
		return
	}

	cs.sess.Skip()
	h.remove(cs.id)

	c.JSON(http.StatusOK, capturemodels.SkipCaptureResponse{
		SessionID: cs.id,
		Message:   "Capture skipped",
	})
}
