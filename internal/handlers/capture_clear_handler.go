package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ClearCapture resets the pending photo so the user can pick again. The
// session stays open.
func (h *CaptureHandler) ClearCapture(c *gin.Context) {
	cs, ok := h.lookup(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Capture session not found"})
		return
	}
	cs.touch()

	cs.sess.Clear()

	c.JSON(http.StatusOK, h.stateResponse(cs))
}
