package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	capturemodels "github.com/friendo-app/friendo-server/internal/models/capture"
)

// ConfirmCapture submits the pending photo. Confirming while no payload is
// ready is a no-op, not an error: the session stays open and nothing is
// submitted.
func (h *CaptureHandler) ConfirmCapture(c *gin.Context) {
	cs, ok := h.lookup(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Capture session not found"})
		return
	}
	cs.touch()

	if !cs.sess.Confirm() {
		c.JSON(http.StatusOK, capturemodels.ConfirmCaptureResponse{
			SessionID: cs.id,
			Message:   "No photo is ready; nothing was submitted",
		})
		return
	}

	cs.mu.Lock()
	photoID, submitErr := cs.photoID, cs.submitErr
	cs.mu.Unlock()

	// The session is terminal either way.
	h.remove(cs.id)

	if submitErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save photo"})
		return
	}

	c.JSON(http.StatusOK, capturemodels.ConfirmCaptureResponse{
		SessionID: cs.id,
		PhotoID:   photoID,
		Message:   "Photo saved successfully",
	})
}
