package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/friendo-app/friendo-server/internal/capture"
)

// SelectPhoto receives a file from one of the two acquisition surfaces and
// hands it to the session. The preview becomes available immediately; the
// encode runs in the background and only gates the confirm action.
func (h *CaptureHandler) SelectPhoto(c *gin.Context) {
	cs, ok := h.lookup(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Capture session not found"})
		return
	}
	cs.touch()

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}

	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Photo exceeds the upload size limit"})
		return
	}

	surface := capture.Surface(c.DefaultPostForm("surface", string(capture.SurfaceGallery)))

	declaredMime := fileHeader.Header.Get("Content-Type")
	policyMime := declaredMime
	if policyMime == "" {
		policyMime = capture.DefaultMimeType
	}
	if !h.policy.Accepts(surface, policyMime) {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "File type not accepted for this surface"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logError(c, err, "failed to open uploaded photo")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded photo"})
		return
	}
	defer file.Close()

	if err := cs.sess.SelectFile(fileHeader.Filename, declaredMime, file); err != nil {
		if err == capture.ErrSessionClosed {
			c.JSON(http.StatusConflict, gin.H{"error": "Capture session already finished"})
			return
		}
		h.logError(c, err, "failed to stage uploaded photo")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to stage uploaded photo"})
		return
	}

	c.JSON(http.StatusOK, h.stateResponse(cs))
}
