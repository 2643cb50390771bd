package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/friendo-app/friendo-server/internal/capture"
	capturemodels "github.com/friendo-app/friendo-server/internal/models/capture"
)

// StartCapture opens a new capture session for a user and returns the
// session id with today's prompt
func (h *CaptureHandler) StartCapture(c *gin.Context) {
	var req capturemodels.StartCaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	ctx := context.Background()

	userExists, err := h.store.UserExists(ctx, req.UserUID)
	if err != nil {
		h.logError(c, err, "failed to verify user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify user"})
		return
	}
	if !userExists {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if req.TaskID != "" {
		if _, err := uuid.Parse(req.TaskID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found or access denied"})
			return
		}
		taskOK, err := h.store.TaskBelongsToUser(ctx, req.TaskID, req.UserUID)
		if err != nil {
			h.logError(c, err, "failed to verify task")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify task"})
			return
		}
		if !taskOK {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found or access denied"})
			return
		}
	}

	sessionID := uuid.New().String()
	cs := &captureSession{
		id:         sessionID,
		userUID:    req.UserUID,
		taskID:     req.TaskID,
		lastActive: time.Now(),
	}

	sess, err := capture.NewSession(h.logger, capture.Callbacks{
		Submit: func(payload capture.Payload) {
			photoID, err := h.store.SavePhoto(context.Background(), cs.userUID, cs.taskID, payload)
			cs.mu.Lock()
			cs.photoID = photoID
			cs.submitErr = err
			cs.mu.Unlock()
			if err != nil {
				h.logger.Errorw("failed to save confirmed photo",
					"session_id", cs.id, "user_uid", cs.userUID, "error", err)
			}
		},
		Skip: func() {
			h.logger.Infow("capture skipped", "session_id", cs.id, "user_uid", cs.userUID)
		},
	})
	if err != nil {
		h.logError(c, err, "failed to create capture session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start capture session"})
		return
	}
	cs.sess = sess

	h.mu.Lock()
	h.sessions[sessionID] = cs
	h.mu.Unlock()

	prompt := req.Prompt
	if prompt == "" {
		prompt = h.prompts.PromptForToday(ctx)
	}

	response := capturemodels.StartCaptureResponse{
		SessionID: sessionID,
		Prompt:    prompt,
	}

	c.JSON(http.StatusCreated, response)
}
