package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	completetaskmodels "github.com/friendo-app/friendo-server/internal/models/complete_task"
)

// CompleteTask handles marking a micro-win as done
func (h *TasksHandler) CompleteTask(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task ID is required"})
		return
	}
	// The id column is a uuid; reject malformed ids before they reach the
	// cast and surface as a query error.
	if _, err := uuid.Parse(taskID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	ctx := context.Background()

	var userUID string
	var alreadyCompleted bool
	taskQuery := `SELECT user_uid, completed FROM tasks WHERE id = $1`
	err := h.postgres.QueryRow(ctx, taskQuery, taskID).Scan(&userUID, &alreadyCompleted)
	if err != nil {
		if err == pgx.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		h.logError(c, err, "failed to fetch task")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch task"})
		return
	}

	if alreadyCompleted {
		c.JSON(http.StatusConflict, gin.H{"error": "Task is already completed"})
		return
	}

	now := time.Now()
	updateQuery := `
		UPDATE tasks SET completed = TRUE, completed_at = $1, updated_at = $1 WHERE id = $2
	`
	if _, err := h.postgres.Exec(ctx, updateQuery, now, taskID); err != nil {
		h.logError(c, err, "failed to complete task")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete task"})
		return
	}

	// Invalidate the cached task list for this user
	h.redis.Del(ctx, "tasks:user:"+userUID)

	response := completetaskmodels.CompleteTaskResponse{
		ID:          taskID,
		Completed:   true,
		CompletedAt: now,
		Message:     "Micro-win completed. Nice work!",
	}

	c.JSON(http.StatusOK, response)
}
