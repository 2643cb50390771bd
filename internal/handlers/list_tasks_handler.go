package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	accountmodels "github.com/friendo-app/friendo-server/internal/models/account"
)

// ListTasks handles fetching a user's micro-wins, newest first
func (h *TasksHandler) ListTasks(c *gin.Context) {
	userUID := c.Query("userUid")
	if userUID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userUid query parameter is required"})
		return
	}

	ctx := context.Background()

	// Check Redis cache first
	redisKey := "tasks:user:" + userUID
	cachedTasks, err := h.redis.Get(ctx, redisKey).Result()
	if err == nil && cachedTasks != "" {
		var tasks []accountmodels.Task
		if err := json.Unmarshal([]byte(cachedTasks), &tasks); err == nil {
			c.JSON(http.StatusOK, gin.H{"tasks": tasks})
			return
		}
	}

	tasksQuery := `
		SELECT id, user_uid, title, notes, completed, completed_at, created_at, updated_at
		FROM tasks
		WHERE user_uid = $1
		ORDER BY created_at DESC
	`
	rows, err := h.postgres.Query(ctx, tasksQuery, userUID)
	if err != nil {
		h.logError(c, err, "failed to fetch tasks")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}
	defer rows.Close()

	tasks := []accountmodels.Task{}
	for rows.Next() {
		var task accountmodels.Task
		var notes *string
		if err := rows.Scan(&task.ID, &task.UserUID, &task.Title, &notes,
			&task.Completed, &task.CompletedAt, &task.CreatedAt, &task.UpdatedAt); err != nil {
			h.logError(c, err, "failed to scan task row")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
			return
		}
		if notes != nil {
			task.Notes = *notes
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		h.logError(c, err, "failed to iterate task rows")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}

	// Cache the task list in Redis
	if tasksJSON, err := json.Marshal(tasks); err == nil {
		h.redis.Set(ctx, redisKey, tasksJSON, 24*time.Hour)
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}
