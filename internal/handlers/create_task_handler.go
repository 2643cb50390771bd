package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	createtaskmodels "github.com/friendo-app/friendo-server/internal/models/create_task"
)

type TasksHandler struct {
	postgres *pgxpool.Pool
	redis    *redis.Client
	logger   *zap.SugaredLogger
}

// NewTasksHandler creates a new tasks handler
func NewTasksHandler(postgres *pgxpool.Pool, redisClient *redis.Client, logger *zap.SugaredLogger) *TasksHandler {
	return &TasksHandler{
		postgres: postgres,
		redis:    redisClient,
		logger:   logger,
	}
}

// CreateTask handles logging a new micro-win
func (h *TasksHandler) CreateTask(c *gin.Context) {
	var req createtaskmodels.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	ctx := context.Background()

	// Verify the user exists
	var userExists bool
	userCheckQuery := `SELECT EXISTS(SELECT 1 FROM users WHERE uid = $1)`
	if err := h.postgres.QueryRow(ctx, userCheckQuery, req.UserUID).Scan(&userExists); err != nil {
		h.logError(c, err, "failed to verify user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify user"})
		return
	}
	if !userExists {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	taskID := uuid.New().String()
	now := time.Now()

	taskQuery := `
		INSERT INTO tasks (id, user_uid, title, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := h.postgres.Exec(ctx, taskQuery, taskID, req.UserUID, req.Title, req.Notes, now, now); err != nil {
		h.logError(c, err, "failed to create task")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	// Invalidate the cached task list for this user
	h.redis.Del(ctx, "tasks:user:"+req.UserUID)

	response := createtaskmodels.CreateTaskResponse{
		ID:        taskID,
		UserUID:   req.UserUID,
		Title:     req.Title,
		Notes:     req.Notes,
		CreatedAt: now,
		Message:   "Micro-win logged successfully",
	}

	c.JSON(http.StatusCreated, response)
}
