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

	createusermodels "github.com/friendo-app/friendo-server/internal/models/create_user"
)

type UsersHandler struct {
	postgres *pgxpool.Pool
	redis    *redis.Client
	logger   *zap.SugaredLogger
}

// NewUsersHandler creates a new users handler
func NewUsersHandler(postgres *pgxpool.Pool, redisClient *redis.Client, logger *zap.SugaredLogger) *UsersHandler {
	return &UsersHandler{
		postgres: postgres,
		redis:    redisClient,
		logger:   logger,
	}
}

// CreateUser handles registration of a new user
func (h *UsersHandler) CreateUser(c *gin.Context) {
	var req createusermodels.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if req.DisplayName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Display name is required"})
		return
	}

	ctx := context.Background()

	if req.Email != "" {
		var emailTaken bool
		emailCheckQuery := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
		if err := h.postgres.QueryRow(ctx, emailCheckQuery, req.Email).Scan(&emailTaken); err != nil {
			h.logError(c, err, "failed to check existing email")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify email"})
			return
		}
		if emailTaken {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
	}

	uid := uuid.New().String()
	now := time.Now()

	userQuery := `
		INSERT INTO users (uid, display_name, email, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)
	`
	if _, err := h.postgres.Exec(ctx, userQuery, uid, req.DisplayName, req.Email, now, now); err != nil {
		h.logError(c, err, "failed to create user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	response := createusermodels.CreateUserResponse{
		UID:         uid,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		CreatedAt:   now,
		Message:     "User created successfully",
	}

	c.JSON(http.StatusCreated, response)
}
