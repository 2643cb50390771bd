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

	logenergymodels "github.com/friendo-app/friendo-server/internal/models/log_energy"
)

type EnergyHandler struct {
	postgres *pgxpool.Pool
	redis    *redis.Client
	logger   *zap.SugaredLogger
}

// NewEnergyHandler creates a new energy handler
func NewEnergyHandler(postgres *pgxpool.Pool, redisClient *redis.Client, logger *zap.SugaredLogger) *EnergyHandler {
	return &EnergyHandler{
		postgres: postgres,
		redis:    redisClient,
		logger:   logger,
	}
}

// LogEnergy handles recording an energy-level check-in
func (h *EnergyHandler) LogEnergy(c *gin.Context) {
	var req logenergymodels.LogEnergyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if req.Level < 1 || req.Level > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Level must be between 1 and 5"})
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

	logID := uuid.New().String()
	now := time.Now()

	logQuery := `
		INSERT INTO energy_logs (id, user_uid, level, note, logged_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := h.postgres.Exec(ctx, logQuery, logID, req.UserUID, req.Level, req.Note, now); err != nil {
		h.logError(c, err, "failed to log energy level")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log energy level"})
		return
	}

	// Invalidate the cached energy window for this user
	h.redis.Del(ctx, "energy:user:"+req.UserUID)

	response := logenergymodels.LogEnergyResponse{
		ID:       logID,
		UserUID:  req.UserUID,
		Level:    req.Level,
		Note:     req.Note,
		LoggedAt: now,
		Message:  "Energy level recorded",
	}

	c.JSON(http.StatusCreated, response)
}
