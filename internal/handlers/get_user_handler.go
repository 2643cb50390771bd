package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	accountmodels "github.com/friendo-app/friendo-server/internal/models/account"
)

// GetUser handles fetching a user by uid
func (h *UsersHandler) GetUser(c *gin.Context) {
	uid := c.Param("uid")
	if uid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}

	ctx := context.Background()

	// Check Redis cache first
	redisKey := "user:" + uid
	cachedUser, err := h.redis.Get(ctx, redisKey).Result()
	if err == nil && cachedUser != "" {
		var user accountmodels.User
		if err := json.Unmarshal([]byte(cachedUser), &user); err == nil {
			c.JSON(http.StatusOK, user)
			return
		}
	}

	var user accountmodels.User
	var email *string
	userQuery := `
		SELECT uid, display_name, email, created_at, updated_at
		FROM users WHERE uid = $1
	`
	err = h.postgres.QueryRow(ctx, userQuery, uid).Scan(
		&user.UID, &user.DisplayName, &email, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logError(c, err, "failed to fetch user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}
	if email != nil {
		user.Email = *email
	}

	// Cache the user in Redis
	if userJSON, err := json.Marshal(user); err == nil {
		h.redis.Set(ctx, redisKey, userJSON, 24*time.Hour)
	}

	c.JSON(http.StatusOK, user)
}
