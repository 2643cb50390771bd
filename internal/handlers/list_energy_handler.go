package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	accountmodels "github.com/friendo-app/friendo-server/internal/models/account"
	logenergymodels "github.com/friendo-app/friendo-server/internal/models/log_energy"
)

const defaultEnergyWindowDays = 7

// ListEnergy handles fetching a user's recent energy check-ins with the
// window average
func (h *EnergyHandler) ListEnergy(c *gin.Context) {
	userUID := c.Query("userUid")
	if userUID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userUid query parameter is required"})
		return
	}

	days := defaultEnergyWindowDays
	if daysStr := c.Query("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed < 1 || parsed > 365 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 365"})
			return
		}
		days = parsed
	}

	ctx := context.Background()

	// Only the default window is cached; its key is invalidated on write.
	redisKey := "energy:user:" + userUID
	if days == defaultEnergyWindowDays {
		cached, err := h.redis.Get(ctx, redisKey).Result()
		if err == nil && cached != "" {
			var response logenergymodels.ListEnergyResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				c.JSON(http.StatusOK, response)
				return
			}
		}
	}

	since := time.Now().AddDate(0, 0, -days)
	logsQuery := `
		SELECT id, user_uid, level, note, logged_at
		FROM energy_logs
		WHERE user_uid = $1 AND logged_at >= $2
		ORDER BY logged_at DESC
	`
	rows, err := h.postgres.Query(ctx, logsQuery, userUID, since)
	if err != nil {
		h.logError(c, err, "failed to fetch energy logs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch energy logs"})
		return
	}
	defer rows.Close()

	logs := []accountmodels.EnergyLog{}
	total := 0
	for rows.Next() {
		var entry accountmodels.EnergyLog
		var note *string
		if err := rows.Scan(&entry.ID, &entry.UserUID, &entry.Level, &note, &entry.LoggedAt); err != nil {
			h.logError(c, err, "failed to scan energy log row")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch energy logs"})
			return
		}
		if note != nil {
			entry.Note = *note
		}
		logs = append(logs, entry)
		total += entry.Level
	}
	if err := rows.Err(); err != nil {
		h.logError(c, err, "failed to iterate energy log rows")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch energy logs"})
		return
	}

	average := 0.0
	if len(logs) > 0 {
		average = float64(total) / float64(len(logs))
	}

	response := logenergymodels.ListEnergyResponse{
		Logs:    logs,
		Average: average,
		Days:    days,
	}

	if days == defaultEnergyWindowDays {
		if responseJSON, err := json.Marshal(response); err == nil {
			h.redis.Set(ctx, redisKey, responseJSON, time.Hour)
		}
	}

	c.JSON(http.StatusOK, response)
}
