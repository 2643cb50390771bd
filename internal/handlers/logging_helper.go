package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestContextFields(c *gin.Context) []interface{} {
	return []interface{}{
		"request_id", c.GetString("request_id"),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"query", c.Request.URL.RawQuery,
		"client_ip", c.ClientIP(),
	}
}

func logWithContext(logger *zap.SugaredLogger, c *gin.Context, msg string, fields ...interface{}) {
	if logger == nil {
		return
	}
	logger.Errorw(msg, append(requestContextFields(c), fields...)...)
}

func (h *UsersHandler) logError(c *gin.Context, err error, msg string, fields ...interface{}) {
	logWithContext(h.logger, c, msg, append(fields, "error", err)...)
}

func (h *TasksHandler) logError(c *gin.Context, err error, msg string, fields ...interface{}) {
	logWithContext(h.logger, c, msg, append(fields, "error", err)...)
}

func (h *EnergyHandler) logError(c *gin.Context, err error, msg string, fields ...interface{}) {
	logWithContext(h.logger, c, msg, append(fields, "error", err)...)
}

func (h *CaptureHandler) logError(c *gin.Context, err error, msg string, fields ...interface{}) {
	logWithContext(h.logger, c, msg, append(fields, "error", err)...)
}
