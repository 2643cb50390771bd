package devlog

import (
	"bytes"
	"io"
	"time"

	"github.com/gin-gonic/gin"
)

type bodyCaptureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyCaptureWriter) Write(b []byte) (int, error) {
	if w.body != nil {
		w.body.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

// Middleware captures full request and response bodies for allowlisted paths
// and appends them to the logger. Non-allowlisted requests pass through
// untouched.
func (l *Logger) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.ShouldLog(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()

		var requestBody string
		if c.Request.Body != nil {
			raw, err := io.ReadAll(c.Request.Body)
			if err != nil {
				requestBody = "[could not read request body]"
			} else {
				requestBody = string(raw)
				c.Request.Body = io.NopCloser(bytes.NewReader(raw))
			}
		}

		bcw := &bodyCaptureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = bcw

		c.Next()

		l.Append(Entry{
			Timestamp:    time.Now(),
			Method:       c.Request.Method,
			Path:         c.Request.URL.Path,
			URL:          fullURL(c),
			Status:       c.Writer.Status(),
			Duration:     time.Since(start),
			RequestBody:  requestBody,
			ResponseBody: bcw.body.String(),
		})
	}
}

func fullURL(c *gin.Context) string {
	if c.Request.URL.IsAbs() {
		return c.Request.URL.String()
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host + c.Request.URL.RequestURI()
}
