package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// apiPrefixes are the route roots that must never fall through to the SPA.
var apiPrefixes = []string{"/api", "/users", "/tasks", "/energy"}

// SPAHandler serves the built frontend: known files are served directly,
// unknown non-API paths fall back to index.html for client-side routing, and
// unknown API paths stay 404.
func SPAHandler(staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		for _, prefix := range apiPrefixes {
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
				return
			}
		}

		// Reject traversal before touching the filesystem.
		clean := filepath.Clean("/" + path)
		candidate := filepath.Join(staticDir, clean)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			c.File(candidate)
			return
		}

		c.File(filepath.Join(staticDir, "index.html"))
	}
}
