package api

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the tool endpoints. Any other GET or HEAD is served
// from publicDir, which holds the discovery manifest under .well-known, the
// API description and the logo the agent platform fetches.
func RegisterRoutes(router *gin.Engine, h *Handlers, publicDir string) {
	router.POST("/invoke", h.Invoke)
	router.GET("/health", h.HealthCheck)

	router.NoRoute(publicFiles(publicDir))
}

// publicFiles serves regular files below dir. Directories and anything
// outside dir are reported as not found.
func publicFiles(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if dir == "" || (method != http.MethodGet && method != http.MethodHead) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		// Cleaning a rooted path removes any ".." that could climb out of dir.
		rel := path.Clean("/" + c.Request.URL.Path)
		file := filepath.Join(dir, filepath.FromSlash(rel))

		info, err := os.Stat(file)
		if err != nil || !info.Mode().IsRegular() {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.File(file)
	}
}
