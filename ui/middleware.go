package ui

import (
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(noStore())

	staticFS, err := fs.Sub(s.files, "ui/static")
	if err != nil {
		s.logger.Error("error creating static filesystem: %v", err)
		return
	}
	s.logger.Debug("serving static files from embedded FS at /static")
	s.router.StaticFS("/static", http.FS(staticFS))
}

// noStore stops browsers caching per-session fragments and images
func noStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
