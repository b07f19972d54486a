package ui

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
)

// renderTemplate executes a template with the given data
func (s *Server) renderTemplate(c *gin.Context, templateName string, data interface{}) {
	// First render to a buffer to catch any errors before writing to response
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		s.logger.Error("template error for %s: %v (data %T)", templateName, err, data)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Template rendering failed", "details": err.Error()})
		return
	}
	s.writeHTML(c, &buf)
}

// renderPanels executes each panel's template into one response, used for
// htmx out-of-band swaps
func (s *Server) renderPanels(c *gin.Context, panels []panel) {
	var buf bytes.Buffer
	for _, p := range panels {
		if err := s.templates.ExecuteTemplate(&buf, p.Template, p); err != nil {
			s.logger.Error("template error for %s: %v", p.Template, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Template rendering failed", "details": err.Error()})
			return
		}
	}
	s.writeHTML(c, &buf)
}

func (s *Server) writeHTML(c *gin.Context, buf *bytes.Buffer) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Writer.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		s.logger.Warn("error writing template response: %v", err)
	}
}
