package middleware

import (
	"net/http"

	"penguins/internal"
	"penguins/internal/errors"
	"penguins/internal/session"

	"github.com/gin-gonic/gin"
)

// SessionKey is the gin context key holding the current *session.Session
const SessionKey = "session"

var logger = internal.DefaultLogger.With("RequireSession")

// RequireSession resolves the :id path parameter to a live session. Unknown
// or expired ids get a 404; htmx requests are also told to reload the page,
// which starts a fresh session at the default inputs.
func RequireSession(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		s, err := sessions.Get(id)
		if err != nil {
			logger.Debug("session %s not found", id)
			if c.GetHeader("HX-Request") == "true" {
				c.Header("HX-Refresh", "true")
			}
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error": err.Error(),
				"code":  errors.GetCode(err),
			})
			return
		}
		c.Set(SessionKey, s)
		c.Next()
	}
}

// CurrentSession returns the session stored by RequireSession
func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*session.Session)
	return s
}
