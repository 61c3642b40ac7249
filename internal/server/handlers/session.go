package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/pantry/internal/domain/models"
)

const sessionKey = "pantry.session"

// SessionMiddleware resolves the caller's identity from the X-User-ID and
// X-Household-ID headers. Authentication happens upstream; this service only
// needs the resolved tenant scope.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := models.Session{
			UserID:      c.GetHeader("X-User-ID"),
			HouseholdID: c.GetHeader("X-Household-ID"),
		}
		if err := sess.Validate(); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session headers"})
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func sessionFrom(c *gin.Context) models.Session {
	sess, _ := c.Get(sessionKey)
	s, _ := sess.(models.Session)
	return s
}
