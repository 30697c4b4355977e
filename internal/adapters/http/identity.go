package http

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"lobby/internal/domain"
)

const participantKey = "participant"

// ParticipantMiddleware pins a participant id to the client via its cookie
// session, issuing a fresh one on first contact. The core never sees
// identity issuance, only the resulting id.
func ParticipantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		if raw, ok := session.Get(participantKey).(string); ok {
			id, err := domain.ParseParticipantID(raw)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid participant id"})
				return
			}
			c.Set(participantKey, id)
			c.Next()
			return
		}

		id := domain.NewParticipantID()
		session.Set(participantKey, string(id))
		if err := session.Save(); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		c.Set(participantKey, id)
		c.Next()
	}
}

func participantFrom(c *gin.Context) domain.ParticipantID {
	return c.MustGet(participantKey).(domain.ParticipantID)
}
