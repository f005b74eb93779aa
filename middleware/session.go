package middleware

import (
	"github.com/MuhdAdnan/jj-halal-farms/session"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sidCookie  = "sid"
	sessionKey = "session_id"
)

// Session assigns every request a session id via cookie. The cart lives
// under this id in Redis.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(sidCookie)
		if err != nil || sid == "" {
			sid = uuid.NewString()
			c.SetCookie(sidCookie, sid, int(session.TTL.Seconds()), "/", "", false, true)
		}
		c.Set(sessionKey, sid)
		c.Next()
	}
}

func SessionID(c *gin.Context) string {
	sid, _ := c.Get(sessionKey)
	s, _ := sid.(string)
	return s
}
