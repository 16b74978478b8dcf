package server

import (
	"net/http"

	"go-resume-analyzer/internal/config"
	"go-resume-analyzer/internal/session"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// sessionMiddleware resolves the session cookie to a *session.Context,
// creating a session (and the cookie) when needed.
func sessionMiddleware(store *session.Store, cfg config.ServerConfig) gin.HandlerFunc {
	name := cfg.SessionCookie
	if name == "" {
		name = "resume_session"
	}
	maxAge := int(cfg.SessionTTL.Seconds())

	return func(c *gin.Context) {
		id, _ := c.Cookie(name)
		sess, created := store.GetOrCreate(id)
		if created {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(name, sess.ID, maxAge, "/", "", false, true)
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func clearSessionCookie(c *gin.Context, cfg config.ServerConfig) {
	name := cfg.SessionCookie
	if name == "" {
		name = "resume_session"
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, "/", "", false, true)
}

func sessionFrom(c *gin.Context) *session.Context {
	return c.MustGet(sessionKey).(*session.Context)
}
