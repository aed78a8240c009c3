package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionCookieName is the cookie carrying the visitor session identifier.
	SessionCookieName = "astro_session"
	// ContextSessionKey stores the session identifier inside Gin context.
	ContextSessionKey = "session_id"

	sessionMaxAge = 24 * 60 * 60 // 24 hours
)

// VisitorSession assigns an opaque per-visitor session identifier used only
// for view deduplication, never for authentication. A new UUID is issued and
// set as an httpOnly cookie on first contact; later requests reuse it.
func VisitorSession() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		sid, err := ctx.Cookie(SessionCookieName)
		if err != nil || sid == "" {
			sid = uuid.NewString()
			ctx.SetSameSite(http.SameSiteLaxMode)
			ctx.SetCookie(SessionCookieName, sid, sessionMaxAge, "/", "", false, true)
		}
		ctx.Set(ContextSessionKey, sid)
		ctx.Next()
	}
}

// SessionID returns the visitor session identifier for the current request.
func SessionID(ctx *gin.Context) string {
	if v, ok := ctx.Get(ContextSessionKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
