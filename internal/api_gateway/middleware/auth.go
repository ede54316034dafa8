package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/agent-dashboard/internal/session"
	"github.com/gin-gonic/gin"
)

// SessionKey is the key used to store the session snapshot in the context
const SessionKey = "session"

// SessionToucher resolves a bearer token to an open session
type SessionToucher interface {
	Touch(token string) (session.Snapshot, error)
}

// NoticeRestorer re-shows a dismissed maintenance notice
type NoticeRestorer interface {
	RestoreNotice(token string)
	Get(token string) (session.Snapshot, bool)
}

// Auth middleware requires a valid bearer token. A session ended by the
// supervisor is answered once with its logout message.
func Auth(sessions SessionToucher) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			abortUnauthorized(c, "UNAUTHORIZED", "Missing bearer token")
			return
		}

		snap, err := sessions.Touch(token)
		if err != nil {
			var terminated session.ErrSessionTerminated
			switch {
			case errors.As(err, &terminated):
				abortUnauthorized(c, "SESSION_TERMINATED", terminated.Message)
			case errors.Is(err, session.ErrSessionExpired):
				abortUnauthorized(c, "SESSION_EXPIRED", "Session expired. Please log in again.")
			default:
				abortUnauthorized(c, "UNAUTHORIZED", "Unauthorized")
			}
			return
		}

		c.Set(SessionKey, snap)
		c.Next()
	}
}

// RestoreNotice middleware brings back a dismissed maintenance notice whenever
// the session loads a page. It must run after Auth.
func RestoreNotice(sessions NoticeRestorer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if snap, ok := GetSession(c); ok {
			sessions.RestoreNotice(snap.Token)
			if fresh, ok := sessions.Get(snap.Token); ok {
				c.Set(SessionKey, fresh)
			}
		}
		c.Next()
	}
}

// GetSession retrieves the session snapshot stored by Auth
func GetSession(c *gin.Context) (session.Snapshot, bool) {
	if v, exists := c.Get(SessionKey); exists {
		if snap, ok := v.(session.Snapshot); ok {
			return snap, true
		}
	}
	return session.Snapshot{}, false
}

// BearerToken extracts the token from the Authorization header
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func abortUnauthorized(c *gin.Context, code, message string) {
	response := gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
	if correlationID := GetCorrelationID(c); correlationID != "" {
		response["correlation_id"] = correlationID
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, response)
}
