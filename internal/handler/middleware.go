package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionHeader   = "X-Session-ID"
	SessionCookie   = "session"
	RequestIDHeader = "X-Request-ID"

	sessionIDKey    = "session_id"
	requestIDKey    = "request_id"
	maxSessionIDLen = 128
)

// Session resolves the caller's session id from the X-Session-ID header or
// the session cookie, minting a new one when neither is usable.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(SessionHeader)
		if id == "" {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				id = cookie
			}
		}

		if id == "" || len(id) > maxSessionIDLen {
			id = uuid.NewString()
			c.SetCookie(SessionCookie, id, 0, "/", "", false, true)
		}

		c.Set(sessionIDKey, id)
		c.Header(SessionHeader, id)
		c.Next()
	}
}

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

// logger tags log lines with the request id set by RequestID.
func logger(c *gin.Context) *slog.Logger {
	if id := c.GetString(requestIDKey); id != "" {
		return slog.With(requestIDKey, id)
	}
	return slog.Default()
}
