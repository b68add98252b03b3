package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is accepted from the caller and echoed on every response.
const RequestIDHeader = "X-Request-ID"

// RequestIDKey is the gin context key the request id is stored under.
const RequestIDKey = "request_id"

// RequestID accepts an incoming X-Request-ID or generates one, stores it on
// the context for downstream handlers and loggers, and echoes it back.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			rid = uuid.New().String()
		}
		c.Set(RequestIDKey, rid)
		c.Header(RequestIDHeader, rid)
		c.Next()
	}
}
