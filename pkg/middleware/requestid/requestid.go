package requestid

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// Header carries the request id on the wire, inbound and outbound.
	Header     = "X-Request-ID"
	contextKey = "request_id"
)

// Middleware tags every request with an id. An inbound X-Request-ID is
// trusted and echoed back; otherwise a fresh UUID is minted.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(Header)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(contextKey, id)
		c.Header(Header, id)

		c.Next()
	}
}

// Value returns the request id for the current request, or "" when the
// middleware is not installed.
func Value(c *gin.Context) string {
	id, _ := c.Value(contextKey).(string)
	return id
}
