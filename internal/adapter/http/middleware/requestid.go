package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is the response header carrying the per-request
// correlation id consumed by pkg/response.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns a request id from the incoming header if present,
// otherwise generates one, stores it in gin's context under "request_id"
// for pkg/response and handlers to read, and echoes it back to the client.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
