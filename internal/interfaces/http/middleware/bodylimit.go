package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jurisdoc/backend/internal/interfaces/http/dto"
)

// BodyLimit caps the request body size. Template uploads are the largest
// legitimate payloads; anything beyond maxBytes is rejected up front, and
// streaming requests without a Content-Length are cut off mid-read by
// MaxBytesReader.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse("REQUEST_TOO_LARGE", "Request body exceeds maximum allowed size"))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
