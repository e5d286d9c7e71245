package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestBodyLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newUploadRouter := func(maxBytes int64) *gin.Engine {
		router := gin.New()
		router.Use(BodyLimit(maxBytes))
		router.POST("/documents/templates", func(c *gin.Context) {
			c.String(http.StatusCreated, "stored")
		})
		return router
	}

	t.Run("allows upload within limit", func(t *testing.T) {
		router := newUploadRouter(1024)

		req := httptest.NewRequest(http.MethodPost, "/documents/templates",
			strings.NewReader("small template"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("rejects oversize declared upload", func(t *testing.T) {
		router := newUploadRouter(100)

		req := httptest.NewRequest(http.MethodPost, "/documents/templates",
			strings.NewReader(strings.Repeat("x", 200)))
		req.ContentLength = 200
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
		assert.Contains(t, w.Body.String(), `"success":false`)
	})

	t.Run("bodyless requests pass", func(t *testing.T) {
		router := gin.New()
		router.Use(BodyLimit(10))
		router.GET("/registry/clients", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/registry/clients", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("streaming upload without content length is cut off", func(t *testing.T) {
		router := gin.New()
		router.Use(BodyLimit(50))
		router.POST("/documents/templates", func(c *gin.Context) {
			buf := make([]byte, 200)
			if _, err := c.Request.Body.Read(buf); err != nil {
				c.String(http.StatusBadRequest, "body too large")
				return
			}
			c.String(http.StatusCreated, "stored")
		})

		req := httptest.NewRequest(http.MethodPost, "/documents/templates",
			strings.NewReader(strings.Repeat("x", 100)))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
