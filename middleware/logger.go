package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/egor/backoffice/logger"
)

// Logger writes one access log line per request.
func Logger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []interface{}{
			"status", c.Writer.Status(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"latency", time.Since(start),
			"ip", c.ClientIP(),
		}
		if r, ok := RequesterFrom(c); ok {
			fields = append(fields, "user", r.ID.String(), "role", string(r.Role))
		}
		if len(c.Errors) > 0 {
			log.With(fields...).Errorf("request failed: %s", c.Errors.String())
			return
		}
		log.With(fields...).Infof("%s %s", c.Request.Method, c.Request.URL.Path)
	}
}
