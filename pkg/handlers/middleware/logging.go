package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/avantpro-core/pkg/domain/ports"
)

// RequestLogger registra uma linha de acesso por requisição.
// 4xx vai em WARN e 5xx em ERROR.
func RequestLogger(logger ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		}
		if id := GetRequestID(c); id != "" {
			args = append(args, "request_id", id)
		}

		switch {
		case status >= 500:
			logger.Error("request", args...)
		case status >= 400:
			logger.Warn("request", args...)
		default:
			logger.Info("request", args...)
		}
	}
}
