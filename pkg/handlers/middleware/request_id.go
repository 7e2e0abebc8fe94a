package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader é propagado do cliente quando presente
	RequestIDHeader = "X-Request-ID"
	// RequestIDContextKey é a chave do request id no contexto do Gin
	RequestIDContextKey = "request_id"
)

// RequestID garante um identificador por requisição (header ou uuid novo)
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.Set(RequestIDContextKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID retorna o request id da requisição, se houver
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDContextKey)
}
