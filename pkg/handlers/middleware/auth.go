package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/avantpro-core/pkg/domain/errors"
	"github.com/rafabene/avantpro-core/pkg/security"
)

// PrincipalContextKey é a chave do usuário autenticado no contexto do Gin
const PrincipalContextKey = "principal"

const bearerPrefix = "Bearer "

// Authenticate exige um bearer token válido e não revogado.
// Falhas viram Unauthorized do catálogo comum; blacklist nil desliga a revogação.
func Authenticate(parser *security.TokenParser, blacklist security.TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
			abortWithError(c, errors.NewUnauthorized(errors.Unauthorized))
			return
		}

		principal, err := parser.Parse(strings.TrimSpace(header[len(bearerPrefix):]))
		if err != nil {
			abortWithError(c, errors.NewUnauthorized(errors.Unauthorized, errors.WithCause(err)))
			return
		}

		if blacklist != nil && principal.TokenID != "" {
			revoked, err := blacklist.IsRevoked(c.Request.Context(), principal.TokenID)
			if err != nil {
				// sem como verificar a revogação, a requisição não passa
				abortWithError(c, fmt.Errorf("check token revocation: %w", err))
				return
			}
			if revoked {
				abortWithError(c, errors.NewUnauthorized(errors.Unauthorized, errors.WithCause(security.ErrTokenRevoked)))
				return
			}
		}

		c.Set(PrincipalContextKey, principal)
		c.Request = c.Request.WithContext(security.WithPrincipal(c.Request.Context(), principal))
		c.Next()
	}
}

// RequirePermission exige que o usuário autenticado tenha a permissão.
// Deve vir depois de Authenticate.
func RequirePermission(permission security.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			abortWithError(c, errors.NewUnauthorized(errors.Unauthorized))
			return
		}

		if !principal.HasPermission(permission) {
			abortWithError(c, &errors.AccessDeniedError{Reason: "missing permission " + string(permission)})
			return
		}

		c.Next()
	}
}

// GetPrincipal retorna o usuário autenticado da requisição
func GetPrincipal(c *gin.Context) (security.Principal, bool) {
	if value, ok := c.Get(PrincipalContextKey); ok {
		if p, ok := value.(security.Principal); ok {
			return p, true
		}
	}
	return security.PrincipalFromContext(c.Request.Context())
}

func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
