package security

import (
	"context"
	"time"
)

// AuditorPrincipal identifica o autor de uma operação para auditoria
type AuditorPrincipal interface {
	UserID() string
}

// Principal é o usuário autenticado da requisição
type Principal struct {
	ID    string
	Email string
	Roles []Role

	// preenchidos por TokenParser.Parse
	TokenID   string
	ExpiresAt time.Time
}

func (p Principal) UserID() string {
	return p.ID
}

// HasPermission verifica se algum role do principal concede a permissão
func (p Principal) HasPermission(permission Permission) bool {
	for _, r := range p.Roles {
		if r.HasPermission(permission) {
			return true
		}
	}
	return false
}

// HasRole verifica se o principal possui o role
func (p Principal) HasRole(role Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type ctxKey int

const principalCtxKey ctxKey = 1

// WithPrincipal associa o principal autenticado ao contexto
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey, p)
}

// PrincipalFromContext retorna o principal autenticado, se houver
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalCtxKey).(Principal)
	return p, ok
}

// AuditorFromContext retorna o auditor da requisição (nil para anônimo)
func AuditorFromContext(ctx context.Context) AuditorPrincipal {
	if p, ok := PrincipalFromContext(ctx); ok {
		return p
	}
	return nil
}
