package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
)

// Claims são as claims JWT emitidas para um Principal
type Claims struct {
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// TokenParser emite e valida tokens HS256
type TokenParser struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewTokenParser cria um parser com o segredo compartilhado
func NewTokenParser(secret, issuer string) (*TokenParser, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	return &TokenParser{secret: []byte(secret), issuer: issuer, now: time.Now}, nil
}

// Issue gera um token para o principal com a validade informada
func (p *TokenParser) Issue(principal Principal, ttl time.Duration) (string, error) {
	now := p.now()

	roles := make([]string, len(principal.Roles))
	for i, r := range principal.Roles {
		roles[i] = string(r)
	}

	claims := Claims{
		Email: principal.Email,
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   principal.ID,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse valida o token e retorna o Principal correspondente
func (p *TokenParser) Parse(tokenString string) (Principal, error) {
	claims := &Claims{}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(p.now),
	}
	if p.issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return Principal{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid || claims.Subject == "" {
		return Principal{}, ErrTokenInvalid
	}

	principal := Principal{ID: claims.Subject, Email: claims.Email, TokenID: claims.ID}
	if claims.ExpiresAt != nil {
		principal.ExpiresAt = claims.ExpiresAt.Time
	}
	for _, r := range claims.Roles {
		principal.Roles = append(principal.Roles, Role(r))
	}
	return principal, nil
}
