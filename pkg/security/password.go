package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordEncoder gera e verifica hashes bcrypt
type PasswordEncoder struct {
	cost int
}

// NewPasswordEncoder cria um encoder com o custo padrão do bcrypt
func NewPasswordEncoder() *PasswordEncoder {
	return &PasswordEncoder{cost: bcrypt.DefaultCost}
}

// NewPasswordEncoderWithCost cria um encoder com custo customizado (4..31)
func NewPasswordEncoderWithCost(cost int) (*PasswordEncoder, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &PasswordEncoder{cost: cost}, nil
}

// Encode gera o hash da senha
func (e *PasswordEncoder) Encode(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), e.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Matches verifica se a senha corresponde ao hash
func (e *PasswordEncoder) Matches(raw, encoded string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(raw))
	return err == nil
}

// NeedsUpgrade indica se o hash foi gerado com custo menor que o atual
func (e *PasswordEncoder) NeedsUpgrade(encoded string) bool {
	cost, err := bcrypt.Cost([]byte(encoded))
	if err != nil {
		return true
	}
	return cost < e.cost
}
