package entities

import (
	"time"

	core "github.com/rafabene/avantpro-core/pkg/domain/errors"
	"github.com/rafabene/avantpro-core/pkg/security"

	usererrors "github.com/rafabene/avantpro-core/internal/domain/errors"
	"github.com/rafabene/avantpro-core/internal/domain/valueobjects"
)

// User representa um usuário do sistema
type User struct {
	ID           int64
	Email        valueobjects.Email
	Name         string
	PasswordHash string
	Role         security.Role
	AvatarURL    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time // Soft delete
}

// IsAdmin verifica se o usuário é admin
func (u *User) IsAdmin() bool {
	return u.Role == security.RoleAdmin
}

// HasPermission verifica se o usuário tem uma permissão
func (u *User) HasPermission(permission security.Permission) bool {
	return u.Role.HasPermission(permission)
}

// IsDeleted verifica se o usuário foi deletado (soft delete)
func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

// SoftDelete marca o usuário como deletado
func (u *User) SoftDelete(now time.Time) {
	u.DeletedAt = &now
	u.UpdatedAt = now
}

// Validate valida regras de negócio da entidade User.
// A mensagem customizada vai para o log e para o cliente.
func (u *User) Validate() error {
	if u.Email.String() == "" {
		return core.NewInvalidValue(usererrors.InvalidUserData, core.WithMessage("email is required"))
	}

	if len(u.Name) < 2 {
		return core.NewInvalidValue(usererrors.InvalidUserData, core.WithMessage("name must be at least 2 characters"))
	}

	if !u.Role.IsValid() {
		return core.NewInvalidValue(usererrors.InvalidUserData, core.WithMessagef("invalid role %q", u.Role))
	}

	return nil
}
