package repositories

import (
	"context"

	"github.com/rafabene/avantpro-core/pkg/security"

	"github.com/rafabene/avantpro-core/internal/domain/entities"
)

// UserRepository define a interface para persistência de usuários.
// Find* retornam (nil, nil) quando o usuário não existe.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	FindByID(ctx context.Context, id int64) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filters UserFilters) ([]*entities.User, error)
}

// UserFilters contém filtros para listagem de usuários
type UserFilters struct {
	Role     *security.Role
	Page     int // Página (começa em 1)
	PageSize int // Itens por página (default: 20, max: 100)
}

// Normalize aplica os valores padrão de paginação
func (f UserFilters) Normalize() UserFilters {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 20
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}
	return f
}
