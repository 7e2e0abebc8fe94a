package dto

import (
	"time"

	"github.com/rafabene/avantpro-core/pkg/security"

	"github.com/rafabene/avantpro-core/internal/domain/entities"
	"github.com/rafabene/avantpro-core/internal/domain/repositories"
)

// CreateUserRequest representa a requisição para criar um usuário
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role" binding:"omitempty,oneof=admin user guest"`
}

// LoginRequest representa as credenciais de login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse contém o token de acesso emitido
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ListUsersQuery representa os filtros da listagem (query string)
type ListUsersQuery struct {
	Role     string `form:"role" binding:"omitempty,oneof=admin user guest"`
	Page     int    `form:"page" binding:"omitempty,gte=1"`
	PageSize int    `form:"page_size" binding:"omitempty,gte=1,lte=100"`
}

// ToFilters converte a query em filtros do repositório
func (q ListUsersQuery) ToFilters() repositories.UserFilters {
	filters := repositories.UserFilters{Page: q.Page, PageSize: q.PageSize}
	if q.Role != "" {
		role := security.Role(q.Role)
		filters.Role = &role
	}
	return filters
}

// UserResponse representa a resposta de um usuário
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AvatarResponse contém a URL do avatar
type AvatarResponse struct {
	URL string `json:"url"`
}

// ToUserResponse converte uma entidade User para UserResponse
func ToUserResponse(user *entities.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email.String(),
		Name:      user.Name,
		Role:      string(user.Role),
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt,
	}
}

// ToUserResponses converte uma lista de entidades User para UserResponse
func ToUserResponses(users []*entities.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i, user := range users {
		responses[i] = ToUserResponse(user)
	}
	return responses
}
