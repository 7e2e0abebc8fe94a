package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rafabene/avantpro-core/internal/domain/entities"
	"github.com/rafabene/avantpro-core/internal/domain/repositories"
)

// UserRepository implementa repositories.UserRepository em memória
type UserRepository struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]*entities.User
}

// NewUserRepository cria um repositório vazio
func NewUserRepository() *UserRepository {
	return &UserRepository{
		nextID: 1,
		users:  make(map[int64]*entities.User),
	}
}

// Create atribui o próximo ID e armazena uma cópia do usuário
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.ID = r.nextID
	r.nextID++

	stored := *user
	r.users[user.ID] = &stored
	return nil
}

// FindByID busca um usuário ativo por ID
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok || user.IsDeleted() {
		return nil, nil
	}
	found := *user
	return &found, nil
}

// FindByEmail busca um usuário ativo por email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email.String() == email && !user.IsDeleted() {
			found := *user
			return &found, nil
		}
	}
	return nil, nil
}

// Delete faz soft delete do usuário
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.users[id]; ok && !user.IsDeleted() {
		user.SoftDelete(time.Now())
	}
	return nil
}

// List lista usuários ativos ordenados por ID
func (r *UserRepository) List(ctx context.Context, filters repositories.UserFilters) ([]*entities.User, error) {
	filters = filters.Normalize()

	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*entities.User, 0, len(r.users))
	for _, user := range r.users {
		if user.IsDeleted() {
			continue
		}
		if filters.Role != nil && user.Role != *filters.Role {
			continue
		}
		found := *user
		users = append(users, &found)
	}

	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	start := (filters.Page - 1) * filters.PageSize
	if start >= len(users) {
		return []*entities.User{}, nil
	}
	end := start + filters.PageSize
	if end > len(users) {
		end = len(users)
	}
	return users[start:end], nil
}
