package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/rafabene/avantpro-core/pkg/security"

	"github.com/rafabene/avantpro-core/internal/domain/entities"
	"github.com/rafabene/avantpro-core/internal/domain/repositories"
	"github.com/rafabene/avantpro-core/internal/domain/valueobjects"
)

// UserRepository implementa repositories.UserRepository sobre GORM
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository cria um novo UserRepository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ repositories.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	model := toModel(user)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.ID = model.ID
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*entities.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// findOne ignora registros removidos; ausência retorna (nil, nil)
func (r *UserRepository) findOne(ctx context.Context, cond string, arg any) (*entities.User, error) {
	var model UserModel

	err := r.db.WithContext(ctx).
		Where(cond+" AND deleted_at IS NULL", arg).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return toEntity(&model)
}

// Delete faz soft delete: atualiza deleted_at ao invés de remover a linha
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	now := time.Now().Unix()
	err := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]any{"deleted_at": now, "updated_at": now}).Error
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, filters repositories.UserFilters) ([]*entities.User, error) {
	filters = filters.Normalize()

	query := r.db.WithContext(ctx).Model(&UserModel{}).Where("deleted_at IS NULL")
	if filters.Role != nil {
		query = query.Where("role = ?", string(*filters.Role))
	}

	var models []*UserModel
	err := query.Order("id").
		Limit(filters.PageSize).
		Offset((filters.Page - 1) * filters.PageSize).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*entities.User, 0, len(models))
	for _, model := range models {
		user, err := toEntity(model)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// Conversores
func toModel(user *entities.User) *UserModel {
	var deletedAt *int64
	if user.DeletedAt != nil {
		ts := user.DeletedAt.Unix()
		deletedAt = &ts
	}

	return &UserModel{
		ID:           user.ID,
		Email:        user.Email.String(),
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		AvatarURL:    user.AvatarURL,
		CreatedAt:    unixOrZero(user.CreatedAt),
		UpdatedAt:    unixOrZero(user.UpdatedAt),
		DeletedAt:    deletedAt,
	}
}

// tempo zero vira 0 para o GORM preencher autoCreateTime/autoUpdateTime
func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func toEntity(model *UserModel) (*entities.User, error) {
	email, err := valueobjects.NewEmail(model.Email)
	if err != nil {
		return nil, fmt.Errorf("stored user %d has invalid email: %w", model.ID, err)
	}

	var deletedAt *time.Time
	if model.DeletedAt != nil {
		ts := time.Unix(*model.DeletedAt, 0)
		deletedAt = &ts
	}

	return &entities.User{
		ID:           model.ID,
		Email:        email,
		Name:         model.Name,
		PasswordHash: model.PasswordHash,
		Role:         security.Role(model.Role),
		AvatarURL:    model.AvatarURL,
		CreatedAt:    time.Unix(model.CreatedAt, 0),
		UpdatedAt:    time.Unix(model.UpdatedAt, 0),
		DeletedAt:    deletedAt,
	}, nil
}
