package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	core "github.com/rafabene/avantpro-core/pkg/domain/errors"
	"github.com/rafabene/avantpro-core/pkg/domain/ports"
	"github.com/rafabene/avantpro-core/pkg/security"

	"github.com/rafabene/avantpro-core/internal/domain/entities"
	usererrors "github.com/rafabene/avantpro-core/internal/domain/errors"
	"github.com/rafabene/avantpro-core/internal/domain/repositories"
	"github.com/rafabene/avantpro-core/internal/domain/valueobjects"
)

const tokenTTL = time.Hour

// AvatarProvider resolve a URL do avatar de um email em um serviço externo
type AvatarProvider interface {
	AvatarURL(ctx context.Context, email string) (string, error)
}

// UserService contém a lógica de negócio para usuários.
// Erros de negócio sobem sem tratamento até o handler global.
type UserService struct {
	userRepo  repositories.UserRepository
	encoder   *security.PasswordEncoder
	tokens    *security.TokenParser
	blacklist security.TokenBlacklist
	avatars   AvatarProvider
	logger    ports.Logger
}

// NewUserService cria um novo UserService
func NewUserService(
	userRepo repositories.UserRepository,
	encoder *security.PasswordEncoder,
	tokens *security.TokenParser,
	blacklist security.TokenBlacklist,
	avatars AvatarProvider,
	logger ports.Logger,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		encoder:   encoder,
		tokens:    tokens,
		blacklist: blacklist,
		avatars:   avatars,
		logger:    logger,
	}
}

// CreateUserInput representa os dados para criar um usuário
type CreateUserInput struct {
	Email    string
	Name     string
	Password string
	Role     security.Role
}

// CreateUser cria um novo usuário
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*entities.User, error) {
	s.logger.Info("creating user", "email", input.Email)

	email, err := valueobjects.NewEmail(input.Email)
	if err != nil {
		return nil, err
	}

	// Validar se email já existe
	existing, err := s.userRepo.FindByEmail(ctx, email.String())
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if existing != nil {
		return nil, core.NewDuplicate(usererrors.EmailAlreadyExists)
	}

	hash, err := s.encoder.Encode(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := input.Role
	if role == "" {
		role = security.RoleUser
	}

	now := time.Now()
	user := &entities.User{
		Email:        email,
		Name:         input.Name,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user created", "id", user.ID)
	return user, nil
}

// GetUser busca um usuário por ID
func (s *UserService) GetUser(ctx context.Context, id int64) (*entities.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	if user == nil {
		return nil, core.NewEntityNotFound(usererrors.UserNotFound)
	}
	return user, nil
}

// ListUsers lista usuários com filtros
func (s *UserService) ListUsers(ctx context.Context, filters repositories.UserFilters) ([]*entities.User, error) {
	return s.userRepo.List(ctx, filters)
}

// DeleteUser remove um usuário; ninguém pode remover a própria conta
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if _, err := s.GetUser(ctx, id); err != nil {
		return err
	}

	if auditor := security.AuditorFromContext(ctx); auditor != nil && auditor.UserID() == strconv.FormatInt(id, 10) {
		return core.NewBusinessRuleViolation(usererrors.CannotDeleteSelf)
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}

	s.logger.Info("user deleted", "id", id)
	return nil
}

// Login valida as credenciais e emite um token de acesso
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("find user by email: %w", err)
	}
	if user == nil || !s.encoder.Matches(password, user.PasswordHash) {
		return "", core.NewUnauthorized(usererrors.InvalidCredentials)
	}

	principal := security.Principal{
		ID:    strconv.FormatInt(user.ID, 10),
		Email: user.Email.String(),
		Roles: []security.Role{user.Role},
	}
	return s.tokens.Issue(principal, tokenTTL)
}

// Logout revoga o token da requisição até a sua expiração
func (s *UserService) Logout(ctx context.Context) error {
	principal, ok := security.PrincipalFromContext(ctx)
	if !ok || principal.TokenID == "" {
		return core.NewUnauthorized(core.Unauthorized)
	}

	if err := s.blacklist.Revoke(ctx, principal.TokenID, principal.ExpiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	s.logger.Info("user logged out", "id", principal.ID)
	return nil
}

// GetAvatar busca a URL do avatar no serviço externo
func (s *UserService) GetAvatar(ctx context.Context, id int64) (string, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return "", err
	}

	url, err := s.avatars.AvatarURL(ctx, user.Email.String())
	if err != nil {
		return "", core.NewExternalService(usererrors.AvatarUnavailable, core.WithCause(err))
	}
	return url, nil
}
