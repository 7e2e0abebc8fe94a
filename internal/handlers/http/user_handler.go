package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	api "github.com/rafabene/avantpro-core/pkg/handlers/dto"
	"github.com/rafabene/avantpro-core/pkg/handlers/middleware"
	"github.com/rafabene/avantpro-core/pkg/security"

	"github.com/rafabene/avantpro-core/internal/handlers/dto"
	"github.com/rafabene/avantpro-core/internal/services"
)

// UserHandler lida com requisições HTTP relacionadas a usuários.
// Erros vão para c.Error e são renderizados pelo middleware de exceções.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler cria um novo UserHandler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// CreateUser cria um novo usuário
//
//	@Summary	Cria um usuário
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Param		request	body		dto.CreateUserRequest	true	"Dados do usuário"
//	@Success	201		{object}	api.APIResponse[dto.UserResponse]
//	@Failure	400		{object}	api.APIResponse[any]
//	@Failure	409		{object}	api.APIResponse[any]
//	@Router		/users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := api.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), services.CreateUserInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Role:     security.Role(req.Role),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, api.OK(dto.ToUserResponse(user), middleware.T(c, "error.common.success")))
}

// GetUser busca um usuário por ID
//
//	@Summary	Busca um usuário
//	@Tags		users
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"ID do usuário"
//	@Success	200	{object}	api.APIResponse[dto.UserResponse]
//	@Failure	400	{object}	api.APIResponse[any]
//	@Failure	404	{object}	api.APIResponse[any]
//	@Router		/users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := api.ParamInt(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, api.OK(dto.ToUserResponse(user), middleware.T(c, "error.common.success")))
}

// ListUsers lista usuários
//
//	@Summary	Lista usuários
//	@Tags		users
//	@Produce	json
//	@Security	BearerAuth
//	@Param		role		query		string	false	"Filtro por role"	Enums(admin, user, guest)
//	@Param		page		query		int		false	"Página (começa em 1)"
//	@Param		page_size	query		int		false	"Itens por página (max 100)"
//	@Success	200			{object}	api.APIResponse[[]dto.UserResponse]
//	@Failure	400			{object}	api.APIResponse[any]
//	@Router		/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	var query dto.ListUsersQuery
	if err := api.BindQuery(c, &query); err != nil {
		_ = c.Error(err)
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), query.ToFilters())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, api.OK(dto.ToUserResponses(users), middleware.T(c, "error.common.success")))
}

// DeleteUser remove um usuário
//
//	@Summary	Remove um usuário
//	@Tags		users
//	@Security	BearerAuth
//	@Param		id	path	int	true	"ID do usuário"
//	@Success	204
//	@Failure	400	{object}	api.APIResponse[any]
//	@Failure	403	{object}	api.APIResponse[any]
//	@Failure	404	{object}	api.APIResponse[any]
//	@Router		/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := api.ParamInt(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetAvatar busca o avatar do usuário no serviço externo
//
//	@Summary	Busca o avatar de um usuário
//	@Tags		users
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"ID do usuário"
//	@Success	200	{object}	api.APIResponse[dto.AvatarResponse]
//	@Failure	404	{object}	api.APIResponse[any]
//	@Failure	503	{object}	api.APIResponse[any]
//	@Router		/users/{id}/avatar [get]
func (h *UserHandler) GetAvatar(c *gin.Context) {
	id, err := api.ParamInt(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	url, err := h.userService.GetAvatar(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, api.OK(dto.AvatarResponse{URL: url}, middleware.T(c, "error.common.success")))
}

// Login autentica o usuário e emite um token
//
//	@Summary	Autentica um usuário
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		dto.LoginRequest	true	"Credenciais"
//	@Success	200		{object}	api.APIResponse[dto.LoginResponse]
//	@Failure	400		{object}	api.APIResponse[any]
//	@Failure	401		{object}	api.APIResponse[any]
//	@Router		/auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := api.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	token, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, api.OK(dto.LoginResponse{AccessToken: token, TokenType: "Bearer"}, middleware.T(c, "error.common.success")))
}

// Logout revoga o token usado na requisição
//
//	@Summary	Revoga o token de acesso
//	@Tags		auth
//	@Security	BearerAuth
//	@Success	204
//	@Failure	401	{object}	api.APIResponse[any]
//	@Router		/auth/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.userService.Logout(c.Request.Context()); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
