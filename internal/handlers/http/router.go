package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/rafabene/avantpro-core/docs"
	"github.com/rafabene/avantpro-core/pkg/domain/ports"
	"github.com/rafabene/avantpro-core/pkg/handlers/middleware"
	"github.com/rafabene/avantpro-core/pkg/security"
)

// RouterConfig reúne as dependências do roteador HTTP
type RouterConfig struct {
	Env            string
	Logger         ports.Logger
	I18n           *middleware.I18nMiddleware
	Exceptions     *middleware.ExceptionMiddleware
	IPBlacklist    *middleware.IPBlacklist
	Tokens         *security.TokenParser
	Blacklist      security.TokenBlacklist
	AllowedOrigins string
}

// NewRouter monta o gin.Engine com middlewares e rotas
func NewRouter(cfg RouterConfig, users *UserHandler) *gin.Engine {
	router := gin.New()

	// Ordem: recovery primeiro; idioma antes do middleware de exceções
	router.Use(
		cfg.Exceptions.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(cfg.Logger),
		cfg.I18n.DetectLanguage(),
		cfg.Exceptions.Handle(),
		middleware.CORS(cfg.AllowedOrigins),
	)
	if cfg.IPBlacklist != nil {
		router.Use(cfg.IPBlacklist.Handler())
	}

	router.NoRoute(cfg.Exceptions.NoRoute())
	router.NoMethod(cfg.Exceptions.NoMethod())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"env":    cfg.Env,
		})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	v1 := router.Group("/api/v1")
	{
		authenticate := middleware.Authenticate(cfg.Tokens, cfg.Blacklist)

		v1.POST("/auth/login", users.Login)
		v1.POST("/auth/logout", authenticate, users.Logout)

		// Users
		v1.POST("/users", users.CreateUser)

		authenticated := v1.Group("/users", authenticate)
		{
			authenticated.GET("", middleware.RequirePermission(security.PermissionUserRead), users.ListUsers)
			authenticated.GET("/:id", middleware.RequirePermission(security.PermissionUserRead), users.GetUser)
			authenticated.GET("/:id/avatar", middleware.RequirePermission(security.PermissionUserRead), users.GetAvatar)
			authenticated.DELETE("/:id", middleware.RequirePermission(security.PermissionUserDelete), users.DeleteUser)
		}
	}

	return router
}
