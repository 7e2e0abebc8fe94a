package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"gorm.io/gorm"

	"github.com/rafabene/avantpro-core/pkg/domain/errors"
	"github.com/rafabene/avantpro-core/pkg/domain/ports"
	"github.com/rafabene/avantpro-core/pkg/handlers/exception"
	"github.com/rafabene/avantpro-core/pkg/handlers/grpcx"
	"github.com/rafabene/avantpro-core/pkg/handlers/middleware"
	rediscache "github.com/rafabene/avantpro-core/pkg/infrastructure/cache/redis"
	"github.com/rafabene/avantpro-core/pkg/infrastructure/config"
	"github.com/rafabene/avantpro-core/pkg/infrastructure/i18n"
	"github.com/rafabene/avantpro-core/pkg/infrastructure/logging"
	"github.com/rafabene/avantpro-core/pkg/infrastructure/persistence/postgres"
	"github.com/rafabene/avantpro-core/pkg/security"

	usererrors "github.com/rafabene/avantpro-core/internal/domain/errors"
	"github.com/rafabene/avantpro-core/internal/domain/repositories"
	httphandlers "github.com/rafabene/avantpro-core/internal/handlers/http"
	"github.com/rafabene/avantpro-core/internal/infrastructure/avatar"
	"github.com/rafabene/avantpro-core/internal/infrastructure/memory"
	userstore "github.com/rafabene/avantpro-core/internal/infrastructure/persistence/postgres"
	"github.com/rafabene/avantpro-core/internal/services"
)

//	@title						AvantPro Core API
//	@version					1.0
//	@description				API de demonstração do tratamento global de erros (envelope padrão, i18n e RFC 7807).
//	@host						localhost:8080
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func main() {
	// Carregar configurações
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Inicializar logger
	logger := logging.NewSlogLogger(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("starting avantpro core demo",
		"env", cfg.Env,
		"version", "dev",
	)

	// Códigos duplicados entre catálogos quebram o contrato da API
	if err := errors.ValidateCatalog(append(errors.CommonCatalog(), usererrors.Catalog()...)...); err != nil {
		logger.Error("invalid error catalog", "error", err)
		log.Fatal(err)
	}

	// Banco (opcional): mensagens e/ou usuários
	var db *gorm.DB
	if cfg.Database.Enabled() {
		db, err = postgres.NewDatabaseConnection(context.Background(), &cfg.Database, logger, cfg.Logging.Level)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			log.Fatal(err)
		}
	}

	// Inicializar i18n
	i18nService, err := newI18nService(cfg, db, logger)
	if err != nil {
		logger.Error("failed to initialize i18n", "error", err)
		log.Fatal(err)
	}
	logger.Info("i18n initialized",
		"default_language", i18nService.GetDefaultLanguage(),
		"supported_languages", i18nService.GetSupportedLanguages(),
	)

	// Segurança
	tokens, err := security.NewTokenParser(cfg.Security.JWTSecret, cfg.Security.JWTIssuer)
	if err != nil {
		logger.Error("failed to initialize token parser", "error", err)
		log.Fatal(err)
	}
	ipBlacklist, err := middleware.NewIPBlacklist(cfg.Security.IPBlacklist, logger)
	if err != nil {
		logger.Error("failed to load ip blacklist", "error", err)
		log.Fatal(err)
	}

	// Inicializar repositories e services
	userRepo, err := newUserRepository(cfg, db)
	if err != nil {
		logger.Error("failed to initialize user repository", "error", err)
		log.Fatal(err)
	}
	tokenBlacklist, closeBlacklist, err := newTokenBlacklist(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize token blacklist", "error", err)
		log.Fatal(err)
	}
	defer closeBlacklist()

	userService := services.NewUserService(
		userRepo,
		security.NewPasswordEncoder(),
		tokens,
		tokenBlacklist,
		avatar.NewClient(cfg.Avatar.BaseURL, cfg.Avatar.Timeout),
		logger,
	)
	seedAdmin(cfg, userService, logger)

	// Tratamento global de erros
	i18nMiddleware := middleware.NewI18nMiddleware(i18nService)
	exceptionHandler := exception.NewGlobalExceptionHandler(i18nMiddleware.Resolver(), logger)
	exceptions := middleware.NewExceptionMiddleware(exceptionHandler,
		middleware.NewRenderer(cfg.Errors.Format, cfg.Server.BaseURL))

	// Setup Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := httphandlers.NewRouter(httphandlers.RouterConfig{
		Env:            cfg.Env,
		Logger:         logger,
		I18n:           i18nMiddleware,
		Exceptions:     exceptions,
		IPBlacklist:    ipBlacklist,
		Tokens:         tokens,
		Blacklist:      tokenBlacklist,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, httphandlers.NewUserHandler(userService))

	// HTTP Server
	srv := &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Info("server starting",
			"host", cfg.Server.Host,
			"port", cfg.Server.Port,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			log.Fatal(err)
		}
	}()

	grpcServer := startGRPC(cfg, exceptionHandler, logger)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

// newI18nService carrega as mensagens embutidas, depois o diretório de locales
// e por último o banco (quando habilitado). Fontes posteriores sobrescrevem.
func newI18nService(cfg *config.Config, db *gorm.DB, logger ports.Logger) (*i18n.Service, error) {
	service, err := i18n.NewDefaultService(cfg.I18n.DefaultLanguage)
	if err != nil {
		return nil, err
	}

	if dir := cfg.I18n.LocalesDir; dir != "" {
		if _, statErr := os.Stat(dir); statErr == nil {
			if err := service.LoadDir(dir); err != nil {
				return nil, err
			}
		} else {
			logger.Warn("locales dir not found, using embedded messages only", "dir", dir)
		}
	}

	if cfg.Database.MessagesEnabled {
		loaded, err := postgres.NewMessageRepository(db).LoadInto(context.Background(), service)
		if err != nil {
			return nil, err
		}
		logger.Info("messages loaded from database", "count", loaded)
	}

	return service, nil
}

// newUserRepository usa a tabela users quando DB_USERS_ENABLED=true; senão memória
func newUserRepository(cfg *config.Config, db *gorm.DB) (repositories.UserRepository, error) {
	if !cfg.Database.UsersEnabled {
		return memory.NewUserRepository(), nil
	}
	if err := userstore.AutoMigrate(db); err != nil {
		return nil, err
	}
	return userstore.NewUserRepository(db), nil
}

// newTokenBlacklist usa Redis quando REDIS_ADDR está definido; senão memória
func newTokenBlacklist(cfg *config.Config, logger ports.Logger) (security.TokenBlacklist, func(), error) {
	if cfg.Redis.Addr == "" {
		logger.Warn("REDIS_ADDR not set, token blacklist kept in memory")
		return security.NewBlacklistStore(security.NewMemoryKV(), ""), func() {}, nil
	}

	cache := rediscache.New(cfg.Redis, logger)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cache.Ping(ctx); err != nil {
		_ = cache.Close()
		return nil, nil, err
	}
	logger.Info("redis connected", "addr", cfg.Redis.Addr)

	return security.NewBlacklistStore(cache, ""), func() { _ = cache.Close() }, nil
}

func seedAdmin(cfg *config.Config, userService *services.UserService, logger ports.Logger) {
	if cfg.Security.AdminEmail == "" || cfg.Security.AdminPassword == "" {
		return
	}

	_, err := userService.CreateUser(context.Background(), services.CreateUserInput{
		Email:    cfg.Security.AdminEmail,
		Name:     "Administrator",
		Password: cfg.Security.AdminPassword,
		Role:     security.RoleAdmin,
	})
	if err != nil {
		logger.Error("failed to create admin user", "error", err)
		log.Fatal(err)
	}
}

func startGRPC(cfg *config.Config, handler *exception.GlobalExceptionHandler, logger ports.Logger) *grpc.Server {
	if cfg.Server.GRPCPort == "" {
		return nil
	}

	lis, err := net.Listen("tcp", cfg.Server.Host+":"+cfg.Server.GRPCPort)
	if err != nil {
		logger.Error("failed to listen grpc", "error", err)
		log.Fatal(err)
	}

	server := grpc.NewServer(grpc.UnaryInterceptor(grpcx.UnaryServerInterceptor(handler)))
	healthpb.RegisterHealthServer(server, health.NewServer())

	go func() {
		logger.Info("grpc server starting", "port", cfg.Server.GRPCPort)
		if err := server.Serve(lis); err != nil {
			logger.Error("grpc server failed", "error", err)
		}
	}()

	return server
}
