package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// devJWTSecret só é aceito fora de produção
const devJWTSecret = "dev-secret-change-me"

// Formatos de corpo de erro suportados
const (
	ErrorFormatEnvelope = "envelope"
	ErrorFormatProblem  = "problem"
)

// Config contém todas as configurações da aplicação
type Config struct {
	Env      string
	Server   ServerConfig
	Database DatabaseConfig
	I18n     I18nConfig
	Errors   ErrorsConfig
	Security SecurityConfig
	Logging  LoggingConfig
	CORS     CORSConfig
	Avatar   AvatarConfig
	Redis    RedisConfig
}

type ServerConfig struct {
	Port     string
	Host     string
	BaseURL  string // URL base da API para construir URIs RFC 7807
	GRPCPort string // vazio desabilita o servidor gRPC
}

// DatabaseConfig é usado pela fonte de mensagens em banco e,
// opcionalmente, pelo repositório de usuários da aplicação de exemplo
type DatabaseConfig struct {
	MessagesEnabled bool
	UsersEnabled    bool
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MinConns        int
	MaxIdleTime     int
}

type I18nConfig struct {
	LocalesDir      string // diretório opcional mesclado sobre as mensagens embutidas
	DefaultLanguage string
}

type ErrorsConfig struct {
	Format string // envelope | problem
}

type SecurityConfig struct {
	JWTSecret     string
	JWTIssuer     string
	AdminEmail    string // usuário admin criado na inicialização (opcional)
	AdminPassword string
	IPBlacklist   IPBlacklistConfig
}

type IPBlacklistConfig struct {
	Enabled  bool
	FilePath string
	LogLevel string
}

type LoggingConfig struct {
	Level  string
	Format string
}

type CORSConfig struct {
	AllowedOrigins string
}

// AvatarConfig configura o serviço externo de avatares
type AvatarConfig struct {
	BaseURL string
	Timeout time.Duration
}

// RedisConfig configura o blacklist de tokens; Addr vazio usa memória
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load carrega as configurações do .env (se existir) e das variáveis de ambiente
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile carrega as configurações usando envFile para desenvolvimento local.
// Variáveis já definidas no ambiente têm prioridade sobre o arquivo.
func LoadFile(envFile string) (*Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Env: v.GetString("ENV"),
		Server: ServerConfig{
			Port:     v.GetString("PORT"),
			Host:     v.GetString("HOST"),
			BaseURL:  v.GetString("API_BASE_URL"),
			GRPCPort: v.GetString("GRPC_PORT"),
		},
		Database: DatabaseConfig{
			MessagesEnabled: v.GetBool("DB_MESSAGES_ENABLED"),
			UsersEnabled:    v.GetBool("DB_USERS_ENABLED"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASS"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSL_MODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MinConns:        v.GetInt("DB_MIN_CONNS"),
			MaxIdleTime:     v.GetInt("DB_MAX_IDLE_TIME"),
		},
		I18n: I18nConfig{
			LocalesDir:      v.GetString("I18N_LOCALES_DIR"),
			DefaultLanguage: v.GetString("I18N_DEFAULT_LANGUAGE"),
		},
		Errors: ErrorsConfig{
			Format: strings.ToLower(v.GetString("ERROR_FORMAT")),
		},
		Security: SecurityConfig{
			JWTSecret:     v.GetString("JWT_SECRET"),
			JWTIssuer:     v.GetString("JWT_ISSUER"),
			AdminEmail:    v.GetString("ADMIN_EMAIL"),
			AdminPassword: v.GetString("ADMIN_PASSWORD"),
			IPBlacklist: IPBlacklistConfig{
				Enabled:  v.GetBool("SECURITY_IP_BLACKLIST_ENABLED"),
				FilePath: v.GetString("SECURITY_IP_BLACKLIST_FILE_PATH"),
				LogLevel: v.GetString("SECURITY_IP_BLACKLIST_LOG_LEVEL"),
			},
		},
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetString("CORS_ALLOWED_ORIGINS"),
		},
		Avatar: AvatarConfig{
			BaseURL: v.GetString("AVATAR_BASE_URL"),
			Timeout: v.GetDuration("AVATAR_TIMEOUT"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", "8080")
	v.SetDefault("API_BASE_URL", "http://localhost:8080")
	v.SetDefault("DB_MESSAGES_ENABLED", false)
	v.SetDefault("DB_USERS_ENABLED", false)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("DB_MAX_IDLE_TIME", 300)
	v.SetDefault("I18N_LOCALES_DIR", "./locales")
	v.SetDefault("I18N_DEFAULT_LANGUAGE", "ko")
	v.SetDefault("ERROR_FORMAT", ErrorFormatEnvelope)
	v.SetDefault("SECURITY_IP_BLACKLIST_ENABLED", true)
	v.SetDefault("SECURITY_IP_BLACKLIST_LOG_LEVEL", "WARN")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("JWT_SECRET", devJWTSecret)
	v.SetDefault("JWT_ISSUER", "avantpro")
	v.SetDefault("AVATAR_BASE_URL", "https://www.gravatar.com/avatar")
	v.SetDefault("AVATAR_TIMEOUT", "3s")
}

// Validate verifica combinações inválidas de configuração
func (c *Config) Validate() error {
	switch c.Errors.Format {
	case ErrorFormatEnvelope, ErrorFormatProblem:
	default:
		return fmt.Errorf("invalid ERROR_FORMAT %q (expected %q or %q)",
			c.Errors.Format, ErrorFormatEnvelope, ErrorFormatProblem)
	}

	if c.I18n.DefaultLanguage == "" {
		return fmt.Errorf("I18N_DEFAULT_LANGUAGE must not be empty")
	}

	if c.IsProduction() && (c.Security.JWTSecret == "" || c.Security.JWTSecret == devJWTSecret) {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}

	return nil
}

// IsProduction indica ambiente de produção
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Enabled indica se alguma funcionalidade precisa do banco
func (d *DatabaseConfig) Enabled() bool {
	return d.MessagesEnabled || d.UsersEnabled
}

// DSN retorna a connection string do PostgreSQL
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}
