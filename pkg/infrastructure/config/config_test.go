package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("esperava sucesso, obteve erro: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("esperava porta padrão '8080', obteve '%s'", cfg.Server.Port)
	}
	if cfg.I18n.DefaultLanguage != "ko" {
		t.Errorf("esperava idioma padrão 'ko', obteve '%s'", cfg.I18n.DefaultLanguage)
	}
	if cfg.Errors.Format != ErrorFormatEnvelope {
		t.Errorf("esperava formato 'envelope', obteve '%s'", cfg.Errors.Format)
	}
	if !cfg.Security.IPBlacklist.Enabled || cfg.Security.IPBlacklist.LogLevel != "WARN" {
		t.Errorf("padrões de blacklist inesperados: %+v", cfg.Security.IPBlacklist)
	}
	if cfg.Database.Enabled() {
		t.Error("banco deveria estar desabilitado por padrão")
	}
	if cfg.Avatar.Timeout != 3*time.Second {
		t.Errorf("esperava timeout de avatar 3s, obteve %s", cfg.Avatar.Timeout)
	}
}

func TestLoadFile_EnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "PORT=9090\nI18N_DEFAULT_LANGUAGE=en\nERROR_FORMAT=PROBLEM\nDB_HOST=db\nDB_PORT=6543\nDB_USERS_ENABLED=true\n"
	if err := os.WriteFile(envFile, []byte(content), 0644); err != nil { //nolint:gosec
		t.Fatalf("failed to create .env: %v", err)
	}

	// godotenv não sobrescreve variáveis existentes; limpar ao final
	for _, key := range []string{"PORT", "I18N_DEFAULT_LANGUAGE", "ERROR_FORMAT", "DB_HOST", "DB_PORT", "DB_USERS_ENABLED"} {
		key := key
		prev, had := os.LookupEnv(key)
		t.Cleanup(func() {
			if had {
				_ = os.Setenv(key, prev)
			} else {
				_ = os.Unsetenv(key)
			}
		})
	}

	cfg, err := LoadFile(envFile)
	if err != nil {
		t.Fatalf("esperava sucesso, obteve erro: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("esperava porta '9090', obteve '%s'", cfg.Server.Port)
	}
	if cfg.I18n.DefaultLanguage != "en" {
		t.Errorf("esperava idioma 'en', obteve '%s'", cfg.I18n.DefaultLanguage)
	}
	if cfg.Errors.Format != ErrorFormatProblem {
		t.Errorf("esperava formato 'problem', obteve '%s'", cfg.Errors.Format)
	}

	if !cfg.Database.UsersEnabled || cfg.Database.MessagesEnabled || !cfg.Database.Enabled() {
		t.Errorf("flags de banco inesperadas: %+v", cfg.Database)
	}

	expectedDSN := "host=db port=6543 user= password= dbname= sslmode=disable"
	if dsn := cfg.Database.DSN(); dsn != expectedDSN {
		t.Errorf("esperava DSN '%s', obteve '%s'", expectedDSN, dsn)
	}
}

func TestLoadFile_FormatoInvalido(t *testing.T) {
	t.Setenv("ERROR_FORMAT", "xml")

	if _, err := LoadFile(""); err == nil {
		t.Error("esperava erro para ERROR_FORMAT inválido")
	}
}

func TestLoadFile_ProducaoExigeJWTSecret(t *testing.T) {
	t.Setenv("ENV", "production")

	if _, err := LoadFile(""); err == nil {
		t.Fatal("esperava erro sem JWT_SECRET em produção")
	}

	t.Setenv("JWT_SECRET", "a-real-secret")
	if _, err := LoadFile(""); err != nil {
		t.Errorf("esperava sucesso com JWT_SECRET definido, obteve: %v", err)
	}
}
