package postgres

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rafabene/avantpro-core/pkg/domain/ports"
	"github.com/rafabene/avantpro-core/pkg/infrastructure/i18n"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return db
}

func TestMessageRepository_UpsertEFindAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	if err := repo.Upsert(ctx, "en", "error.order.closed", "Order is closed."); err != nil {
		t.Fatalf("upsert falhou: %v", err)
	}
	if err := repo.Upsert(ctx, "ko", "error.order.closed", "주문이 마감되었습니다."); err != nil {
		t.Fatalf("upsert falhou: %v", err)
	}
	if err := repo.Upsert(ctx, "en", "error.order.closed", "The order is already closed."); err != nil {
		t.Fatalf("upsert falhou: %v", err)
	}

	messages, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll falhou: %v", err)
	}

	if len(messages) != 2 {
		t.Fatalf("esperava 2 idiomas, obteve %d", len(messages))
	}
	if got := messages["en"]["error.order.closed"]; got != "The order is already closed." {
		t.Errorf("upsert não atualizou a mensagem: '%s'", got)
	}

	var count int64
	db.Model(&MessageModel{}).Count(&count)
	if count != 2 {
		t.Errorf("esperava 2 linhas, obteve %d", count)
	}
}

func TestMessageRepository_LoadInto(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	if err := repo.Upsert(ctx, "en", "error.common.not.found", "Nothing here."); err != nil {
		t.Fatalf("upsert falhou: %v", err)
	}

	service, err := i18n.NewDefaultService("en")
	if err != nil {
		t.Fatalf("falha ao inicializar i18n: %v", err)
	}

	loaded, err := repo.LoadInto(ctx, service)
	if err != nil {
		t.Fatalf("LoadInto falhou: %v", err)
	}
	if loaded != 1 {
		t.Errorf("esperava 1 mensagem carregada, obteve %d", loaded)
	}

	if msg := service.T("en", "error.common.not.found"); msg != "Nothing here." {
		t.Errorf("mensagem do banco deveria sobrescrever a embutida, obteve '%s'", msg)
	}
}

type recordingLogger struct {
	warns []string
}

func (l *recordingLogger) Info(msg string, args ...any)  {}
func (l *recordingLogger) Error(msg string, args ...any) {}
func (l *recordingLogger) Debug(msg string, args ...any) {}
func (l *recordingLogger) Warn(msg string, args ...any) {
	l.warns = append(l.warns, fmt.Sprint(args...))
}
func (l *recordingLogger) With(args ...any) ports.Logger { return l }

func TestGormLogger_UsaLoggerDaAplicacao(t *testing.T) {
	log := &recordingLogger{}

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger: NewGormLogger(log, "debug"),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	if err := db.Exec("SELECT * FROM missing_table").Error; err == nil {
		t.Fatal("esperava erro de tabela inexistente")
	}

	if len(log.warns) == 0 {
		t.Fatal("esperava que o GORM registrasse a falha no logger da aplicação")
	}
	if !strings.Contains(strings.Join(log.warns, "\n"), "missing_table") {
		t.Errorf("log não contém a query: %v", log.warns)
	}
}

func TestGormLevel(t *testing.T) {
	tests := map[string]logger.LogLevel{
		"debug": logger.Info,
		"DEBUG": logger.Info,
		"error": logger.Error,
		"info":  logger.Warn,
		"":      logger.Warn,
	}
	for level, expected := range tests {
		if got := gormLevel(level); got != expected {
			t.Errorf("gormLevel(%q): esperava %v, obteve %v", level, expected, got)
		}
	}
}
