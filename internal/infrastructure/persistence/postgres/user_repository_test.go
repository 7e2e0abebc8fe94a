package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rafabene/avantpro-core/pkg/security"

	"github.com/rafabene/avantpro-core/internal/domain/entities"
	"github.com/rafabene/avantpro-core/internal/domain/repositories"
	"github.com/rafabene/avantpro-core/internal/domain/valueobjects"
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

func newUser(t *testing.T, email string, role security.Role) *entities.User {
	t.Helper()

	e, err := valueobjects.NewEmail(email)
	if err != nil {
		t.Fatalf("email inválido: %v", err)
	}
	return &entities.User{Email: e, Name: "Test", PasswordHash: "hash", Role: role}
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))

	for _, u := range []*entities.User{
		newUser(t, "ana@example.com", security.RoleAdmin),
		newUser(t, "bia@example.com", security.RoleUser),
		newUser(t, "caio@example.com", security.RoleUser),
	} {
		if err := repo.Create(ctx, u); err != nil {
			t.Fatalf("falha ao criar: %v", err)
		}
		if u.ID == 0 {
			t.Fatal("Create deveria preencher o ID")
		}
	}

	t.Run("busca por ID e email", func(t *testing.T) {
		user, err := repo.FindByEmail(ctx, "bia@example.com")
		if err != nil || user == nil {
			t.Fatalf("esperava bia, obteve %v, %v", user, err)
		}

		byID, err := repo.FindByID(ctx, user.ID)
		if err != nil || byID == nil || byID.Email.String() != "bia@example.com" {
			t.Fatalf("esperava bia pelo ID %d, obteve %+v", user.ID, byID)
		}
		if byID.Role != security.RoleUser {
			t.Errorf("esperava role user, obteve %s", byID.Role)
		}
		if byID.CreatedAt.Before(time.Now().Add(-time.Minute)) {
			t.Errorf("CreatedAt não foi preenchido: %v", byID.CreatedAt)
		}
	})

	t.Run("usuário inexistente retorna nil sem erro", func(t *testing.T) {
		user, err := repo.FindByID(ctx, 999)
		if err != nil || user != nil {
			t.Fatalf("esperava (nil, nil), obteve (%v, %v)", user, err)
		}
	})

	t.Run("email duplicado viola índice único", func(t *testing.T) {
		if err := repo.Create(ctx, newUser(t, "ana@example.com", security.RoleUser)); err == nil {
			t.Error("esperava erro de unicidade")
		}
	})

	t.Run("filtra por role e pagina", func(t *testing.T) {
		role := security.RoleUser
		users, err := repo.List(ctx, repositories.UserFilters{Role: &role, Page: 1, PageSize: 1})
		if err != nil {
			t.Fatalf("List falhou: %v", err)
		}
		if len(users) != 1 || users[0].Email.String() != "bia@example.com" {
			t.Fatalf("esperava apenas bia, obteve %d usuários", len(users))
		}

		users, _ = repo.List(ctx, repositories.UserFilters{Page: 5})
		if len(users) != 0 {
			t.Errorf("página fora do intervalo deveria ser vazia, obteve %d", len(users))
		}
	})

	t.Run("soft delete esconde o usuário", func(t *testing.T) {
		caio, _ := repo.FindByEmail(ctx, "caio@example.com")
		if err := repo.Delete(ctx, caio.ID); err != nil {
			t.Fatalf("Delete falhou: %v", err)
		}

		if user, _ := repo.FindByID(ctx, caio.ID); user != nil {
			t.Error("usuário removido não deveria ser encontrado")
		}
		users, _ := repo.List(ctx, repositories.UserFilters{})
		if len(users) != 2 {
			t.Errorf("esperava 2 usuários ativos, obteve %d", len(users))
		}

		var model UserModel
		if err := repo.db.Unscoped().First(&model, caio.ID).Error; err != nil || model.DeletedAt == nil {
			t.Errorf("linha deveria continuar no banco com deleted_at, obteve %+v, %v", model, err)
		}
	})
}
