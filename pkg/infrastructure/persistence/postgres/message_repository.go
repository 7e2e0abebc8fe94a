package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// MessageSink recebe mensagens carregadas por idioma (implementado por i18n.Service)
type MessageSink interface {
	AddMessages(lang string, messages map[string]string)
}

// MessageRepository lê o catálogo de mensagens da tabela messages
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository cria um novo MessageRepository
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// FindAll retorna todas as mensagens agrupadas por idioma
func (r *MessageRepository) FindAll(ctx context.Context) (map[string]map[string]string, error) {
	var models []MessageModel

	if err := r.db.WithContext(ctx).Order("language, message_key").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	result := make(map[string]map[string]string)
	for _, m := range models {
		byLang, ok := result[m.Language]
		if !ok {
			byLang = make(map[string]string)
			result[m.Language] = byLang
		}
		byLang[m.MessageKey] = m.Message
	}

	return result, nil
}

// LoadInto mescla as mensagens do banco no catálogo, retornando quantas foram carregadas
func (r *MessageRepository) LoadInto(ctx context.Context, sink MessageSink) (int, error) {
	messages, err := r.FindAll(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for lang, byKey := range messages {
		sink.AddMessages(lang, byKey)
		count += len(byKey)
	}
	return count, nil
}

// Upsert grava ou atualiza uma mensagem
func (r *MessageRepository) Upsert(ctx context.Context, lang, key, message string) error {
	model := MessageModel{Language: lang, MessageKey: key}

	err := r.db.WithContext(ctx).
		Where(MessageModel{Language: lang, MessageKey: key}).
		Assign(MessageModel{Message: message}).
		FirstOrCreate(&model).Error
	if err != nil {
		return fmt.Errorf("failed to save message %s/%s: %w", lang, key, err)
	}
	return nil
}

// AutoMigrate cria a tabela messages
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&MessageModel{})
}
