package i18n

import (
	"context"

	"github.com/rafabene/avantpro-core/pkg/domain/errors"
)

// Catalog é a fonte de mensagens consultada pelo MessageResolver
type Catalog interface {
	Lookup(lang, key string) (string, bool)
	GetDefaultLanguage() string
}

// MessageResolver resolve chaves de mensagem para o idioma da requisição.
// Nunca falha: se a chave não existir, devolve o texto de fallback.
type MessageResolver struct {
	catalog Catalog
}

// NewMessageResolver cria um resolver sobre o catálogo informado
func NewMessageResolver(catalog Catalog) *MessageResolver {
	return &MessageResolver{catalog: catalog}
}

// Resolve traduz uma chave; fallback é a própria chave
func (r *MessageResolver) Resolve(ctx context.Context, key string, args ...any) string {
	return r.ResolveOrDefault(ctx, key, key, args...)
}

// ResolveKey traduz uma entrada do catálogo de MessageKey
func (r *MessageResolver) ResolveKey(ctx context.Context, key errors.MessageKey, args ...any) string {
	return r.ResolveOrDefault(ctx, key.Key(), key.Key(), args...)
}

// ResolveCode traduz a message key de um código de erro; fallback é o Code()
func (r *MessageResolver) ResolveCode(ctx context.Context, code errors.ErrorCodeProvider, args ...any) string {
	return r.ResolveOrDefault(ctx, code.MessageKey(), code.Code(), args...)
}

// ResolveOrDefault traduz uma chave usando def quando ela não existe no catálogo.
// Argumentos posicionais são aplicados também ao texto padrão.
func (r *MessageResolver) ResolveOrDefault(ctx context.Context, key, def string, args ...any) (message string) {
	message = FormatPositional(def, args...)
	if r == nil || r.catalog == nil {
		return message
	}

	// uma falha do catálogo não pode derrubar o tratamento de outro erro
	defer func() {
		if recover() != nil {
			message = FormatPositional(def, args...)
		}
	}()

	if msg, ok := r.catalog.Lookup(r.Language(ctx), key); ok {
		return FormatPositional(msg, args...)
	}
	return message
}

// Language retorna o idioma ativo: o do contexto ou o padrão do catálogo
func (r *MessageResolver) Language(ctx context.Context) string {
	if lang, ok := LanguageFromContext(ctx); ok {
		return lang
	}
	if r == nil || r.catalog == nil {
		return ""
	}
	return r.catalog.GetDefaultLanguage()
}
