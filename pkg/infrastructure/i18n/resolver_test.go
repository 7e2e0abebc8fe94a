package i18n

import (
	"context"
	"net/http"
	"testing"

	"github.com/rafabene/avantpro-core/pkg/domain/errors"
)

type panickingCatalog struct{}

func (panickingCatalog) Lookup(string, string) (string, bool) { panic("boom") }
func (panickingCatalog) GetDefaultLanguage() string           { return "en" }

func newTestResolver(t *testing.T) *MessageResolver {
	t.Helper()

	service, err := NewDefaultService("en")
	if err != nil {
		t.Fatalf("falha ao inicializar serviço: %v", err)
	}
	return NewMessageResolver(service)
}

func TestMessageResolver_Resolve(t *testing.T) {
	resolver := newTestResolver(t)
	ctx := context.Background()

	t.Run("usa idioma padrão sem idioma no contexto", func(t *testing.T) {
		if result := resolver.Resolve(ctx, "error.common.not.found"); result != "Not found." {
			t.Errorf("esperava 'Not found.', obteve '%s'", result)
		}
	})

	t.Run("usa idioma do contexto", func(t *testing.T) {
		ptCtx := WithLanguage(ctx, "pt-BR")
		if result := resolver.Resolve(ptCtx, "error.common.not.found"); result != "Não encontrado." {
			t.Errorf("esperava 'Não encontrado.', obteve '%s'", result)
		}
	})

	t.Run("retorna a chave quando não existe", func(t *testing.T) {
		if result := resolver.Resolve(ctx, "error.unknown.key"); result != "error.unknown.key" {
			t.Errorf("esperava a própria chave, obteve '%s'", result)
		}
	})

	t.Run("aplica argumentos posicionais", func(t *testing.T) {
		result := resolver.ResolveKey(ctx, errors.MessageCommonInvalidParameterType, "page")
		if result != "'page' parameter value is invalid." {
			t.Errorf("mensagem inesperada: '%s'", result)
		}
	})
}

func TestMessageResolver_ResolveCode(t *testing.T) {
	resolver := newTestResolver(t)
	ctx := WithLanguage(context.Background(), "ko")

	if result := resolver.ResolveCode(ctx, errors.Forbidden); result != "접근 권한이 없습니다." {
		t.Errorf("mensagem inesperada: '%s'", result)
	}

	unknown := errors.NewErrorCode("ORDER_042", "error.order.unknown", http.StatusConflict)
	if result := resolver.ResolveCode(ctx, unknown); result != "ORDER_042" {
		t.Errorf("esperava fallback para o código, obteve '%s'", result)
	}
}

func TestMessageResolver_NuncaFalha(t *testing.T) {
	ctx := context.Background()

	var nilResolver *MessageResolver
	if result := nilResolver.Resolve(ctx, "some.key"); result != "some.key" {
		t.Errorf("resolver nulo deveria devolver a chave, obteve '%s'", result)
	}

	if result := NewMessageResolver(nil).Resolve(ctx, "some.key"); result != "some.key" {
		t.Errorf("catálogo nulo deveria devolver a chave, obteve '%s'", result)
	}

	resolver := NewMessageResolver(panickingCatalog{})
	if result := resolver.ResolveOrDefault(ctx, "some.key", "default {0}", "x"); result != "default x" {
		t.Errorf("catálogo com panic deveria devolver o padrão, obteve '%s'", result)
	}
}

func TestMessageResolver_Language(t *testing.T) {
	resolver := newTestResolver(t)

	if lang := resolver.Language(context.Background()); lang != "en" {
		t.Errorf("esperava 'en', obteve '%s'", lang)
	}
	if lang := resolver.Language(WithLanguage(context.Background(), "ko")); lang != "ko" {
		t.Errorf("esperava 'ko', obteve '%s'", lang)
	}
}
