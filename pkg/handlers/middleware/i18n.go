package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/avantpro-core/pkg/infrastructure/i18n"
)

const (
	// LanguageContextKey é a chave usada para armazenar o idioma no contexto do Gin
	LanguageContextKey = "language"
	// I18nServiceContextKey é a chave usada para armazenar o serviço i18n no contexto
	I18nServiceContextKey = "i18n_service"
	// ResolverContextKey é a chave do MessageResolver no contexto do Gin
	ResolverContextKey = "message_resolver"

	langQueryParam = "lang"
)

// I18nMiddleware gerencia a detecção de idioma nas requisições
type I18nMiddleware struct {
	i18nService *i18n.Service
	resolver    *i18n.MessageResolver
}

// NewI18nMiddleware cria um novo middleware de i18n
func NewI18nMiddleware(i18nService *i18n.Service) *I18nMiddleware {
	return &I18nMiddleware{
		i18nService: i18nService,
		resolver:    i18n.NewMessageResolver(i18nService),
	}
}

// Resolver retorna o MessageResolver sobre o mesmo catálogo
func (m *I18nMiddleware) Resolver() *i18n.MessageResolver {
	return m.resolver
}

// DetectLanguage detecta e configura o idioma da requisição
// Prioridade:
// 1. Query parameter ?lang=pt-BR (override explícito)
// 2. Accept-Language header (preferência do browser)
// 3. Idioma padrão (fallback)
// O idioma também vai para o context.Context da requisição, usado pelo MessageResolver.
func (m *I18nMiddleware) DetectLanguage() gin.HandlerFunc {
	return func(c *gin.Context) {
		var lang string

		// 1. Verificar query parameter
		if queryLang := c.Query(langQueryParam); queryLang != "" {
			if m.i18nService.IsLanguageSupported(queryLang) {
				lang = queryLang
			}
		}

		// 2. Se não encontrou, verificar Accept-Language header
		if lang == "" {
			lang = m.parseAcceptLanguage(c.GetHeader("Accept-Language"))
		}

		// 3. Se ainda não encontrou, usar idioma padrão
		if lang == "" {
			lang = m.i18nService.GetDefaultLanguage()
		}

		c.Set(LanguageContextKey, lang)
		c.Set(I18nServiceContextKey, m.i18nService)
		c.Set(ResolverContextKey, m.resolver)
		c.Request = c.Request.WithContext(i18n.WithLanguage(c.Request.Context(), lang))

		c.Next()
	}
}

// parseAcceptLanguage analisa o header Accept-Language e retorna o melhor idioma suportado
// Exemplo: "pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7" -> "pt-BR"
func (m *I18nMiddleware) parseAcceptLanguage(acceptLang string) string {
	if acceptLang == "" {
		return ""
	}

	for _, lang := range strings.Split(acceptLang, ",") {
		// Remover peso (;q=0.9) se existir
		lang = strings.TrimSpace(lang)
		if idx := strings.Index(lang, ";"); idx != -1 {
			lang = lang[:idx]
		}

		if m.i18nService.IsLanguageSupported(lang) {
			return lang
		}

		// Verificar variação sem região (en-US -> en)
		if idx := strings.Index(lang, "-"); idx != -1 {
			baseLang := lang[:idx]
			if m.i18nService.IsLanguageSupported(baseLang) {
				return baseLang
			}
		}
	}

	return ""
}

// GetLanguage retorna o idioma detectado para a requisição
func GetLanguage(c *gin.Context) string {
	if lang, ok := c.Get(LanguageContextKey); ok {
		if s, ok := lang.(string); ok {
			return s
		}
	}
	if lang, ok := i18n.LanguageFromContext(c.Request.Context()); ok {
		return lang
	}
	return ""
}

// T traduz uma chave no idioma da requisição com argumentos posicionais.
// Sem o middleware de idioma, devolve a própria chave.
func T(c *gin.Context, key string, args ...any) string {
	value, ok := c.Get(ResolverContextKey)
	if !ok {
		return i18n.FormatPositional(key, args...)
	}
	resolver, ok := value.(*i18n.MessageResolver)
	if !ok {
		return i18n.FormatPositional(key, args...)
	}
	return resolver.Resolve(c.Request.Context(), key, args...)
}
