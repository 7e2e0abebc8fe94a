package i18n

import "context"

type ctxKey int

const languageCtxKey ctxKey = 1

// WithLanguage associa o idioma negociado ao contexto da requisição
func WithLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, languageCtxKey, lang)
}

// LanguageFromContext retorna o idioma da requisição, se houver
func LanguageFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	lang, ok := ctx.Value(languageCtxKey).(string)
	return lang, ok && lang != ""
}
