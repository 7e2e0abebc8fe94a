package i18n

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"
	"text/template"
)

// Service gerencia traduções e internacionalização
type Service struct {
	mu              sync.RWMutex
	translations    map[string]map[string]string // [language][key]message
	defaultLanguage string
}

// NewService cria um novo serviço de i18n
// localesDir: diretório contendo os arquivos de tradução (.json, .yaml, .yml, .toml)
// defaultLang: idioma padrão (fallback)
func NewService(localesDir, defaultLang string) (*Service, error) {
	if _, err := os.Stat(localesDir); err != nil {
		return nil, fmt.Errorf("failed to open locales dir %s: %w", localesDir, err)
	}
	return NewServiceFromFS(os.DirFS(localesDir), ".", defaultLang)
}

// NewServiceFromFS cria o serviço a partir de um fs.FS (ex: embed.FS)
func NewServiceFromFS(fsys fs.FS, dir, defaultLang string) (*Service, error) {
	s := &Service{
		translations:    make(map[string]map[string]string),
		defaultLanguage: defaultLang,
	}

	loaded, err := loadLocales(fsys, dir)
	if err != nil {
		return nil, err
	}

	if len(loaded) == 0 {
		return nil, fmt.Errorf("no locale files found in %s", dir)
	}

	for lang, messages := range loaded {
		s.translations[lang] = messages
	}

	// Verificar se o idioma padrão existe
	if _, ok := s.translations[defaultLang]; !ok {
		return nil, fmt.Errorf("default language %s not found in locale files", defaultLang)
	}

	return s, nil
}

// NewDefaultService cria o serviço com as mensagens embutidas do catálogo comum
func NewDefaultService(defaultLang string) (*Service, error) {
	return NewServiceFromFS(embeddedLocales, embeddedLocalesDir, defaultLang)
}

// LoadDir mescla os arquivos de um diretório nas traduções existentes.
// Chaves repetidas sobrescrevem as anteriores.
func (s *Service) LoadDir(localesDir string) error {
	loaded, err := loadLocales(os.DirFS(localesDir), ".")
	if err != nil {
		return err
	}

	for lang, messages := range loaded {
		s.AddMessages(lang, messages)
	}
	return nil
}

// AddMessages mescla mensagens de um idioma (usado por fontes externas, ex: banco)
func (s *Service) AddMessages(lang string, messages map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.translations[lang]
	if !ok {
		target = make(map[string]string, len(messages))
		s.translations[lang] = target
	}
	for key, msg := range messages {
		target[key] = msg
	}
}

// Lookup busca a mensagem sem fallback para a chave.
// Ordem: idioma exato -> idioma base (pt-BR -> pt) -> idioma padrão
func (s *Service) Lookup(lang, key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if msg := s.getTranslation(lang, key); msg != "" {
		return msg, true
	}

	if idx := strings.Index(lang, "-"); idx != -1 {
		if msg := s.getTranslation(lang[:idx], key); msg != "" {
			return msg, true
		}
	}

	if msg := s.getTranslation(s.defaultLanguage, key); msg != "" {
		return msg, true
	}

	return "", false
}

// T traduz uma chave para o idioma especificado
// Suporta interpolação de parâmetros usando templates Go ({{.Name}}, {{.Email}}, etc.)
func (s *Service) T(lang, key string, params ...map[string]interface{}) string {
	message, ok := s.Lookup(lang, key)

	// Se não encontrou, retornar a chave
	if !ok {
		return key
	}

	// Se não há parâmetros, retornar mensagem diretamente
	if len(params) == 0 {
		return message
	}

	// Interpolar parâmetros usando template
	tmpl, err := template.New("msg").Parse(message)
	if err != nil {
		// Se houver erro no template, retornar mensagem sem interpolação
		return message
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, params[0]); err != nil {
		// Se houver erro na execução, retornar mensagem sem interpolação
		return message
	}

	return buf.String()
}

// Format traduz uma chave substituindo argumentos posicionais ({0}, {1}, ...)
func (s *Service) Format(lang, key string, args ...any) string {
	message, ok := s.Lookup(lang, key)
	if !ok {
		return key
	}
	return FormatPositional(message, args...)
}

// Messages retorna uma cópia das mensagens de um idioma
func (s *Service) Messages(lang string) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.translations[lang]))
	for key, msg := range s.translations[lang] {
		out[key] = msg
	}
	return out
}

// MissingKeys lista, por idioma, as chaves sem tradução própria.
// O fallback para o idioma padrão não conta; idiomas completos ficam de fora.
func (s *Service) MissingKeys(keys ...string) map[string][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	missing := make(map[string][]string)
	for lang, messages := range s.translations {
		for _, key := range keys {
			if messages[key] == "" {
				missing[lang] = append(missing[lang], key)
			}
		}
	}
	return missing
}

// getTranslation busca uma tradução sem lock (uso interno)
func (s *Service) getTranslation(lang, key string) string {
	if langMap, ok := s.translations[lang]; ok {
		if msg, ok := langMap[key]; ok {
			return msg
		}
	}
	return ""
}

// GetDefaultLanguage retorna o idioma padrão configurado
func (s *Service) GetDefaultLanguage() string {
	return s.defaultLanguage
}

// GetSupportedLanguages retorna lista ordenada de idiomas suportados
func (s *Service) GetSupportedLanguages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	langs := make([]string, 0, len(s.translations))
	for lang := range s.translations {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// IsLanguageSupported verifica se um idioma é suportado
func (s *Service) IsLanguageSupported(lang string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.translations[lang]
	return ok
}
