package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.json
var embeddedLocales embed.FS

const embeddedLocalesDir = "locales"

// loadLocales carrega todos os arquivos suportados de dir.
// O idioma vem do nome do arquivo (pt-BR.yaml -> "pt-BR").
// Arquivos do mesmo idioma em formatos diferentes são mesclados.
func loadLocales(fsys fs.FS, dir string) (map[string]map[string]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to find locale files: %w", err)
	}

	result := make(map[string]map[string]string)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := strings.ToLower(path.Ext(name))
		if !isLocaleExt(ext) {
			continue
		}

		lang := strings.TrimSuffix(name, path.Ext(name))
		if lang == "" {
			continue
		}

		file := path.Join(dir, name)
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read locale file %s: %w", file, err)
		}

		messages, err := parseLocaleFile(ext, data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse locale file %s: %w", file, err)
		}

		if existing, ok := result[lang]; ok {
			for k, v := range messages {
				existing[k] = v
			}
			continue
		}
		result[lang] = messages
	}

	return result, nil
}

func isLocaleExt(ext string) bool {
	switch ext {
	case ".json", ".yaml", ".yml", ".toml":
		return true
	}
	return false
}

// parseLocaleFile decodifica o arquivo e achata mapas aninhados com "."
// ({"error": {"common": {"forbidden": "..."}}} -> "error.common.forbidden")
func parseLocaleFile(ext string, data []byte) (map[string]string, error) {
	raw := make(map[string]interface{})

	var err error
	switch ext {
	case ".json":
		err = json.Unmarshal(data, &raw)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	default:
		err = fmt.Errorf("unsupported locale format %q", ext)
	}
	if err != nil {
		return nil, err
	}

	messages := make(map[string]string, len(raw))
	flatten("", raw, messages)
	return messages, nil
}

func flatten(prefix string, value interface{}, out map[string]string) {
	switch v := value.(type) {
	case map[string]interface{}:
		for k, child := range v {
			flatten(joinKey(prefix, k), child, out)
		}
	case map[interface{}]interface{}:
		for k, child := range v {
			flatten(joinKey(prefix, fmt.Sprint(k)), child, out)
		}
	case string:
		out[prefix] = v
	case nil:
		// chave sem valor é ignorada
	default:
		out[prefix] = fmt.Sprint(v)
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
