package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rafabene/avantpro-core/pkg/domain/errors"
	"github.com/rafabene/avantpro-core/pkg/infrastructure/i18n"

	usererrors "github.com/rafabene/avantpro-core/internal/domain/errors"
)

var (
	localesDir  string
	defaultLang string
)

var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Ferramentas do catálogo de erros e mensagens",
	Long: `Inspeciona e mantém o catálogo de códigos de erro e suas traduções.

Comandos:
  codes   - lista os códigos com a mensagem resolvida
  check   - valida códigos duplicados e traduções ausentes
  import  - grava os arquivos de locale na tabela messages`,
	SilenceUsage: true,
}

// Execute roda o comando raiz
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&localesDir, "locales", "./locales", "Diretório com arquivos de locale (.json, .yaml, .toml)")
	rootCmd.PersistentFlags().StringVar(&defaultLang, "default-lang", "en", "Idioma padrão")
}

// providers retorna todos os catálogos registrados na aplicação
func providers() []errors.ErrorCodeProvider {
	return append(errors.CommonCatalog(), usererrors.Catalog()...)
}

// loadMessages combina as mensagens embutidas com as do diretório de locales
func loadMessages() (*i18n.Service, error) {
	service, err := i18n.NewDefaultService(defaultLang)
	if err != nil {
		return nil, err
	}

	if localesDir == "" {
		return service, nil
	}
	if _, err := os.Stat(localesDir); err != nil {
		return nil, fmt.Errorf("locales dir %s: %w", localesDir, err)
	}
	if err := service.LoadDir(localesDir); err != nil {
		return nil, err
	}
	return service, nil
}
