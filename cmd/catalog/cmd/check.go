package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rafabene/avantpro-core/pkg/domain/errors"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Valida o catálogo",
	Long: `Falha quando dois catálogos usam o mesmo código ou quando algum idioma
não traduz a chave de um código ou do catálogo de mensagens.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	all := providers()
	if err := errors.ValidateCatalog(all...); err != nil {
		return err
	}

	service, err := loadMessages()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(all))
	for _, p := range all {
		keys = append(keys, p.MessageKey())
	}
	for _, k := range errors.AllMessageKeys() {
		keys = append(keys, k.Key())
	}

	missing := service.MissingKeys(keys...)
	if len(missing) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %d codes, %d languages\n", len(all), len(service.GetSupportedLanguages()))
		return nil
	}

	langs := make([]string, 0, len(missing))
	for lang := range missing {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	total := 0
	for _, lang := range langs {
		for _, key := range missing[lang] {
			fmt.Fprintf(cmd.OutOrStdout(), "missing %s: %s\n", lang, key)
			total++
		}
	}
	return fmt.Errorf("%d missing translations", total)
}
