package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rafabene/avantpro-core/pkg/domain/errors"
	"github.com/rafabene/avantpro-core/pkg/infrastructure/i18n"
)

var codesLang string

var codesCmd = &cobra.Command{
	Use:   "codes",
	Short: "Lista os códigos de erro",
	Long: `Lista todos os códigos de erro com status HTTP, chave e mensagem resolvida.

Exemplos:
  catalog codes
  catalog codes --lang ko`,
	Args: cobra.NoArgs,
	RunE: runCodes,
}

func init() {
	rootCmd.AddCommand(codesCmd)

	codesCmd.Flags().StringVar(&codesLang, "lang", "", "Idioma das mensagens (default: --default-lang)")
}

func runCodes(cmd *cobra.Command, args []string) error {
	service, err := loadMessages()
	if err != nil {
		return err
	}

	ctx := context.Background()
	if codesLang != "" {
		ctx = i18n.WithLanguage(ctx, codesLang)
	}
	resolver := i18n.NewMessageResolver(service)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tSTATUS\tKEY\tMESSAGE")
	for _, p := range providers() {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
			p.Code(), errors.HTTPStatusCode(p), p.MessageKey(), resolver.ResolveCode(ctx, p))
	}
	return w.Flush()
}
