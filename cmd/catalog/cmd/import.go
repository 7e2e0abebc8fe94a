package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rafabene/avantpro-core/pkg/infrastructure/config"
	"github.com/rafabene/avantpro-core/pkg/infrastructure/i18n"
	"github.com/rafabene/avantpro-core/pkg/infrastructure/logging"
	"github.com/rafabene/avantpro-core/pkg/infrastructure/persistence/postgres"
)

var (
	importEnvFile string
	importDryRun  bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Grava as traduções na tabela messages",
	Long: `Carrega os locales (embutidos + --locales) e grava cada mensagem na tabela
messages usando as variáveis DB_*. Mensagens existentes são atualizadas.

Exemplos:
  catalog import --locales ./locales
  catalog import --dry-run`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importEnvFile, "env-file", ".env", "Arquivo .env com as variáveis DB_*")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Apenas conta as mensagens, sem gravar")
}

// messageStore é o destino das mensagens importadas
type messageStore interface {
	Upsert(ctx context.Context, lang, key, message string) error
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	service, err := loadMessages()
	if err != nil {
		return err
	}

	if importDryRun {
		count, _ := importMessages(ctx, service, nil)
		fmt.Fprintf(cmd.OutOrStdout(), "%d messages would be imported\n", count)
		return nil
	}

	cfg, err := config.LoadFile(importEnvFile)
	if err != nil {
		return err
	}
	logger := logging.NewSlogLogger(cfg.Logging.Level, cfg.Logging.Format)

	db, err := postgres.NewDatabaseConnection(ctx, &cfg.Database, logger, cfg.Logging.Level)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := postgres.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate messages table: %w", err)
	}

	count, err := importMessages(ctx, service, postgres.NewMessageRepository(db))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d messages imported\n", count)
	return nil
}

// importMessages grava todas as mensagens em ordem determinística.
// Com store nil apenas conta.
func importMessages(ctx context.Context, service *i18n.Service, store messageStore) (int, error) {
	count := 0
	for _, lang := range service.GetSupportedLanguages() {
		messages := service.Messages(lang)

		keys := make([]string, 0, len(messages))
		for key := range messages {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			if store != nil {
				if err := store.Upsert(ctx, lang, key, messages[key]); err != nil {
					return count, err
				}
			}
			count++
		}
	}
	return count, nil
}
