package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codespark/internal/config"
	"codespark/internal/database"
	"codespark/internal/repository"
	"codespark/internal/service"

	"github.com/spf13/cobra"
)

// opener connects to the configured database and returns a backup service and a close function
type opener func(ctx context.Context) (*service.BackupService, func(), error)

// NewRootCmd creates the top-level "backup" command
func NewRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:   "backup",
		Short: "Export and import CodeSpark learner progress",
		Long: `Export and import CodeSpark learner progress as JSON.

The database is selected with DB_TYPE (sqlite, postgres or mysql), DB_PATH
and DATABASE_URL, the same variables the server reads.`,
		SilenceUsage: true,
	}

	root.AddCommand(newExportCmd(open), newImportCmd(open))
	return root
}

func newExportCmd(open opener) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all progress to a JSON file",
		Example: `  backup export
  backup export --output backups/progress.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
			}

			if dir := filepath.Dir(output); dir != "." && dir != "" {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
			}

			backup, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			count, err := backup.Export(cmd.Context(), output)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d sessions to %s\n", count, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path (default backup_YYYYMMDD_HHMMSS.json)")
	return cmd
}

func newImportCmd(open opener) *cobra.Command {
	var (
		input     string
		clearData bool
		yes       bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import progress from a JSON file",
		Example: `  backup import --input backup.json
  backup import --input backup.json --clear`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(input); err != nil {
				return fmt.Errorf("input file: %w", err)
			}

			if clearData && !yes && !confirm(cmd, "WARNING: This will delete all existing progress. Type 'yes' to confirm: ") {
				fmt.Fprintln(cmd.OutOrStdout(), "Import cancelled")
				return nil
			}

			backup, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			count, err := backup.Import(cmd.Context(), input, clearData)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d sessions from %s\n", count, input)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "input file path")
	cmd.Flags().BoolVar(&clearData, "clear", false, "delete existing progress before importing (destructive)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt for --clear")
	cmd.MarkFlagRequired("input")
	return cmd
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	return strings.TrimSpace(answer) == "yes"
}

// openBackupService opens the configured SQL database with an up to date schema
func openBackupService(ctx context.Context) (*service.BackupService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.UsesMemoryStore() {
		return nil, nil, errors.New("DB_TYPE=memory keeps no progress to back up; set DB_TYPE to sqlite, postgres or mysql")
	}

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	migrations := database.EmbeddedMigrations()
	if cfg.MigrationsPath != "" {
		migrations = os.DirFS(cfg.MigrationsPath)
	}
	if err := db.RunMigrations(ctx, migrations); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	closeFn := func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}
	return service.NewBackupService(repository.NewProgressRepository(db), cfg.DatabaseType), closeFn, nil
}
