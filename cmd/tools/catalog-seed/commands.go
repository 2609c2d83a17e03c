package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"character-explorer/internal/common/config"
	"character-explorer/internal/common/database"
	"character-explorer/internal/common/logger"
	"character-explorer/internal/controller"
	"character-explorer/internal/store"
	"character-explorer/pkg/seed"
)

const defaultSeedFile = "configs/catalog.seed.json"

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import franchises and characters from a seed file",
	Long: `Import a seed file. Franchises are matched by name, so re-importing a file
does not duplicate them. Image paths are resolved against the seed file's directory.`,
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog as a seed file",
	Long:  `Export every franchise and character. Images are inlined as base64.`,
	RunE:  runExport,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a seed file against the catalog schema",
	RunE:  runValidate,
}

func init() {
	importCmd.Flags().StringP("file", "f", defaultSeedFile, "Seed file to import")
	exportCmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	validateCmd.Flags().StringP("file", "f", defaultSeedFile, "Seed file to validate")
}

func openController() (*controller.Controller, logger.Logger, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)

	client, err := database.Open(context.Background(), cfg.Database)
	if err != nil {
		return nil, nil, nil, err
	}
	ctrl := controller.New(store.New(client, log), log, nil)
	return ctrl, log, func() { _ = client.Close() }, nil
}

func runImport(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")

	ctrl, log, closeFn, err := openController()
	if err != nil {
		return err
	}
	defer closeFn()

	result, err := seed.ImportFile(cmd.Context(), ctrl, path, log)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d franchises and %d characters from %s\n",
		result.Franchises, result.Characters, path)
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("output")

	ctrl, _, closeFn, err := openController()
	if err != nil {
		return err
	}
	defer closeFn()

	cat, err := seed.Export(cmd.Context(), ctrl)
	if err != nil {
		return err
	}
	if out == "" {
		return seed.Write(cmd.OutOrStdout(), cat)
	}

	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()
	if err := seed.Write(f, cat); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d characters to %s\n", len(cat.Characters), out)
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")

	cat, err := seed.Load(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Seed validation passed. Found %d franchises and %d characters.\n",
		len(cat.Franchises), len(cat.Characters))
	return nil
}
