// cmd/tools/catalog-seed/main.go
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apperrors "character-explorer/internal/common/errors"
)

var version = "1.0.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		var stdErr *apperrors.StandardError
		if errors.As(err, &stdErr) {
			fmt.Fprintf(os.Stderr, "Error [%s]: %v\n", stdErr.Code, err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "catalog-seed",
	Short: "Import, export and validate character catalog seed files",
	Long: `catalog-seed moves franchises and characters in and out of the catalog
as JSON documents checked against the catalog schema.

The database is selected by configs/config.yaml and DATABASE_* environment variables.

Examples:
  catalog-seed validate -f configs/catalog.seed.json
  catalog-seed import -f configs/catalog.seed.json
  catalog-seed export -o backups/catalog.json`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(validateCmd)
}
