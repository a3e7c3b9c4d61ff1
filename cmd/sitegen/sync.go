package main

import (
	"fmt"

	sitegen "github.com/goliatone/go-sitegen"
	"github.com/goliatone/go-sitegen/internal/catalog"
	contentcmd "github.com/goliatone/go-sitegen/internal/commands/content"
	"github.com/spf13/cobra"
)

var (
	syncDryRun         bool
	syncDeleteOrphaned bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile the source tree with the content catalog",
	RunE: func(cmd *cobra.Command, _ []string) error {
		module, err := newModule(func(cfg *sitegen.Config) {
			cfg.Features.Catalog = true
			if cfg.Storage.Driver == "" {
				cfg.Storage.Driver = catalog.DriverSQLite
			}
		})
		if err != nil {
			return err
		}
		defer module.Close()

		handler := contentcmd.NewSyncCatalogHandler(module.Content(), module.Catalog(), cliLogger(module), contentcmd.FeatureGates{}, printSyncResult)
		return handler.Execute(cmd.Context(), contentcmd.SyncCatalogCommand{
			DryRun:         syncDryRun,
			DeleteOrphaned: syncDeleteOrphaned,
		})
	},
}

func printSyncResult(result *catalog.SyncResult) {
	verb := "synced"
	if syncDryRun {
		verb = "would sync"
	}
	fmt.Printf("%s %d created, %d updated, %d skipped, %d deleted\n",
		verb, result.Created, result.Updated, result.Skipped, result.Deleted)
	for _, err := range result.Errors {
		fmt.Printf("  error: %v\n", err)
	}
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "report the work without writing to the catalog")
	syncCmd.Flags().BoolVar(&syncDeleteOrphaned, "delete-orphaned", false, "remove catalog entries whose source file is gone")
	rootCmd.AddCommand(syncCmd)
}
