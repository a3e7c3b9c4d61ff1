package main

import (
	"context"
	"fmt"
	"time"

	sitegen "github.com/goliatone/go-sitegen"
	"github.com/goliatone/go-sitegen/internal/catalog"
	buildcmd "github.com/goliatone/go-sitegen/internal/commands/build"
	"github.com/goliatone/go-sitegen/internal/generator"
	"github.com/spf13/cobra"
)

var (
	buildDryRun  bool
	buildForce   bool
	buildTags    []string
	buildLocales []string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the static site into the output directory",
	RunE: func(cmd *cobra.Command, _ []string) error {
		module, err := newModule(func(cfg *sitegen.Config) {
			enableBuildFeatures(cfg)
			if cfg.Storage.Driver != "" {
				cfg.Features.Catalog = true
			}
		})
		if err != nil {
			return err
		}
		defer module.Close()

		var result *generator.BuildResult
		handler := buildcmd.NewBuildSiteHandler(module.Generator(), cliLogger(module), buildcmd.FeatureGates{}, func(r *generator.BuildResult) {
			result = r
			printBuildResult(r)
		})

		finish := recordBuild(cmd.Context(), module, buildDryRun)
		execErr := handler.Execute(cmd.Context(), buildcmd.BuildSiteCommand{
			Locales: buildLocales,
			Tags:    buildTags,
			DryRun:  buildDryRun,
			Force:   buildForce,
		})
		finish(result, execErr)
		return execErr
	},
}

// recordBuild opens a catalog build row when the catalog is enabled and
// returns a closure that finishes it with the run's outcome. Dry runs are
// not recorded.
func recordBuild(ctx context.Context, module *sitegen.Module, dryRun bool) func(*generator.BuildResult, error) {
	noop := func(*generator.BuildResult, error) {}
	cat := module.Catalog()
	if cat == nil || dryRun {
		return noop
	}

	run, err := cat.StartBuild(ctx, module.OutputDir())
	if err != nil {
		cliLogger(module).Warn("build.record.start_failed", "error", err)
		return noop
	}

	return func(result *generator.BuildResult, execErr error) {
		status := catalog.BuildStatusSucceeded
		if execErr != nil {
			status = catalog.BuildStatusFailed
		}
		pages, assets := 0, 0
		var stats map[string]any
		if result != nil {
			pages = result.PagesBuilt
			assets = result.AssetsBuilt
			stats = map[string]any{
				"pages_skipped": result.PagesSkipped,
				"feeds_written": result.FeedsWritten,
				"duration_ms":   result.Duration.Milliseconds(),
			}
		}
		if _, err := cat.FinishBuild(ctx, run.ID, status, pages, assets, stats); err != nil {
			cliLogger(module).Warn("build.record.finish_failed", "error", err)
		}
	}
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the build output directory contents",
	RunE: func(cmd *cobra.Command, _ []string) error {
		module, err := newModule(enableBuildFeatures)
		if err != nil {
			return err
		}
		defer module.Close()

		handler := buildcmd.NewCleanOutputHandler(module.Generator(), cliLogger(module), buildcmd.FeatureGates{})
		if err := handler.Execute(cmd.Context(), buildcmd.CleanOutputCommand{}); err != nil {
			return err
		}
		fmt.Println("output directory cleaned")
		return nil
	},
}

func enableBuildFeatures(cfg *sitegen.Config) {
	cfg.Generator.Enabled = true
	cfg.Features.Themes = true
}

func printBuildResult(result *generator.BuildResult) {
	if result.DryRun {
		fmt.Printf("dry run: %d page(s) would be written\n", result.PagesBuilt)
		for _, route := range result.Routes() {
			fmt.Printf("  %s\n", route)
		}
		return
	}
	fmt.Printf("built %d page(s), skipped %d, %d asset(s), %d feed(s) in %s\n",
		result.PagesBuilt, result.PagesSkipped, result.AssetsBuilt, result.FeedsWritten, result.Duration.Round(time.Millisecond))
	for _, diag := range result.Diagnostics {
		if diag.Err != nil {
			fmt.Printf("  error: %s (%s): %v\n", diag.Route, diag.Locale, diag.Err)
		}
	}
}

func init() {
	buildCmd.Flags().BoolVar(&buildDryRun, "dry-run", false, "plan and render without writing output")
	buildCmd.Flags().BoolVar(&buildForce, "force", false, "ignore the incremental manifest and rebuild everything")
	buildCmd.Flags().StringSliceVar(&buildTags, "tags", nil, "only build posts carrying these tags")
	buildCmd.Flags().StringSliceVar(&buildLocales, "locales", nil, "only build these locales")
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(cleanCmd)
}
