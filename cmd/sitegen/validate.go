package main

import (
	"fmt"

	sitegen "github.com/goliatone/go-sitegen"
	contentcmd "github.com/goliatone/go-sitegen/internal/commands/content"
	linkscmd "github.com/goliatone/go-sitegen/internal/commands/links"
	"github.com/goliatone/go-sitegen/internal/linkcheck"
	"github.com/goliatone/go-sitegen/internal/validate"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every document against the front matter contract",
	RunE: func(cmd *cobra.Command, _ []string) error {
		module, err := newModule(func(cfg *sitegen.Config) {
			cfg.Features.Validation = true
		})
		if err != nil {
			return err
		}
		defer module.Close()

		handler := contentcmd.NewValidateContentHandler(module.Validator(), cliLogger(module), contentcmd.FeatureGates{}, printValidateResult)
		return handler.Execute(cmd.Context(), contentcmd.ValidateContentCommand{})
	},
}

var (
	linksIncludeDrafts bool
	linksPaths         []string
)

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Check internal links and asset references across the source tree",
	RunE: func(cmd *cobra.Command, _ []string) error {
		module, err := newModule(func(cfg *sitegen.Config) {
			cfg.Features.Linkcheck = true
		})
		if err != nil {
			return err
		}
		defer module.Close()

		deps := linkscmd.Dependencies{
			Markdown: module.Markdown(),
			Loader:   module.Content(),
			Routes:   module.SiteRoutes(),
			Checker:  module.Linkcheck(),
			SourceFS: module.SourceFS(),
		}
		handler := linkscmd.NewCheckLinksHandler(deps, cliLogger(module), linkscmd.FeatureGates{}, printLinkReport)
		return handler.Execute(cmd.Context(), linkscmd.CheckLinksCommand{
			IncludeDrafts: linksIncludeDrafts,
			Paths:         linksPaths,
		})
	},
}

func printValidateResult(result *validate.Result) {
	if report := result.Report(); report != "" {
		fmt.Println(report)
	}
	if !result.Failed() {
		fmt.Printf("%d file(s) checked, all valid\n", result.Checked)
	}
}

func printLinkReport(report *linkcheck.Report) {
	if rendered := report.Render(); rendered != "" {
		fmt.Println(rendered)
	}
	if !report.Failed() {
		fmt.Printf("%d link(s) checked across %d document(s), %d external skipped\n",
			report.Checked, report.Documents, report.External)
	}
}

func init() {
	linksCmd.Flags().BoolVar(&linksIncludeDrafts, "include-drafts", false, "also check links inside draft documents")
	linksCmd.Flags().StringSliceVar(&linksPaths, "paths", nil, "restrict the check to source paths with these prefixes")
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(linksCmd)
}
