package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/goliatone/go-sitegen/internal/generator"
	"github.com/goliatone/go-sitegen/internal/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	sitegen "github.com/goliatone/go-sitegen"
)

var (
	serveAddr    string
	serveNoWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build the site and serve it locally, rebuilding on changes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		module, err := newModule(func(cfg *sitegen.Config) {
			cfg.Generator.Enabled = true
			cfg.Features.Themes = true
			if serveAddr != "" {
				cfg.Server.Addr = serveAddr
			}
		})
		if err != nil {
			return err
		}
		defer module.Close()

		logger := cliLogger(module)
		rebuild := func(ctx context.Context) error {
			result, err := module.Generator().Build(ctx, generator.BuildOptions{})
			if err != nil {
				return err
			}
			logger.Info("serve.rebuilt", "pages", result.PagesBuilt, "skipped", result.PagesSkipped)
			return nil
		}

		if err := rebuild(cmd.Context()); err != nil {
			return err
		}

		cfg := module.Container().Config
		srv, err := server.New(server.Config{
			Addr:      cfg.Server.Addr,
			OutputDir: module.OutputDir(),
			NoCache:   cfg.Server.NoCache,
		}, logger)
		if err != nil {
			return err
		}

		group, ctx := errgroup.WithContext(cmd.Context())
		group.Go(func() error { return srv.Run(ctx) })

		if !serveNoWatch {
			watcher, err := server.NewWatcher(server.WatchConfig{
				Dirs:     watchDirs(&cfg),
				Debounce: cfg.Server.WatchDebounce,
			}, rebuild, logger)
			if err != nil {
				return err
			}
			group.Go(func() error { return watcher.Run(ctx) })
		}

		return group.Wait()
	},
}

// watchDirs lists the source trees whose changes should trigger a rebuild:
// the content root, the themes root, and the static dir when present.
func watchDirs(cfg *sitegen.Config) []string {
	resolve := func(dir string) string {
		if filepath.IsAbs(dir) {
			return dir
		}
		return filepath.Join(cfg.SourceDir, dir)
	}

	dirs := []string{resolve(cfg.Markdown.ContentDir), resolve(cfg.Themes.BasePath)}
	static := filepath.Join(cfg.SourceDir, "static")
	if info, err := os.Stat(static); err == nil && info.IsDir() {
		dirs = append(dirs, static)
	}

	out := dirs[:0]
	for _, dir := range dirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			out = append(out, dir)
		}
	}
	return out
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (defaults to config server.addr)")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "serve without watching for changes")
	rootCmd.AddCommand(serveCmd)
}
