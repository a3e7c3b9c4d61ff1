package generator

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-sitegen/internal/themes"
)

type assetSummary struct {
	Built   int
	Skipped int
}

// copyAssets copies theme-declared assets and the optional static directory
// into the output tree. Unchanged assets are skipped when the manifest knows
// their checksum.
func (s *service) copyAssets(
	ctx context.Context,
	writer artifactWriter,
	buildCtx *BuildContext,
	manifest *buildManifest,
	baseDir string,
) (assetSummary, error) {
	var summary assetSummary

	if buildCtx.Theme != nil {
		themeSummary, err := s.copyThemeAssets(ctx, writer, buildCtx.Theme, manifest, baseDir)
		summary.Built += themeSummary.Built
		summary.Skipped += themeSummary.Skipped
		if err != nil {
			return summary, err
		}
	}

	if dir := strings.TrimSpace(s.cfg.StaticDir); dir != "" {
		staticSummary, err := s.copyStaticDir(ctx, writer, dir, manifest, baseDir)
		summary.Built += staticSummary.Built
		summary.Skipped += staticSummary.Skipped
		if err != nil {
			return summary, err
		}
	}

	return summary, nil
}

func (s *service) copyThemeAssets(
	ctx context.Context,
	writer artifactWriter,
	theme *themes.Theme,
	manifest *buildManifest,
	baseDir string,
) (assetSummary, error) {
	var summary assetSummary
	assets := theme.AssetPaths()
	if len(assets) == 0 {
		return summary, nil
	}

	resolver, err := themes.NewThemeAssetResolver(theme)
	if err != nil {
		return summary, fmt.Errorf("generator: theme asset resolver: %w", err)
	}

	dirCache := map[string]struct{}{}
	for _, asset := range assets {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		rel, err := resolver.ResolvePath(asset)
		if err != nil {
			return summary, fmt.Errorf("generator: resolve asset %q: %w", asset, err)
		}
		reader, err := resolver.Open(asset)
		if err != nil {
			return summary, fmt.Errorf("generator: open asset %q: %w", asset, err)
		}
		data, err := io.ReadAll(reader)
		closeErr := reader.Close()
		if err == nil {
			err = closeErr
		}
		if err != nil {
			return summary, fmt.Errorf("generator: read asset %q: %w", asset, err)
		}

		source := "theme:" + asset
		target := joinOutputPath(baseDir, rel)
		checksum := computeHash(data)
		if s.cfg.Incremental && manifest.shouldSkipAsset(source, checksum) {
			summary.Skipped++
			continue
		}
		if err := s.writeAsset(ctx, writer, dirCache, target, data, checksum); err != nil {
			return summary, err
		}
		manifest.setAsset(manifestAsset{
			Source:   source,
			Output:   target,
			Checksum: checksum,
			CopiedAt: s.now().UTC(),
		})
		summary.Built++
	}
	return summary, nil
}

// copyStaticDir mirrors a local directory verbatim into the output root.
// Files land next to the generated pages so /favicon.ico style references
// resolve.
func (s *service) copyStaticDir(
	ctx context.Context,
	writer artifactWriter,
	dir string,
	manifest *buildManifest,
	baseDir string,
) (assetSummary, error) {
	var summary assetSummary

	root := os.DirFS(dir)
	dirCache := map[string]struct{}{}
	err := fs.WalkDir(root, ".", func(rel string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(root, rel)
		if err != nil {
			return fmt.Errorf("generator: read static file %s: %w", rel, err)
		}

		source := "static:" + filepath.ToSlash(rel)
		target := joinOutputPath(baseDir, filepath.ToSlash(rel))
		checksum := computeHash(data)
		if s.cfg.Incremental && manifest.shouldSkipAsset(source, checksum) {
			summary.Skipped++
			return nil
		}
		if err := s.writeAsset(ctx, writer, dirCache, target, data, checksum); err != nil {
			return err
		}
		manifest.setAsset(manifestAsset{
			Source:   source,
			Output:   target,
			Checksum: checksum,
			CopiedAt: s.now().UTC(),
		})
		summary.Built++
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			// Missing static dir is not an error; the site just ships none.
			return summary, nil
		}
		return summary, err
	}
	return summary, nil
}

func (s *service) writeAsset(
	ctx context.Context,
	writer artifactWriter,
	dirCache map[string]struct{},
	target string,
	data []byte,
	checksum string,
) error {
	if err := ensureDir(ctx, writer, dirCache, path.Dir(target)); err != nil {
		return err
	}
	return writer.WriteFile(ctx, writeFileRequest{
		Path:        target,
		Content:     bytes.NewReader(data),
		Size:        int64(len(data)),
		Category:    categoryAsset,
		ContentType: assetContentType(target),
		Checksum:    checksum,
		Metadata: map[string]string{
			"copied_at": s.now().UTC().Format(time.RFC3339),
		},
	})
}

func assetContentType(target string) string {
	switch strings.ToLower(path.Ext(target)) {
	case ".css":
		return "text/css"
	case ".js":
		return "application/javascript"
	case ".json":
		return "application/json"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".ico":
		return "image/x-icon"
	case ".woff2":
		return "font/woff2"
	case ".txt":
		return "text/plain; charset=utf-8"
	case ".xml":
		return "application/xml"
	default:
		return "application/octet-stream"
	}
}
