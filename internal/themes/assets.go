package themes

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
)

// AssetResolver abstracts theme asset lookups for tests and production.
type AssetResolver interface {
	Open(asset string) (io.ReadCloser, error)
	ResolvePath(asset string) (string, error)
}

// NewThemeAssetResolver resolves assets relative to the theme directory.
func NewThemeAssetResolver(theme *Theme) (AssetResolver, error) {
	if theme == nil {
		return nil, fmt.Errorf("themes: theme required")
	}
	return FileSystemAssetResolver{FS: os.DirFS(theme.ThemePath)}, nil
}

// FileSystemAssetResolver resolves assets from an fs.FS implementation.
// Asset paths are slash separated and relative to BasePath.
type FileSystemAssetResolver struct {
	FS       fs.FS
	BasePath string
}

// Open returns a reader for the requested asset relative to BasePath.
func (r FileSystemAssetResolver) Open(asset string) (io.ReadCloser, error) {
	clean, err := r.cleanAssetPath(asset)
	if err != nil {
		return nil, err
	}
	file, err := r.FS.Open(clean)
	if err != nil {
		return nil, fmt.Errorf("themes: open asset %s: %w", asset, err)
	}
	return file, nil
}

// ResolvePath returns the normalized asset path suitable for output layout.
func (r FileSystemAssetResolver) ResolvePath(asset string) (string, error) {
	clean, err := r.cleanAssetPath(asset)
	if err != nil {
		return "", err
	}
	return clean, nil
}

func (r FileSystemAssetResolver) cleanAssetPath(asset string) (string, error) {
	if r.FS == nil {
		return "", fmt.Errorf("themes: filesystem resolver not configured")
	}
	asset = strings.TrimSpace(asset)
	if asset == "" {
		return "", fmt.Errorf("themes: asset path required")
	}
	base := strings.TrimSpace(r.BasePath)
	if base == "" {
		base = "."
	}
	clean := path.Clean(path.Join(base, strings.TrimPrefix(asset, "/")))
	baseClean := path.Clean(base)
	if strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("themes: asset traversal detected")
	}
	if baseClean != "." && !strings.HasPrefix(clean, baseClean) {
		return "", fmt.Errorf("themes: asset traversal detected")
	}
	return clean, nil
}
