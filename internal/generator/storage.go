package generator

import (
	"context"
	"errors"
	"io"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// Operation strings spoken to the storage provider. The filesystem provider
// understands these; alternative providers (object stores, archives) can
// implement the same protocol.
const (
	storageOpEnsureDir = "sitegen.ensure_dir"
	storageOpWrite     = "sitegen.write"
	storageOpRead      = "sitegen.read"
	storageOpRemove    = "sitegen.remove"
)

// Artifact categories attached to every write so providers can classify
// what they receive.
const (
	categoryPage     = "page"
	categoryAsset    = "asset"
	categoryFeed     = "feed"
	categorySitemap  = "sitemap"
	categoryRobots   = "robots"
	categoryManifest = "manifest"
)

var errStorageRequired = errors.New("generator: storage provider is required")

type writeFileRequest struct {
	Path        string
	Content     io.Reader
	Size        int64
	Locale      string
	Category    string
	ContentType string
	Checksum    string
	Metadata    map[string]string
}

// artifactWriter narrows the storage provider to the operations the build
// pipeline uses.
type artifactWriter interface {
	EnsureDir(ctx context.Context, dir string) error
	WriteFile(ctx context.Context, req writeFileRequest) error
	Remove(ctx context.Context, target string) error
}

func newArtifactWriter(provider interfaces.StorageProvider) artifactWriter {
	return providerWriter{provider: provider}
}

type providerWriter struct {
	provider interfaces.StorageProvider
}

func (w providerWriter) EnsureDir(ctx context.Context, dir string) error {
	if w.provider == nil {
		return errStorageRequired
	}
	_, err := w.provider.Exec(ctx, storageOpEnsureDir, dir)
	return err
}

func (w providerWriter) WriteFile(ctx context.Context, req writeFileRequest) error {
	if w.provider == nil {
		return errStorageRequired
	}
	_, err := w.provider.Exec(ctx, storageOpWrite,
		req.Path,
		req.Content,
		req.Size,
		req.Category,
		req.ContentType,
		req.Locale,
		req.Checksum,
		req.Metadata,
	)
	return err
}

func (w providerWriter) Remove(ctx context.Context, target string) error {
	if w.provider == nil {
		return errStorageRequired
	}
	_, err := w.provider.Exec(ctx, storageOpRemove, target)
	return err
}
