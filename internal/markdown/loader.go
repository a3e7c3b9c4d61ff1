package markdown

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// DocumentResult pairs a parsed document with the raw bytes it came from, so
// callers can re-render or checksum without a second read.
type DocumentResult struct {
	Document *interfaces.Document
	Source   []byte
}

// LoadParams are per-call overrides applied on top of the loader's configured
// defaults. A nil Recursive keeps the configured traversal mode.
type LoadParams struct {
	Pattern        string
	LocalePatterns map[string]string
	Recursive      *bool
}

// LoaderConfig describes where the source tree lives and how locales are
// inferred from paths inside it.
type LoaderConfig struct {
	// BasePath anchors absolute paths handed to LoadFile/LoadDirectory.
	BasePath string
	// DefaultLocale is assigned when nothing in the path identifies one.
	DefaultLocale string
	// Locales lists locale directory names checked against the first path
	// segment, e.g. content under es/ gets locale "es".
	Locales []string
	// LocalePatterns maps locales to glob expressions for trees that do not
	// use locale-named top-level directories.
	LocalePatterns map[string]string
	// Pattern is the filename glob for discovery. Empty means "*.md".
	Pattern string
	// Recursive enables walking below the requested directory.
	Recursive bool
}

// Loader walks a source tree and turns content files into documents.
type Loader struct {
	fs       fs.FS
	cfg      LoaderConfig
	basePath string
	pattern  string
}

// NewLoader builds a loader over the given filesystem.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := strings.TrimSpace(cfg.Pattern)
	if pattern == "" {
		pattern = "*.md"
	}
	return &Loader{
		fs:       filesystem,
		cfg:      cfg,
		basePath: filepath.Clean(cfg.BasePath),
		pattern:  pattern,
	}
}

// LoadFile reads a single content file, parses its front matter, and stamps
// the document with a locale and a checksum of the raw source.
func (l *Loader) LoadFile(ctx context.Context, path string, opts LoadParams) (*DocumentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel, err := l.relativize(path)
	if err != nil {
		return nil, err
	}
	rel = filepath.ToSlash(rel)

	source, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", rel, err)
	}
	info, err := fs.Stat(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader stat %s: %w", rel, err)
	}

	doc, err := BuildDocument(rel, l.localeFor(rel, opts.LocalePatterns), source, info.ModTime())
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(source)
	doc.Checksum = sum[:]

	return &DocumentResult{Document: doc, Source: source}, nil
}

// LoadDirectory walks dir and loads every file matching the active pattern.
// Results come back sorted by path so build output is deterministic.
func (l *Loader) LoadDirectory(ctx context.Context, dir string, opts LoadParams) ([]*DocumentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, err := l.relativize(dir)
	if err != nil {
		return nil, err
	}
	root = filepath.Clean(root)

	recursive := l.cfg.Recursive
	if opts.Recursive != nil {
		recursive = *opts.Recursive
	}

	pattern := strings.TrimSpace(opts.Pattern)
	if pattern == "" {
		pattern = l.pattern
	}

	var results []*DocumentResult
	err = fs.WalkDir(l.fs, root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			if !recursive && filepath.Clean(path) != root {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel := filepath.ToSlash(path)
		if !globMatch(pattern, rel) {
			return nil
		}

		result, err := l.LoadFile(ctx, rel, opts)
		if err != nil {
			return err
		}
		results = append(results, result)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Document.FilePath < results[j].Document.FilePath
	})
	return results, nil
}

// localeFor resolves the locale for a path: call overrides win, then the
// configured patterns, then a locale-named leading directory, then the
// default.
func (l *Loader) localeFor(path string, overrides map[string]string) string {
	path = filepath.ToSlash(path)

	for _, patterns := range []map[string]string{overrides, l.cfg.LocalePatterns} {
		for locale, pattern := range patterns {
			if strings.TrimSpace(pattern) == "" {
				continue
			}
			if globMatch(pattern, path) {
				return locale
			}
		}
	}

	head, _, _ := strings.Cut(path, "/")
	for _, locale := range l.cfg.Locales {
		if head == locale {
			return locale
		}
	}

	return l.cfg.DefaultLocale
}

// globMatch applies pattern to path with a small extension over
// filepath.Match: a pattern without a separator matches against the base
// name, and a "**/" prefix matches at any depth.
func globMatch(pattern, path string) bool {
	pattern = filepath.ToSlash(pattern)
	if strings.Contains(pattern, "**") {
		pattern = strings.ReplaceAll(pattern, "**/", "")
	}

	target := path
	if !strings.Contains(pattern, "/") {
		target = filepath.Base(path)
	}
	ok, err := filepath.Match(pattern, target)
	return err == nil && ok
}

// relativize maps absolute paths into the loader's filesystem. Relative paths
// are assumed to already be rooted there.
func (l *Loader) relativize(path string) (string, error) {
	clean := filepath.Clean(path)
	if !filepath.IsAbs(clean) {
		return clean, nil
	}
	if l.basePath == "" {
		return "", fmt.Errorf("markdown loader: absolute path %s without a base path", path)
	}
	rel, err := filepath.Rel(l.basePath, clean)
	if err != nil {
		return "", fmt.Errorf("markdown loader: relativize %s: %w", path, err)
	}
	return rel, nil
}
