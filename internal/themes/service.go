// Package themes discovers theme directories by their theme.json manifests,
// resolves go-theme selections for the configured theme and variant, and
// renders templates through html/template.
package themes

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
	gotheme "github.com/goliatone/go-theme"
	"github.com/google/uuid"
)

// Service exposes theme discovery and selection.
type Service interface {
	// Discover scans the themes root and returns the themes found, sorted
	// by name. Results are cached until the next Discover call.
	Discover(ctx context.Context) ([]*Theme, error)
	// Theme resolves a theme by name, case insensitively. An empty name
	// falls back to the configured default theme.
	Theme(ctx context.Context, name string) (*Theme, error)
	// Themes lists the discovered themes without rescanning.
	Themes(ctx context.Context) ([]*Theme, error)
	// Selection resolves a go-theme selection for the named theme. Variant
	// falls back to the configured default when empty.
	Selection(ctx context.Context, name string, variant string) (*gotheme.Selection, error)
}

var (
	ErrFeatureDisabled = errors.New("themes: feature disabled")
	ErrRootRequired    = errors.New("themes: root directory required")
	ErrThemeNotFound   = errors.New("themes: theme not found")
)

// Config captures the theme lookup settings.
type Config struct {
	// Root is the directory containing one subdirectory per theme.
	Root string
	// DefaultTheme is used when a lookup passes an empty name.
	DefaultTheme string
	// DefaultVariant is applied when a selection passes an empty variant.
	DefaultVariant string
}

// ManifestLoader loads the go-theme manifest for a theme directory.
type ManifestLoader interface {
	Load(themePath string) (*gotheme.Manifest, error)
}

type fsManifestLoader struct{}

func (fsManifestLoader) Load(themePath string) (*gotheme.Manifest, error) {
	cleaned := filepath.Clean(strings.TrimSpace(themePath))
	if cleaned == "" {
		return nil, fmt.Errorf("themes: theme path required")
	}

	return gotheme.LoadDir(os.DirFS(cleaned), ".")
}

// ServiceOption configures service behaviour.
type ServiceOption func(*service)

// WithLogger attaches a logger to the service.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithManifestLoader overrides how go-theme manifests load from disk.
func WithManifestLoader(loader ManifestLoader) ServiceOption {
	return func(s *service) {
		if loader != nil {
			s.loader = loader
		}
	}
}

type service struct {
	cfg    Config
	logger interfaces.Logger
	loader ManifestLoader

	registry *gotheme.MemoryRegistry

	mu         sync.Mutex
	discovered bool
	themes     map[string]*Theme
	manifests  map[uuid.UUID]*gotheme.Manifest
}

// NewService builds a theme service over the configured root directory.
func NewService(cfg Config, opts ...ServiceOption) Service {
	svc := &service{
		cfg:       cfg,
		logger:    logging.NoOp(),
		loader:    fsManifestLoader{},
		registry:  gotheme.NewRegistry(),
		themes:    map[string]*Theme{},
		manifests: map[uuid.UUID]*gotheme.Manifest{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

func (s *service) Discover(ctx context.Context) ([]*Theme, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root := strings.TrimSpace(s.cfg.Root)
	if root == "" {
		return nil, ErrRootRequired
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("themes: read root %s: %w", root, err)
	}

	found := map[string]*Theme{}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() {
			continue
		}

		themePath := filepath.Join(root, entry.Name())
		manifestPath := filepath.Join(themePath, ManifestFile)
		if _, err := os.Stat(manifestPath); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("themes: stat manifest %s: %w", manifestPath, err)
		}

		manifest, err := LoadManifest(manifestPath)
		if err != nil {
			return nil, err
		}
		theme, err := ManifestToTheme(themePath, manifest)
		if err != nil {
			return nil, fmt.Errorf("themes: %s: %w", manifestPath, err)
		}

		key := canonicalKey(theme.Name)
		if _, exists := found[key]; exists {
			return nil, fmt.Errorf("themes: duplicate theme name %q under %s", theme.Name, root)
		}
		found[key] = theme
	}

	s.mu.Lock()
	s.themes = found
	s.discovered = true
	s.mu.Unlock()

	themes := sortedThemes(found)
	s.logger.Info("themes.discover.completed", "root", root, "count", len(themes))
	return cloneThemes(themes), nil
}

func (s *service) Theme(ctx context.Context, name string) (*Theme, error) {
	theme, err := s.lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	return cloneTheme(theme), nil
}

func (s *service) Themes(ctx context.Context) ([]*Theme, error) {
	if err := s.ensureDiscovered(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	themes := sortedThemes(s.themes)
	s.mu.Unlock()

	return cloneThemes(themes), nil
}

func (s *service) Selection(ctx context.Context, name string, variant string) (*gotheme.Selection, error) {
	theme, err := s.lookup(ctx, name)
	if err != nil {
		return nil, err
	}

	if _, err := s.ensureManifest(theme); err != nil {
		return nil, err
	}

	selector := gotheme.Selector{
		Registry:       s.registry,
		DefaultTheme:   strings.TrimSpace(s.cfg.DefaultTheme),
		DefaultVariant: strings.TrimSpace(s.cfg.DefaultVariant),
	}

	resolvedVariant := strings.TrimSpace(variant)
	if resolvedVariant == "" {
		resolvedVariant = selector.DefaultVariant
	}

	selection, err := selector.Select(theme.Name, resolvedVariant)
	if err != nil {
		return nil, fmt.Errorf("themes: select %s: %w", theme.Name, err)
	}
	return selection, nil
}

func (s *service) lookup(ctx context.Context, name string) (*Theme, error) {
	if err := s.ensureDiscovered(ctx); err != nil {
		return nil, err
	}

	resolved := strings.TrimSpace(name)
	if resolved == "" {
		resolved = s.cfg.DefaultTheme
	}

	s.mu.Lock()
	theme, ok := s.themes[canonicalKey(resolved)]
	s.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, resolved)
	}
	return theme, nil
}

func (s *service) ensureDiscovered(ctx context.Context) error {
	s.mu.Lock()
	discovered := s.discovered
	s.mu.Unlock()

	if discovered {
		return nil
	}
	_, err := s.Discover(ctx)
	return err
}

// ensureManifest loads and registers the go-theme manifest for a theme once,
// normalising name and version against the discovered record so selection
// works even when theme.json omits go-theme fields.
func (s *service) ensureManifest(theme *Theme) (*gotheme.Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if manifest, ok := s.manifests[theme.ID]; ok {
		return manifest, nil
	}

	manifest, err := s.loader.Load(theme.ThemePath)
	if err != nil {
		return nil, fmt.Errorf("themes: load manifest from %s: %w", theme.ThemePath, err)
	}

	normalized := *manifest
	if strings.TrimSpace(normalized.Name) == "" || !strings.EqualFold(normalized.Name, theme.Name) {
		normalized.Name = strings.TrimSpace(theme.Name)
	}
	if strings.TrimSpace(normalized.Version) == "" {
		normalized.Version = strings.TrimSpace(theme.Version)
	}
	if normalized.Name == "" {
		return nil, fmt.Errorf("themes: theme name required for manifest registration")
	}

	if err := s.registry.Register(&normalized); err != nil {
		return nil, fmt.Errorf("themes: register manifest: %w", err)
	}
	s.manifests[theme.ID] = &normalized
	return &normalized, nil
}

func canonicalKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func sortedThemes(themes map[string]*Theme) []*Theme {
	out := make([]*Theme, 0, len(themes))
	for _, theme := range themes {
		out = append(out, theme)
	}
	sort.Slice(out, func(i, j int) bool {
		return canonicalKey(out[i].Name) < canonicalKey(out[j].Name)
	})
	return out
}

func cloneThemes(themes []*Theme) []*Theme {
	out := make([]*Theme, len(themes))
	for i, theme := range themes {
		out[i] = cloneTheme(theme)
	}
	return out
}
