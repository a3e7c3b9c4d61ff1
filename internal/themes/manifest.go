package themes

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goliatone/go-sitegen/internal/identity"
)

// ManifestFile is the manifest name probed inside each theme directory.
const ManifestFile = "theme.json"

// DefaultEngine is assumed when a manifest does not declare one.
const DefaultEngine = "html/template"

// DefaultTemplatesDir is the template directory relative to the theme root
// when the manifest does not declare one.
const DefaultTemplatesDir = "templates"

// Manifest mirrors the expected theme.json structure.
type Manifest struct {
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	Version     string         `json:"version"`
	Author      *string        `json:"author,omitempty"`
	Engine      string         `json:"engine,omitempty"`
	Templates   string         `json:"templates,omitempty"`
	Assets      *ThemeAssets   `json:"assets,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// ThemeAssets references static files shipped with the theme.
type ThemeAssets struct {
	BasePath *string  `json:"base_path,omitempty"`
	Styles   []string `json:"styles,omitempty"`
	Scripts  []string `json:"scripts,omitempty"`
	Images   []string `json:"images,omitempty"`
}

// LoadManifest reads and parses a manifest from disk.
func LoadManifest(path string) (*Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("themes: open manifest: %w", err)
	}
	defer file.Close()
	return ParseManifest(file)
}

// ParseManifest decodes manifest JSON from a reader.
func ParseManifest(r io.Reader) (*Manifest, error) {
	var manifest Manifest
	if err := json.NewDecoder(r).Decode(&manifest); err != nil {
		return nil, fmt.Errorf("themes: parse manifest: %w", err)
	}
	return &manifest, nil
}

// ManifestToTheme converts a manifest into a theme record rooted at
// themePath. Missing engine and template settings fall back to defaults.
func ManifestToTheme(themePath string, manifest *Manifest) (*Theme, error) {
	if manifest == nil {
		return nil, fmt.Errorf("themes: manifest required")
	}
	if manifest.Name == "" {
		return nil, fmt.Errorf("themes: manifest missing name")
	}
	if manifest.Version == "" {
		return nil, fmt.Errorf("themes: manifest missing version")
	}

	engine := manifest.Engine
	if engine == "" {
		engine = DefaultEngine
	}
	templatesDir := manifest.Templates
	if templatesDir == "" {
		templatesDir = DefaultTemplatesDir
	}

	cleaned := filepath.Clean(themePath)
	return &Theme{
		ID:           identity.ThemeUUID(filepath.ToSlash(cleaned)),
		Name:         manifest.Name,
		Description:  manifest.Description,
		Version:      manifest.Version,
		Author:       manifest.Author,
		Engine:       engine,
		ThemePath:    cleaned,
		TemplatesDir: templatesDir,
		Assets:       manifest.Assets,
		Metadata:     manifest.Metadata,
	}, nil
}
