package themes

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Theme describes a theme directory discovered under the themes root. The ID
// is derived from the theme path so repeated discovery runs produce stable
// identifiers.
type Theme struct {
	ID           uuid.UUID      `json:"id"`
	Name         string         `json:"name"`
	Description  *string        `json:"description,omitempty"`
	Version      string         `json:"version"`
	Author       *string        `json:"author,omitempty"`
	Engine       string         `json:"engine"`
	ThemePath    string         `json:"theme_path"`
	TemplatesDir string         `json:"templates_dir"`
	Assets       *ThemeAssets   `json:"assets,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// TemplateRoot returns the directory templates parse from.
func (t *Theme) TemplateRoot() string {
	if t == nil {
		return ""
	}
	return filepath.Join(t.ThemePath, filepath.FromSlash(t.TemplatesDir))
}

// AssetPaths flattens the declared styles, scripts, and images into
// theme-relative slash paths, applying the optional base path prefix.
func (t *Theme) AssetPaths() []string {
	if t == nil || t.Assets == nil {
		return nil
	}

	base := ""
	if t.Assets.BasePath != nil {
		base = strings.Trim(strings.TrimSpace(*t.Assets.BasePath), "/")
	}

	var assets []string
	appendAssets := func(list []string) {
		for _, item := range list {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			if base != "" {
				assets = append(assets, path.Join(base, filepath.ToSlash(item)))
			} else {
				assets = append(assets, filepath.ToSlash(item))
			}
		}
	}

	appendAssets(t.Assets.Styles)
	appendAssets(t.Assets.Scripts)
	appendAssets(t.Assets.Images)

	return assets
}

func cloneTheme(theme *Theme) *Theme {
	if theme == nil {
		return nil
	}
	cloned := *theme
	cloned.Description = cloneString(theme.Description)
	cloned.Author = cloneString(theme.Author)
	cloned.Assets = cloneAssets(theme.Assets)
	if len(theme.Metadata) > 0 {
		metadata := make(map[string]any, len(theme.Metadata))
		for key, value := range theme.Metadata {
			metadata[key] = value
		}
		cloned.Metadata = metadata
	}
	return &cloned
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	cloned := strings.Clone(*value)
	return &cloned
}

func cloneAssets(assets *ThemeAssets) *ThemeAssets {
	if assets == nil {
		return nil
	}
	cloned := ThemeAssets{
		BasePath: cloneString(assets.BasePath),
		Styles:   append([]string(nil), assets.Styles...),
		Scripts:  append([]string(nil), assets.Scripts...),
		Images:   append([]string(nil), assets.Images...),
	}
	return &cloned
}
