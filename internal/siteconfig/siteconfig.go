package siteconfig

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrBaseURLInvalid   = errors.New("site config: site url must be an absolute http(s) URL")
	ErrNavPathInvalid   = errors.New("site config: nav paths must start with /")
	ErrTagBoundsInvalid = errors.New("site config: validation tag bounds are invalid")
)

// Config is the declarative site configuration loaded from site.yaml. Parsing
// starts from Defaults, so absent keys keep their default values.
type Config struct {
	Site       SiteMeta         `yaml:"site"`
	Nav        []NavEntry       `yaml:"nav"`
	Theme      ThemeConfig      `yaml:"theme"`
	Blog       BlogConfig       `yaml:"blog"`
	Feeds      FeedsConfig      `yaml:"feeds"`
	Sitemap    bool             `yaml:"sitemap"`
	Robots     bool             `yaml:"robots"`
	Search     bool             `yaml:"search"`
	Comments   CommentsConfig   `yaml:"comments"`
	Validation ValidationConfig `yaml:"validation"`
}

// SiteMeta carries the site-wide metadata rendered into templates and feeds.
type SiteMeta struct {
	Name        string `yaml:"name"`
	URL         string `yaml:"url"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
	Language    string `yaml:"language"`
}

// NavEntry is one navigation item. Children nest exactly one level deep.
type NavEntry struct {
	Title    string     `yaml:"title"`
	Path     string     `yaml:"path"`
	Children []NavEntry `yaml:"children"`
}

// ThemeConfig selects the theme and an optional template override directory.
type ThemeConfig struct {
	Name      string `yaml:"name"`
	Overrides string `yaml:"overrides"`
}

// BlogConfig controls the blog section output.
type BlogConfig struct {
	PostsPerIndex int  `yaml:"posts_per_index"`
	Archive       bool `yaml:"archive"`
	Tags          bool `yaml:"tags"`
}

// FeedsConfig controls RSS/Atom generation.
type FeedsConfig struct {
	RSS   bool `yaml:"rss"`
	Atom  bool `yaml:"atom"`
	Limit int  `yaml:"limit"`
}

// CommentsConfig names the comment provider wired into post templates.
type CommentsConfig struct {
	Provider string `yaml:"provider"`
}

// ValidationConfig carries the content contract enforced over post frontmatter.
type ValidationConfig struct {
	MinTags         int      `yaml:"min_tags"`
	MaxTags         int      `yaml:"max_tags"`
	RequireComments bool     `yaml:"require_comments"`
	AllowedTags     []string `yaml:"allowed_tags"`
}

// Defaults returns the configuration used when site.yaml omits a key.
func Defaults() *Config {
	return &Config{
		Site: SiteMeta{
			Language: "en",
		},
		Theme: ThemeConfig{
			Name: "default",
		},
		Blog: BlogConfig{
			PostsPerIndex: 10,
			Archive:       true,
			Tags:          true,
		},
		Feeds: FeedsConfig{
			RSS:   true,
			Atom:  true,
			Limit: 20,
		},
		Sitemap: true,
		Robots:  true,
		Validation: ValidationConfig{
			MinTags:         2,
			MaxTags:         4,
			RequireComments: true,
		},
	}
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("site config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("site config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes configuration bytes, validates them against the embedded
// schema, and applies defaults. YAML syntax errors carry line context from
// the decoder.
func Parse(data []byte) (*Config, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("site config: decode: %w", err)
	}

	if err := validateAgainstSchema(raw); err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("site config: decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate applies the semantic checks the schema cannot express.
func (c *Config) Validate() error {
	parsed, err := url.Parse(c.Site.URL)
	if err != nil || !parsed.IsAbs() || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%w: %q", ErrBaseURLInvalid, c.Site.URL)
	}

	for _, entry := range c.Nav {
		if err := validateNavEntry(entry); err != nil {
			return err
		}
	}

	if c.Validation.MinTags < 0 || c.Validation.MaxTags < c.Validation.MinTags {
		return fmt.Errorf("%w: min=%d max=%d", ErrTagBoundsInvalid, c.Validation.MinTags, c.Validation.MaxTags)
	}

	return nil
}

// BaseURL returns the site URL without a trailing slash.
func (c *Config) BaseURL() string {
	return strings.TrimRight(c.Site.URL, "/")
}

// TagAllowed reports whether tag is part of the configured vocabulary. An
// empty vocabulary allows every tag.
func (c *Config) TagAllowed(tag string) bool {
	if len(c.Validation.AllowedTags) == 0 {
		return true
	}
	for _, allowed := range c.Validation.AllowedTags {
		if strings.EqualFold(allowed, tag) {
			return true
		}
	}
	return false
}

func validateNavEntry(entry NavEntry) error {
	if !strings.HasPrefix(entry.Path, "/") {
		return fmt.Errorf("%w: %q (%s)", ErrNavPathInvalid, entry.Path, entry.Title)
	}
	for _, child := range entry.Children {
		if !strings.HasPrefix(child.Path, "/") {
			return fmt.Errorf("%w: %q (%s)", ErrNavPathInvalid, child.Path, child.Title)
		}
	}
	return nil
}
