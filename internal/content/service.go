package content

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// Config controls content classification and listing discovery.
type Config struct {
	// PostsDir is the tree holding dated blog posts, relative to the content root.
	PostsDir string
	// DataDir is the directory holding listing data files, relative to the content root.
	DataDir string
	// DefaultLocale tags documents whose locale cannot be inferred.
	DefaultLocale string
}

// Service loads a source tree into posts, pages, and listings.
type Service struct {
	cfg      Config
	markdown interfaces.MarkdownService
	data     fs.FS
	logger   interfaces.Logger
}

// NewService wires the content service. The data filesystem may be nil when
// the site has no listing data files.
func NewService(cfg Config, markdown interfaces.MarkdownService, data fs.FS, logger interfaces.Logger) (*Service, error) {
	if markdown == nil {
		return nil, ErrMarkdownServiceRequired
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Service{
		cfg:      cfg,
		markdown: markdown,
		data:     data,
		logger:   logger,
	}, nil
}

// LoadTree loads every Markdown document and listing data file, classifies
// posts against pages, and returns them in deterministic order.
func (s *Service) LoadTree(ctx context.Context) (*Tree, error) {
	docs, err := s.markdown.LoadDirectory(ctx, ".", interfaces.LoadOptions{})
	if err != nil {
		return nil, fmt.Errorf("content: load documents: %w", err)
	}

	tree := &Tree{}
	routes := map[string]string{}

	for _, doc := range docs {
		if IsPostPath(doc.FilePath, s.cfg.PostsDir) {
			post, err := PostFromDocument(doc, s.cfg.PostsDir)
			if err != nil {
				return nil, err
			}
			if err := claimRoute(routes, postRouteKey(post), post.SourcePath); err != nil {
				return nil, err
			}
			tree.Posts = append(tree.Posts, post)
			continue
		}

		page, err := PageFromDocument(doc)
		if err != nil {
			return nil, err
		}
		if err := claimRoute(routes, pageRouteKey(page), page.SourcePath); err != nil {
			return nil, err
		}
		tree.Pages = append(tree.Pages, page)
	}

	SortPosts(tree.Posts)
	SortPages(tree.Pages)

	listings, err := s.loadListings(ctx)
	if err != nil {
		return nil, err
	}
	tree.Listings = listings

	s.logger.Info("content.tree.loaded",
		"posts", len(tree.Posts),
		"pages", len(tree.Pages),
		"listings", len(tree.Listings),
	)
	return tree, nil
}

func (s *Service) loadListings(ctx context.Context) ([]*Listing, error) {
	if s.data == nil {
		return nil, nil
	}

	dir := strings.TrimSpace(s.cfg.DataDir)
	if dir == "" {
		dir = "."
	}

	entries, err := fs.ReadDir(s.data, dir)
	if err != nil {
		// A site without a data directory simply has no listings.
		return nil, nil
	}

	var listings []*Listing
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.ToSlash(filepath.Join(dir, entry.Name()))
		listing, err := LoadListing(s.data, path)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}

	sort.Slice(listings, func(i, j int) bool {
		return listings[i].Key < listings[j].Key
	})
	return listings, nil
}

func claimRoute(routes map[string]string, key, sourcePath string) error {
	if existing, ok := routes[key]; ok {
		return &DuplicateRouteError{
			Route:  key,
			First:  existing,
			Second: sourcePath,
		}
	}
	routes[key] = sourcePath
	return nil
}

func postRouteKey(post *Post) string {
	if post.Dated {
		return post.Locale + ":" + post.Date.Format("2006/01/02") + "/" + post.Slug
	}
	return post.Locale + ":" + post.Slug
}

func pageRouteKey(page *Page) string {
	return page.Locale + ":" + page.Slug
}
