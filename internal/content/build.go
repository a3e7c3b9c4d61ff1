package content

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	slugpkg "github.com/goliatone/go-slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/goliatone/go-sitegen/internal/identity"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

const wordsPerMinute = 200

// IsPostPath reports whether a source path lives under the posts directory.
func IsPostPath(sourcePath, postsDir string) bool {
	if strings.TrimSpace(postsDir) == "" {
		return false
	}
	rel := filepath.ToSlash(filepath.Clean(sourcePath))
	dir := filepath.ToSlash(filepath.Clean(postsDir))
	return rel == dir || strings.HasPrefix(rel, dir+"/")
}

// PostFromDocument builds a Post from a parsed Markdown document. The publish
// date comes from explicit frontmatter when present; otherwise it is inferred
// from the directory path.
func PostFromDocument(doc *interfaces.Document, postsDir string) (*Post, error) {
	slug, err := deriveSlug(doc)
	if err != nil {
		return nil, err
	}

	post := &Post{
		ID:           identity.EntryUUID(doc.FilePath),
		Slug:         slug,
		Title:        deriveTitle(doc.FrontMatter.Title, slug),
		Description:  doc.FrontMatter.Description,
		Tags:         append([]string(nil), doc.FrontMatter.Tags...),
		Comments:     doc.FrontMatter.Comments != nil && *doc.FrontMatter.Comments,
		Draft:        doc.FrontMatter.Draft,
		Template:     doc.FrontMatter.Template,
		Author:       doc.FrontMatter.Author,
		Body:         doc.Body,
		BodyHTML:     doc.BodyHTML,
		SourcePath:   doc.FilePath,
		Locale:       doc.Locale,
		Checksum:     doc.Checksum,
		LastModified: doc.LastModified,
		ReadingTime:  ReadingTime(doc.Body),
		Custom:       doc.FrontMatter.Custom,
	}

	if !doc.FrontMatter.Date.IsZero() {
		post.Date = doc.FrontMatter.Date.UTC()
		post.Dated = true
	} else if date, ok := DateFromPath(doc.FilePath, postsDir); ok {
		post.Date = date
		post.Dated = true
	}

	return post, nil
}

// PageFromDocument builds a Page from a parsed Markdown document.
func PageFromDocument(doc *interfaces.Document) (*Page, error) {
	slug, err := deriveSlug(doc)
	if err != nil {
		return nil, err
	}

	return &Page{
		ID:           identity.EntryUUID(doc.FilePath),
		Slug:         slug,
		Title:        deriveTitle(doc.FrontMatter.Title, slug),
		Description:  doc.FrontMatter.Description,
		Template:     doc.FrontMatter.Template,
		Draft:        doc.FrontMatter.Draft,
		Body:         doc.Body,
		BodyHTML:     doc.BodyHTML,
		SourcePath:   doc.FilePath,
		Locale:       doc.Locale,
		Checksum:     doc.Checksum,
		LastModified: doc.LastModified,
		Custom:       doc.FrontMatter.Custom,
	}, nil
}

// SortPosts orders posts newest-first. Undated posts sort after dated ones;
// ties break on slug so ordering stays deterministic across runs.
func SortPosts(posts []*Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if a.Dated != b.Dated {
			return a.Dated
		}
		if a.Dated && !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.Slug < b.Slug
	})
}

// SortPages orders pages by slug.
func SortPages(pages []*Page) {
	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].Slug < pages[j].Slug
	})
}

// ReadingTime estimates reading minutes at 200 words per minute, never less
// than one.
func ReadingTime(body []byte) int {
	words := len(strings.Fields(string(body)))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

func deriveSlug(doc *interfaces.Document) (string, error) {
	candidate := strings.TrimSpace(doc.FrontMatter.Slug)
	if candidate == "" {
		candidate = fileStem(doc.FilePath)
	}

	normalized, err := slugpkg.Normalize(candidate)
	if err != nil || normalized == "" {
		return "", fmt.Errorf("%w: %s", ErrSlugEmpty, doc.FilePath)
	}
	return normalized, nil
}

// fileStem returns the file name without extension. Index files take their
// slug from the enclosing directory.
func fileStem(sourcePath string) string {
	base := filepath.Base(filepath.ToSlash(sourcePath))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "index" {
		parent := filepath.Base(filepath.Dir(filepath.ToSlash(sourcePath)))
		if parent != "." && parent != "/" {
			return parent
		}
	}
	return stem
}

func deriveTitle(explicit, slug string) string {
	title := strings.TrimSpace(explicit)
	if title != "" {
		return title
	}
	words := strings.NewReplacer("-", " ", "_", " ").Replace(slug)
	return cases.Title(language.English).String(words)
}
