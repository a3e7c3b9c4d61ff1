package content

import (
	"time"

	"github.com/google/uuid"
)

// Post is a dated blog entry sourced from the posts tree.
type Post struct {
	ID           uuid.UUID
	Slug         string
	Title        string
	Description  string
	Tags         []string
	Date         time.Time
	Dated        bool
	Comments     bool
	Draft        bool
	Template     string
	Author       string
	Body         []byte
	BodyHTML     []byte
	SourcePath   string
	Locale       string
	Checksum     []byte
	LastModified time.Time
	ReadingTime  int
	Custom       map[string]any
}

// Page is an undated standalone page (about, uses, contact).
type Page struct {
	ID           uuid.UUID
	Slug         string
	Title        string
	Description  string
	Template     string
	Draft        bool
	Body         []byte
	BodyHTML     []byte
	SourcePath   string
	Locale       string
	Checksum     []byte
	LastModified time.Time
	Custom       map[string]any
}

// ListingEntry is one row of a data-driven listing (a project, a talk).
type ListingEntry struct {
	Name        string `yaml:"name"`
	Link        string `yaml:"link"`
	Description string `yaml:"description"`
	Date        string `yaml:"date"`
	Venue       string `yaml:"venue"`
}

// Listing is a named collection of entries loaded from a data file.
type Listing struct {
	ID          uuid.UUID      `yaml:"-"`
	Key         string         `yaml:"-"`
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Entries     []ListingEntry `yaml:"entries"`
	SourcePath  string         `yaml:"-"`
}

// Tree is the loaded content of a site source directory.
type Tree struct {
	Posts    []*Post
	Pages    []*Page
	Listings []*Listing
}

// TagCount pairs a tag with the number of posts carrying it.
type TagCount struct {
	Tag   string
	Count int
}

// PostsByTag groups published posts under each tag they declare, preserving
// the newest-first post order within each group.
func (t *Tree) PostsByTag() map[string][]*Post {
	grouped := map[string][]*Post{}
	for _, post := range t.Posts {
		if post.Draft {
			continue
		}
		for _, tag := range post.Tags {
			grouped[tag] = append(grouped[tag], post)
		}
	}
	return grouped
}

// PostsByYear groups published posts by publish year, newest-first within
// each year. Undated posts are excluded.
func (t *Tree) PostsByYear() map[int][]*Post {
	grouped := map[int][]*Post{}
	for _, post := range t.Posts {
		if post.Draft || !post.Dated {
			continue
		}
		year := post.Date.Year()
		grouped[year] = append(grouped[year], post)
	}
	return grouped
}

// Published returns the non-draft posts in their existing order.
func (t *Tree) Published() []*Post {
	out := make([]*Post, 0, len(t.Posts))
	for _, post := range t.Posts {
		if post.Draft {
			continue
		}
		out = append(out, post)
	}
	return out
}
