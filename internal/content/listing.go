package content

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-sitegen/internal/identity"
)

// LoadListing reads and validates one listing data file.
func LoadListing(filesystem fs.FS, path string) (*Listing, error) {
	data, err := fs.ReadFile(filesystem, path)
	if err != nil {
		return nil, fmt.Errorf("content: read listing %s: %w", path, err)
	}
	return ParseListing(path, data)
}

// ParseListing decodes listing bytes. The listing key derives from the file
// stem (data/projects.yaml -> "projects").
func ParseListing(path string, data []byte) (*Listing, error) {
	listing := &Listing{}
	if err := yaml.Unmarshal(data, listing); err != nil {
		return nil, &ListingError{Path: path, Message: err.Error()}
	}

	base := filepath.Base(filepath.ToSlash(path))
	listing.Key = strings.TrimSuffix(base, filepath.Ext(base))
	listing.SourcePath = filepath.ToSlash(path)
	listing.ID = identity.ListingUUID(listing.Key)

	if listing.Title == "" {
		listing.Title = deriveTitle("", listing.Key)
	}

	if err := listing.Validate(); err != nil {
		return nil, err
	}
	return listing, nil
}

// Validate checks every entry carries the required fields.
func (l *Listing) Validate() error {
	for i, entry := range l.Entries {
		if err := entry.Validate(); err != nil {
			return &ListingError{
				Path:    l.SourcePath,
				Message: fmt.Sprintf("entries[%d]: %v", i, err),
			}
		}
	}
	return nil
}

// Validate enforces the per-entry contract: a name and a link.
func (e ListingEntry) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Name, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("sitegen.content.listing.name_required", "name is required")
			}
			return nil
		})),
		validation.Field(&e.Link, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("sitegen.content.listing.link_required", "link is required")
			}
			return nil
		})),
	)
}
