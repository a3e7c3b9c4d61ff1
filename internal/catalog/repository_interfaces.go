package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EntryRepository exposes persistence operations for catalog entries.
type EntryRepository interface {
	Create(ctx context.Context, entry *Entry) (*Entry, error)
	Update(ctx context.Context, entry *Entry) (*Entry, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	GetBySourcePath(ctx context.Context, sourcePath string) (*Entry, error)
	GetBySlug(ctx context.Context, slug, locale string) (*Entry, error)
	List(ctx context.Context) ([]*Entry, error)
	ListByTag(ctx context.Context, tag string) ([]*Entry, error)
	ListPublishedBetween(ctx context.Context, from, to time.Time) ([]*Entry, error)
	ListRecent(ctx context.Context, limit int) ([]*Entry, error)
	ListTags(ctx context.Context) ([]*Tag, error)
	// ReplaceTags rewrites the tag links for an entry atomically.
	ReplaceTags(ctx context.Context, entryID uuid.UUID, names []string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BuildRepository exposes persistence operations for build records.
type BuildRepository interface {
	Create(ctx context.Context, build *Build) (*Build, error)
	Update(ctx context.Context, build *Build) (*Build, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Build, error)
	ListRecent(ctx context.Context, limit int) ([]*Build, error)
}

// NotFoundError is returned when a catalog resource cannot be located.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}
