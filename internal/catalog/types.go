package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	EntryKindPost = "post"
	EntryKindPage = "page"
)

const (
	BuildStatusRunning   = "running"
	BuildStatusSucceeded = "succeeded"
	BuildStatusFailed    = "failed"
)

// Entry is one discovered source document, keyed by its source path.
type Entry struct {
	bun.BaseModel `bun:"table:catalog_entries,alias:ce"`

	ID          uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	SourcePath  string         `bun:"source_path,notnull,unique" json:"source_path"`
	Kind        string         `bun:"kind,notnull" json:"kind"`
	Slug        string         `bun:"slug,notnull" json:"slug"`
	Locale      string         `bun:"locale,notnull" json:"locale"`
	Title       string         `bun:"title,notnull" json:"title"`
	Description string         `bun:"description" json:"description,omitempty"`
	Checksum    string         `bun:"checksum,notnull" json:"checksum"`
	Draft       bool           `bun:"draft,notnull,default:false" json:"draft"`
	PublishedAt *time.Time     `bun:"published_at,nullzero" json:"published_at,omitempty"`
	ReadingTime int            `bun:"reading_time,notnull,default:0" json:"reading_time"`
	Tags        []string       `bun:"tags,type:jsonb" json:"tags,omitempty"`
	Metadata    map[string]any `bun:"metadata,type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Tag is a distinct tag observed across entries.
type Tag struct {
	bun.BaseModel `bun:"table:catalog_tags,alias:ct"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Name      string    `bun:"name,notnull,unique" json:"name"`
	Slug      string    `bun:"slug,notnull" json:"slug"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// EntryTag links an entry to one of its tags.
type EntryTag struct {
	bun.BaseModel `bun:"table:catalog_entry_tags,alias:cet"`

	EntryID uuid.UUID `bun:"entry_id,pk,type:uuid" json:"entry_id"`
	TagID   uuid.UUID `bun:"tag_id,pk,type:uuid" json:"tag_id"`
}

// Build records a single generator run against an output directory.
type Build struct {
	bun.BaseModel `bun:"table:catalog_builds,alias:cb"`

	ID         uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	OutputDir  string         `bun:"output_dir,notnull" json:"output_dir"`
	Status     string         `bun:"status,notnull,default:running" json:"status"`
	Pages      int            `bun:"pages,notnull,default:0" json:"pages"`
	Assets     int            `bun:"assets,notnull,default:0" json:"assets"`
	Stats      map[string]any `bun:"stats,type:jsonb" json:"stats,omitempty"`
	StartedAt  time.Time      `bun:"started_at,nullzero,default:current_timestamp" json:"started_at"`
	FinishedAt *time.Time     `bun:"finished_at,nullzero" json:"finished_at,omitempty"`
}

// Models lists every catalog model in table-creation order.
func Models() []any {
	return []any{
		(*Entry)(nil),
		(*Tag)(nil),
		(*EntryTag)(nil),
		(*Build)(nil),
	}
}
