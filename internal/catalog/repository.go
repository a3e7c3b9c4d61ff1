package catalog

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewEntryRepository creates a repository for Entry records.
func NewEntryRepository(db *bun.DB) repository.Repository[*Entry] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Entry]{
		NewRecord: func() *Entry { return &Entry{} },
		GetID: func(e *Entry) uuid.UUID {
			return e.ID
		},
		SetID: func(e *Entry, id uuid.UUID) {
			e.ID = id
		},
		GetIdentifier: func() string {
			return "source_path"
		},
		GetIdentifierValue: func(e *Entry) string {
			return e.SourcePath
		},
	})
}

// NewTagRepository creates a repository for Tag records.
func NewTagRepository(db *bun.DB) repository.Repository[*Tag] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Tag]{
		NewRecord: func() *Tag { return &Tag{} },
		GetID: func(t *Tag) uuid.UUID {
			return t.ID
		},
		SetID: func(t *Tag, id uuid.UUID) {
			t.ID = id
		},
		GetIdentifier: func() string {
			return "name"
		},
		GetIdentifierValue: func(t *Tag) string {
			return t.Name
		},
	})
}

// NewBuildRepository creates a repository for Build records.
func NewBuildRepository(db *bun.DB) repository.Repository[*Build] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Build]{
		NewRecord: func() *Build { return &Build{} },
		GetID: func(b *Build) uuid.UUID {
			return b.ID
		},
		SetID: func(b *Build, id uuid.UUID) {
			b.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(b *Build) string {
			return b.ID.String()
		},
	})
}
