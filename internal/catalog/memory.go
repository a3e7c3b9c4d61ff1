package catalog

import (
	"context"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitegen/internal/identity"
)

type memoryEntryRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*Entry
	byPath map[string]uuid.UUID
	links  map[uuid.UUID][]string
}

// NewMemoryEntryRepository constructs an in-memory repository for entries.
func NewMemoryEntryRepository() EntryRepository {
	return &memoryEntryRepository{
		byID:   make(map[uuid.UUID]*Entry),
		byPath: make(map[string]uuid.UUID),
		links:  make(map[uuid.UUID][]string),
	}
}

func (m *memoryEntryRepository) Create(_ context.Context, entry *Entry) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneEntry(entry)
	m.byID[cloned.ID] = cloned
	if cloned.SourcePath != "" {
		m.byPath[cloned.SourcePath] = cloned.ID
	}
	return cloneEntry(cloned), nil
}

func (m *memoryEntryRepository) Update(_ context.Context, entry *Entry) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[entry.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "catalog entry", Key: entry.ID.String()}
	}

	oldPath := existing.SourcePath
	cloned := cloneEntry(entry)
	m.byID[cloned.ID] = cloned

	if oldPath != "" && oldPath != cloned.SourcePath {
		delete(m.byPath, oldPath)
	}
	if cloned.SourcePath != "" {
		m.byPath[cloned.SourcePath] = cloned.ID
	}
	return cloneEntry(cloned), nil
}

func (m *memoryEntryRepository) GetByID(_ context.Context, id uuid.UUID) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "catalog entry", Key: id.String()}
	}
	return cloneEntry(record), nil
}

func (m *memoryEntryRepository) GetBySourcePath(_ context.Context, sourcePath string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byPath[sourcePath]
	if !ok {
		return nil, &NotFoundError{Resource: "catalog entry", Key: sourcePath}
	}
	return cloneEntry(m.byID[id]), nil
}

func (m *memoryEntryRepository) GetBySlug(_ context.Context, slug, locale string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, record := range m.byID {
		if record.Slug != slug {
			continue
		}
		if locale != "" && record.Locale != locale {
			continue
		}
		return cloneEntry(record), nil
	}
	return nil, &NotFoundError{Resource: "catalog entry", Key: slugKey(slug, locale)}
}

func (m *memoryEntryRepository) List(_ context.Context) ([]*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*Entry, 0, len(m.byID))
	for _, record := range m.byID {
		records = append(records, cloneEntry(record))
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].SourcePath < records[j].SourcePath
	})
	return records, nil
}

func (m *memoryEntryRepository) ListByTag(_ context.Context, tag string) ([]*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := []*Entry{}
	for id, names := range m.links {
		record, ok := m.byID[id]
		if !ok || record.Draft {
			continue
		}
		for _, name := range names {
			if strings.EqualFold(name, tag) {
				records = append(records, cloneEntry(record))
				break
			}
		}
	}
	sortByPublishedDesc(records)
	return records, nil
}

func (m *memoryEntryRepository) ListPublishedBetween(_ context.Context, from, to time.Time) ([]*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := []*Entry{}
	for _, record := range m.byID {
		if record.Draft || record.PublishedAt == nil {
			continue
		}
		at := *record.PublishedAt
		if at.Before(from) || !at.Before(to) {
			continue
		}
		records = append(records, cloneEntry(record))
	}
	sortByPublishedDesc(records)
	return records, nil
}

func (m *memoryEntryRepository) ListRecent(_ context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 {
		return []*Entry{}, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	records := []*Entry{}
	for _, record := range m.byID {
		if record.Draft || record.PublishedAt == nil {
			continue
		}
		records = append(records, cloneEntry(record))
	}
	sortByPublishedDesc(records)
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (m *memoryEntryRepository) ListTags(_ context.Context) ([]*Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := map[uuid.UUID]*Tag{}
	for _, names := range m.links {
		for _, name := range names {
			tag := &Tag{ID: identity.TagUUID(name), Name: name, Slug: tagSlug(name)}
			if _, ok := seen[tag.ID]; !ok {
				seen[tag.ID] = tag
			}
		}
	}

	records := make([]*Tag, 0, len(seen))
	for _, tag := range seen {
		records = append(records, tag)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Name < records[j].Name
	})
	return records, nil
}

func (m *memoryEntryRepository) ReplaceTags(_ context.Context, entryID uuid.UUID, names []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[entryID]; !ok {
		return &NotFoundError{Resource: "catalog entry", Key: entryID.String()}
	}

	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		cleaned = append(cleaned, trimmed)
	}
	m.links[entryID] = cleaned
	return nil
}

func (m *memoryEntryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Resource: "catalog entry", Key: id.String()}
	}
	delete(m.byID, id)
	delete(m.links, id)
	if existing.SourcePath != "" {
		delete(m.byPath, existing.SourcePath)
	}
	return nil
}

type memoryBuildRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*Build
}

// NewMemoryBuildRepository constructs an in-memory repository for builds.
func NewMemoryBuildRepository() BuildRepository {
	return &memoryBuildRepository{byID: make(map[uuid.UUID]*Build)}
}

func (m *memoryBuildRepository) Create(_ context.Context, build *Build) (*Build, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneBuild(build)
	m.byID[cloned.ID] = cloned
	return cloneBuild(cloned), nil
}

func (m *memoryBuildRepository) Update(_ context.Context, build *Build) (*Build, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[build.ID]; !ok {
		return nil, &NotFoundError{Resource: "catalog build", Key: build.ID.String()}
	}
	cloned := cloneBuild(build)
	m.byID[cloned.ID] = cloned
	return cloneBuild(cloned), nil
}

func (m *memoryBuildRepository) GetByID(_ context.Context, id uuid.UUID) (*Build, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "catalog build", Key: id.String()}
	}
	return cloneBuild(record), nil
}

func (m *memoryBuildRepository) ListRecent(_ context.Context, limit int) ([]*Build, error) {
	if limit <= 0 {
		return []*Build{}, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*Build, 0, len(m.byID))
	for _, record := range m.byID {
		records = append(records, cloneBuild(record))
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].StartedAt.After(records[j].StartedAt)
	})
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func cloneEntry(entry *Entry) *Entry {
	if entry == nil {
		return nil
	}
	cloned := *entry
	cloned.Tags = slices.Clone(entry.Tags)
	if entry.Metadata != nil {
		cloned.Metadata = maps.Clone(entry.Metadata)
	}
	if entry.PublishedAt != nil {
		at := *entry.PublishedAt
		cloned.PublishedAt = &at
	}
	return &cloned
}

func cloneBuild(build *Build) *Build {
	if build == nil {
		return nil
	}
	cloned := *build
	if build.Stats != nil {
		cloned.Stats = maps.Clone(build.Stats)
	}
	if build.FinishedAt != nil {
		at := *build.FinishedAt
		cloned.FinishedAt = &at
	}
	return &cloned
}

func sortByPublishedDesc(records []*Entry) {
	sort.Slice(records, func(i, j int) bool {
		left, right := records[i].PublishedAt, records[j].PublishedAt
		switch {
		case left == nil:
			return false
		case right == nil:
			return true
		default:
			return left.After(*right)
		}
	})
}
