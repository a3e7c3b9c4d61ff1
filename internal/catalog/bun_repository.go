package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	slugpkg "github.com/goliatone/go-slug"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitegen/internal/identity"
)

// BunEntryRepository implements EntryRepository with optional caching.
// Criteria-bearing queries run against the uncached repository: the cache
// key serializer cannot see values captured by raw query processors, so
// caching them would collide across different parameters.
type BunEntryRepository struct {
	db           *bun.DB
	repo         repository.Repository[*Entry]
	uncached     repository.Repository[*Entry]
	tags         repository.Repository[*Tag]
	cacheService cache.CacheService
	cachePrefix  string
}

const entryNamespace = "catalog_entry"

// NewBunEntryRepository creates an entry repository without caching.
func NewBunEntryRepository(db *bun.DB) *BunEntryRepository {
	return NewBunEntryRepositoryWithCache(db, nil, nil)
}

// NewBunEntryRepositoryWithCache creates an entry repository with caching services.
func NewBunEntryRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunEntryRepository {
	uncached := NewEntryRepository(db)
	base := uncached
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = cachePrefix(entryNamespace)
	}
	return &BunEntryRepository{
		db:           db,
		repo:         base,
		uncached:     uncached,
		tags:         NewTagRepository(db),
		cacheService: svc,
		cachePrefix:  prefix,
	}
}

func (r *BunEntryRepository) Create(ctx context.Context, entry *Entry) (*Entry, error) {
	record, err := r.repo.Create(ctx, entry)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunEntryRepository) Update(ctx context.Context, entry *Entry) (*Entry, error) {
	updated, err := r.repo.Update(ctx, entry,
		repository.UpdateByID(entry.ID.String()),
		repository.UpdateColumns(
			"kind",
			"slug",
			"locale",
			"title",
			"description",
			"checksum",
			"draft",
			"published_at",
			"reading_time",
			"tags",
			"metadata",
			"updated_at",
		),
	)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *BunEntryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Entry, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "catalog entry", id.String())
	}
	return record, nil
}

func (r *BunEntryRepository) GetBySourcePath(ctx context.Context, sourcePath string) (*Entry, error) {
	record, err := r.repo.GetByIdentifier(ctx, sourcePath)
	if err != nil {
		return nil, mapRepositoryError(err, "catalog entry", sourcePath)
	}
	return record, nil
}

func (r *BunEntryRepository) GetBySlug(ctx context.Context, slug, locale string) (*Entry, error) {
	records, _, err := r.uncached.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			q = q.Where("?TableAlias.slug = ?", slug)
			if locale != "" {
				q = q.Where("?TableAlias.locale = ?", locale)
			}
			return q
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "catalog entry", Key: slugKey(slug, locale)}
	}
	return records[0], nil
}

func (r *BunEntryRepository) List(ctx context.Context) ([]*Entry, error) {
	records, _, err := r.repo.List(ctx)
	return records, err
}

func (r *BunEntryRepository) ListByTag(ctx context.Context, tag string) ([]*Entry, error) {
	tagID := identity.TagUUID(tag)
	records, _, err := r.uncached.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Join("JOIN catalog_entry_tags AS cet ON cet.entry_id = ?TableAlias.id").
				Where("cet.tag_id = ?", tagID).
				Where("?TableAlias.draft = ?", false).
				OrderExpr("?TableAlias.published_at DESC")
		}),
	)
	return records, err
}

func (r *BunEntryRepository) ListPublishedBetween(ctx context.Context, from, to time.Time) ([]*Entry, error) {
	records, _, err := r.uncached.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.draft = ?", false).
				Where("?TableAlias.published_at IS NOT NULL").
				Where("?TableAlias.published_at >= ?", from).
				Where("?TableAlias.published_at < ?", to).
				OrderExpr("?TableAlias.published_at DESC")
		}),
	)
	return records, err
}

func (r *BunEntryRepository) ListRecent(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 {
		return []*Entry{}, nil
	}
	records, _, err := r.uncached.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.draft = ?", false).
				Where("?TableAlias.published_at IS NOT NULL").
				OrderExpr("?TableAlias.published_at DESC")
		}),
		repository.SelectPaginate(limit, 0),
	)
	return records, err
}

func (r *BunEntryRepository) ListTags(ctx context.Context) ([]*Tag, error) {
	records, _, err := r.tags.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.name ASC")
		}),
	)
	return records, err
}

// ReplaceTags rewrites the tag links for an entry inside one transaction.
func (r *BunEntryRepository) ReplaceTags(ctx context.Context, entryID uuid.UUID, names []string) error {
	if r.db == nil {
		return fmt.Errorf("catalog entry repository: database not configured")
	}

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*EntryTag)(nil)).
			Where("?TableAlias.entry_id = ?", entryID).
			Exec(ctx); err != nil {
			return fmt.Errorf("clear entry tags: %w", err)
		}

		for _, name := range names {
			trimmed := strings.TrimSpace(name)
			if trimmed == "" {
				continue
			}
			tag := &Tag{
				ID:   identity.TagUUID(trimmed),
				Name: trimmed,
				Slug: tagSlug(trimmed),
			}
			if _, err := tx.NewInsert().
				Model(tag).
				On("CONFLICT (id) DO NOTHING").
				Exec(ctx); err != nil {
				return fmt.Errorf("upsert tag %s: %w", trimmed, err)
			}
			link := &EntryTag{EntryID: entryID, TagID: tag.ID}
			if _, err := tx.NewInsert().
				Model(link).
				On("CONFLICT (entry_id, tag_id) DO NOTHING").
				Exec(ctx); err != nil {
				return fmt.Errorf("link entry tag %s: %w", trimmed, err)
			}
		}
		return nil
	})
}

func (r *BunEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if r.db != nil {
		if _, err := r.db.NewDelete().
			Model((*EntryTag)(nil)).
			Where("?TableAlias.entry_id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("clear entry tags: %w", err)
		}
	}
	return r.repo.Delete(ctx, &Entry{ID: id})
}

func (r *BunEntryRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

// BunBuildRepository implements BuildRepository with optional caching.
// ListRecent bypasses the cache for the same reason the entry queries do.
type BunBuildRepository struct {
	repo         repository.Repository[*Build]
	uncached     repository.Repository[*Build]
	cacheService cache.CacheService
	cachePrefix  string
}

const buildNamespace = "catalog_build"

// NewBunBuildRepository creates a build repository without caching.
func NewBunBuildRepository(db *bun.DB) *BunBuildRepository {
	return NewBunBuildRepositoryWithCache(db, nil, nil)
}

// NewBunBuildRepositoryWithCache creates a build repository with caching services.
func NewBunBuildRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunBuildRepository {
	uncached := NewBuildRepository(db)
	base := uncached
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = cachePrefix(buildNamespace)
	}
	return &BunBuildRepository{repo: base, uncached: uncached, cacheService: svc, cachePrefix: prefix}
}

func (r *BunBuildRepository) Create(ctx context.Context, build *Build) (*Build, error) {
	record, err := r.repo.Create(ctx, build)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunBuildRepository) Update(ctx context.Context, build *Build) (*Build, error) {
	updated, err := r.repo.Update(ctx, build,
		repository.UpdateByID(build.ID.String()),
		repository.UpdateColumns(
			"status",
			"pages",
			"assets",
			"stats",
			"finished_at",
		),
	)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *BunBuildRepository) GetByID(ctx context.Context, id uuid.UUID) (*Build, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "catalog build", id.String())
	}
	return record, nil
}

func (r *BunBuildRepository) ListRecent(ctx context.Context, limit int) ([]*Build, error) {
	if limit <= 0 {
		return []*Build{}, nil
	}
	records, _, err := r.uncached.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.started_at DESC")
		}),
		repository.SelectPaginate(limit, 0),
	)
	return records, err
}

func (r *BunBuildRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}

	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}

	return fmt.Errorf("%s repository error: %w", resource, err)
}

func cachePrefix(namespace string) string {
	if namespace == "" {
		return ""
	}
	return namespace + cache.KeySeparator
}

func tagSlug(name string) string {
	normalized, err := slugpkg.Normalize(name)
	if err != nil || normalized == "" {
		return strings.ToLower(strings.TrimSpace(name))
	}
	return normalized
}

func slugKey(slug, locale string) string {
	if locale == "" {
		return slug
	}
	return locale + ":" + slug
}
