package catalog

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/identity"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

var (
	ErrEntryRepositoryRequired = errors.New("catalog: entry repository is required")
	ErrBuildRepositoryRequired = errors.New("catalog: build repository is required")
	ErrTreeRequired            = errors.New("catalog: content tree is required")
)

// SyncOptions controls how a loaded tree is reconciled with the catalog.
type SyncOptions struct {
	// DryRun counts the work without touching the repository.
	DryRun bool
	// DeleteOrphaned removes entries whose source file disappeared.
	DeleteOrphaned bool
}

// SyncResult summarizes one reconciliation pass.
type SyncResult struct {
	Created int
	Updated int
	Skipped int
	Deleted int
	Errors  []error
}

// Service reconciles loaded content with the catalog and answers queries
// against it.
type Service struct {
	entries EntryRepository
	builds  BuildRepository
	logger  interfaces.Logger
	now     func() time.Time
}

// Option configures the catalog service.
type Option func(*Service)

// WithLogger attaches a logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithNow overrides the clock.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the catalog service. The build repository may be nil when
// build history is not recorded.
func NewService(entries EntryRepository, builds BuildRepository, opts ...Option) *Service {
	svc := &Service{
		entries: entries,
		builds:  builds,
		logger:  logging.NoOp(),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Sync upserts every post and page from the tree, keyed by source path and
// diffed by checksum, and optionally deletes entries whose source vanished.
func (s *Service) Sync(ctx context.Context, tree *content.Tree, opts SyncOptions) (*SyncResult, error) {
	if s.entries == nil {
		return nil, ErrEntryRepositoryRequired
	}
	if tree == nil {
		return nil, ErrTreeRequired
	}

	desired := make([]*Entry, 0, len(tree.Posts)+len(tree.Pages))
	for _, post := range tree.Posts {
		desired = append(desired, EntryFromPost(post))
	}
	for _, page := range tree.Pages {
		desired = append(desired, EntryFromPage(page))
	}

	res := &SyncResult{}
	keep := make(map[string]struct{}, len(desired))

	for _, entry := range desired {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		keep[entry.SourcePath] = struct{}{}
		if err := s.syncEntry(ctx, entry, opts, res); err != nil {
			res.Errors = append(res.Errors, err)
		}
	}

	if opts.DeleteOrphaned {
		if err := s.deleteOrphaned(ctx, keep, opts, res); err != nil {
			res.Errors = append(res.Errors, err)
		}
	}

	s.logger.Info("catalog.sync.completed",
		"created", res.Created,
		"updated", res.Updated,
		"skipped", res.Skipped,
		"deleted", res.Deleted,
		"errors", len(res.Errors),
		"dry_run", opts.DryRun,
	)
	return res, firstError(res.Errors)
}

func (s *Service) syncEntry(ctx context.Context, entry *Entry, opts SyncOptions, res *SyncResult) error {
	existing, err := s.entries.GetBySourcePath(ctx, entry.SourcePath)

	var notFound *NotFoundError
	switch {
	case err == nil:
		if existing.Checksum == entry.Checksum {
			res.Skipped++
			return nil
		}
		if opts.DryRun {
			res.Updated++
			return nil
		}
		entry.CreatedAt = existing.CreatedAt
		entry.UpdatedAt = s.now()
		if _, err := s.entries.Update(ctx, entry); err != nil {
			return fmt.Errorf("catalog: update entry %s: %w", entry.SourcePath, err)
		}
		if err := s.entries.ReplaceTags(ctx, entry.ID, entry.Tags); err != nil {
			return fmt.Errorf("catalog: replace tags %s: %w", entry.SourcePath, err)
		}
		res.Updated++
	case errors.As(err, &notFound):
		if opts.DryRun {
			res.Created++
			return nil
		}
		entry.CreatedAt = s.now()
		entry.UpdatedAt = entry.CreatedAt
		if _, err := s.entries.Create(ctx, entry); err != nil {
			return fmt.Errorf("catalog: create entry %s: %w", entry.SourcePath, err)
		}
		if err := s.entries.ReplaceTags(ctx, entry.ID, entry.Tags); err != nil {
			return fmt.Errorf("catalog: replace tags %s: %w", entry.SourcePath, err)
		}
		res.Created++
	default:
		return fmt.Errorf("catalog: lookup entry %s: %w", entry.SourcePath, err)
	}
	return nil
}

func (s *Service) deleteOrphaned(ctx context.Context, keep map[string]struct{}, opts SyncOptions, res *SyncResult) error {
	existing, err := s.entries.List(ctx)
	if err != nil {
		return fmt.Errorf("catalog: list entries: %w", err)
	}

	for _, record := range existing {
		if _, ok := keep[record.SourcePath]; ok {
			continue
		}
		if opts.DryRun {
			res.Deleted++
			continue
		}
		if err := s.entries.Delete(ctx, record.ID); err != nil {
			return fmt.Errorf("catalog: delete entry %s: %w", record.SourcePath, err)
		}
		res.Deleted++
	}
	return nil
}

// EntryBySlug looks up a single entry by slug, optionally scoped to a locale.
func (s *Service) EntryBySlug(ctx context.Context, slug, locale string) (*Entry, error) {
	if s.entries == nil {
		return nil, ErrEntryRepositoryRequired
	}
	return s.entries.GetBySlug(ctx, slug, locale)
}

// EntriesByTag lists published entries carrying the tag, newest first.
func (s *Service) EntriesByTag(ctx context.Context, tag string) ([]*Entry, error) {
	if s.entries == nil {
		return nil, ErrEntryRepositoryRequired
	}
	return s.entries.ListByTag(ctx, tag)
}

// PublishedBetween lists published entries inside [from, to), newest first.
func (s *Service) PublishedBetween(ctx context.Context, from, to time.Time) ([]*Entry, error) {
	if s.entries == nil {
		return nil, ErrEntryRepositoryRequired
	}
	return s.entries.ListPublishedBetween(ctx, from, to)
}

// Recent lists the newest published entries, at most limit of them.
func (s *Service) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	if s.entries == nil {
		return nil, ErrEntryRepositoryRequired
	}
	return s.entries.ListRecent(ctx, limit)
}

// Tags lists every distinct tag in the catalog, sorted by name.
func (s *Service) Tags(ctx context.Context) ([]*Tag, error) {
	if s.entries == nil {
		return nil, ErrEntryRepositoryRequired
	}
	return s.entries.ListTags(ctx)
}

// StartBuild records the beginning of a generator run.
func (s *Service) StartBuild(ctx context.Context, outputDir string) (*Build, error) {
	if s.builds == nil {
		return nil, ErrBuildRepositoryRequired
	}
	started := s.now()
	build := &Build{
		ID:        identity.BuildUUID(outputDir, started.Format(time.RFC3339Nano)),
		OutputDir: outputDir,
		Status:    BuildStatusRunning,
		StartedAt: started,
	}
	return s.builds.Create(ctx, build)
}

// FinishBuild closes a build record with its outcome.
func (s *Service) FinishBuild(ctx context.Context, id uuid.UUID, status string, pages, assets int, stats map[string]any) (*Build, error) {
	if s.builds == nil {
		return nil, ErrBuildRepositoryRequired
	}
	build, err := s.builds.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	finished := s.now()
	build.Status = status
	build.Pages = pages
	build.Assets = assets
	build.Stats = stats
	build.FinishedAt = &finished
	return s.builds.Update(ctx, build)
}

// RecentBuilds lists the newest build records, at most limit of them.
func (s *Service) RecentBuilds(ctx context.Context, limit int) ([]*Build, error) {
	if s.builds == nil {
		return nil, ErrBuildRepositoryRequired
	}
	return s.builds.ListRecent(ctx, limit)
}

// EntryFromPost maps a classified post onto its catalog entry.
func EntryFromPost(post *content.Post) *Entry {
	entry := &Entry{
		ID:          identity.EntryUUID(post.SourcePath),
		SourcePath:  post.SourcePath,
		Kind:        EntryKindPost,
		Slug:        post.Slug,
		Locale:      post.Locale,
		Title:       post.Title,
		Description: post.Description,
		Checksum:    hex.EncodeToString(post.Checksum),
		Draft:       post.Draft,
		ReadingTime: post.ReadingTime,
		Tags:        slices.Clone(post.Tags),
		Metadata: map[string]any{
			"comments": post.Comments,
		},
	}
	if post.Dated {
		at := post.Date
		entry.PublishedAt = &at
	}
	if post.Template != "" {
		entry.Metadata["template"] = post.Template
	}
	if post.Author != "" {
		entry.Metadata["author"] = post.Author
	}
	return entry
}

// EntryFromPage maps a standalone page onto its catalog entry.
func EntryFromPage(page *content.Page) *Entry {
	entry := &Entry{
		ID:          identity.EntryUUID(page.SourcePath),
		SourcePath:  page.SourcePath,
		Kind:        EntryKindPage,
		Slug:        page.Slug,
		Locale:      page.Locale,
		Title:       page.Title,
		Description: page.Description,
		Checksum:    hex.EncodeToString(page.Checksum),
		Draft:       page.Draft,
		Metadata:    map[string]any{},
	}
	if page.Template != "" {
		entry.Metadata["template"] = page.Template
	}
	return entry
}

func firstError(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return errs[0]
}
