package contentcmd

import (
	"context"
	"errors"
	"fmt"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-sitegen/internal/catalog"
	"github.com/goliatone/go-sitegen/internal/commands"
	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/validate"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

const (
	validateOperation = "content.validate"
	syncOperation     = "content.sync"
)

var (
	// ErrValidationFeatureDisabled is returned when the validation feature flag is disabled at runtime.
	ErrValidationFeatureDisabled = errors.New("content command: validation feature disabled")
	// ErrCatalogFeatureDisabled is returned when the catalog feature flag is disabled at runtime.
	ErrCatalogFeatureDisabled = errors.New("content command: catalog feature disabled")
	// ErrContentInvalid is returned when the source tree fails front matter checks.
	ErrContentInvalid = errors.New("content command: validation failed")
)

var (
	_ command.Commander[ValidateContentCommand] = (*ValidateContentHandler)(nil)
	_ command.Commander[SyncCatalogCommand]     = (*SyncCatalogHandler)(nil)
)

// ValidateContentHandler runs the front matter checks via the shared command handler foundation.
type ValidateContentHandler struct {
	inner *commands.Handler[ValidateContentCommand]
}

// NewValidateContentHandler binds the handler to the supplied validation
// service. The optional onResult callback receives the full result so callers
// can render the per-file report.
func NewValidateContentHandler(service *validate.Service, logger interfaces.Logger, gates FeatureGates, onResult func(*validate.Result), opts ...commands.HandlerOption[ValidateContentCommand]) *ValidateContentHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ValidateContentCommand) error {
		if !gates.validationEnabled() {
			return ErrValidationFeatureDisabled
		}

		result, err := service.ValidateTree(ctx)
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"files_checked": result.Checked,
			"issue_count":   len(result.Issues),
		}).Info("content.command.validate.completed")
		if onResult != nil {
			onResult(result)
		}
		if result.Failed() {
			return fmt.Errorf("%w: %d issue(s) across %d file(s)", ErrContentInvalid, len(result.Issues), len(result.FilesWithIssues()))
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ValidateContentCommand]{
		commands.WithLogger[ValidateContentCommand](baseLogger),
		commands.WithOperation[ValidateContentCommand](validateOperation),
		commands.WithTelemetry(commands.DefaultTelemetry[ValidateContentCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ValidateContentHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ValidateContentCommand].
func (h *ValidateContentHandler) Execute(ctx context.Context, msg ValidateContentCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SyncCatalogHandler mirrors the content tree into the catalog repository.
type SyncCatalogHandler struct {
	inner *commands.Handler[SyncCatalogCommand]
}

// NewSyncCatalogHandler binds the handler to the content loader and catalog service.
func NewSyncCatalogHandler(loader *content.Service, service *catalog.Service, logger interfaces.Logger, gates FeatureGates, onResult func(*catalog.SyncResult), opts ...commands.HandlerOption[SyncCatalogCommand]) *SyncCatalogHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg SyncCatalogCommand) error {
		if !gates.catalogEnabled() {
			return ErrCatalogFeatureDisabled
		}

		tree, err := loader.LoadTree(ctx)
		if err != nil {
			return err
		}

		result, err := service.Sync(ctx, tree, catalog.SyncOptions{
			DryRun:         msg.DryRun,
			DeleteOrphaned: msg.DeleteOrphaned,
		})
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"created_count": result.Created,
			"updated_count": result.Updated,
			"skipped_count": result.Skipped,
			"deleted_count": result.Deleted,
			"error_count":   len(result.Errors),
			"dry_run":       msg.DryRun,
		}).Info("content.command.sync.completed")
		if onResult != nil {
			onResult(result)
		}
		if len(result.Errors) > 0 {
			return errors.Join(result.Errors...)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[SyncCatalogCommand]{
		commands.WithLogger[SyncCatalogCommand](baseLogger),
		commands.WithOperation[SyncCatalogCommand](syncOperation),
		commands.WithMessageFields(func(msg SyncCatalogCommand) map[string]any {
			fields := map[string]any{}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			if msg.DeleteOrphaned {
				fields["delete_orphaned"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SyncCatalogCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SyncCatalogHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[SyncCatalogCommand].
func (h *SyncCatalogHandler) Execute(ctx context.Context, msg SyncCatalogCommand) error {
	return h.inner.Execute(ctx, msg)
}
