package contentcmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-sitegen/internal/catalog"
	"github.com/goliatone/go-sitegen/internal/commands"
	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/validate"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar matches the function signature used by go-command registries.
type CronRegistrar func(command.HandlerConfig, any) error

// HandlerSet groups the content command handlers produced by RegisterContentCommands.
type HandlerSet struct {
	Validate *ValidateContentHandler
	Sync     *SyncCatalogHandler
}

// Services collects the collaborators content command handlers execute against.
type Services struct {
	Loader   *content.Service
	Validate *validate.Service
	Catalog  *catalog.Service
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	onValidateResult    func(*validate.Result)
	onSyncResult        func(*catalog.SyncResult)
	validateHandlerOpts []commands.HandlerOption[ValidateContentCommand]
	syncHandlerOpts     []commands.HandlerOption[SyncCatalogCommand]
}

// WithValidateResultSink registers a callback receiving every validation result.
func WithValidateResultSink(fn func(*validate.Result)) Option {
	return func(cfg *options) {
		cfg.onValidateResult = fn
	}
}

// WithSyncResultSink registers a callback receiving every catalog sync result.
func WithSyncResultSink(fn func(*catalog.SyncResult)) Option {
	return func(cfg *options) {
		cfg.onSyncResult = fn
	}
}

// WithValidateHandlerOptions forwards options to the ValidateContentHandler constructor.
func WithValidateHandlerOptions(opts ...commands.HandlerOption[ValidateContentCommand]) Option {
	return func(cfg *options) {
		cfg.validateHandlerOpts = append(cfg.validateHandlerOpts, opts...)
	}
}

// WithSyncHandlerOptions forwards options to the SyncCatalogHandler constructor.
func WithSyncHandlerOptions(opts ...commands.HandlerOption[SyncCatalogCommand]) Option {
	return func(cfg *options) {
		cfg.syncHandlerOpts = append(cfg.syncHandlerOpts, opts...)
	}
}

// RegisterContentCommands builds the content command handlers and registers
// them with the provided registry. Handlers whose services are absent are
// skipped, so hosts running without a catalog still get validation.
func RegisterContentCommands(reg CommandRegistry, services Services, provider interfaces.LoggerProvider, gates FeatureGates, opts ...Option) (*HandlerSet, error) {
	if services.Validate == nil && services.Catalog == nil {
		return nil, errors.New("content command registration: no services supplied")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "content")
	set := &HandlerSet{}

	if services.Validate != nil {
		set.Validate = NewValidateContentHandler(services.Validate, logger, gates, cfg.onValidateResult, cfg.validateHandlerOpts...)
		if reg != nil {
			if err := reg.RegisterCommand(set.Validate); err != nil {
				return nil, err
			}
		}
	}

	if services.Catalog != nil {
		if services.Loader == nil {
			return nil, errors.New("content command registration: catalog sync requires a content loader")
		}
		set.Sync = NewSyncCatalogHandler(services.Loader, services.Catalog, logger, gates, cfg.onSyncResult, cfg.syncHandlerOpts...)
		if reg != nil {
			if err := reg.RegisterCommand(set.Sync); err != nil {
				return nil, err
			}
		}
	}

	return set, nil
}

// RegisterSyncCron wires the catalog sync handler into a cron registrar. The
// handler executes with a background context.
func RegisterSyncCron(reg CronRegistrar, handler *SyncCatalogHandler, cfg command.HandlerConfig, msg SyncCatalogCommand) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), msg)
	})
}
