package linkscmd

import (
	"errors"

	"github.com/goliatone/go-sitegen/internal/commands"
	"github.com/goliatone/go-sitegen/internal/linkcheck"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// HandlerSet groups the link command handlers produced by RegisterLinkCommands.
type HandlerSet struct {
	Check *CheckLinksHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	onReport         func(*linkcheck.Report)
	checkHandlerOpts []commands.HandlerOption[CheckLinksCommand]
}

// WithReportSink registers a callback receiving every link check report.
func WithReportSink(fn func(*linkcheck.Report)) Option {
	return func(cfg *options) {
		cfg.onReport = fn
	}
}

// WithCheckHandlerOptions forwards options to the CheckLinksHandler constructor.
func WithCheckHandlerOptions(opts ...commands.HandlerOption[CheckLinksCommand]) Option {
	return func(cfg *options) {
		cfg.checkHandlerOpts = append(cfg.checkHandlerOpts, opts...)
	}
}

// RegisterLinkCommands builds the link check handler and registers it with the
// provided registry.
func RegisterLinkCommands(reg CommandRegistry, deps Dependencies, provider interfaces.LoggerProvider, gates FeatureGates, opts ...Option) (*HandlerSet, error) {
	if deps.Checker == nil {
		return nil, errors.New("links command registration: checker is nil")
	}
	if deps.Markdown == nil || deps.Loader == nil || deps.Routes == nil {
		return nil, errors.New("links command registration: markdown, loader, and routes are required")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "links")
	handler := NewCheckLinksHandler(deps, logger, gates, cfg.onReport, cfg.checkHandlerOpts...)

	if reg != nil {
		if err := reg.RegisterCommand(handler); err != nil {
			return nil, err
		}
	}

	return &HandlerSet{Check: handler}, nil
}
