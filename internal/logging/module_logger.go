package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

const (
	rootModule      = "sitegen"
	contentModule   = "sitegen.content"
	markdownModule  = "sitegen.markdown"
	generatorModule = "sitegen.generator"
	catalogModule   = "sitegen.catalog"
	validateModule  = "sitegen.validate"
	linkcheckModule = "sitegen.linkcheck"
	serverModule    = "sitegen.server"
)

const (
	fieldSourcePath = "source_path"
	fieldLocale     = "locale"
	fieldStage      = "stage"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// ContentLogger returns the logger namespace reserved for content loading.
func ContentLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, contentModule)
}

// MarkdownLogger returns the logger namespace reserved for markdown parsing.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// GeneratorLogger returns the logger namespace reserved for site builds.
func GeneratorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, generatorModule)
}

// CatalogLogger returns the logger namespace reserved for catalog persistence.
func CatalogLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, catalogModule)
}

// ValidateLogger returns the logger namespace reserved for content validation.
func ValidateLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, validateModule)
}

// LinkcheckLogger returns the logger namespace reserved for link checking.
func LinkcheckLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, linkcheckModule)
}

// ServerLogger returns the logger namespace reserved for the preview server.
func ServerLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, serverModule)
}

// WithSourceContext enriches the provided logger with common content fields
// such as file path, locale, and pipeline stage. Empty values are ignored.
func WithSourceContext(logger interfaces.Logger, path, locale, stage string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldSourcePath] = trimmed
	}
	if trimmed := strings.TrimSpace(locale); trimmed != "" {
		fields[fieldLocale] = trimmed
	}
	if trimmed := strings.TrimSpace(stage); trimmed != "" {
		fields[fieldStage] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
