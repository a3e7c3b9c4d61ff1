package logging

import (
	"context"
	"maps"
)

type contextKey struct{}

var fieldsKey contextKey

// ContextWithFields annotates ctx with structured fields that loggers pick up
// on later entries. Fields already on the context survive; new keys win on
// collision.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}

	merged := ContextFields(ctx)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return context.WithValue(ctx, fieldsKey, merged)
}

// ContextFields returns a copy of the fields stored on ctx, or nil when none
// are set. Mutating the returned map does not affect the context.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, ok := ctx.Value(fieldsKey).(map[string]any)
	if !ok || len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}
