package logging

import (
	"context"

	"github.com/goliatone/go-storefront/pkg/interfaces"
)

type contextKey struct{}

// WithContextFields stores structured fields on the context so providers that
// honour WithContext can surface them on every entry.
func WithContextFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}
	merged := make(map[string]any, len(fields))
	for key, value := range ContextFields(ctx) {
		merged[key] = value
	}
	for key, value := range fields {
		merged[key] = value
	}
	return context.WithValue(ctx, contextKey{}, merged)
}

// ContextFields extracts fields previously attached with WithContextFields.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(contextKey{}).(map[string]any)
	return fields
}

// WithFields wraps a logger so every entry carries the supplied fields even
// when the underlying implementation does not support FieldsLogger.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil {
		return NoOp()
	}
	if len(fields) == 0 {
		return logger
	}
	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(fields)
	}
	return &fieldsAdapter{inner: logger, fields: cloneFieldMap(fields)}
}

type fieldsAdapter struct {
	inner  interfaces.Logger
	fields map[string]any
}

var (
	_ interfaces.Logger       = (*fieldsAdapter)(nil)
	_ interfaces.FieldsLogger = (*fieldsAdapter)(nil)
)

func (l *fieldsAdapter) Trace(msg string, args ...any) { l.inner.Trace(msg, l.expand(args)...) }
func (l *fieldsAdapter) Debug(msg string, args ...any) { l.inner.Debug(msg, l.expand(args)...) }
func (l *fieldsAdapter) Info(msg string, args ...any)  { l.inner.Info(msg, l.expand(args)...) }
func (l *fieldsAdapter) Warn(msg string, args ...any)  { l.inner.Warn(msg, l.expand(args)...) }
func (l *fieldsAdapter) Error(msg string, args ...any) { l.inner.Error(msg, l.expand(args)...) }
func (l *fieldsAdapter) Fatal(msg string, args ...any) { l.inner.Fatal(msg, l.expand(args)...) }

func (l *fieldsAdapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	merged := cloneFieldMap(l.fields)
	for key, value := range fields {
		merged[key] = value
	}
	return &fieldsAdapter{inner: l.inner, fields: merged}
}

func (l *fieldsAdapter) WithContext(ctx context.Context) interfaces.Logger {
	return &fieldsAdapter{inner: l.inner.WithContext(ctx), fields: l.fields}
}

func (l *fieldsAdapter) expand(args []any) []any {
	if len(l.fields) == 0 {
		return args
	}
	expanded := make([]any, 0, len(args)+len(l.fields)*2)
	expanded = append(expanded, args...)
	for key, value := range l.fields {
		expanded = append(expanded, key, value)
	}
	return expanded
}

func cloneFieldMap(fields map[string]any) map[string]any {
	cloned := make(map[string]any, len(fields))
	for key, value := range fields {
		cloned[key] = value
	}
	return cloned
}
