package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-storefront/pkg/interfaces"
)

type recordingLogger struct {
	entries []entry
	fields  map[string]any
}

type entry struct {
	msg  string
	args []any
}

func (l *recordingLogger) Trace(msg string, args ...any) { l.record(msg, args) }
func (l *recordingLogger) Debug(msg string, args ...any) { l.record(msg, args) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.record(msg, args) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.record(msg, args) }
func (l *recordingLogger) Error(msg string, args ...any) { l.record(msg, args) }
func (l *recordingLogger) Fatal(msg string, args ...any) { l.record(msg, args) }

func (l *recordingLogger) WithContext(context.Context) interfaces.Logger { return l }

func (l *recordingLogger) record(msg string, args []any) {
	l.entries = append(l.entries, entry{msg: msg, args: args})
}

type recordingProvider struct {
	logger *recordingLogger
	names  []string
}

func (p *recordingProvider) GetLogger(name string) interfaces.Logger {
	p.names = append(p.names, name)
	return p.logger
}

func TestModuleLoggerDefaultsToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "storefront.tenants")
	if logger == nil {
		t.Fatal("expected logger, got nil")
	}
	logger.Info("safe to call") // must not panic
}

func TestModuleLoggerScopesProviderByName(t *testing.T) {
	provider := &recordingProvider{logger: &recordingLogger{}}

	logger := TenantsLogger(provider)
	logger.Info("resolved", "host", "shop1.example.com")

	if len(provider.names) != 1 || provider.names[0] != "storefront.tenants" {
		t.Fatalf("unexpected provider names %v", provider.names)
	}
	if len(provider.logger.entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(provider.logger.entries))
	}
	args := provider.logger.entries[0].args
	if !containsPair(args, "module", "storefront.tenants") {
		t.Fatalf("expected module field in args %v", args)
	}
}

func TestContextFieldsRoundTrip(t *testing.T) {
	ctx := WithContextFields(context.Background(), map[string]any{"request_id": "abc"})
	ctx = WithContextFields(ctx, map[string]any{"host": "shop1.example.com"})

	fields := ContextFields(ctx)
	if fields["request_id"] != "abc" || fields["host"] != "shop1.example.com" {
		t.Fatalf("unexpected context fields %v", fields)
	}
}

func containsPair(args []any, key string, value any) bool {
	for i := 0; i+1 < len(args); i += 2 {
		if args[i] == key && args[i+1] == value {
			return true
		}
	}
	return false
}
