package logging

import (
	"context"

	"github.com/goliatone/go-storefront/pkg/interfaces"
)

const (
	rootModule          = "storefront"
	shopsModule         = "storefront.shops"
	tenantsModule       = "storefront.tenants"
	subscriptionsModule = "storefront.subscriptions"
	templatesModule     = "storefront.templates"
	navigationModule    = "storefront.navigation"
	pagesModule         = "storefront.pages"
	menusModule         = "storefront.menus"
	pipelineModule      = "storefront.pipeline"
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

// ShopsLogger returns the logger namespace reserved for shop provisioning.
func ShopsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, shopsModule)
}

// TenantsLogger returns the logger namespace reserved for tenant resolution.
func TenantsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, tenantsModule)
}

// SubscriptionsLogger returns the logger namespace for the state machine.
func SubscriptionsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, subscriptionsModule)
}

// TemplatesLogger returns the logger namespace for template resolution.
func TemplatesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, templatesModule)
}

// NavigationLogger returns the logger namespace for navigation assembly.
func NavigationLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, navigationModule)
}

// PagesLogger returns the logger namespace reserved for page services.
func PagesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, pagesModule)
}

// MenusLogger returns the logger namespace reserved for menu services.
func MenusLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, menusModule)
}

// PipelineLogger returns the logger namespace for the request pipeline.
func PipelineLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, pipelineModule)
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
