package storefront

import (
	"github.com/goliatone/go-storefront/internal/di"
	"github.com/goliatone/go-storefront/internal/menus"
	"github.com/goliatone/go-storefront/internal/navigation"
	"github.com/goliatone/go-storefront/internal/pages"
	"github.com/goliatone/go-storefront/internal/pipeline"
	"github.com/goliatone/go-storefront/internal/shops"
	"github.com/goliatone/go-storefront/internal/subscriptions"
	"github.com/goliatone/go-storefront/internal/templates"
	"github.com/goliatone/go-storefront/internal/tenants"
)

// ShopService exports the shop provisioning contract for consumers of the
// storefront package.
type ShopService = shops.Service

// PageService exports the page authoring contract.
type PageService = pages.Service

// MenuService exports the menu management contract.
type MenuService = menus.Service

// SubscriptionService exports the subscription state machine contract.
type SubscriptionService = subscriptions.Service

// TenantResolver exports the host resolution contract.
type TenantResolver = tenants.Resolver

// TemplateEngine exports the template resolution contract.
type TemplateEngine = templates.Engine

// NavigationAssembler exports the navigation assembly contract.
type NavigationAssembler = navigation.Assembler

// Pipeline exports the request pipeline contract.
type Pipeline = pipeline.Pipeline

// Request is the inbound request surface the pipeline resolves.
type Request = pipeline.Request

// RequestContext is the fully resolved per-request state.
type RequestContext = pipeline.RequestContext

// NavigationEntry is a single rendered navigation link.
type NavigationEntry = navigation.Entry

// SubscriptionEvaluation reports the current subscription state of a shop.
type SubscriptionEvaluation = subscriptions.Evaluation

// Resolution kinds a request host can map to.
const (
	ResolutionTenant   = tenants.ResolutionTenant
	ResolutionPlatform = tenants.ResolutionPlatform
	ResolutionRedirect = tenants.ResolutionRedirect
)

// Template contexts the engine can build lookup chains for.
const (
	ContextStorefront      = templates.ContextStorefront
	ContextPlatformLanding = templates.ContextPlatformLanding
	ContextAdministrative  = templates.ContextAdministrative
)

// Search path namespaces returned by the template engine.
const (
	NamespaceMain    = templates.NamespaceMain
	NamespaceTheme   = templates.NamespaceTheme
	NamespaceDefault = templates.NamespaceDefault
	NamespaceCore    = templates.NamespaceCore
)

// Module represents the top level storefront runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a storefront module using the provided configuration and
// optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Module{container: di.NewContainer(cfg, opts...)}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Shops returns the configured shop service.
func (m *Module) Shops() ShopService {
	return m.container.ShopService()
}

// Pages returns the configured page service.
func (m *Module) Pages() PageService {
	return m.container.PageService()
}

// Menus returns the configured menu service.
func (m *Module) Menus() MenuService {
	return m.container.MenuService()
}

// Subscriptions returns the configured subscription service.
func (m *Module) Subscriptions() SubscriptionService {
	return m.container.SubscriptionService()
}

// Tenants returns the configured tenant resolver.
func (m *Module) Tenants() TenantResolver {
	return m.container.TenantResolver()
}

// Templates returns the configured template engine.
func (m *Module) Templates() TemplateEngine {
	return m.container.TemplateEngine()
}

// Navigation returns the configured navigation assembler.
func (m *Module) Navigation() NavigationAssembler {
	return m.container.NavigationAssembler()
}

// Pipeline returns the configured request pipeline.
func (m *Module) Pipeline() Pipeline {
	return m.container.Pipeline()
}

// Close releases resources the module opened itself, such as a self-managed
// database handle.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
