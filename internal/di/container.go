package di

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	urlkit "github.com/goliatone/go-urlkit"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-storefront/internal/logging"
	"github.com/goliatone/go-storefront/internal/logging/console"
	"github.com/goliatone/go-storefront/internal/logging/gologger"
	"github.com/goliatone/go-storefront/internal/menus"
	"github.com/goliatone/go-storefront/internal/navigation"
	"github.com/goliatone/go-storefront/internal/pages"
	"github.com/goliatone/go-storefront/internal/pipeline"
	"github.com/goliatone/go-storefront/internal/runtimeconfig"
	"github.com/goliatone/go-storefront/internal/shops"
	"github.com/goliatone/go-storefront/internal/subscriptions"
	"github.com/goliatone/go-storefront/internal/templates"
	"github.com/goliatone/go-storefront/internal/tenants"
	"github.com/goliatone/go-storefront/pkg/interfaces"
)

// Container wires module dependencies. Defaults run fully in memory; storage,
// cache, and logging bindings swap in through configuration or options.
type Container struct {
	Config runtimeconfig.Config

	bunDB    *bun.DB
	sqlDB    *sql.DB
	ownsDB   bool
	cacheTTL time.Duration

	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	loggerProvider interfaces.LoggerProvider

	themeFS fs.FS

	shopRepo         shops.ShopRepository
	domainRepo       shops.DomainRepository
	subscriptionRepo shops.SubscriptionRepository
	pageRepo         pages.PageRepository
	menuRepo         menus.MenuRepository
	menuItemRepo     menus.MenuItemRepository

	routeManager    *urlkit.RouteManager
	pageURLResolver navigation.PageURLResolver

	tenantResolver tenants.Resolver
	themeCatalog   templates.Catalog
	templateEngine templates.Engine
	navAssembler   navigation.Assembler

	shopSvc         shops.Service
	subscriptionSvc subscriptions.Service
	pageSvc         pages.Service
	menuSvc         menus.Service

	pipe pipeline.Pipeline
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB supplies an already opened bun database. The container will not
// close it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithSQLDB supplies a raw database handle that the container wraps with the
// dialect named by the storage provider. Useful for postgres hosts that bring
// their own driver.
func WithSQLDB(db *sql.DB) Option {
	return func(c *Container) {
		c.sqlDB = db
	}
}

// WithCache overrides the default repository cache bindings.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the configured logger provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithThemeFS overrides the filesystem the theme catalog scans, mainly for
// tests and embedded theme bundles.
func WithThemeFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.themeFS = fsys
	}
}

// WithPageURLResolver overrides how navigation turns page slugs into URLs.
func WithPageURLResolver(resolver navigation.PageURLResolver) Option {
	return func(c *Container) {
		c.pageURLResolver = resolver
	}
}

// WithShopService overrides the default shop service binding.
func WithShopService(svc shops.Service) Option {
	return func(c *Container) {
		c.shopSvc = svc
	}
}

// WithSubscriptionService overrides the default subscription service binding.
func WithSubscriptionService(svc subscriptions.Service) Option {
	return func(c *Container) {
		c.subscriptionSvc = svc
	}
}

// WithPageService overrides the default page service binding.
func WithPageService(svc pages.Service) Option {
	return func(c *Container) {
		c.pageSvc = svc
	}
}

// WithMenuService overrides the default menu service binding.
func WithMenuService(svc menus.Service) Option {
	return func(c *Container) {
		c.menuSvc = svc
	}
}

// WithTenantResolver overrides the default tenant resolver binding.
func WithTenantResolver(resolver tenants.Resolver) Option {
	return func(c *Container) {
		c.tenantResolver = resolver
	}
}

// WithTemplateEngine overrides the default template engine binding.
func WithTemplateEngine(engine templates.Engine) Option {
	return func(c *Container) {
		c.templateEngine = engine
	}
}

// WithNavigationAssembler overrides the default navigation assembler binding.
func WithNavigationAssembler(assembler navigation.Assembler) Option {
	return func(c *Container) {
		c.navAssembler = assembler
	}
}

// NewContainer creates a container with the provided configuration. It panics
// when the configuration fails validation, mirroring the fail-fast contract
// hosts expect at boot.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) *Container {
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:           cfg,
		cacheTTL:         cacheTTL,
		shopRepo:         shops.NewMemoryShopRepository(),
		domainRepo:       shops.NewMemoryDomainRepository(),
		subscriptionRepo: shops.NewMemorySubscriptionRepository(),
		pageRepo:         pages.NewMemoryPageRepository(),
		menuRepo:         menus.NewMemoryMenuRepository(),
		menuItemRepo:     menus.NewMemoryMenuItemRepository(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.configureLogging()
	c.configureStorage()
	c.configureCacheDefaults()
	c.configureRepositories()
	c.configureNavigation()
	c.configureTemplates()

	if c.tenantResolver == nil {
		c.tenantResolver = tenants.NewResolver(c.domainRepo, c.shopRepo, tenants.Config{
			RootDomains:  cfg.Platform.RootDomains,
			LocalAliases: cfg.Platform.LocalAliases,
			BaseURL:      cfg.Platform.BaseURL,
		}, tenants.WithLogger(logging.TenantsLogger(c.loggerProvider)))
	}

	if c.subscriptionSvc == nil {
		c.subscriptionSvc = subscriptions.NewService(c.subscriptionRepo,
			subscriptions.WithLogger(logging.SubscriptionsLogger(c.loggerProvider)),
		)
	}

	if c.shopSvc == nil {
		shopOpts := []shops.ServiceOption{
			shops.WithDefaultTheme(cfg.Themes.DefaultTheme),
			shops.WithLogger(logging.ShopsLogger(c.loggerProvider)),
		}
		if base := tempDomainBase(cfg.Platform); base != "" {
			shopOpts = append(shopOpts, shops.WithTempDomainBase(base))
		}
		c.shopSvc = shops.NewService(c.shopRepo, c.domainRepo, c.subscriptionRepo, shopOpts...)
	}

	if c.pageSvc == nil {
		c.pageSvc = pages.NewService(c.pageRepo,
			pages.WithLogger(logging.PagesLogger(c.loggerProvider)),
		)
	}

	if c.menuSvc == nil {
		c.menuSvc = menus.NewService(c.menuRepo, c.menuItemRepo,
			menus.WithLogger(logging.MenusLogger(c.loggerProvider)),
		)
	}

	if c.navAssembler == nil {
		navOpts := []navigation.AssemblerOption{
			navigation.WithLogger(logging.NavigationLogger(c.loggerProvider)),
		}
		if c.pageURLResolver != nil {
			navOpts = append(navOpts, navigation.WithPageURLResolver(c.pageURLResolver))
		}
		c.navAssembler = navigation.NewAssembler(c.menuRepo, c.menuItemRepo, c.pageRepo, navOpts...)
	}

	if c.pipe == nil {
		c.pipe = pipeline.New(c.tenantResolver, c.subscriptionSvc, c.templateEngine, c.navAssembler,
			pipeline.WithLogger(logging.PipelineLogger(c.loggerProvider)),
		)
	}

	return c
}

func (c *Container) configureLogging() {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return
	}

	logCfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			panic(err)
		}
		c.loggerProvider = provider
	default:
		c.loggerProvider = console.NewProvider(console.Options{
			MinLevel: consoleLevel(logCfg.Level),
		})
	}
}

// configureStorage opens a database when the provider asks for one and no
// handle was injected. Injected handles always win and stay owned by the host.
func (c *Container) configureStorage() {
	if c.bunDB != nil {
		return
	}

	switch strings.ToLower(strings.TrimSpace(c.Config.Storage.Provider)) {
	case "bun-sqlite":
		sqlDB := c.sqlDB
		if sqlDB == nil {
			dsn := c.Config.Storage.DSN
			if dsn == "" {
				dsn = "file::memory:?cache=shared"
			}
			opened, err := sql.Open("sqlite3", dsn)
			if err != nil {
				panic(fmt.Errorf("di: open sqlite storage: %w", err))
			}
			sqlDB = opened
			c.sqlDB = opened
			c.ownsDB = true
		}
		c.bunDB = bun.NewDB(sqlDB, sqlitedialect.New())

	case "bun-postgres":
		if c.sqlDB == nil {
			panic(fmt.Errorf("di: bun-postgres storage requires WithSQLDB or WithBunDB"))
		}
		c.bunDB = bun.NewDB(c.sqlDB, pgdialect.New())
	}
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			panic(fmt.Errorf("di: build cache service: %w", err))
		}
		c.cacheService = service
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.bunDB == nil {
		return
	}

	c.shopRepo = shops.NewBunShopRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.domainRepo = shops.NewBunDomainRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.subscriptionRepo = shops.NewBunSubscriptionRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)

	c.pageRepo = pages.NewBunPageRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)

	c.menuRepo = menus.NewBunMenuRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.menuItemRepo = menus.NewBunMenuItemRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
}

func (c *Container) configureNavigation() {
	if c.pageURLResolver != nil {
		return
	}

	navCfg := c.Config.Navigation
	if navCfg.RouteConfig == nil {
		return
	}

	manager := urlkit.NewRouteManager(navCfg.RouteConfig)
	c.routeManager = manager

	c.pageURLResolver = navigation.NewURLKitResolver(navigation.URLKitResolverOptions{
		Manager:   manager,
		Group:     strings.TrimSpace(navCfg.URLKit.Group),
		PageRoute: strings.TrimSpace(navCfg.URLKit.PageRoute),
		SlugParam: strings.TrimSpace(navCfg.URLKit.SlugParam),
	})
}

func (c *Container) configureTemplates() {
	themeCfg := c.Config.Themes

	if c.themeCatalog == nil {
		fsys := c.themeFS
		if fsys == nil {
			fsys = os.DirFS(themeCfg.BasePath)
		}
		c.themeCatalog = templates.NewCatalog(fsys, themeCfg.DefaultTheme,
			templates.WithCatalogTTL(themeCfg.CatalogCacheTTL),
		)
	}

	if c.templateEngine == nil {
		engineOpts := []templates.EngineOption{
			templates.WithLogger(logging.TemplatesLogger(c.loggerProvider)),
		}
		if themeCfg.DefaultVariant != "" {
			engineOpts = append(engineOpts, templates.WithThemeSelector(
				templates.NewThemeSelector(themeCfg.BasePath, themeCfg.DefaultTheme, themeCfg.DefaultVariant),
			))
		}
		c.templateEngine = templates.NewEngine(themeCfg.BasePath, themeCfg.DefaultTheme, c.themeCatalog, engineOpts...)
	}
}

// Close releases resources the container opened itself. Injected databases
// are left alone.
func (c *Container) Close() error {
	if !c.ownsDB {
		return nil
	}
	c.ownsDB = false
	if c.bunDB != nil {
		return c.bunDB.Close()
	}
	if c.sqlDB != nil {
		return c.sqlDB.Close()
	}
	return nil
}

// tempDomainBase derives the base host for minted shop subdomains from the
// first platform root domain.
func tempDomainBase(platform runtimeconfig.PlatformConfig) string {
	for _, domain := range platform.RootDomains {
		if trimmed := strings.TrimSpace(domain); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func consoleLevel(level string) *console.Level {
	var min console.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		min = console.LevelTrace
	case "debug":
		min = console.LevelDebug
	case "info":
		min = console.LevelInfo
	case "warn", "warning":
		min = console.LevelWarn
	case "error":
		min = console.LevelError
	case "fatal":
		min = console.LevelFatal
	default:
		return nil
	}
	return &min
}

// BunDB exposes the configured bun database, nil when running in memory.
func (c *Container) BunDB() *bun.DB {
	return c.bunDB
}

// LoggerProvider exposes the configured logger provider, nil when logging is
// disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// RouteManager exposes the urlkit route manager when navigation routing is
// configured.
func (c *Container) RouteManager() *urlkit.RouteManager {
	return c.routeManager
}

// ShopRepository exposes the configured shop repository.
func (c *Container) ShopRepository() shops.ShopRepository {
	return c.shopRepo
}

// DomainRepository exposes the configured domain repository.
func (c *Container) DomainRepository() shops.DomainRepository {
	return c.domainRepo
}

// SubscriptionRepository exposes the configured subscription repository.
func (c *Container) SubscriptionRepository() shops.SubscriptionRepository {
	return c.subscriptionRepo
}

// PageRepository exposes the configured page repository.
func (c *Container) PageRepository() pages.PageRepository {
	return c.pageRepo
}

// MenuRepository exposes the configured menu repository.
func (c *Container) MenuRepository() menus.MenuRepository {
	return c.menuRepo
}

// MenuItemRepository exposes the configured menu item repository.
func (c *Container) MenuItemRepository() menus.MenuItemRepository {
	return c.menuItemRepo
}

// ShopService exposes the shop provisioning service.
func (c *Container) ShopService() shops.Service {
	return c.shopSvc
}

// SubscriptionService exposes the subscription state machine.
func (c *Container) SubscriptionService() subscriptions.Service {
	return c.subscriptionSvc
}

// PageService exposes the page authoring service.
func (c *Container) PageService() pages.Service {
	return c.pageSvc
}

// MenuService exposes the menu management service.
func (c *Container) MenuService() menus.Service {
	return c.menuSvc
}

// TenantResolver exposes the host-to-tenant resolver.
func (c *Container) TenantResolver() tenants.Resolver {
	return c.tenantResolver
}

// ThemeCatalog exposes the filesystem-backed theme catalog.
func (c *Container) ThemeCatalog() templates.Catalog {
	return c.themeCatalog
}

// TemplateEngine exposes the template resolution engine.
func (c *Container) TemplateEngine() templates.Engine {
	return c.templateEngine
}

// NavigationAssembler exposes the navigation assembler.
func (c *Container) NavigationAssembler() navigation.Assembler {
	return c.navAssembler
}

// Pipeline exposes the request pipeline.
func (c *Container) Pipeline() pipeline.Pipeline {
	return c.pipe
}
