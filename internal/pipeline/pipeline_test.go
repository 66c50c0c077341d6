package pipeline

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-storefront/internal/identity"
	"github.com/goliatone/go-storefront/internal/menus"
	"github.com/goliatone/go-storefront/internal/navigation"
	"github.com/goliatone/go-storefront/internal/pages"
	"github.com/goliatone/go-storefront/internal/shops"
	"github.com/goliatone/go-storefront/internal/subscriptions"
	"github.com/goliatone/go-storefront/internal/templates"
	"github.com/goliatone/go-storefront/internal/tenants"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type world struct {
	shops   shops.ShopRepository
	domains shops.DomainRepository
	subs    shops.SubscriptionRepository
	pages   pages.PageRepository

	pipeline Pipeline
}

func newWorld(t *testing.T) *world {
	t.Helper()

	w := &world{
		shops:   shops.NewMemoryShopRepository(),
		domains: shops.NewMemoryDomainRepository(),
		subs:    shops.NewMemorySubscriptionRepository(),
		pages:   pages.NewMemoryPageRepository(),
	}

	resolver := tenants.NewResolver(w.domains, w.shops, tenants.Config{
		RootDomains: []string{"example.com"},
	})
	subService := subscriptions.NewService(w.subs,
		subscriptions.WithClock(func() time.Time { return testNow }),
	)
	catalog := templates.NewCatalog(fstest.MapFS{
		"themes/aurora/layout.html": {Data: []byte("layout")},
		"default/layout.html":       {Data: []byte("layout")},
	}, "default")
	engine := templates.NewEngine("/srv/templates", "default", catalog)
	assembler := navigation.NewAssembler(
		menus.NewMemoryMenuRepository(),
		menus.NewMemoryMenuItemRepository(),
		w.pages,
	)

	w.pipeline = New(resolver, subService, engine, assembler)
	return w
}

func (w *world) seedShop(t *testing.T, slug, theme string) *shops.Shop {
	t.Helper()
	shop, err := w.shops.Create(context.Background(), &shops.Shop{
		ID:     identity.ShopUUID(slug),
		Slug:   slug,
		Name:   slug,
		Status: shops.ShopStatusActive,
		Theme:  theme,
	})
	if err != nil {
		t.Fatalf("seed shop: %v", err)
	}
	return shop
}

func (w *world) seedDomain(t *testing.T, shopID uuid.UUID, host string, primary bool) *shops.Domain {
	t.Helper()
	domain, err := w.domains.Create(context.Background(), &shops.Domain{
		ID:        identity.DomainUUID(host),
		ShopID:    shopID,
		Host:      host,
		IsPrimary: primary,
		Status:    shops.DomainStatusActive,
		CreatedAt: testNow.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("seed domain: %v", err)
	}
	return domain
}

func (w *world) seedTrial(t *testing.T, shopID uuid.UUID, renewsAt time.Time) {
	t.Helper()
	_, err := w.subs.Create(context.Background(), &shops.Subscription{
		ID:            uuid.New(),
		ShopID:        shopID,
		Type:          shops.SubscriptionTypeTrial,
		StartsAt:      testNow.Add(-48 * time.Hour),
		NextRenewalAt: &renewsAt,
	})
	if err != nil {
		t.Fatalf("seed trial: %v", err)
	}
}

func TestRunPlatformHost(t *testing.T) {
	w := newWorld(t)

	rc, err := w.pipeline.Run(context.Background(), Request{Host: "example.com"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rc.Kind != tenants.ResolutionPlatform {
		t.Fatalf("expected platform, got %q", rc.Kind)
	}
	if rc.TemplateContext != templates.ContextPlatformLanding {
		t.Fatalf("expected landing context, got %q", rc.TemplateContext)
	}
	if len(rc.SearchPaths[templates.NamespaceMain]) == 0 {
		t.Fatal("landing context should carry search paths")
	}
	if rc.Subscription != nil {
		t.Fatal("platform requests must not evaluate subscriptions")
	}
	if rc.Entitled() {
		t.Fatal("platform context is never entitled")
	}
}

func TestRunTenantWithTrial(t *testing.T) {
	w := newWorld(t)
	shop := w.seedShop(t, "coffee-corner", "aurora")
	w.seedDomain(t, shop.ID, "coffee.example", true)
	w.seedTrial(t, shop.ID, testNow.Add(5*24*time.Hour))

	rc, err := w.pipeline.Run(context.Background(), Request{Host: "coffee.example:443"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rc.Kind != tenants.ResolutionTenant {
		t.Fatalf("expected tenant, got %q", rc.Kind)
	}
	if rc.TemplateContext != templates.ContextStorefront {
		t.Fatalf("expected storefront context, got %q", rc.TemplateContext)
	}
	if rc.Subscription == nil || rc.Subscription.State != subscriptions.StateTrial {
		t.Fatalf("expected trial evaluation, got %+v", rc.Subscription)
	}
	if !rc.Entitled() {
		t.Fatal("active trial should be entitled")
	}
	main := rc.SearchPaths[templates.NamespaceMain]
	if len(main) == 0 || !strings.Contains(main[0], "aurora") {
		t.Fatalf("theme tier should lead the lookup chain, got %v", main)
	}
}

func TestRunTenantWithoutSubscriptionStillRenders(t *testing.T) {
	w := newWorld(t)
	shop := w.seedShop(t, "coffee-corner", "aurora")
	w.seedDomain(t, shop.ID, "coffee.example", true)

	rc, err := w.pipeline.Run(context.Background(), Request{Host: "coffee.example"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rc.Kind != tenants.ResolutionTenant {
		t.Fatalf("expected tenant, got %q", rc.Kind)
	}
	if rc.Subscription == nil || rc.Subscription.State != subscriptions.StateExpired {
		t.Fatalf("missing subscription should evaluate expired, got %+v", rc.Subscription)
	}
	if rc.Entitled() {
		t.Fatal("expired shop must not be entitled")
	}
	if rc.TemplateContext != templates.ContextStorefront {
		t.Fatalf("soft gate still renders the storefront, got %q", rc.TemplateContext)
	}
}

func TestRunRedirectsSecondaryDomain(t *testing.T) {
	w := newWorld(t)
	shop := w.seedShop(t, "coffee-corner", "aurora")
	w.seedDomain(t, shop.ID, "coffee.example", true)
	w.seedDomain(t, shop.ID, "old-coffee.example", false)

	rc, err := w.pipeline.Run(context.Background(), Request{Host: "old-coffee.example"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rc.Kind != tenants.ResolutionRedirect {
		t.Fatalf("expected redirect, got %q", rc.Kind)
	}
	if rc.RedirectURL != "https://coffee.example" {
		t.Fatalf("unexpected redirect %q", rc.RedirectURL)
	}
	if rc.Subscription != nil {
		t.Fatal("redirects must not evaluate subscriptions")
	}
}

func TestRunBrokenThemeFallsBackToDefaultTier(t *testing.T) {
	w := newWorld(t)
	shop := w.seedShop(t, "coffee-corner", "vanished")
	w.seedDomain(t, shop.ID, "coffee.example", true)

	rc, err := w.pipeline.Run(context.Background(), Request{Host: "coffee.example"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(rc.SearchPaths[templates.NamespaceTheme]) != 0 {
		t.Fatalf("missing theme must not contribute a tier, got %v", rc.SearchPaths[templates.NamespaceTheme])
	}
	main := rc.SearchPaths[templates.NamespaceMain]
	if len(main) == 0 || !strings.HasSuffix(main[0], "default") {
		t.Fatalf("lookup should start at the default tier, got %v", main)
	}
}

func TestNavigationRequiresTenantContext(t *testing.T) {
	w := newWorld(t)
	shop := w.seedShop(t, "coffee-corner", "aurora")
	w.seedDomain(t, shop.ID, "coffee.example", true)
	if _, err := w.pages.Create(context.Background(), &pages.Page{
		ID:         uuid.New(),
		ShopID:     shop.ID,
		Slug:       "about",
		Title:      "About",
		Type:       pages.PageTypeStandard,
		Status:     pages.PageStatusPublished,
		ShowInMenu: true,
	}); err != nil {
		t.Fatalf("seed page: %v", err)
	}

	rc, err := w.pipeline.Run(context.Background(), Request{Host: "coffee.example"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	entries, err := w.pipeline.Navigation(context.Background(), rc, menus.LocationHeader)
	if err != nil {
		t.Fatalf("navigation: %v", err)
	}
	if len(entries) != 1 || entries[0].Label != "About" {
		t.Fatalf("expected derived navigation, got %+v", entries)
	}

	platform, err := w.pipeline.Run(context.Background(), Request{Host: "example.com"})
	if err != nil {
		t.Fatalf("run platform: %v", err)
	}
	if _, err := w.pipeline.Navigation(context.Background(), platform, menus.LocationHeader); err == nil {
		t.Fatal("navigation outside a tenant context should fail")
	}
}

func TestAdminContext(t *testing.T) {
	w := newWorld(t)

	rc, err := w.pipeline.AdminContext(context.Background())
	if err != nil {
		t.Fatalf("admin context: %v", err)
	}
	if rc.TemplateContext != templates.ContextAdministrative {
		t.Fatalf("expected administrative context, got %q", rc.TemplateContext)
	}
	main := rc.SearchPaths[templates.NamespaceMain]
	if len(main) == 0 || !strings.Contains(main[0], "admin") {
		t.Fatalf("admin templates should lead, got %v", main)
	}
}
