package storefront_test

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	storefront "github.com/goliatone/go-storefront"
	"github.com/goliatone/go-storefront/internal/di"
	"github.com/goliatone/go-storefront/internal/menus"
	"github.com/goliatone/go-storefront/internal/pages"
	"github.com/goliatone/go-storefront/internal/shops"
	"github.com/goliatone/go-storefront/internal/subscriptions"
)

func newModule(t *testing.T) *storefront.Module {
	t.Helper()

	cfg := storefront.DefaultConfig()
	cfg.Platform.RootDomains = []string{"platform.example"}

	module, err := storefront.New(cfg, di.WithThemeFS(fstest.MapFS{
		"themes/aurora/layout.html": {Data: []byte("layout")},
		"default/layout.html":       {Data: []byte("layout")},
	}))
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	return module
}

func provisionShop(t *testing.T, module *storefront.Module, name string) *shops.Shop {
	t.Helper()
	shop, err := module.Shops().ProvisionShop(context.Background(), shops.ProvisionShopInput{
		Name:  name,
		Theme: "aurora",
	})
	if err != nil {
		t.Fatalf("provision shop: %v", err)
	}
	return shop
}

func TestModuleProvisionAndResolve(t *testing.T) {
	module := newModule(t)
	shop := provisionShop(t, module, "Coffee Corner")

	if shop.Slug != "coffee-corner" {
		t.Fatalf("expected derived slug, got %q", shop.Slug)
	}

	rc, err := module.Pipeline().Run(context.Background(), storefront.Request{
		Host: "coffee-corner.platform.example",
	})
	if err != nil {
		t.Fatalf("run pipeline: %v", err)
	}
	if rc.Kind != storefront.ResolutionTenant {
		t.Fatalf("expected tenant resolution, got %q", rc.Kind)
	}
	if rc.TemplateContext != storefront.ContextStorefront {
		t.Fatalf("expected storefront context, got %q", rc.TemplateContext)
	}
	if rc.Subscription == nil || rc.Subscription.State != subscriptions.StateExpired {
		t.Fatalf("fresh shop without subscription should evaluate expired, got %+v", rc.Subscription)
	}
}

func TestModulePlatformLanding(t *testing.T) {
	module := newModule(t)

	rc, err := module.Pipeline().Run(context.Background(), storefront.Request{Host: "platform.example"})
	if err != nil {
		t.Fatalf("run pipeline: %v", err)
	}
	if rc.Kind != storefront.ResolutionPlatform {
		t.Fatalf("expected platform resolution, got %q", rc.Kind)
	}
	if rc.TemplateContext != storefront.ContextPlatformLanding {
		t.Fatalf("expected landing context, got %q", rc.TemplateContext)
	}
}

func TestModuleUnknownHostRedirectsToPlatform(t *testing.T) {
	cfg := storefront.DefaultConfig()
	cfg.Platform.RootDomains = []string{"platform.example"}
	cfg.Platform.BaseURL = "https://platform.example"

	module, err := storefront.New(cfg, di.WithThemeFS(fstest.MapFS{
		"default/layout.html": {Data: []byte("layout")},
	}))
	if err != nil {
		t.Fatalf("new module: %v", err)
	}

	rc, err := module.Pipeline().Run(context.Background(), storefront.Request{Host: "stranger.example.net"})
	if err != nil {
		t.Fatalf("run pipeline: %v", err)
	}
	if rc.Kind != storefront.ResolutionRedirect {
		t.Fatalf("expected redirect for unknown host, got %q", rc.Kind)
	}
	if rc.RedirectURL != "https://platform.example" {
		t.Fatalf("unexpected redirect target %q", rc.RedirectURL)
	}
}

func TestModuleTrialEntitlesShop(t *testing.T) {
	module := newModule(t)
	shop := provisionShop(t, module, "Coffee Corner")

	ctx := context.Background()
	if _, err := module.Subscriptions().AssignTrial(ctx, shop.ID, 14); err != nil {
		t.Fatalf("assign trial: %v", err)
	}

	rc, err := module.Pipeline().Run(ctx, storefront.Request{Host: "coffee-corner.platform.example"})
	if err != nil {
		t.Fatalf("run pipeline: %v", err)
	}
	if rc.Subscription == nil || rc.Subscription.State != subscriptions.StateTrial {
		t.Fatalf("expected trial state, got %+v", rc.Subscription)
	}
	if !rc.Entitled() {
		t.Fatal("trial shop should be entitled")
	}
}

func TestModuleCustomDomainRedirect(t *testing.T) {
	module := newModule(t)
	shop := provisionShop(t, module, "Coffee Corner")

	ctx := context.Background()
	domain, err := module.Shops().AddDomain(ctx, shops.AddDomainInput{
		ShopID: shop.ID,
		Host:   "coffee.example",
	})
	if err != nil {
		t.Fatalf("add domain: %v", err)
	}
	if _, err := module.Shops().VerifyDomain(ctx, domain.ID); err != nil {
		t.Fatalf("verify domain: %v", err)
	}

	// The verified custom domain becomes primary; the temp subdomain now
	// redirects to it.
	rc, err := module.Pipeline().Run(ctx, storefront.Request{Host: "coffee-corner.platform.example"})
	if err != nil {
		t.Fatalf("run pipeline: %v", err)
	}
	if rc.Kind != storefront.ResolutionRedirect {
		t.Fatalf("expected redirect, got %q", rc.Kind)
	}
	if rc.RedirectURL != "https://coffee.example" {
		t.Fatalf("unexpected redirect target %q", rc.RedirectURL)
	}

	rc, err = module.Pipeline().Run(ctx, storefront.Request{Host: "coffee.example"})
	if err != nil {
		t.Fatalf("run pipeline on custom domain: %v", err)
	}
	if rc.Kind != storefront.ResolutionTenant {
		t.Fatalf("expected tenant on custom domain, got %q", rc.Kind)
	}
}

func TestModulePagesAndNavigation(t *testing.T) {
	module := newModule(t)
	shop := provisionShop(t, module, "Coffee Corner")
	ctx := context.Background()

	about, err := module.Pages().CreatePage(ctx, pages.CreatePageInput{
		ShopID:     shop.ID,
		Title:      "About Us",
		Body:       "We roast **good** beans.",
		ShowInMenu: true,
	})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	if !strings.Contains(about.BodyHTML, "<strong>good</strong>") {
		t.Fatalf("expected rendered markdown, got %q", about.BodyHTML)
	}
	if _, err := module.Pages().PublishPage(ctx, about.ID); err != nil {
		t.Fatalf("publish page: %v", err)
	}

	rc, err := module.Pipeline().Run(ctx, storefront.Request{Host: "coffee-corner.platform.example"})
	if err != nil {
		t.Fatalf("run pipeline: %v", err)
	}

	// No explicit menu yet: navigation derives from published pages.
	entries, err := module.Pipeline().Navigation(ctx, rc, menus.LocationHeader)
	if err != nil {
		t.Fatalf("navigation: %v", err)
	}
	if len(entries) != 1 || entries[0].Label != "About Us" || entries[0].URL != "/about-us" {
		t.Fatalf("expected derived navigation, got %+v", entries)
	}

	// An explicit menu replaces the derived entries entirely.
	menu, err := module.Menus().CreateMenu(ctx, shop.ID, menus.LocationHeader)
	if err != nil {
		t.Fatalf("create menu: %v", err)
	}
	if _, err := module.Menus().AddURLItem(ctx, menus.AddURLItemInput{
		MenuID: menu.ID,
		Label:  "Blog",
		URL:    "https://blog.example",
	}); err != nil {
		t.Fatalf("add url item: %v", err)
	}

	entries, err = module.Pipeline().Navigation(ctx, rc, menus.LocationHeader)
	if err != nil {
		t.Fatalf("navigation with explicit menu: %v", err)
	}
	if len(entries) != 1 || entries[0].Label != "Blog" {
		t.Fatalf("expected explicit menu to win, got %+v", entries)
	}
}

func TestModuleMarkdownImport(t *testing.T) {
	module := newModule(t)
	shop := provisionShop(t, module, "Coffee Corner")

	source := []byte(`---
title: Our Story
status: published
show_in_menu: true
menu_order: 2
---
It started with a *single* roaster.
`)

	page, err := module.Pages().ImportMarkdown(context.Background(), shop.ID, source)
	if err != nil {
		t.Fatalf("import markdown: %v", err)
	}
	if page.Slug != "our-story" {
		t.Fatalf("expected slug from title, got %q", page.Slug)
	}
	if page.Status != pages.PageStatusPublished {
		t.Fatalf("expected published import, got %q", page.Status)
	}
	if !strings.Contains(page.BodyHTML, "<em>single</em>") {
		t.Fatalf("expected rendered body, got %q", page.BodyHTML)
	}
}

func TestModuleBrokenThemeFallsBack(t *testing.T) {
	module := newModule(t)

	ctx := context.Background()
	shop, err := module.Shops().ProvisionShop(ctx, shops.ProvisionShopInput{
		Name:  "Vanished Theme",
		Theme: "vanished",
	})
	if err != nil {
		t.Fatalf("provision shop: %v", err)
	}

	rc, err := module.Pipeline().Run(ctx, storefront.Request{
		Host: shop.Slug + ".platform.example",
	})
	if err != nil {
		t.Fatalf("run pipeline: %v", err)
	}
	main := rc.SearchPaths[storefront.NamespaceMain]
	if len(main) == 0 || strings.Contains(main[0], "vanished") {
		t.Fatalf("missing theme must not appear in the lookup chain, got %v", main)
	}
}

func TestModuleAdminContext(t *testing.T) {
	module := newModule(t)

	rc, err := module.Pipeline().AdminContext(context.Background())
	if err != nil {
		t.Fatalf("admin context: %v", err)
	}
	if rc.TemplateContext != storefront.ContextAdministrative {
		t.Fatalf("expected administrative context, got %q", rc.TemplateContext)
	}
}
