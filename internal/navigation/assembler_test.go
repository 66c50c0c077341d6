package navigation

import (
	"context"
	"testing"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
	"github.com/google/uuid"

	"github.com/goliatone/go-storefront/internal/menus"
	"github.com/goliatone/go-storefront/internal/pages"
)

type fixture struct {
	menus     menus.MenuRepository
	menuItems menus.MenuItemRepository
	pages     pages.PageRepository
	shopID    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		menus:     menus.NewMemoryMenuRepository(),
		menuItems: menus.NewMemoryMenuItemRepository(),
		pages:     pages.NewMemoryPageRepository(),
		shopID:    uuid.New(),
	}
}

func (f *fixture) assembler(t *testing.T, opts ...AssemblerOption) Assembler {
	t.Helper()
	return NewAssembler(f.menus, f.menuItems, f.pages, opts...)
}

func (f *fixture) addPage(t *testing.T, title string, order int, show bool, status, pageType string) *pages.Page {
	t.Helper()
	return f.addPageForShop(t, f.shopID, title, order, show, status, pageType)
}

func (f *fixture) addPageForShop(t *testing.T, shopID uuid.UUID, title string, order int, show bool, status, pageType string) *pages.Page {
	t.Helper()
	page, err := f.pages.Create(context.Background(), &pages.Page{
		ID:         uuid.New(),
		ShopID:     shopID,
		Slug:       slugify(title),
		Title:      title,
		Type:       pageType,
		Status:     status,
		ShowInMenu: show,
		MenuOrder:  order,
	})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	return page
}

func (f *fixture) addMenu(t *testing.T, location string) *menus.Menu {
	t.Helper()
	menu, err := f.menus.Create(context.Background(), &menus.Menu{
		ID:       uuid.New(),
		ShopID:   f.shopID,
		Location: location,
	})
	if err != nil {
		t.Fatalf("create menu: %v", err)
	}
	return menu
}

func (f *fixture) addItem(t *testing.T, menuID uuid.UUID, item *menus.MenuItem) {
	t.Helper()
	item.ID = uuid.New()
	item.MenuID = menuID
	if _, err := f.menuItems.Create(context.Background(), item); err != nil {
		t.Fatalf("create item: %v", err)
	}
}

func slugify(title string) string {
	out := make([]rune, 0, len(title))
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ':
			out = append(out, '-')
		}
	}
	return string(out)
}

func TestAssembleExplicitMenuWins(t *testing.T) {
	f := newFixture(t)
	page := f.addPage(t, "About Us", 0, true, pages.PageStatusPublished, pages.PageTypeStandard)
	f.addPage(t, "Derived Only", 0, true, pages.PageStatusPublished, pages.PageTypeStandard)

	menu := f.addMenu(t, menus.LocationHeader)
	f.addItem(t, menu.ID, &menus.MenuItem{
		Kind:      menus.MenuItemKindPage,
		PageID:    &page.ID,
		MenuOrder: 1,
	})
	f.addItem(t, menu.ID, &menus.MenuItem{
		Kind:      menus.MenuItemKindURL,
		Label:     "Blog",
		URL:       "https://blog.example",
		MenuOrder: 0,
	})

	entries, err := f.assembler(t).Assemble(context.Background(), f.shopID, menus.LocationHeader)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("explicit menu must not mix with derived pages, got %+v", entries)
	}
	if entries[0].Label != "Blog" || entries[0].Kind != EntryKindURL {
		t.Fatalf("unexpected first entry %+v", entries[0])
	}
	if entries[1].Label != "About Us" || entries[1].URL != "/about-us" || entries[1].Kind != EntryKindPage {
		t.Fatalf("page entry should use page title and slug, got %+v", entries[1])
	}
}

func TestAssembleKeepsURLItemWithoutLabel(t *testing.T) {
	f := newFixture(t)

	menu := f.addMenu(t, menus.LocationHeader)
	f.addItem(t, menu.ID, &menus.MenuItem{
		Kind: menus.MenuItemKindURL,
		URL:  "https://status.example",
	})
	f.addItem(t, menu.ID, &menus.MenuItem{
		Kind:      menus.MenuItemKindURL,
		Label:     "No Link",
		MenuOrder: 1,
	})

	entries, err := f.assembler(t).Assemble(context.Background(), f.shopID, menus.LocationHeader)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	// Only the URL is required; a missing label is the renderer's problem,
	// while an item with no URL is unusable.
	if len(entries) != 1 || entries[0].URL != "https://status.example" || entries[0].Label != "" {
		t.Fatalf("expected the unlabeled URL item to survive, got %+v", entries)
	}
}

func TestAssembleDropsUnusablePageRefs(t *testing.T) {
	f := newFixture(t)
	otherShop := uuid.New()

	published := f.addPage(t, "Visible", 0, true, pages.PageStatusPublished, pages.PageTypeStandard)
	draft := f.addPage(t, "Draft", 0, true, pages.PageStatusDraft, pages.PageTypeStandard)
	system := f.addPage(t, "Checkout", 0, true, pages.PageStatusPublished, pages.PageTypeSystem)
	foreign := f.addPageForShop(t, otherShop, "Foreign", 0, true, pages.PageStatusPublished, pages.PageTypeStandard)
	missing := uuid.New()

	menu := f.addMenu(t, menus.LocationHeader)
	order := 0
	for _, pageID := range []uuid.UUID{published.ID, draft.ID, system.ID, foreign.ID, missing} {
		id := pageID
		f.addItem(t, menu.ID, &menus.MenuItem{
			Kind:      menus.MenuItemKindPage,
			PageID:    &id,
			MenuOrder: order,
		})
		order++
	}

	entries, err := f.assembler(t).Assemble(context.Background(), f.shopID, menus.LocationHeader)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if len(entries) != 1 || entries[0].Label != "Visible" {
		t.Fatalf("only the published standard page should survive, got %+v", entries)
	}
}

func TestAssembleFallsBackToDerivedWhenMenuUnusable(t *testing.T) {
	f := newFixture(t)
	draft := f.addPage(t, "Draft", 0, true, pages.PageStatusDraft, pages.PageTypeStandard)
	f.addPage(t, "Apple", 1, true, pages.PageStatusPublished, pages.PageTypeStandard)
	f.addPage(t, "Zebra", 0, true, pages.PageStatusPublished, pages.PageTypeStandard)
	f.addPage(t, "Hidden", 0, false, pages.PageStatusPublished, pages.PageTypeStandard)

	// The explicit menu exists but every entry is unusable.
	menu := f.addMenu(t, menus.LocationHeader)
	f.addItem(t, menu.ID, &menus.MenuItem{
		Kind:   menus.MenuItemKindPage,
		PageID: &draft.ID,
	})

	entries, err := f.assembler(t).Assemble(context.Background(), f.shopID, menus.LocationHeader)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	want := []string{"Zebra", "Apple"}
	if len(entries) != len(want) {
		t.Fatalf("expected derived entries %v, got %+v", want, entries)
	}
	for i, label := range want {
		if entries[i].Label != label {
			t.Fatalf("expected derived order %v, got %+v", want, entries)
		}
	}
}

func TestAssembleNoMenuNoPages(t *testing.T) {
	f := newFixture(t)
	entries, err := f.assembler(t).Assemble(context.Background(), f.shopID, menus.LocationFooterPrimary)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty navigation, got %+v", entries)
	}
}

func TestAssembleWithURLKitResolver(t *testing.T) {
	f := newFixture(t)
	f.addPage(t, "About Us", 0, true, pages.PageStatusPublished, pages.PageTypeStandard)

	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "storefront",
				BaseURL: "https://shop.example",
				Paths: map[string]string{
					"page": "/pages/:slug",
				},
			},
		},
	})
	resolver := NewURLKitResolver(URLKitResolverOptions{
		Manager: manager,
		Group:   "storefront",
	})

	entries, err := f.assembler(t, WithPageURLResolver(resolver)).
		Assemble(context.Background(), f.shopID, menus.LocationHeader)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one derived entry, got %+v", entries)
	}
	if entries[0].URL != "https://shop.example/pages/about-us" {
		t.Fatalf("unexpected url %q", entries[0].URL)
	}
}

func TestAssembleDerivedStableOrder(t *testing.T) {
	f := newFixture(t)
	f.addPage(t, "Banana", 1, true, pages.PageStatusPublished, pages.PageTypeStandard)
	time.Sleep(time.Millisecond)
	f.addPage(t, "Apple", 1, true, pages.PageStatusPublished, pages.PageTypeStandard)

	entries, err := f.assembler(t).Assemble(context.Background(), f.shopID, menus.LocationHeader)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if len(entries) != 2 || entries[0].Label != "Apple" || entries[1].Label != "Banana" {
		t.Fatalf("equal menu_order should fall back to title order, got %+v", entries)
	}
}
