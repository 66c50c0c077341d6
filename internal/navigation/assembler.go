package navigation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-storefront/internal/logging"
	"github.com/goliatone/go-storefront/internal/menus"
	"github.com/goliatone/go-storefront/internal/pages"
	"github.com/goliatone/go-storefront/pkg/interfaces"
)

// Entry kinds mirror the menu item kinds.
const (
	EntryKindPage = "page"
	EntryKindURL  = "url"
)

// Entry is a single rendered navigation link.
type Entry struct {
	Label string `json:"label"`
	URL   string `json:"url"`
	Kind  string `json:"kind"`
}

// Assembler builds the navigation entries for a shop location. An explicit
// menu with at least one usable entry wins; otherwise navigation is derived
// from published standard pages flagged for menus. The two sources never mix.
type Assembler interface {
	Assemble(ctx context.Context, shopID uuid.UUID, location string) ([]Entry, error)
}

// PageURLResolver turns a page slug into a storefront URL.
type PageURLResolver interface {
	PageURL(slug string) (string, error)
}

// PageURLResolverFunc adapts a function to the PageURLResolver interface.
type PageURLResolverFunc func(slug string) (string, error)

func (f PageURLResolverFunc) PageURL(slug string) (string, error) {
	return f(slug)
}

type pathResolver struct{}

func (pathResolver) PageURL(slug string) (string, error) {
	return "/" + slug, nil
}

// AssemblerOption configures assembler behaviour.
type AssemblerOption func(*assembler)

// WithLogger attaches a logger to the assembler.
func WithLogger(logger interfaces.Logger) AssemblerOption {
	return func(a *assembler) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithPageURLResolver overrides how page slugs become URLs.
func WithPageURLResolver(resolver PageURLResolver) AssemblerOption {
	return func(a *assembler) {
		if resolver != nil {
			a.urls = resolver
		}
	}
}

type assembler struct {
	menus     menus.MenuRepository
	menuItems menus.MenuItemRepository
	pages     pages.PageRepository
	urls      PageURLResolver
	logger    interfaces.Logger
}

// NewAssembler constructs a navigation assembler.
func NewAssembler(menuRepo menus.MenuRepository, itemRepo menus.MenuItemRepository, pageRepo pages.PageRepository, opts ...AssemblerOption) Assembler {
	a := &assembler{
		menus:     menuRepo,
		menuItems: itemRepo,
		pages:     pageRepo,
		urls:      pathResolver{},
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *assembler) Assemble(ctx context.Context, shopID uuid.UUID, location string) ([]Entry, error) {
	explicit, err := a.explicitEntries(ctx, shopID, location)
	if err != nil {
		return nil, err
	}
	if len(explicit) > 0 {
		return explicit, nil
	}
	return a.derivedEntries(ctx, shopID)
}

// explicitEntries renders the configured menu, silently dropping entries
// that reference pages outside the shop, unpublished, or non-standard. A
// missing menu yields no entries.
func (a *assembler) explicitEntries(ctx context.Context, shopID uuid.UUID, location string) ([]Entry, error) {
	menu, err := a.menus.GetByShopAndLocation(ctx, shopID, location)
	if err != nil {
		if isMenuNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("navigation: load menu %s/%s: %w", shopID, location, err)
	}

	items, err := a.menuItems.ListByMenu(ctx, menu.ID)
	if err != nil {
		return nil, fmt.Errorf("navigation: load menu items %s: %w", menu.ID, err)
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		switch item.Kind {
		case menus.MenuItemKindURL:
			if item.URL == "" {
				continue
			}
			entries = append(entries, Entry{Label: item.Label, URL: item.URL, Kind: EntryKindURL})

		case menus.MenuItemKindPage:
			entry, ok, err := a.pageEntry(ctx, shopID, item)
			if err != nil {
				return nil, err
			}
			if ok {
				entries = append(entries, entry)
			}
		}
	}
	return entries, nil
}

func (a *assembler) pageEntry(ctx context.Context, shopID uuid.UUID, item *menus.MenuItem) (Entry, bool, error) {
	if item.PageID == nil {
		return Entry{}, false, nil
	}
	page, err := a.pages.GetByID(ctx, *item.PageID)
	if err != nil {
		if isPageNotFound(err) {
			a.logger.Debug("menu item references missing page",
				"item_id", item.ID.String(),
				"page_id", item.PageID.String(),
			)
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("navigation: load page %s: %w", item.PageID, err)
	}
	if page.ShopID != shopID || page.Type != pages.PageTypeStandard || page.Status != pages.PageStatusPublished {
		a.logger.Debug("menu item references unusable page",
			"item_id", item.ID.String(),
			"page_id", page.ID.String(),
			"status", page.Status,
		)
		return Entry{}, false, nil
	}

	label := item.Label
	if label == "" {
		label = page.Title
	}
	url, err := a.urls.PageURL(page.Slug)
	if err != nil {
		return Entry{}, false, fmt.Errorf("navigation: build url for page %q: %w", page.Slug, err)
	}
	return Entry{Label: label, URL: url, Kind: EntryKindPage}, true, nil
}

// derivedEntries builds navigation from published standard pages flagged
// for menus, ordered by menu_order then title.
func (a *assembler) derivedEntries(ctx context.Context, shopID uuid.UUID) ([]Entry, error) {
	candidates, err := a.pages.ListMenuCandidates(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("navigation: list menu candidates for shop %s: %w", shopID, err)
	}
	entries := make([]Entry, 0, len(candidates))
	for _, page := range candidates {
		url, err := a.urls.PageURL(page.Slug)
		if err != nil {
			return nil, fmt.Errorf("navigation: build url for page %q: %w", page.Slug, err)
		}
		entries = append(entries, Entry{Label: page.Title, URL: url, Kind: EntryKindPage})
	}
	return entries, nil
}

func isMenuNotFound(err error) bool {
	var notFound *menus.NotFoundError
	return errors.As(err, &notFound)
}

func isPageNotFound(err error) bool {
	var notFound *pages.NotFoundError
	return errors.As(err, &notFound)
}
