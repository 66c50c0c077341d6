package templates

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	gotheme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-storefront/internal/logging"
	"github.com/goliatone/go-storefront/internal/shops"
	"github.com/goliatone/go-storefront/pkg/interfaces"
)

// Template contexts. Every request renders against exactly one of these
// surfaces.
const (
	ContextPlatformLanding = "platform-landing"
	ContextAdministrative  = "administrative"
	ContextStorefront      = "storefront"
)

// Namespaces group the directories a template loader should search. The
// main namespace carries the full lookup chain in priority order.
const (
	NamespaceMain    = "main"
	NamespaceTheme   = "theme"
	NamespaceDefault = "default"
	NamespaceCore    = "core"
)

// Core template directories under the templates root.
const (
	defaultDir     = "default"
	coreStorefront = "core/storefront"
	coreAdmin      = "core/admin"
	coreAuth       = "core/auth"
	coreLanding    = "core/landing"
	coreShared     = "core/shared"
)

// Subgroups every theme tier contributes alongside its root directory.
const (
	pagesSubdir    = "pages"
	partialsSubdir = "partials"
)

// ErrUnknownContext is returned for a context name outside the three
// rendering surfaces.
var ErrUnknownContext = errors.New("templates: unknown template context")

// Engine computes template search paths and theme metadata for a render.
type Engine interface {
	// SearchPaths returns namespace-keyed directory lists in priority
	// order for the given context. The shop is only consulted for the
	// storefront context and may be nil otherwise.
	SearchPaths(ctx context.Context, templateContext string, shop *shops.Shop) (map[string][]string, error)
	// ListValidThemes returns the usable themes, never an empty list. A
	// scan I/O failure is returned so callers can retry.
	ListValidThemes(ctx context.Context) ([]string, error)
	// IsValidTheme reports whether a theme can be rendered from.
	IsValidTheme(ctx context.Context, name string) (bool, error)
	// Selection resolves the manifest-backed theme selection for a shop.
	Selection(ctx context.Context, shop *shops.Shop) (*gotheme.Selection, error)
	// AssetPath builds the public path for a theme asset.
	AssetPath(shop *shops.Shop, asset string) string
}

// EngineOption configures engine behaviour.
type EngineOption func(*engine)

// WithLogger attaches a logger to the engine.
func WithLogger(logger interfaces.Logger) EngineOption {
	return func(e *engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithThemeSelector overrides the manifest selector, mainly for tests.
func WithThemeSelector(selector *ThemeSelector) EngineOption {
	return func(e *engine) {
		if selector != nil {
			e.selector = selector
		}
	}
}

type engine struct {
	basePath     string
	defaultTheme string
	catalog      Catalog
	selector     *ThemeSelector
	logger       interfaces.Logger
}

// NewEngine constructs a template resolution engine. The catalog decides
// theme validity; basePath anchors the returned directories.
func NewEngine(basePath, defaultTheme string, catalog Catalog, opts ...EngineOption) Engine {
	e := &engine{
		basePath:     basePath,
		defaultTheme: defaultTheme,
		catalog:      catalog,
		logger:       logging.NoOp(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.selector == nil {
		e.selector = NewThemeSelector(basePath, defaultTheme, "")
	}
	return e
}

func (e *engine) SearchPaths(_ context.Context, templateContext string, shop *shops.Shop) (map[string][]string, error) {
	switch templateContext {
	case ContextPlatformLanding:
		chain := e.abs(coreLanding, coreShared)
		return map[string][]string{
			NamespaceMain: chain,
			NamespaceCore: chain,
		}, nil

	case ContextAdministrative:
		chain := e.abs(coreAdmin, coreAuth, coreShared)
		return map[string][]string{
			NamespaceMain: chain,
			NamespaceCore: chain,
		}, nil

	case ContextStorefront:
		// A storefront render without a bound shop has nothing to theme;
		// it gets the landing chain.
		if shop == nil {
			chain := e.abs(coreLanding, coreShared)
			return map[string][]string{
				NamespaceMain: chain,
				NamespaceCore: chain,
			}, nil
		}

		theme, err := e.usableTheme(shop)
		if err != nil {
			return nil, err
		}
		themeDirs := []string{}
		if theme != "" {
			themeDirs = e.tier(path.Join(themesDir, theme))
		}
		defaultDirs := e.tier(defaultDir)
		coreDirs := e.abs(coreStorefront, coreShared)

		main := make([]string, 0, len(themeDirs)+len(defaultDirs)+len(coreDirs))
		main = append(main, themeDirs...)
		main = append(main, defaultDirs...)
		main = append(main, coreDirs...)

		return map[string][]string{
			NamespaceMain:    main,
			NamespaceTheme:   themeDirs,
			NamespaceDefault: defaultDirs,
			NamespaceCore:    coreDirs,
		}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownContext, templateContext)
}

func (e *engine) ListValidThemes(_ context.Context) ([]string, error) {
	names, err := e.catalog.List()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return []string{e.defaultTheme}, nil
	}
	return names, nil
}

func (e *engine) IsValidTheme(_ context.Context, name string) (bool, error) {
	return e.catalog.IsValid(name)
}

// Selection resolves the shop's theme manifest, honouring the branding
// variant. Shops on the fallback theme get the default selection.
func (e *engine) Selection(_ context.Context, shop *shops.Shop) (*gotheme.Selection, error) {
	theme := e.defaultTheme
	variant := ""
	if shop != nil {
		usable, err := e.usableTheme(shop)
		if err != nil {
			return nil, err
		}
		if usable != "" {
			theme = usable
		}
		variant = shop.Settings.Branding.ThemeVariant
	}
	return e.selector.Selection(theme, variant)
}

// AssetPath never fails; a scan failure serves the fallback theme's assets.
func (e *engine) AssetPath(shop *shops.Shop, asset string) string {
	theme := e.defaultTheme
	if usable, err := e.usableTheme(shop); err == nil && usable != "" {
		theme = usable
	}
	asset = strings.TrimPrefix(asset, "/")
	return path.Join("/assets/themes", theme, asset)
}

// usableTheme returns the shop theme when it should form its own lookup
// tier. A missing, invalid, or default-equal theme yields "" so the chain
// falls straight to the default tier.
func (e *engine) usableTheme(shop *shops.Shop) (string, error) {
	if shop == nil {
		return "", nil
	}
	theme := strings.TrimSpace(shop.Theme)
	if theme == "" || theme == e.defaultTheme {
		return "", nil
	}
	valid, err := e.catalog.IsValid(theme)
	if err != nil {
		return "", err
	}
	if !valid {
		e.logger.Debug("theme missing or broken, falling back",
			"shop_id", shop.ID.String(),
			"theme", theme,
		)
		return "", nil
	}
	return theme, nil
}

// tier expands a theme root into its lookup group: the root itself, then its
// pages and partials subgroups.
func (e *engine) tier(root string) []string {
	return e.abs(root, path.Join(root, pagesSubdir), path.Join(root, partialsSubdir))
}

func (e *engine) abs(dirs ...string) []string {
	out := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		out = append(out, filepath.Join(e.basePath, filepath.FromSlash(dir)))
	}
	return out
}
