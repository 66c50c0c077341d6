package navigation

import (
	"fmt"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

// URLKitResolverOptions configures the go-urlkit backed page URL resolver.
type URLKitResolverOptions struct {
	Manager   *urlkit.RouteManager
	Group     string
	PageRoute string
	SlugParam string
}

// URLKitResolver builds storefront page URLs through a go-urlkit
// RouteManager, so navigation links honour the configured route layout.
type URLKitResolver struct {
	manager   *urlkit.RouteManager
	group     string
	pageRoute string
	slugParam string
}

// NewURLKitResolver constructs a resolver backed by go-urlkit.
func NewURLKitResolver(opts URLKitResolverOptions) *URLKitResolver {
	if opts.PageRoute == "" {
		opts.PageRoute = "page"
	}
	if opts.SlugParam == "" {
		opts.SlugParam = "slug"
	}
	return &URLKitResolver{
		manager:   opts.Manager,
		group:     strings.TrimSpace(opts.Group),
		pageRoute: opts.PageRoute,
		slugParam: opts.SlugParam,
	}
}

// PageURL satisfies PageURLResolver.
func (r *URLKitResolver) PageURL(slug string) (url string, err error) {
	if r == nil || r.manager == nil || r.group == "" {
		return "/" + slug, nil
	}

	// Group lookups panic on unknown names; surface that as an error.
	defer func() {
		if recovered := recover(); recovered != nil {
			url = ""
			err = fmt.Errorf("navigation: route group %q: %v", r.group, recovered)
		}
	}()

	group := r.manager.Group(r.group)
	if group == nil {
		return "/" + slug, nil
	}
	return group.Builder(r.pageRoute).
		WithParam(r.slugParam, slug).
		Build()
}
