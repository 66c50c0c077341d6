package tenants

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-storefront/internal/logging"
	"github.com/goliatone/go-storefront/internal/shops"
	"github.com/goliatone/go-storefront/pkg/interfaces"
)

// ErrHostRequired is returned when Resolve is called with an empty host.
var ErrHostRequired = errors.New("tenants: host is required")

// ResolutionKind classifies what a host maps to.
type ResolutionKind string

const (
	// ResolutionTenant means the host belongs to an active shop.
	ResolutionTenant ResolutionKind = "tenant"
	// ResolutionPlatform means the host should render the platform landing
	// surface. Unknown and unverified hosts fall back here.
	ResolutionPlatform ResolutionKind = "platform"
	// ResolutionRedirect sends the visitor elsewhere: to a shop's
	// canonical domain, or to the platform base URL for hosts that serve
	// no tenant.
	ResolutionRedirect ResolutionKind = "redirect"
)

// Resolution is the outcome of mapping a request host.
type Resolution struct {
	Kind        ResolutionKind
	Shop        *shops.Shop
	Domain      *shops.Domain
	RedirectURL string
}

// Resolver maps request hosts to tenants or the platform surface.
type Resolver interface {
	Resolve(ctx context.Context, host string) (*Resolution, error)
}

// Config carries the platform hosts the resolver treats as its own.
type Config struct {
	// RootDomains are the apex hosts serving the platform landing page.
	RootDomains []string
	// LocalAliases extend the built-in localhost aliases for development.
	LocalAliases []string
	// BaseURL is where hosts that resolve to no tenant get redirected.
	// Empty disables the redirect and those hosts render the platform
	// landing surface instead.
	BaseURL string
}

// ResolverOption configures resolver behaviour.
type ResolverOption func(*resolver)

// WithLogger attaches a logger to the resolver.
func WithLogger(logger interfaces.Logger) ResolverOption {
	return func(r *resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRedirectScheme overrides the scheme used when building canonical
// redirect URLs. Defaults to https.
func WithRedirectScheme(scheme string) ResolverOption {
	return func(r *resolver) {
		if scheme != "" {
			r.scheme = scheme
		}
	}
}

type resolver struct {
	domains shops.DomainRepository
	shops   shops.ShopRepository

	platformHosts map[string]struct{}
	baseURL       string
	logger        interfaces.Logger
	scheme        string
}

// NewResolver constructs a host resolver backed by the domain store.
func NewResolver(domainRepo shops.DomainRepository, shopRepo shops.ShopRepository, cfg Config, opts ...ResolverOption) Resolver {
	hosts := map[string]struct{}{
		"localhost": {},
		"127.0.0.1": {},
	}
	for _, host := range cfg.RootDomains {
		if normalized := shops.NormalizeHost(host); normalized != "" {
			hosts[normalized] = struct{}{}
		}
	}
	for _, host := range cfg.LocalAliases {
		if normalized := shops.NormalizeHost(host); normalized != "" {
			hosts[normalized] = struct{}{}
		}
	}

	r := &resolver{
		domains:       domainRepo,
		shops:         shopRepo,
		platformHosts: hosts,
		baseURL:       cfg.BaseURL,
		logger:        logging.NoOp(),
		scheme:        "https",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve maps a host to a tenant, a canonical redirect, or the platform
// landing surface. Ports are ignored; store failures propagate so callers can
// distinguish outages from unknown hosts.
func (r *resolver) Resolve(ctx context.Context, host string) (*Resolution, error) {
	normalized := shops.NormalizeHost(host)
	if normalized == "" {
		return nil, ErrHostRequired
	}

	if _, ok := r.platformHosts[normalized]; ok {
		return &Resolution{Kind: ResolutionPlatform}, nil
	}

	domain, err := r.domains.GetByHost(ctx, normalized)
	if err != nil {
		if isNotFound(err) {
			r.logger.Debug("host not registered", "host", normalized)
			return r.noTenant(), nil
		}
		return nil, fmt.Errorf("tenants: resolve host %q: %w", normalized, err)
	}

	if domain.Status != shops.DomainStatusActive {
		r.logger.Debug("host registered but unverified", "host", normalized)
		return r.noTenant(), nil
	}

	shop := domain.Shop
	if shop == nil {
		shop, err = r.shops.GetByID(ctx, domain.ShopID)
		if err != nil {
			if isNotFound(err) {
				r.logger.Warn("domain points at missing shop",
					"host", normalized,
					"shop_id", domain.ShopID.String(),
				)
				return r.noTenant(), nil
			}
			return nil, fmt.Errorf("tenants: load shop for host %q: %w", normalized, err)
		}
	}

	if shop.Status != shops.ShopStatusActive {
		r.logger.Debug("shop inactive", "host", normalized, "shop_id", shop.ID.String())
		return r.noTenant(), nil
	}

	canonical, err := r.canonicalDomain(ctx, shop, domain)
	if err != nil {
		return nil, err
	}
	if canonical != nil && canonical.Host != domain.Host {
		return &Resolution{
			Kind:        ResolutionRedirect,
			Shop:        shop,
			Domain:      domain,
			RedirectURL: r.scheme + "://" + canonical.Host,
		}, nil
	}

	return &Resolution{Kind: ResolutionTenant, Shop: shop, Domain: domain}, nil
}

// noTenant is the outcome for a host that serves no tenant: a redirect to
// the platform base URL when one is configured, the landing surface
// otherwise.
func (r *resolver) noTenant() *Resolution {
	if r.baseURL != "" {
		return &Resolution{Kind: ResolutionRedirect, RedirectURL: r.baseURL}
	}
	return &Resolution{Kind: ResolutionPlatform}
}

// canonicalDomain picks the shop's primary among its active domains. The
// resolved domain itself is canonical when nothing outranks it.
func (r *resolver) canonicalDomain(ctx context.Context, shop *shops.Shop, resolved *shops.Domain) (*shops.Domain, error) {
	records, err := r.domains.ListByShop(ctx, shop.ID)
	if err != nil {
		return nil, fmt.Errorf("tenants: list domains for shop %q: %w", shop.Slug, err)
	}
	active := records[:0]
	for _, record := range records {
		if record.Status == shops.DomainStatusActive {
			active = append(active, record)
		}
	}
	if len(active) == 0 {
		return resolved, nil
	}
	return shops.PrimaryDomain(active), nil
}

func isNotFound(err error) bool {
	var notFound *shops.NotFoundError
	return errors.As(err, &notFound)
}
