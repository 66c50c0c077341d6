package pipeline

import (
	"context"
	"fmt"

	gotheme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-storefront/internal/logging"
	"github.com/goliatone/go-storefront/internal/navigation"
	"github.com/goliatone/go-storefront/internal/shops"
	"github.com/goliatone/go-storefront/internal/subscriptions"
	"github.com/goliatone/go-storefront/internal/templates"
	"github.com/goliatone/go-storefront/internal/tenants"
	"github.com/goliatone/go-storefront/pkg/interfaces"
)

// Request is the inbound request surface the pipeline cares about.
type Request struct {
	Host string
}

// RequestContext is everything a render layer needs for one request. The
// pipeline always runs the same stages in the same order: tenant
// resolution, subscription evaluation, template resolution.
type RequestContext struct {
	Host string
	Kind tenants.ResolutionKind

	Shop   *shops.Shop
	Domain *shops.Domain

	// RedirectURL is set only for ResolutionRedirect outcomes.
	RedirectURL string

	// Subscription is set for tenant outcomes. It is informational: an
	// expired shop still renders, the render layer decides how to degrade.
	Subscription *subscriptions.Evaluation

	TemplateContext string
	SearchPaths     map[string][]string
	ThemeSelection  *gotheme.Selection
}

// Entitled reports whether the resolved tenant currently holds a usable
// subscription. Platform and redirect outcomes are never entitled.
func (rc *RequestContext) Entitled() bool {
	return rc != nil && rc.Subscription != nil && rc.Subscription.State.Entitled()
}

// Pipeline orchestrates the per-request resolution stages.
type Pipeline interface {
	// Run resolves a request host into a fully populated RequestContext.
	Run(ctx context.Context, req Request) (*RequestContext, error)
	// Navigation assembles the menu entries for a tenant context.
	Navigation(ctx context.Context, rc *RequestContext, location string) ([]navigation.Entry, error)
	// AdminContext produces the rendering context for the administrative
	// surface, which is host independent.
	AdminContext(ctx context.Context) (*RequestContext, error)
}

// Option configures pipeline behaviour.
type Option func(*pipeline)

// WithLogger attaches a logger to the pipeline.
func WithLogger(logger interfaces.Logger) Option {
	return func(p *pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

type pipeline struct {
	tenants    tenants.Resolver
	subs       subscriptions.Service
	templates  templates.Engine
	navigation navigation.Assembler
	logger     interfaces.Logger
}

// New constructs the request pipeline from its stages.
func New(
	tenantResolver tenants.Resolver,
	subscriptionService subscriptions.Service,
	templateEngine templates.Engine,
	navigationAssembler navigation.Assembler,
	opts ...Option,
) Pipeline {
	p := &pipeline{
		tenants:    tenantResolver,
		subs:       subscriptionService,
		templates:  templateEngine,
		navigation: navigationAssembler,
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) Run(ctx context.Context, req Request) (*RequestContext, error) {
	resolution, err := p.tenants.Resolve(ctx, req.Host)
	if err != nil {
		return nil, err
	}

	rc := &RequestContext{
		Host:   req.Host,
		Kind:   resolution.Kind,
		Shop:   resolution.Shop,
		Domain: resolution.Domain,
	}

	switch resolution.Kind {
	case tenants.ResolutionRedirect:
		rc.RedirectURL = resolution.RedirectURL
		return rc, nil

	case tenants.ResolutionPlatform:
		rc.TemplateContext = templates.ContextPlatformLanding
		paths, err := p.templates.SearchPaths(ctx, rc.TemplateContext, nil)
		if err != nil {
			return nil, err
		}
		rc.SearchPaths = paths
		return rc, nil

	case tenants.ResolutionTenant:
		evaluation, err := p.subs.Evaluate(ctx, resolution.Shop.ID)
		if err != nil {
			return nil, err
		}
		rc.Subscription = evaluation

		rc.TemplateContext = templates.ContextStorefront
		paths, err := p.templates.SearchPaths(ctx, rc.TemplateContext, resolution.Shop)
		if err != nil {
			return nil, err
		}
		rc.SearchPaths = paths

		// Theme manifests are presentation metadata; a broken manifest
		// must not take the storefront down.
		selection, err := p.templates.Selection(ctx, resolution.Shop)
		if err != nil {
			p.logger.Warn("theme selection failed",
				"shop_id", resolution.Shop.ID.String(),
				"theme", resolution.Shop.Theme,
				"error", err.Error(),
			)
		} else {
			rc.ThemeSelection = selection
		}

		p.logger.Debug("request resolved",
			"host", req.Host,
			"shop", resolution.Shop.Slug,
			"subscription_state", string(evaluation.State),
		)
		return rc, nil
	}

	return nil, fmt.Errorf("pipeline: unexpected resolution kind %q", resolution.Kind)
}

func (p *pipeline) Navigation(ctx context.Context, rc *RequestContext, location string) ([]navigation.Entry, error) {
	if rc == nil || rc.Kind != tenants.ResolutionTenant || rc.Shop == nil {
		return nil, fmt.Errorf("pipeline: navigation requires a tenant context")
	}
	return p.navigation.Assemble(ctx, rc.Shop.ID, location)
}

func (p *pipeline) AdminContext(ctx context.Context) (*RequestContext, error) {
	paths, err := p.templates.SearchPaths(ctx, templates.ContextAdministrative, nil)
	if err != nil {
		return nil, err
	}
	return &RequestContext{
		Kind:            tenants.ResolutionPlatform,
		TemplateContext: templates.ContextAdministrative,
		SearchPaths:     paths,
	}, nil
}
