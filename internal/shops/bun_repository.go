package shops

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunShopRepository implements ShopRepository with optional caching.
type BunShopRepository struct {
	repo         repository.Repository[*Shop]
	cacheService cache.CacheService
	cachePrefix  string
}

const shopNamespace = "shop"

// NewBunShopRepository creates a shop repository without caching.
func NewBunShopRepository(db *bun.DB) *BunShopRepository {
	return NewBunShopRepositoryWithCache(db, nil, nil)
}

// NewBunShopRepositoryWithCache creates a shop repository with caching services.
func NewBunShopRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunShopRepository {
	base := NewShopRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = cachePrefix(shopNamespace)
	}
	return &BunShopRepository{repo: base, cacheService: svc, cachePrefix: prefix}
}

func (r *BunShopRepository) Create(ctx context.Context, shop *Shop) (*Shop, error) {
	record, err := r.repo.Create(ctx, shop)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunShopRepository) GetByID(ctx context.Context, id uuid.UUID) (*Shop, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "shop", id.String())
	}
	return record, nil
}

func (r *BunShopRepository) GetBySlug(ctx context.Context, slug string) (*Shop, error) {
	record, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, "shop", slug)
	}
	return record, nil
}

func (r *BunShopRepository) List(ctx context.Context) ([]*Shop, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.slug ASC")
		}),
	)
	return records, err
}

func (r *BunShopRepository) Update(ctx context.Context, shop *Shop) (*Shop, error) {
	record, err := r.repo.Update(ctx, shop)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunShopRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &Shop{ID: id})
}

func (r *BunShopRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

// BunDomainRepository implements DomainRepository with optional caching.
type BunDomainRepository struct {
	repo         repository.Repository[*Domain]
	cacheService cache.CacheService
	cachePrefix  string
}

const domainNamespace = "domain"

// NewBunDomainRepository creates a domain repository without caching.
func NewBunDomainRepository(db *bun.DB) *BunDomainRepository {
	return NewBunDomainRepositoryWithCache(db, nil, nil)
}

// NewBunDomainRepositoryWithCache creates a domain repository with caching services.
func NewBunDomainRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunDomainRepository {
	base := NewDomainRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = cachePrefix(domainNamespace)
	}
	return &BunDomainRepository{repo: base, cacheService: svc, cachePrefix: prefix}
}

func (r *BunDomainRepository) Create(ctx context.Context, domain *Domain) (*Domain, error) {
	record, err := r.repo.Create(ctx, domain)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunDomainRepository) GetByID(ctx context.Context, id uuid.UUID) (*Domain, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "domain", id.String())
	}
	return record, nil
}

// GetByHost loads the domain together with its shop so host resolution is a
// single round trip.
func (r *BunDomainRepository) GetByHost(ctx context.Context, host string) (*Domain, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Relation("Shop").
				Where("?TableAlias.host = ?", host)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "domain", host)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "domain", Key: host}
	}
	return records[0], nil
}

func (r *BunDomainRepository) ListByShop(ctx context.Context, shopID uuid.UUID) ([]*Domain, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.shop_id = ?", shopID).
				OrderExpr("?TableAlias.host ASC")
		}),
	)
	return records, err
}

func (r *BunDomainRepository) Update(ctx context.Context, domain *Domain) (*Domain, error) {
	record, err := r.repo.Update(ctx, domain)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunDomainRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &Domain{ID: id})
}

func (r *BunDomainRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

// BunSubscriptionRepository implements SubscriptionRepository with optional caching.
type BunSubscriptionRepository struct {
	repo         repository.Repository[*Subscription]
	cacheService cache.CacheService
	cachePrefix  string
}

const subscriptionNamespace = "subscription"

// NewBunSubscriptionRepository creates a subscription repository without caching.
func NewBunSubscriptionRepository(db *bun.DB) *BunSubscriptionRepository {
	return NewBunSubscriptionRepositoryWithCache(db, nil, nil)
}

// NewBunSubscriptionRepositoryWithCache creates a subscription repository with caching services.
func NewBunSubscriptionRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunSubscriptionRepository {
	base := NewSubscriptionRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = cachePrefix(subscriptionNamespace)
	}
	return &BunSubscriptionRepository{repo: base, cacheService: svc, cachePrefix: prefix}
}

func (r *BunSubscriptionRepository) Create(ctx context.Context, sub *Subscription) (*Subscription, error) {
	record, err := r.repo.Create(ctx, sub)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunSubscriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*Subscription, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "subscription", id.String())
	}
	return record, nil
}

func (r *BunSubscriptionRepository) GetCurrentByShop(ctx context.Context, shopID uuid.UUID) (*Subscription, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.shop_id = ?", shopID).
				OrderExpr("?TableAlias.created_at DESC").
				OrderExpr("?TableAlias.starts_at DESC")
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "subscription", shopID.String())
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "subscription", Key: shopID.String()}
	}
	return records[0], nil
}

func (r *BunSubscriptionRepository) ListByShop(ctx context.Context, shopID uuid.UUID) ([]*Subscription, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.shop_id = ?", shopID).
				OrderExpr("?TableAlias.created_at DESC").
				OrderExpr("?TableAlias.starts_at DESC")
		}),
	)
	return records, err
}

func (r *BunSubscriptionRepository) Update(ctx context.Context, sub *Subscription) (*Subscription, error) {
	record, err := r.repo.Update(ctx, sub)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunSubscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &Subscription{ID: id})
}

func (r *BunSubscriptionRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func cachePrefix(namespace string) string {
	if namespace == "" {
		return ""
	}
	return namespace + cache.KeySeparator
}
