package pages

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

// BunPageRepository implements PageRepository with optional caching.
type BunPageRepository struct {
	repo         repository.Repository[*Page]
	cacheService cache.CacheService
	cachePrefix  string
}

const pageNamespace = "page"

// NewBunPageRepository creates a page repository without caching.
func NewBunPageRepository(db *bun.DB) *BunPageRepository {
	return NewBunPageRepositoryWithCache(db, nil, nil)
}

// NewBunPageRepositoryWithCache creates a page repository with caching services.
func NewBunPageRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunPageRepository {
	base := NewPageRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = pageNamespace + cache.KeySeparator
	}
	return &BunPageRepository{repo: base, cacheService: svc, cachePrefix: prefix}
}

func (r *BunPageRepository) Create(ctx context.Context, page *Page) (*Page, error) {
	record, err := r.repo.Create(ctx, page)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunPageRepository) GetByID(ctx context.Context, id uuid.UUID) (*Page, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "page", id.String())
	}
	return record, nil
}

func (r *BunPageRepository) GetByShopAndSlug(ctx context.Context, shopID uuid.UUID, slug string) (*Page, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.shop_id = ?", shopID).
				Where("?TableAlias.slug = ?", slug)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "page", slug)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "page", Key: slug}
	}
	return records[0], nil
}

func (r *BunPageRepository) ListByShop(ctx context.Context, shopID uuid.UUID) ([]*Page, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.shop_id = ?", shopID).
				OrderExpr("?TableAlias.slug ASC")
		}),
	)
	return records, err
}

func (r *BunPageRepository) ListMenuCandidates(ctx context.Context, shopID uuid.UUID) ([]*Page, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.shop_id = ?", shopID).
				Where("?TableAlias.type = ?", PageTypeStandard).
				Where("?TableAlias.status = ?", PageStatusPublished).
				Where("?TableAlias.show_in_menu = ?", true).
				OrderExpr("?TableAlias.menu_order ASC").
				OrderExpr("?TableAlias.title ASC")
		}),
	)
	return records, err
}

func (r *BunPageRepository) Update(ctx context.Context, page *Page) (*Page, error) {
	record, err := r.repo.Update(ctx, page)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunPageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &Page{ID: id})
}

func (r *BunPageRepository) InvalidateCache(ctx context.Context) error {
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
