package menus

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

// BunMenuRepository implements MenuRepository with optional caching.
type BunMenuRepository struct {
	repo         repository.Repository[*Menu]
	cacheService cache.CacheService
	cachePrefix  string
}

const menuNamespace = "menu"

// NewBunMenuRepository creates a menu repository without caching.
func NewBunMenuRepository(db *bun.DB) *BunMenuRepository {
	return NewBunMenuRepositoryWithCache(db, nil, nil)
}

// NewBunMenuRepositoryWithCache creates a menu repository with caching services.
func NewBunMenuRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunMenuRepository {
	base := NewMenuRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = cachePrefix(menuNamespace)
	}
	return &BunMenuRepository{repo: base, cacheService: svc, cachePrefix: prefix}
}

func (r *BunMenuRepository) Create(ctx context.Context, menu *Menu) (*Menu, error) {
	record, err := r.repo.Create(ctx, menu)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunMenuRepository) GetByID(ctx context.Context, id uuid.UUID) (*Menu, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "menu", id.String())
	}
	return record, nil
}

func (r *BunMenuRepository) GetByShopAndLocation(ctx context.Context, shopID uuid.UUID, location string) (*Menu, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.shop_id = ?", shopID).
				Where("?TableAlias.location = ?", location)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "menu", location)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "menu", Key: fmt.Sprintf("%s:%s", shopID, location)}
	}
	return records[0], nil
}

func (r *BunMenuRepository) ListByShop(ctx context.Context, shopID uuid.UUID) ([]*Menu, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.shop_id = ?", shopID).
				OrderExpr("?TableAlias.location ASC")
		}),
	)
	return records, err
}

func (r *BunMenuRepository) Update(ctx context.Context, menu *Menu) (*Menu, error) {
	record, err := r.repo.Update(ctx, menu)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunMenuRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &Menu{ID: id})
}

func (r *BunMenuRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

// BunMenuItemRepository implements MenuItemRepository with optional caching.
type BunMenuItemRepository struct {
	db           *bun.DB
	repo         repository.Repository[*MenuItem]
	cacheService cache.CacheService
	cachePrefix  string
}

const menuItemNamespace = "menu_item"

// NewBunMenuItemRepository creates a menu item repository without caching.
func NewBunMenuItemRepository(db *bun.DB) *BunMenuItemRepository {
	return NewBunMenuItemRepositoryWithCache(db, nil, nil)
}

// NewBunMenuItemRepositoryWithCache creates a menu item repository with caching services.
func NewBunMenuItemRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunMenuItemRepository {
	base := NewMenuItemRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = cachePrefix(menuItemNamespace)
	}
	return &BunMenuItemRepository{db: db, repo: base, cacheService: svc, cachePrefix: prefix}
}

func (r *BunMenuItemRepository) Create(ctx context.Context, item *MenuItem) (*MenuItem, error) {
	record, err := r.repo.Create(ctx, item)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunMenuItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*MenuItem, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "menu_item", id.String())
	}
	return record, nil
}

func (r *BunMenuItemRepository) ListByMenu(ctx context.Context, menuID uuid.UUID) ([]*MenuItem, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.menu_id = ?", menuID).
				OrderExpr("?TableAlias.menu_order ASC").
				OrderExpr("?TableAlias.created_at ASC")
		}),
	)
	return records, err
}

func (r *BunMenuItemRepository) Update(ctx context.Context, item *MenuItem) (*MenuItem, error) {
	record, err := r.repo.Update(ctx, item)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunMenuItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &MenuItem{ID: id})
}

func (r *BunMenuItemRepository) DeleteByMenu(ctx context.Context, menuID uuid.UUID) error {
	if r.db == nil {
		return fmt.Errorf("menu item repository: database not configured")
	}
	_, err := r.db.NewDelete().
		Model((*MenuItem)(nil)).
		Where("?TableAlias.menu_id = ?", menuID).
		Exec(ctx)
	return err
}

func (r *BunMenuItemRepository) InvalidateCache(ctx context.Context) error {
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
