package shops_test

import (
	"context"
	"errors"
	"testing"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-storefront/internal/identity"
	"github.com/goliatone/go-storefront/internal/shops"
	"github.com/goliatone/go-storefront/pkg/testsupport"
)

func newBunDB(t *testing.T) *bun.DB {
	t.Helper()

	sqlDB, err := testsupport.NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	bunDB := bun.NewDB(sqlDB, sqlitedialect.New())
	bunDB.SetMaxOpenConns(1)

	registerShopModels(t, bunDB)
	return bunDB
}

func registerShopModels(t *testing.T, db *bun.DB) {
	t.Helper()

	ctx := context.Background()
	models := []any{
		(*shops.Shop)(nil),
		(*shops.Domain)(nil),
		(*shops.Subscription)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			t.Fatalf("create table %T: %v", model, err)
		}
	}
}

func TestBunShopRepositoriesWithCache(t *testing.T) {
	ctx := context.Background()
	bunDB := newBunDB(t)

	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheSvc, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("cache service: %v", err)
	}
	serializer := repocache.NewDefaultKeySerializer()

	shopRepo := shops.NewBunShopRepositoryWithCache(bunDB, cacheSvc, serializer)
	domainRepo := shops.NewBunDomainRepositoryWithCache(bunDB, cacheSvc, serializer)
	subRepo := shops.NewBunSubscriptionRepositoryWithCache(bunDB, cacheSvc, serializer)

	shop, err := shopRepo.Create(ctx, &shops.Shop{
		ID:     identity.ShopUUID("coffee-corner"),
		Slug:   "coffee-corner",
		Name:   "Coffee Corner",
		Status: shops.ShopStatusActive,
		Theme:  "aurora",
		Settings: shops.ShopSettings{
			Hero: shops.HeroSettings{Headline: "Fresh roasts"},
		},
	})
	if err != nil {
		t.Fatalf("create shop: %v", err)
	}

	bySlug, err := shopRepo.GetBySlug(ctx, "coffee-corner")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if bySlug.ID != shop.ID {
		t.Fatalf("expected shop %s, got %s", shop.ID, bySlug.ID)
	}
	if bySlug.Settings.Hero.Headline != "Fresh roasts" {
		t.Fatalf("expected settings to round-trip, got %+v", bySlug.Settings)
	}

	if _, err := domainRepo.Create(ctx, &shops.Domain{
		ID:        identity.DomainUUID("coffee.example"),
		ShopID:    shop.ID,
		Host:      "coffee.example",
		IsPrimary: true,
		Status:    shops.DomainStatusActive,
	}); err != nil {
		t.Fatalf("create domain: %v", err)
	}

	resolved, err := domainRepo.GetByHost(ctx, "coffee.example")
	if err != nil {
		t.Fatalf("get by host: %v", err)
	}
	if resolved.ShopID != shop.ID {
		t.Fatalf("expected domain bound to shop %s, got %s", shop.ID, resolved.ShopID)
	}
	if resolved.Shop == nil || resolved.Shop.Slug != "coffee-corner" {
		t.Fatalf("expected shop relation to load, got %+v", resolved.Shop)
	}

	var notFound *shops.NotFoundError
	if _, err := domainRepo.GetByHost(ctx, "unknown.example"); !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError for unknown host, got %v", err)
	}

	if _, err := subRepo.GetCurrentByShop(ctx, shop.ID); !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError without subscriptions, got %v", err)
	}

	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	if _, err := subRepo.Create(ctx, &shops.Subscription{
		ID:        uuid.New(),
		ShopID:    shop.ID,
		Type:      shops.SubscriptionTypeTrial,
		StartsAt:  base,
		CreatedAt: base,
	}); err != nil {
		t.Fatalf("create trial subscription: %v", err)
	}

	// A backdated row created later is still the current one: currency
	// follows creation order, not the start date.
	if _, err := subRepo.Create(ctx, &shops.Subscription{
		ID:          uuid.New(),
		ShopID:      shop.ID,
		Type:        shops.SubscriptionTypePackage,
		PackageCode: "starter",
		StartsAt:    base.AddDate(0, -1, 0),
		CreatedAt:   base.Add(time.Hour),
	}); err != nil {
		t.Fatalf("create backdated subscription: %v", err)
	}

	current, err := subRepo.GetCurrentByShop(ctx, shop.ID)
	if err != nil {
		t.Fatalf("get current subscription: %v", err)
	}
	if current.PackageCode != "starter" {
		t.Fatalf("expected the most recently created subscription, got %+v", current)
	}
}
