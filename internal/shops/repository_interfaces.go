package shops

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// NotFoundError indicates a shop, domain, or subscription lookup missed.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("shops: %s %q not found", e.Resource, e.Key)
}

// ShopRepository persists shops.
type ShopRepository interface {
	Create(ctx context.Context, shop *Shop) (*Shop, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Shop, error)
	GetBySlug(ctx context.Context, slug string) (*Shop, error)
	List(ctx context.Context) ([]*Shop, error)
	Update(ctx context.Context, shop *Shop) (*Shop, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// DomainRepository persists custom and temporary shop domains.
type DomainRepository interface {
	Create(ctx context.Context, domain *Domain) (*Domain, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Domain, error)
	GetByHost(ctx context.Context, host string) (*Domain, error)
	ListByShop(ctx context.Context, shopID uuid.UUID) ([]*Domain, error)
	Update(ctx context.Context, domain *Domain) (*Domain, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SubscriptionRepository persists subscription rows.
type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *Subscription) (*Subscription, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Subscription, error)
	// GetCurrentByShop returns the most recently created subscription for
	// the shop, or a NotFoundError when the shop has none.
	GetCurrentByShop(ctx context.Context, shopID uuid.UUID) (*Subscription, error)
	ListByShop(ctx context.Context, shopID uuid.UUID) ([]*Subscription, error)
	Update(ctx context.Context, subscription *Subscription) (*Subscription, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PrimaryDomain picks the canonical domain for a shop. Primary flags win,
// then older records, then the lowest id so the choice stays stable even
// when rows share a creation timestamp.
func PrimaryDomain(domains []*Domain) *Domain {
	if len(domains) == 0 {
		return nil
	}
	sorted := make([]*Domain, len(domains))
	copy(sorted, domains)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].IsPrimary != sorted[j].IsPrimary {
			return sorted[i].IsPrimary
		}
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].ID.String() < sorted[j].ID.String()
	})
	return sorted[0]
}

func cloneShop(shop *Shop) *Shop {
	if shop == nil {
		return nil
	}
	cloned := *shop
	if shop.Domains != nil {
		cloned.Domains = make([]*Domain, len(shop.Domains))
		for i, domain := range shop.Domains {
			cloned.Domains[i] = cloneDomain(domain)
		}
	}
	if shop.Subscriptions != nil {
		cloned.Subscriptions = make([]*Subscription, len(shop.Subscriptions))
		for i, sub := range shop.Subscriptions {
			cloned.Subscriptions[i] = cloneSubscription(sub)
		}
	}
	return &cloned
}

func cloneDomain(domain *Domain) *Domain {
	if domain == nil {
		return nil
	}
	cloned := *domain
	if domain.VerifiedAt != nil {
		verified := *domain.VerifiedAt
		cloned.VerifiedAt = &verified
	}
	cloned.Shop = cloneShopShallow(domain.Shop)
	return &cloned
}

func cloneShopShallow(shop *Shop) *Shop {
	if shop == nil {
		return nil
	}
	cloned := *shop
	cloned.Domains = nil
	cloned.Subscriptions = nil
	return &cloned
}

func cloneSubscription(sub *Subscription) *Subscription {
	if sub == nil {
		return nil
	}
	cloned := *sub
	cloned.ExpiresAt = cloneTime(sub.ExpiresAt)
	cloned.NextRenewalAt = cloneTime(sub.NextRenewalAt)
	if sub.TrialDays != nil {
		days := *sub.TrialDays
		cloned.TrialDays = &days
	}
	return &cloned
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	copied := *t
	return &copied
}
