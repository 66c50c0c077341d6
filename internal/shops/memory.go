package shops

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type memoryShopRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*Shop
	bySlug map[string]uuid.UUID
}

// NewMemoryShopRepository constructs an in-memory repository for shops.
func NewMemoryShopRepository() ShopRepository {
	return &memoryShopRepository{
		byID:   make(map[uuid.UUID]*Shop),
		bySlug: make(map[string]uuid.UUID),
	}
}

func (m *memoryShopRepository) Create(_ context.Context, shop *Shop) (*Shop, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneShop(shop)
	m.byID[cloned.ID] = cloned
	if cloned.Slug != "" {
		m.bySlug[cloned.Slug] = cloned.ID
	}
	return cloneShop(cloned), nil
}

func (m *memoryShopRepository) GetByID(_ context.Context, id uuid.UUID) (*Shop, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "shop", Key: id.String()}
	}
	return cloneShop(record), nil
}

func (m *memoryShopRepository) GetBySlug(_ context.Context, slug string) (*Shop, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.bySlug[slug]
	if !ok {
		return nil, &NotFoundError{Resource: "shop", Key: slug}
	}
	return cloneShop(m.byID[id]), nil
}

func (m *memoryShopRepository) List(_ context.Context) ([]*Shop, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*Shop, 0, len(m.byID))
	for _, record := range m.byID {
		records = append(records, cloneShop(record))
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Slug < records[j].Slug })
	return records, nil
}

func (m *memoryShopRepository) Update(_ context.Context, shop *Shop) (*Shop, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[shop.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "shop", Key: shop.ID.String()}
	}

	oldSlug := existing.Slug
	cloned := cloneShop(shop)
	m.byID[cloned.ID] = cloned

	if oldSlug != "" && oldSlug != cloned.Slug {
		delete(m.bySlug, oldSlug)
	}
	if cloned.Slug != "" {
		m.bySlug[cloned.Slug] = cloned.ID
	}
	return cloneShop(cloned), nil
}

func (m *memoryShopRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Resource: "shop", Key: id.String()}
	}
	delete(m.byID, id)
	if existing.Slug != "" {
		delete(m.bySlug, existing.Slug)
	}
	return nil
}

type memoryDomainRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*Domain
	byHost map[string]uuid.UUID
}

// NewMemoryDomainRepository constructs an in-memory repository for domains.
func NewMemoryDomainRepository() DomainRepository {
	return &memoryDomainRepository{
		byID:   make(map[uuid.UUID]*Domain),
		byHost: make(map[string]uuid.UUID),
	}
}

func (m *memoryDomainRepository) Create(_ context.Context, domain *Domain) (*Domain, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneDomain(domain)
	m.byID[cloned.ID] = cloned
	if cloned.Host != "" {
		m.byHost[cloned.Host] = cloned.ID
	}
	return cloneDomain(cloned), nil
}

func (m *memoryDomainRepository) GetByID(_ context.Context, id uuid.UUID) (*Domain, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "domain", Key: id.String()}
	}
	return cloneDomain(record), nil
}

func (m *memoryDomainRepository) GetByHost(_ context.Context, host string) (*Domain, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byHost[host]
	if !ok {
		return nil, &NotFoundError{Resource: "domain", Key: host}
	}
	return cloneDomain(m.byID[id]), nil
}

func (m *memoryDomainRepository) ListByShop(_ context.Context, shopID uuid.UUID) ([]*Domain, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := []*Domain{}
	for _, record := range m.byID {
		if record.ShopID == shopID {
			records = append(records, cloneDomain(record))
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Host < records[j].Host })
	return records, nil
}

func (m *memoryDomainRepository) Update(_ context.Context, domain *Domain) (*Domain, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[domain.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "domain", Key: domain.ID.String()}
	}

	oldHost := existing.Host
	cloned := cloneDomain(domain)
	m.byID[cloned.ID] = cloned

	if oldHost != "" && oldHost != cloned.Host {
		delete(m.byHost, oldHost)
	}
	if cloned.Host != "" {
		m.byHost[cloned.Host] = cloned.ID
	}
	return cloneDomain(cloned), nil
}

func (m *memoryDomainRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Resource: "domain", Key: id.String()}
	}
	delete(m.byID, id)
	if existing.Host != "" {
		delete(m.byHost, existing.Host)
	}
	return nil
}

type memorySubscriptionRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*Subscription
}

// NewMemorySubscriptionRepository constructs an in-memory repository for subscriptions.
func NewMemorySubscriptionRepository() SubscriptionRepository {
	return &memorySubscriptionRepository{
		byID: make(map[uuid.UUID]*Subscription),
	}
}

func (m *memorySubscriptionRepository) Create(_ context.Context, sub *Subscription) (*Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneSubscription(sub)
	m.byID[cloned.ID] = cloned
	return cloneSubscription(cloned), nil
}

func (m *memorySubscriptionRepository) GetByID(_ context.Context, id uuid.UUID) (*Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "subscription", Key: id.String()}
	}
	return cloneSubscription(record), nil
}

func (m *memorySubscriptionRepository) GetCurrentByShop(ctx context.Context, shopID uuid.UUID) (*Subscription, error) {
	records, err := m.ListByShop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "subscription", Key: shopID.String()}
	}
	return records[0], nil
}

func (m *memorySubscriptionRepository) ListByShop(_ context.Context, shopID uuid.UUID) ([]*Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := []*Subscription{}
	for _, record := range m.byID {
		if record.ShopID == shopID {
			records = append(records, cloneSubscription(record))
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].StartsAt.After(records[j].StartsAt)
	})
	return records, nil
}

func (m *memorySubscriptionRepository) Update(_ context.Context, sub *Subscription) (*Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[sub.ID]; !ok {
		return nil, &NotFoundError{Resource: "subscription", Key: sub.ID.String()}
	}
	cloned := cloneSubscription(sub)
	m.byID[cloned.ID] = cloned
	return cloneSubscription(cloned), nil
}

func (m *memorySubscriptionRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[id]; !ok {
		return &NotFoundError{Resource: "subscription", Key: id.String()}
	}
	delete(m.byID, id)
	return nil
}
