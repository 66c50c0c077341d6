package pages

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type shopSlugKey struct {
	shopID uuid.UUID
	slug   string
}

type memoryPageRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*Page
	bySlug map[shopSlugKey]uuid.UUID
}

// NewMemoryPageRepository constructs an in-memory repository for pages.
func NewMemoryPageRepository() PageRepository {
	return &memoryPageRepository{
		byID:   make(map[uuid.UUID]*Page),
		bySlug: make(map[shopSlugKey]uuid.UUID),
	}
}

func (m *memoryPageRepository) Create(_ context.Context, page *Page) (*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := clonePage(page)
	m.byID[cloned.ID] = cloned
	if cloned.Slug != "" {
		m.bySlug[shopSlugKey{cloned.ShopID, cloned.Slug}] = cloned.ID
	}
	return clonePage(cloned), nil
}

func (m *memoryPageRepository) GetByID(_ context.Context, id uuid.UUID) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "page", Key: id.String()}
	}
	return clonePage(record), nil
}

func (m *memoryPageRepository) GetByShopAndSlug(_ context.Context, shopID uuid.UUID, slug string) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.bySlug[shopSlugKey{shopID, slug}]
	if !ok {
		return nil, &NotFoundError{Resource: "page", Key: slug}
	}
	return clonePage(m.byID[id]), nil
}

func (m *memoryPageRepository) ListByShop(_ context.Context, shopID uuid.UUID) ([]*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := []*Page{}
	for _, record := range m.byID {
		if record.ShopID == shopID {
			records = append(records, clonePage(record))
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Slug < records[j].Slug })
	return records, nil
}

func (m *memoryPageRepository) ListMenuCandidates(ctx context.Context, shopID uuid.UUID) ([]*Page, error) {
	all, err := m.ListByShop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	records := all[:0]
	for _, record := range all {
		if record.Type == PageTypeStandard && record.Status == PageStatusPublished && record.ShowInMenu {
			records = append(records, record)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].MenuOrder != records[j].MenuOrder {
			return records[i].MenuOrder < records[j].MenuOrder
		}
		return records[i].Title < records[j].Title
	})
	return records, nil
}

func (m *memoryPageRepository) Update(_ context.Context, page *Page) (*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[page.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "page", Key: page.ID.String()}
	}

	oldKey := shopSlugKey{existing.ShopID, existing.Slug}
	cloned := clonePage(page)
	m.byID[cloned.ID] = cloned

	newKey := shopSlugKey{cloned.ShopID, cloned.Slug}
	if oldKey != newKey {
		delete(m.bySlug, oldKey)
	}
	if cloned.Slug != "" {
		m.bySlug[newKey] = cloned.ID
	}
	return clonePage(cloned), nil
}

func (m *memoryPageRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Resource: "page", Key: id.String()}
	}
	delete(m.byID, id)
	delete(m.bySlug, shopSlugKey{existing.ShopID, existing.Slug})
	return nil
}
