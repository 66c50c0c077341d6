package menus

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type shopLocationKey struct {
	shopID   uuid.UUID
	location string
}

type memoryMenuRepository struct {
	mu         sync.RWMutex
	byID       map[uuid.UUID]*Menu
	byLocation map[shopLocationKey]uuid.UUID
}

// NewMemoryMenuRepository constructs an in-memory repository for menus.
func NewMemoryMenuRepository() MenuRepository {
	return &memoryMenuRepository{
		byID:       make(map[uuid.UUID]*Menu),
		byLocation: make(map[shopLocationKey]uuid.UUID),
	}
}

func (m *memoryMenuRepository) Create(_ context.Context, menu *Menu) (*Menu, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneMenu(menu)
	m.byID[cloned.ID] = cloned
	if cloned.Location != "" {
		m.byLocation[shopLocationKey{cloned.ShopID, cloned.Location}] = cloned.ID
	}
	return cloneMenu(cloned), nil
}

func (m *memoryMenuRepository) GetByID(_ context.Context, id uuid.UUID) (*Menu, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "menu", Key: id.String()}
	}
	return cloneMenu(record), nil
}

func (m *memoryMenuRepository) GetByShopAndLocation(_ context.Context, shopID uuid.UUID, location string) (*Menu, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byLocation[shopLocationKey{shopID, location}]
	if !ok {
		return nil, &NotFoundError{Resource: "menu", Key: location}
	}
	return cloneMenu(m.byID[id]), nil
}

func (m *memoryMenuRepository) ListByShop(_ context.Context, shopID uuid.UUID) ([]*Menu, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := []*Menu{}
	for _, record := range m.byID {
		if record.ShopID == shopID {
			records = append(records, cloneMenu(record))
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Location < records[j].Location })
	return records, nil
}

func (m *memoryMenuRepository) Update(_ context.Context, menu *Menu) (*Menu, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[menu.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "menu", Key: menu.ID.String()}
	}

	oldKey := shopLocationKey{existing.ShopID, existing.Location}
	cloned := cloneMenu(menu)
	m.byID[cloned.ID] = cloned

	newKey := shopLocationKey{cloned.ShopID, cloned.Location}
	if oldKey != newKey {
		delete(m.byLocation, oldKey)
	}
	if cloned.Location != "" {
		m.byLocation[newKey] = cloned.ID
	}
	return cloneMenu(cloned), nil
}

func (m *memoryMenuRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Resource: "menu", Key: id.String()}
	}
	delete(m.byID, id)
	delete(m.byLocation, shopLocationKey{existing.ShopID, existing.Location})
	return nil
}

type memoryMenuItemRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*MenuItem
}

// NewMemoryMenuItemRepository constructs an in-memory repository for menu items.
func NewMemoryMenuItemRepository() MenuItemRepository {
	return &memoryMenuItemRepository{
		byID: make(map[uuid.UUID]*MenuItem),
	}
}

func (m *memoryMenuItemRepository) Create(_ context.Context, item *MenuItem) (*MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneMenuItem(item)
	m.byID[cloned.ID] = cloned
	return cloneMenuItem(cloned), nil
}

func (m *memoryMenuItemRepository) GetByID(_ context.Context, id uuid.UUID) (*MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "menu_item", Key: id.String()}
	}
	return cloneMenuItem(record), nil
}

func (m *memoryMenuItemRepository) ListByMenu(_ context.Context, menuID uuid.UUID) ([]*MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := []*MenuItem{}
	for _, record := range m.byID {
		if record.MenuID == menuID {
			records = append(records, cloneMenuItem(record))
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].MenuOrder != records[j].MenuOrder {
			return records[i].MenuOrder < records[j].MenuOrder
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

func (m *memoryMenuItemRepository) Update(_ context.Context, item *MenuItem) (*MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[item.ID]; !ok {
		return nil, &NotFoundError{Resource: "menu_item", Key: item.ID.String()}
	}
	cloned := cloneMenuItem(item)
	m.byID[cloned.ID] = cloned
	return cloneMenuItem(cloned), nil
}

func (m *memoryMenuItemRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[id]; !ok {
		return &NotFoundError{Resource: "menu_item", Key: id.String()}
	}
	delete(m.byID, id)
	return nil
}

func (m *memoryMenuItemRepository) DeleteByMenu(_ context.Context, menuID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, record := range m.byID {
		if record.MenuID == menuID {
			delete(m.byID, id)
		}
	}
	return nil
}
