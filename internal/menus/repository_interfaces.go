package menus

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// NotFoundError indicates a menu or menu item lookup missed.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("menus: %s %q not found", e.Resource, e.Key)
}

// MenuRepository persists menus.
type MenuRepository interface {
	Create(ctx context.Context, menu *Menu) (*Menu, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Menu, error)
	GetByShopAndLocation(ctx context.Context, shopID uuid.UUID, location string) (*Menu, error)
	ListByShop(ctx context.Context, shopID uuid.UUID) ([]*Menu, error)
	Update(ctx context.Context, menu *Menu) (*Menu, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MenuItemRepository persists menu items.
type MenuItemRepository interface {
	Create(ctx context.Context, item *MenuItem) (*MenuItem, error)
	GetByID(ctx context.Context, id uuid.UUID) (*MenuItem, error)
	// ListByMenu returns items ordered by menu_order then creation time.
	ListByMenu(ctx context.Context, menuID uuid.UUID) ([]*MenuItem, error)
	Update(ctx context.Context, item *MenuItem) (*MenuItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByMenu(ctx context.Context, menuID uuid.UUID) error
}

func cloneMenu(menu *Menu) *Menu {
	if menu == nil {
		return nil
	}
	cloned := *menu
	if menu.Items != nil {
		cloned.Items = make([]*MenuItem, len(menu.Items))
		for i, item := range menu.Items {
			cloned.Items[i] = cloneMenuItem(item)
		}
	}
	return &cloned
}

func cloneMenuItem(item *MenuItem) *MenuItem {
	if item == nil {
		return nil
	}
	cloned := *item
	if item.PageID != nil {
		pageID := *item.PageID
		cloned.PageID = &pageID
	}
	cloned.Menu = nil
	return &cloned
}
