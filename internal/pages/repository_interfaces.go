package pages

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// NotFoundError indicates a page lookup missed.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("pages: %s %q not found", e.Resource, e.Key)
}

// PageRepository persists tenant pages.
type PageRepository interface {
	Create(ctx context.Context, page *Page) (*Page, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Page, error)
	GetByShopAndSlug(ctx context.Context, shopID uuid.UUID, slug string) (*Page, error)
	ListByShop(ctx context.Context, shopID uuid.UUID) ([]*Page, error)
	// ListMenuCandidates returns published standard pages flagged for menus,
	// ordered by menu_order then title.
	ListMenuCandidates(ctx context.Context, shopID uuid.UUID) ([]*Page, error)
	Update(ctx context.Context, page *Page) (*Page, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

func clonePage(page *Page) *Page {
	if page == nil {
		return nil
	}
	cloned := *page
	return &cloned
}
