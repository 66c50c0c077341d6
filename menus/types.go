package menus

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Menu locations a storefront theme can render. Unique per shop+location.
const (
	LocationHeader          = "header"
	LocationFooterPrimary   = "footer-primary"
	LocationFooterSecondary = "footer-secondary"
)

// Locations lists every known menu location in render order.
func Locations() []string {
	return []string{LocationHeader, LocationFooterPrimary, LocationFooterSecondary}
}

const (
	MenuItemKindPage = "page"
	MenuItemKindURL  = "url"
)

// Menu groups the navigational entries a shop configured for one location.
type Menu struct {
	bun.BaseModel `bun:"table:menus,alias:m"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	ShopID    uuid.UUID `bun:"shop_id,notnull,type:uuid" json:"shop_id"`
	Location  string    `bun:"location,notnull" json:"location"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Items []*MenuItem `bun:"rel:has-many,join:id=menu_id" json:"items,omitempty"`
}

// MenuItem is a single ordered entry: either a page reference or an explicit
// URL. Label may be empty for page items, in which case the page title is
// used at assembly time.
type MenuItem struct {
	bun.BaseModel `bun:"table:menu_items,alias:mi"`

	ID        uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	MenuID    uuid.UUID  `bun:"menu_id,notnull,type:uuid" json:"menu_id"`
	Kind      string     `bun:"kind,notnull,default:'page'" json:"kind"`
	Label     string     `bun:"label" json:"label,omitempty"`
	PageID    *uuid.UUID `bun:"page_id,type:uuid" json:"page_id,omitempty"`
	URL       string     `bun:"url" json:"url,omitempty"`
	MenuOrder int        `bun:"menu_order,notnull,default:0" json:"menu_order"`
	CreatedAt time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Menu *Menu `bun:"rel:belongs-to,join:menu_id=id" json:"menu,omitempty"`
}
