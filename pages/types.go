package pages

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	PageTypeStandard = "standard"
	PageTypeSystem   = "system"
)

const (
	PageStatusDraft     = "draft"
	PageStatusPublished = "published"
)

// Page is a tenant-owned content page. Standard pages are navigable and
// editable by shop admins; system pages are reserved for platform screens.
type Page struct {
	bun.BaseModel `bun:"table:pages,alias:p"`

	ID         uuid.UUID `bun:",pk,type:uuid" json:"id"`
	ShopID     uuid.UUID `bun:"shop_id,notnull,type:uuid" json:"shop_id"`
	Slug       string    `bun:"slug,notnull" json:"slug"`
	Title      string    `bun:"title,notnull" json:"title"`
	Type       string    `bun:"type,notnull,default:'standard'" json:"type"`
	Status     string    `bun:"status,notnull,default:'draft'" json:"status"`
	ShowInMenu bool      `bun:"show_in_menu,notnull,default:false" json:"show_in_menu"`
	MenuOrder  int       `bun:"menu_order,notnull,default:0" json:"menu_order"`
	Body       string    `bun:"body" json:"body,omitempty"`
	BodyHTML   string    `bun:"body_html" json:"body_html,omitempty"`
	CreatedAt  time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}
