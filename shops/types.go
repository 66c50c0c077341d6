package shops

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	ShopStatusActive   = "active"
	ShopStatusInactive = "inactive"
)

const (
	DomainStatusPending = "pending"
	DomainStatusActive  = "active"
)

const (
	SubscriptionTypeTrial   = "trial"
	SubscriptionTypePackage = "package"
)

// Shop represents a single tenant storefront sharing the platform deployment.
type Shop struct {
	bun.BaseModel `bun:"table:shops,alias:s"`

	ID        uuid.UUID    `bun:",pk,type:uuid" json:"id"`
	Slug      string       `bun:"slug,notnull,unique" json:"slug"`
	Name      string       `bun:"name,notnull" json:"name"`
	Status    string       `bun:"status,notnull,default:'active'" json:"status"`
	Theme     string       `bun:"theme" json:"theme,omitempty"`
	Settings  ShopSettings `bun:"settings,type:jsonb" json:"settings"`
	CreatedAt time.Time    `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time    `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Domains       []*Domain       `bun:"rel:has-many,join:id=shop_id" json:"domains,omitempty"`
	Subscriptions []*Subscription `bun:"rel:has-many,join:id=shop_id" json:"subscriptions,omitempty"`
}

// ShopSettings is the typed presentation configuration attached to a shop.
// Every field is optional; zero values fall back to theme defaults at render
// time.
type ShopSettings struct {
	Hero     HeroSettings     `json:"hero,omitempty"`
	Branding BrandingSettings `json:"branding,omitempty"`
}

// HeroSettings configures the storefront hero section.
type HeroSettings struct {
	Headline    string `json:"headline,omitempty"`
	Subheadline string `json:"subheadline,omitempty"`
	ImagePath   string `json:"image_path,omitempty"`
	CTALabel    string `json:"cta_label,omitempty"`
	CTAURL      string `json:"cta_url,omitempty"`
}

// BrandingSettings points at tenant-uploaded branding assets.
type BrandingSettings struct {
	LogoPath    string `json:"logo_path,omitempty"`
	FaviconPath string `json:"favicon_path,omitempty"`
	// ThemeVariant selects an optional manifest-declared variant of the
	// shop's theme (e.g. "dark").
	ThemeVariant string `json:"theme_variant,omitempty"`
}

// Domain binds a public hostname to a shop. A shop usually carries one
// temporary platform subdomain plus zero or more verified custom domains; the
// data layer does not enforce a single primary, callers pick
// deterministically.
type Domain struct {
	bun.BaseModel `bun:"table:domains,alias:d"`

	ID         uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	ShopID     uuid.UUID  `bun:"shop_id,notnull,type:uuid" json:"shop_id"`
	Host       string     `bun:"host,notnull,unique" json:"host"`
	IsPrimary  bool       `bun:"is_primary,notnull,default:false" json:"is_primary"`
	IsTemp     bool       `bun:"is_temp,notnull,default:false" json:"is_temp"`
	Status     string     `bun:"status,notnull,default:'pending'" json:"status"`
	VerifiedAt *time.Time `bun:"verified_at,nullzero" json:"verified_at,omitempty"`
	CreatedAt  time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Shop *Shop `bun:"rel:belongs-to,join:shop_id=id" json:"shop,omitempty"`
}

// Subscription records one entitlement period for a shop. Rows are append
// mostly; the current subscription is the most recently created one.
type Subscription struct {
	bun.BaseModel `bun:"table:subscriptions,alias:sub"`

	ID            uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	ShopID        uuid.UUID  `bun:"shop_id,notnull,type:uuid" json:"shop_id"`
	Type          string     `bun:"type,notnull" json:"type"`
	StartsAt      time.Time  `bun:"starts_at,nullzero" json:"starts_at"`
	ExpiresAt     *time.Time `bun:"expires_at,nullzero" json:"expires_at,omitempty"`
	NextRenewalAt *time.Time `bun:"next_renewal_at,nullzero" json:"next_renewal_at,omitempty"`
	TrialDays     *int       `bun:"trial_days" json:"trial_days,omitempty"`
	PackageCode   string     `bun:"package_code" json:"package_code,omitempty"`
	BillingPeriod string     `bun:"billing_period" json:"billing_period,omitempty"`
	CreatedAt     time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Shop *Shop `bun:"rel:belongs-to,join:shop_id=id" json:"shop,omitempty"`
}
