package shops

import (
	publicshops "github.com/goliatone/go-storefront/shops"
)

// Public contract aliases keep the storable models in the root shops package
// while services operate on internal interfaces.
type (
	Shop             = publicshops.Shop
	ShopSettings     = publicshops.ShopSettings
	HeroSettings     = publicshops.HeroSettings
	BrandingSettings = publicshops.BrandingSettings
	Domain           = publicshops.Domain
	Subscription     = publicshops.Subscription
)

const (
	ShopStatusActive   = publicshops.ShopStatusActive
	ShopStatusInactive = publicshops.ShopStatusInactive

	DomainStatusPending = publicshops.DomainStatusPending
	DomainStatusActive  = publicshops.DomainStatusActive

	SubscriptionTypeTrial   = publicshops.SubscriptionTypeTrial
	SubscriptionTypePackage = publicshops.SubscriptionTypePackage
)
