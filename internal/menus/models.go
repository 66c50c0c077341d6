package menus

import (
	publicmenus "github.com/goliatone/go-storefront/menus"
)

// Public contract aliases keep the storable models in the root menus package.
type (
	Menu     = publicmenus.Menu
	MenuItem = publicmenus.MenuItem
)

const (
	LocationHeader          = publicmenus.LocationHeader
	LocationFooterPrimary   = publicmenus.LocationFooterPrimary
	LocationFooterSecondary = publicmenus.LocationFooterSecondary

	MenuItemKindPage = publicmenus.MenuItemKindPage
	MenuItemKindURL  = publicmenus.MenuItemKindURL
)

// Locations lists every known menu location in render order.
func Locations() []string {
	return publicmenus.Locations()
}
