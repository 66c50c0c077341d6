package pages

import (
	publicpages "github.com/goliatone/go-storefront/pages"
)

// Public contract aliases keep the storable model in the root pages package.
type Page = publicpages.Page

const (
	PageTypeStandard = publicpages.PageTypeStandard
	PageTypeSystem   = publicpages.PageTypeSystem

	PageStatusDraft     = publicpages.PageStatusDraft
	PageStatusPublished = publicpages.PageStatusPublished
)
