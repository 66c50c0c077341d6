package shops

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewShopRepository(db *bun.DB) repository.Repository[*Shop] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Shop]{
		NewRecord: func() *Shop { return &Shop{} },
		GetID: func(s *Shop) uuid.UUID {
			return s.ID
		},
		SetID: func(s *Shop, id uuid.UUID) {
			s.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(s *Shop) string {
			return s.Slug
		},
	})
}

func NewDomainRepository(db *bun.DB) repository.Repository[*Domain] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Domain]{
		NewRecord: func() *Domain { return &Domain{} },
		GetID: func(d *Domain) uuid.UUID {
			return d.ID
		},
		SetID: func(d *Domain, id uuid.UUID) {
			d.ID = id
		},
		GetIdentifier: func() string {
			return "host"
		},
		GetIdentifierValue: func(d *Domain) string {
			return d.Host
		},
	})
}

func NewSubscriptionRepository(db *bun.DB) repository.Repository[*Subscription] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Subscription]{
		NewRecord: func() *Subscription { return &Subscription{} },
		GetID: func(s *Subscription) uuid.UUID {
			return s.ID
		},
		SetID: func(s *Subscription, id uuid.UUID) {
			s.ID = id
		},
	})
}
