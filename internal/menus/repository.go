package menus

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewMenuRepository(db *bun.DB) repository.Repository[*Menu] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Menu]{
		NewRecord: func() *Menu { return &Menu{} },
		GetID: func(m *Menu) uuid.UUID {
			return m.ID
		},
		SetID: func(m *Menu, id uuid.UUID) {
			m.ID = id
		},
	})
}

func NewMenuItemRepository(db *bun.DB) repository.Repository[*MenuItem] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*MenuItem]{
		NewRecord: func() *MenuItem { return &MenuItem{} },
		GetID: func(mi *MenuItem) uuid.UUID {
			return mi.ID
		},
		SetID: func(mi *MenuItem, id uuid.UUID) {
			mi.ID = id
		},
	})
}
