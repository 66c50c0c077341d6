package menus

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-storefront/internal/identity"
	"github.com/goliatone/go-storefront/internal/logging"
	"github.com/goliatone/go-storefront/pkg/interfaces"
)

var (
	ErrLocationInvalid = errors.New("menus: unsupported menu location")
	ErrLocationTaken   = errors.New("menus: shop already has a menu at location")
	ErrPageIDRequired  = errors.New("menus: page items require a page id")
	ErrURLRequired     = errors.New("menus: url items require a url")
	ErrLabelRequired   = errors.New("menus: url items require a label")
	ErrItemNotInMenu   = errors.New("menus: item does not belong to menu")
)

// Service manages explicit navigation menus.
type Service interface {
	CreateMenu(ctx context.Context, shopID uuid.UUID, location string) (*Menu, error)
	GetMenu(ctx context.Context, id uuid.UUID) (*Menu, error)
	GetMenuByLocation(ctx context.Context, shopID uuid.UUID, location string) (*Menu, error)
	ListMenus(ctx context.Context, shopID uuid.UUID) ([]*Menu, error)
	DeleteMenu(ctx context.Context, id uuid.UUID) error

	AddPageItem(ctx context.Context, input AddPageItemInput) (*MenuItem, error)
	AddURLItem(ctx context.Context, input AddURLItemInput) (*MenuItem, error)
	ListItems(ctx context.Context, menuID uuid.UUID) ([]*MenuItem, error)
	ReorderItems(ctx context.Context, menuID uuid.UUID, orderedItemIDs []uuid.UUID) ([]*MenuItem, error)
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
}

// AddPageItemInput registers a page reference entry. Label is optional; the
// page title is used when empty.
type AddPageItemInput struct {
	MenuID    uuid.UUID
	PageID    uuid.UUID
	Label     string
	MenuOrder int
}

// AddURLItemInput registers an explicit URL entry.
type AddURLItemInput struct {
	MenuID    uuid.UUID
	Label     string
	URL       string
	MenuOrder int
}

// ServiceOption configures menu service behaviour.
type ServiceOption func(*service)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides the menu item ID generator.
func WithIDGenerator(generator func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.newID = generator
		}
	}
}

// WithLogger attaches a logger to the service.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	menus  MenuRepository
	items  MenuItemRepository
	now    func() time.Time
	newID  func() uuid.UUID
	logger interfaces.Logger
}

// NewService constructs a menu service instance.
func NewService(menuRepo MenuRepository, itemRepo MenuItemRepository, opts ...ServiceOption) Service {
	s := &service{
		menus:  menuRepo,
		items:  itemRepo,
		now:    time.Now,
		newID:  uuid.New,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateMenu registers a menu ensuring one per shop and location.
func (s *service) CreateMenu(ctx context.Context, shopID uuid.UUID, location string) (*Menu, error) {
	location = strings.TrimSpace(location)
	if !isKnownLocation(location) {
		return nil, fmt.Errorf("%w: %q", ErrLocationInvalid, location)
	}
	if _, err := s.menus.GetByShopAndLocation(ctx, shopID, location); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrLocationTaken, location)
	} else if !isNotFound(err) {
		return nil, err
	}

	now := s.now().UTC()
	menu := &Menu{
		ID:        identity.MenuUUID(shopID, location),
		ShopID:    shopID,
		Location:  location,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := s.menus.Create(ctx, menu)
	if err != nil {
		return nil, err
	}
	s.logger.Info("menu created", "shop_id", shopID.String(), "location", location)
	return created, nil
}

func (s *service) GetMenu(ctx context.Context, id uuid.UUID) (*Menu, error) {
	return s.menus.GetByID(ctx, id)
}

func (s *service) GetMenuByLocation(ctx context.Context, shopID uuid.UUID, location string) (*Menu, error) {
	return s.menus.GetByShopAndLocation(ctx, shopID, location)
}

func (s *service) ListMenus(ctx context.Context, shopID uuid.UUID) ([]*Menu, error) {
	return s.menus.ListByShop(ctx, shopID)
}

// DeleteMenu removes the menu and all of its items.
func (s *service) DeleteMenu(ctx context.Context, id uuid.UUID) error {
	if _, err := s.menus.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.items.DeleteByMenu(ctx, id); err != nil {
		return err
	}
	return s.menus.Delete(ctx, id)
}

func (s *service) AddPageItem(ctx context.Context, input AddPageItemInput) (*MenuItem, error) {
	if input.PageID == uuid.Nil {
		return nil, ErrPageIDRequired
	}
	if _, err := s.menus.GetByID(ctx, input.MenuID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	pageID := input.PageID
	item := &MenuItem{
		ID:        s.newID(),
		MenuID:    input.MenuID,
		Kind:      MenuItemKindPage,
		Label:     strings.TrimSpace(input.Label),
		PageID:    &pageID,
		MenuOrder: input.MenuOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.items.Create(ctx, item)
}

func (s *service) AddURLItem(ctx context.Context, input AddURLItemInput) (*MenuItem, error) {
	label := strings.TrimSpace(input.Label)
	if label == "" {
		return nil, ErrLabelRequired
	}
	url := strings.TrimSpace(input.URL)
	if url == "" {
		return nil, ErrURLRequired
	}
	if _, err := s.menus.GetByID(ctx, input.MenuID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	item := &MenuItem{
		ID:        s.newID(),
		MenuID:    input.MenuID,
		Kind:      MenuItemKindURL,
		Label:     label,
		URL:       url,
		MenuOrder: input.MenuOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.items.Create(ctx, item)
}

func (s *service) ListItems(ctx context.Context, menuID uuid.UUID) ([]*MenuItem, error) {
	return s.items.ListByMenu(ctx, menuID)
}

// ReorderItems rewrites menu_order to match the given sequence. Every item
// of the menu must appear exactly once.
func (s *service) ReorderItems(ctx context.Context, menuID uuid.UUID, orderedItemIDs []uuid.UUID) ([]*MenuItem, error) {
	existing, err := s.items.ListByMenu(ctx, menuID)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*MenuItem, len(existing))
	for _, item := range existing {
		byID[item.ID] = item
	}
	if len(orderedItemIDs) != len(existing) {
		return nil, fmt.Errorf("menus: reorder expects %d item ids, got %d", len(existing), len(orderedItemIDs))
	}

	now := s.now().UTC()
	updated := make([]*MenuItem, 0, len(orderedItemIDs))
	for position, itemID := range orderedItemIDs {
		item, ok := byID[itemID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrItemNotInMenu, itemID)
		}
		delete(byID, itemID)
		item.MenuOrder = position
		item.UpdatedAt = now
		record, err := s.items.Update(ctx, item)
		if err != nil {
			return nil, err
		}
		updated = append(updated, record)
	}
	return updated, nil
}

func (s *service) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return s.items.Delete(ctx, itemID)
}

func isKnownLocation(location string) bool {
	for _, known := range Locations() {
		if location == known {
			return true
		}
	}
	return false
}

func isNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
