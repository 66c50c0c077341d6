package shops

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-storefront/internal/identity"
	"github.com/goliatone/go-storefront/internal/logging"
	schemavalidation "github.com/goliatone/go-storefront/internal/validation"
	"github.com/goliatone/go-storefront/pkg/interfaces"
)

var (
	ErrShopNameRequired       = errors.New("shops: shop name is required")
	ErrSlugTaken              = errors.New("shops: slug already in use")
	ErrHostTaken              = errors.New("shops: host already registered")
	ErrHostRequired           = errors.New("shops: host is required")
	ErrTempDomainBaseRequired = errors.New("shops: temporary domain base is not configured")
	ErrShopHasNoDomains       = errors.New("shops: shop has no domains")
)

// Service describes shop provisioning and domain management capabilities.
type Service interface {
	ProvisionShop(ctx context.Context, input ProvisionShopInput) (*Shop, error)
	GetShop(ctx context.Context, id uuid.UUID) (*Shop, error)
	GetShopBySlug(ctx context.Context, slug string) (*Shop, error)
	ListShops(ctx context.Context) ([]*Shop, error)
	UpdateSettings(ctx context.Context, input UpdateSettingsInput) (*Shop, error)
	ChangeTheme(ctx context.Context, shopID uuid.UUID, theme string) (*Shop, error)
	DeactivateShop(ctx context.Context, shopID uuid.UUID) (*Shop, error)
	DeleteShop(ctx context.Context, shopID uuid.UUID) error

	AddDomain(ctx context.Context, input AddDomainInput) (*Domain, error)
	VerifyDomain(ctx context.Context, domainID uuid.UUID) (*Domain, error)
	SetPrimaryDomain(ctx context.Context, domainID uuid.UUID) (*Domain, error)
	RemoveDomain(ctx context.Context, domainID uuid.UUID) error
	ListDomains(ctx context.Context, shopID uuid.UUID) ([]*Domain, error)
}

// ProvisionShopInput captures the information required to create a shop with
// its temporary platform domain.
type ProvisionShopInput struct {
	Name     string
	Slug     string
	Theme    string
	Settings ShopSettings
}

func (i ProvisionShopInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&i.Slug, validation.By(optionalSlug)),
	)
}

func optionalSlug(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}
	if !slug.IsValid(raw) {
		return fmt.Errorf("must be a valid slug")
	}
	return nil
}

// UpdateSettingsInput replaces the shop settings payload.
type UpdateSettingsInput struct {
	ShopID   uuid.UUID
	Settings ShopSettings
}

// AddDomainInput registers a custom domain for a shop.
type AddDomainInput struct {
	ShopID uuid.UUID
	Host   string
}

// ServiceOption configures shop service behaviour.
type ServiceOption func(*service)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides the ID generator used for subscription rows and
// other records without a deterministic key.
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

// WithDefaultTheme sets the theme assigned to shops provisioned without one.
func WithDefaultTheme(theme string) ServiceOption {
	return func(s *service) {
		if theme != "" {
			s.defaultTheme = theme
		}
	}
}

// WithTempDomainBase sets the base host used to mint temporary subdomains,
// e.g. "shops.example.com" yields "<slug>.shops.example.com".
func WithTempDomainBase(base string) ServiceOption {
	return func(s *service) {
		s.tempDomainBase = strings.TrimSpace(base)
	}
}

type service struct {
	shops   ShopRepository
	domains DomainRepository
	subs    SubscriptionRepository

	now            func() time.Time
	newID          func() uuid.UUID
	logger         interfaces.Logger
	defaultTheme   string
	tempDomainBase string
}

// NewService constructs a shop service instance.
func NewService(shopRepo ShopRepository, domainRepo DomainRepository, subRepo SubscriptionRepository, opts ...ServiceOption) Service {
	s := &service{
		shops:        shopRepo,
		domains:      domainRepo,
		subs:         subRepo,
		now:          time.Now,
		newID:        uuid.New,
		logger:       logging.NoOp(),
		defaultTheme: "default",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProvisionShop creates the shop record and its temporary platform domain.
func (s *service) ProvisionShop(ctx context.Context, input ProvisionShopInput) (*Shop, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("shops: invalid provision input: %w", err)
	}
	if s.tempDomainBase == "" {
		return nil, ErrTempDomainBaseRequired
	}

	slugValue := strings.TrimSpace(input.Slug)
	if slugValue == "" {
		normalized, err := slug.Normalize(input.Name)
		if err != nil {
			return nil, fmt.Errorf("shops: cannot derive slug from name %q: %w", input.Name, err)
		}
		slugValue = normalized
	}

	if _, err := s.shops.GetBySlug(ctx, slugValue); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrSlugTaken, slugValue)
	} else if !isNotFound(err) {
		return nil, err
	}

	if err := validateSettings(input.Settings); err != nil {
		return nil, err
	}

	theme := input.Theme
	if theme == "" {
		theme = s.defaultTheme
	}

	now := s.now().UTC()
	shop := &Shop{
		ID:        identity.ShopUUID(slugValue),
		Slug:      slugValue,
		Name:      strings.TrimSpace(input.Name),
		Status:    ShopStatusActive,
		Theme:     theme,
		Settings:  input.Settings,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := s.shops.Create(ctx, shop)
	if err != nil {
		return nil, err
	}

	host := fmt.Sprintf("%s.%s", slugValue, s.tempDomainBase)
	verified := now
	domain := &Domain{
		ID:         identity.DomainUUID(host),
		ShopID:     created.ID,
		Host:       host,
		IsPrimary:  true,
		IsTemp:     true,
		Status:     DomainStatusActive,
		VerifiedAt: &verified,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	tempDomain, err := s.domains.Create(ctx, domain)
	if err != nil {
		return nil, fmt.Errorf("shops: provision temporary domain: %w", err)
	}
	created.Domains = []*Domain{tempDomain}

	s.logger.Info("shop provisioned",
		"shop_id", created.ID.String(),
		"slug", created.Slug,
		"temp_host", tempDomain.Host,
	)
	return created, nil
}

func (s *service) GetShop(ctx context.Context, id uuid.UUID) (*Shop, error) {
	return s.shops.GetByID(ctx, id)
}

func (s *service) GetShopBySlug(ctx context.Context, slugValue string) (*Shop, error) {
	return s.shops.GetBySlug(ctx, slugValue)
}

func (s *service) ListShops(ctx context.Context) ([]*Shop, error) {
	return s.shops.List(ctx)
}

// UpdateSettings replaces the settings payload after schema validation.
func (s *service) UpdateSettings(ctx context.Context, input UpdateSettingsInput) (*Shop, error) {
	shop, err := s.shops.GetByID(ctx, input.ShopID)
	if err != nil {
		return nil, err
	}
	if err := validateSettings(input.Settings); err != nil {
		return nil, err
	}
	shop.Settings = input.Settings
	shop.UpdatedAt = s.now().UTC()
	return s.shops.Update(ctx, shop)
}

func (s *service) ChangeTheme(ctx context.Context, shopID uuid.UUID, theme string) (*Shop, error) {
	shop, err := s.shops.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if theme == "" {
		theme = s.defaultTheme
	}
	shop.Theme = theme
	shop.UpdatedAt = s.now().UTC()
	return s.shops.Update(ctx, shop)
}

func (s *service) DeactivateShop(ctx context.Context, shopID uuid.UUID) (*Shop, error) {
	shop, err := s.shops.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	shop.Status = ShopStatusInactive
	shop.UpdatedAt = s.now().UTC()
	updated, err := s.shops.Update(ctx, shop)
	if err != nil {
		return nil, err
	}
	s.logger.Info("shop deactivated", "shop_id", shopID.String())
	return updated, nil
}

// DeleteShop removes the shop together with its domains and subscriptions.
func (s *service) DeleteShop(ctx context.Context, shopID uuid.UUID) error {
	domains, err := s.domains.ListByShop(ctx, shopID)
	if err != nil {
		return err
	}
	for _, domain := range domains {
		if err := s.domains.Delete(ctx, domain.ID); err != nil {
			return err
		}
	}
	subs, err := s.subs.ListByShop(ctx, shopID)
	if err != nil {
		return err
	}
	for _, sub := range subs {
		if err := s.subs.Delete(ctx, sub.ID); err != nil {
			return err
		}
	}
	return s.shops.Delete(ctx, shopID)
}

// AddDomain registers a pending custom domain for the shop.
func (s *service) AddDomain(ctx context.Context, input AddDomainInput) (*Domain, error) {
	host := NormalizeHost(input.Host)
	if host == "" {
		return nil, ErrHostRequired
	}
	if _, err := s.shops.GetByID(ctx, input.ShopID); err != nil {
		return nil, err
	}
	if _, err := s.domains.GetByHost(ctx, host); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrHostTaken, host)
	} else if !isNotFound(err) {
		return nil, err
	}

	now := s.now().UTC()
	domain := &Domain{
		ID:        identity.DomainUUID(host),
		ShopID:    input.ShopID,
		Host:      host,
		Status:    DomainStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.domains.Create(ctx, domain)
}

// VerifyDomain marks the domain as active. The first verified custom domain
// becomes primary, demoting the temporary one.
func (s *service) VerifyDomain(ctx context.Context, domainID uuid.UUID) (*Domain, error) {
	domain, err := s.domains.GetByID(ctx, domainID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	domain.Status = DomainStatusActive
	domain.VerifiedAt = &now
	domain.UpdatedAt = now

	siblings, err := s.domains.ListByShop(ctx, domain.ShopID)
	if err != nil {
		return nil, err
	}
	onlyTempPrimary := true
	for _, sibling := range siblings {
		if sibling.IsPrimary && !sibling.IsTemp && sibling.ID != domain.ID {
			onlyTempPrimary = false
			break
		}
	}
	if onlyTempPrimary && !domain.IsTemp {
		if err := s.demotePrimaries(ctx, siblings, domain.ID, now); err != nil {
			return nil, err
		}
		domain.IsPrimary = true
	}

	updated, err := s.domains.Update(ctx, domain)
	if err != nil {
		return nil, err
	}
	s.logger.Info("domain verified", "shop_id", domain.ShopID.String(), "host", domain.Host)
	return updated, nil
}

// SetPrimaryDomain promotes the domain and demotes any current primary.
func (s *service) SetPrimaryDomain(ctx context.Context, domainID uuid.UUID) (*Domain, error) {
	domain, err := s.domains.GetByID(ctx, domainID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	siblings, err := s.domains.ListByShop(ctx, domain.ShopID)
	if err != nil {
		return nil, err
	}
	if err := s.demotePrimaries(ctx, siblings, domain.ID, now); err != nil {
		return nil, err
	}
	domain.IsPrimary = true
	domain.UpdatedAt = now
	return s.domains.Update(ctx, domain)
}

// RemoveDomain deletes a domain. When the primary is removed the oldest
// remaining domain takes over.
func (s *service) RemoveDomain(ctx context.Context, domainID uuid.UUID) error {
	domain, err := s.domains.GetByID(ctx, domainID)
	if err != nil {
		return err
	}
	if err := s.domains.Delete(ctx, domainID); err != nil {
		return err
	}
	if !domain.IsPrimary {
		return nil
	}
	remaining, err := s.domains.ListByShop(ctx, domain.ShopID)
	if err != nil {
		return err
	}
	next := PrimaryDomain(remaining)
	if next == nil {
		return ErrShopHasNoDomains
	}
	next.IsPrimary = true
	next.UpdatedAt = s.now().UTC()
	_, err = s.domains.Update(ctx, next)
	return err
}

func (s *service) ListDomains(ctx context.Context, shopID uuid.UUID) ([]*Domain, error) {
	return s.domains.ListByShop(ctx, shopID)
}

func (s *service) demotePrimaries(ctx context.Context, domains []*Domain, keep uuid.UUID, now time.Time) error {
	for _, domain := range domains {
		if !domain.IsPrimary || domain.ID == keep {
			continue
		}
		domain.IsPrimary = false
		domain.UpdatedAt = now
		if _, err := s.domains.Update(ctx, domain); err != nil {
			return err
		}
	}
	return nil
}

// NormalizeHost lowercases the host and strips any port suffix so lookups
// match the stored value regardless of how the request arrived.
func NormalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if idx := strings.LastIndex(host, ":"); idx >= 0 && !strings.Contains(host, "]") {
		host = host[:idx]
	}
	host = strings.TrimSuffix(host, ".")
	return host
}

func isNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

func validateSettings(settings ShopSettings) error {
	encoded, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("shops: encode settings: %w", err)
	}
	payload := map[string]any{}
	if err := json.Unmarshal(encoded, &payload); err != nil {
		return fmt.Errorf("shops: decode settings: %w", err)
	}
	if err := schemavalidation.ValidatePayload(settingsSchema(), payload); err != nil {
		return fmt.Errorf("shops: invalid settings: %w", err)
	}
	return nil
}

func settingsSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"hero": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"headline":    map[string]any{"type": "string", "maxLength": 200},
					"subheadline": map[string]any{"type": "string", "maxLength": 500},
					"image_path":  map[string]any{"type": "string"},
					"cta_label":   map[string]any{"type": "string", "maxLength": 80},
					"cta_url":     map[string]any{"type": "string"},
				},
				"additionalProperties": false,
			},
			"branding": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"logo_path":     map[string]any{"type": "string"},
					"favicon_path":  map[string]any{"type": "string"},
					"theme_variant": map[string]any{"type": "string"},
				},
				"additionalProperties": false,
			},
		},
		"additionalProperties": false,
	}
}
