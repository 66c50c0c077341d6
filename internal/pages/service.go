package pages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-storefront/internal/identity"
	"github.com/goliatone/go-storefront/internal/logging"
	"github.com/goliatone/go-storefront/pkg/interfaces"
)

var (
	ErrTitleRequired = errors.New("pages: title is required")
	ErrSlugTaken     = errors.New("pages: slug already in use for shop")
	ErrSystemPage    = errors.New("pages: system pages cannot be modified")
	ErrStatusInvalid = errors.New("pages: unsupported status")
)

// Service manages tenant content pages.
type Service interface {
	CreatePage(ctx context.Context, input CreatePageInput) (*Page, error)
	GetPage(ctx context.Context, id uuid.UUID) (*Page, error)
	GetPageBySlug(ctx context.Context, shopID uuid.UUID, slug string) (*Page, error)
	ListPages(ctx context.Context, shopID uuid.UUID) ([]*Page, error)
	UpdatePage(ctx context.Context, input UpdatePageInput) (*Page, error)
	PublishPage(ctx context.Context, id uuid.UUID) (*Page, error)
	UnpublishPage(ctx context.Context, id uuid.UUID) (*Page, error)
	DeletePage(ctx context.Context, id uuid.UUID) error

	ImportMarkdown(ctx context.Context, shopID uuid.UUID, source []byte) (*Page, error)
}

// CreatePageInput captures the data needed to register a page.
type CreatePageInput struct {
	ShopID     uuid.UUID
	Title      string
	Slug       string
	Type       string
	Body       string
	ShowInMenu bool
	MenuOrder  int
}

func (i CreatePageInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&i.Type, validation.In("", PageTypeStandard, PageTypeSystem)),
	)
}

// UpdatePageInput carries a partial update. Nil fields are untouched.
type UpdatePageInput struct {
	ID         uuid.UUID
	Title      *string
	Body       *string
	ShowInMenu *bool
	MenuOrder  *int
}

// ServiceOption configures page service behaviour.
type ServiceOption func(*service)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
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
	pages  PageRepository
	now    func() time.Time
	logger interfaces.Logger
}

// NewService constructs a page service instance.
func NewService(pageRepo PageRepository, opts ...ServiceOption) Service {
	s := &service{
		pages:  pageRepo,
		now:    time.Now,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreatePage registers a draft page with a per-shop unique slug. The rendered
// body is kept alongside the markdown source.
func (s *service) CreatePage(ctx context.Context, input CreatePageInput) (*Page, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("pages: invalid create input: %w", err)
	}

	slugValue := strings.TrimSpace(input.Slug)
	if slugValue == "" {
		normalized, err := slug.Normalize(input.Title)
		if err != nil {
			return nil, fmt.Errorf("pages: cannot derive slug from title %q: %w", input.Title, err)
		}
		slugValue = normalized
	} else if !slug.IsValid(slugValue) {
		return nil, fmt.Errorf("pages: invalid slug %q", slugValue)
	}

	if _, err := s.pages.GetByShopAndSlug(ctx, input.ShopID, slugValue); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrSlugTaken, slugValue)
	} else if !isNotFound(err) {
		return nil, err
	}

	pageType := input.Type
	if pageType == "" {
		pageType = PageTypeStandard
	}

	bodyHTML := ""
	if input.Body != "" {
		rendered, err := RenderMarkdown([]byte(input.Body))
		if err != nil {
			return nil, err
		}
		bodyHTML = rendered
	}

	now := s.now().UTC()
	page := &Page{
		ID:         identity.PageUUID(input.ShopID, slugValue),
		ShopID:     input.ShopID,
		Slug:       slugValue,
		Title:      strings.TrimSpace(input.Title),
		Type:       pageType,
		Status:     PageStatusDraft,
		ShowInMenu: input.ShowInMenu,
		MenuOrder:  input.MenuOrder,
		Body:       input.Body,
		BodyHTML:   bodyHTML,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	created, err := s.pages.Create(ctx, page)
	if err != nil {
		return nil, err
	}
	s.logger.Info("page created",
		"shop_id", input.ShopID.String(),
		"slug", slugValue,
	)
	return created, nil
}

func (s *service) GetPage(ctx context.Context, id uuid.UUID) (*Page, error) {
	return s.pages.GetByID(ctx, id)
}

func (s *service) GetPageBySlug(ctx context.Context, shopID uuid.UUID, slugValue string) (*Page, error) {
	return s.pages.GetByShopAndSlug(ctx, shopID, slugValue)
}

func (s *service) ListPages(ctx context.Context, shopID uuid.UUID) ([]*Page, error) {
	return s.pages.ListByShop(ctx, shopID)
}

func (s *service) UpdatePage(ctx context.Context, input UpdatePageInput) (*Page, error) {
	page, err := s.pages.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if page.Type == PageTypeSystem {
		return nil, ErrSystemPage
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		page.Title = title
	}
	if input.Body != nil {
		page.Body = *input.Body
		rendered, err := RenderMarkdown([]byte(page.Body))
		if err != nil {
			return nil, err
		}
		page.BodyHTML = rendered
	}
	if input.ShowInMenu != nil {
		page.ShowInMenu = *input.ShowInMenu
	}
	if input.MenuOrder != nil {
		page.MenuOrder = *input.MenuOrder
	}
	page.UpdatedAt = s.now().UTC()
	return s.pages.Update(ctx, page)
}

func (s *service) PublishPage(ctx context.Context, id uuid.UUID) (*Page, error) {
	return s.setStatus(ctx, id, PageStatusPublished)
}

func (s *service) UnpublishPage(ctx context.Context, id uuid.UUID) (*Page, error) {
	return s.setStatus(ctx, id, PageStatusDraft)
}

func (s *service) DeletePage(ctx context.Context, id uuid.UUID) error {
	page, err := s.pages.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if page.Type == PageTypeSystem {
		return ErrSystemPage
	}
	return s.pages.Delete(ctx, id)
}

// ImportMarkdown creates a page from a frontmatter-annotated markdown
// document. Frontmatter status "published" publishes immediately.
func (s *service) ImportMarkdown(ctx context.Context, shopID uuid.UUID, source []byte) (*Page, error) {
	meta, body, err := ParseMarkdown(source)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(meta.Title) == "" {
		return nil, ErrTitleRequired
	}
	switch meta.Status {
	case "", PageStatusDraft, PageStatusPublished:
	default:
		return nil, fmt.Errorf("%w: %q", ErrStatusInvalid, meta.Status)
	}

	page, err := s.CreatePage(ctx, CreatePageInput{
		ShopID:     shopID,
		Title:      meta.Title,
		Slug:       meta.Slug,
		Body:       string(body),
		ShowInMenu: meta.ShowInMenu,
		MenuOrder:  meta.MenuOrder,
	})
	if err != nil {
		return nil, err
	}
	if meta.Status == PageStatusPublished {
		return s.PublishPage(ctx, page.ID)
	}
	return page, nil
}

func (s *service) setStatus(ctx context.Context, id uuid.UUID, status string) (*Page, error) {
	page, err := s.pages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	page.Status = status
	page.UpdatedAt = s.now().UTC()
	return s.pages.Update(ctx, page)
}

func isNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
