package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-storefront/internal/logging"
	"github.com/goliatone/go-storefront/internal/shops"
	"github.com/goliatone/go-storefront/pkg/interfaces"
)

// State is the derived entitlement of a shop at evaluation time.
type State string

const (
	// StateTrial means a trial subscription with a renewal date strictly in
	// the future.
	StateTrial State = "trial"
	// StateActive means a paid package with a renewal date strictly in the
	// future.
	StateActive State = "active"
	// StateExpired covers everything else: missing subscriptions, lapsed
	// or absent renewal dates, and rows the evaluator cannot interpret.
	StateExpired State = "expired"
	// StateUnknown is reserved for callers that track an entitlement they
	// have not evaluated yet. The evaluator itself never returns it.
	StateUnknown State = "unknown"
)

// Entitled reports whether the state grants access to the storefront.
func (s State) Entitled() bool {
	return s == StateTrial || s == StateActive
}

// Evaluation pairs the derived state with the row it was derived from.
// Subscription is nil when the shop has no subscription at all.
type Evaluation struct {
	State        State
	Subscription *shops.Subscription
}

// BillingPeriodMonthly and BillingPeriodYearly are the supported package
// billing periods.
const (
	BillingPeriodMonthly = "monthly"
	BillingPeriodYearly  = "yearly"
)

var (
	ErrTrialDaysInvalid      = errors.New("subscriptions: trial days must be positive")
	ErrBillingPeriodInvalid  = errors.New("subscriptions: unsupported billing period")
	ErrNoCurrentSubscription = errors.New("subscriptions: shop has no subscription")
)

// Service evaluates and administers shop subscriptions. Evaluation is total:
// it never fails on data, only on store errors.
type Service interface {
	Evaluate(ctx context.Context, shopID uuid.UUID) (*Evaluation, error)

	AssignTrial(ctx context.Context, shopID uuid.UUID, trialDays int) (*shops.Subscription, error)
	AssignPackage(ctx context.Context, input AssignPackageInput) (*shops.Subscription, error)
	ChangeSubscription(ctx context.Context, input AssignPackageInput) (*shops.Subscription, error)
	LockSubscription(ctx context.Context, shopID uuid.UUID) (*shops.Subscription, error)
}

// AssignPackageInput describes a paid package assignment.
type AssignPackageInput struct {
	ShopID        uuid.UUID
	PackageCode   string
	BillingPeriod string
	// RenewsAt overrides the renewal date computed from the billing period.
	RenewsAt *time.Time
}

func (i AssignPackageInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.PackageCode, validation.Required),
		validation.Field(&i.BillingPeriod,
			validation.Required,
			validation.In(BillingPeriodMonthly, BillingPeriodYearly),
		),
	)
}

// ServiceOption configures subscription service behaviour.
type ServiceOption func(*service)

// WithClock overrides the time source used for evaluation and assignment.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides the subscription row ID generator.
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
	subs   shops.SubscriptionRepository
	now    func() time.Time
	newID  func() uuid.UUID
	logger interfaces.Logger
}

// NewService constructs a subscription service instance.
func NewService(subRepo shops.SubscriptionRepository, opts ...ServiceOption) Service {
	s := &service{
		subs:   subRepo,
		now:    time.Now,
		newID:  uuid.New,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Evaluate derives the entitlement state for a shop. A missing row means
// expired; a renewal date equal to the evaluation instant is already lapsed.
func (s *service) Evaluate(ctx context.Context, shopID uuid.UUID) (*Evaluation, error) {
	current, err := s.subs.GetCurrentByShop(ctx, shopID)
	if err != nil {
		if isNotFound(err) {
			return &Evaluation{State: StateExpired}, nil
		}
		return nil, fmt.Errorf("subscriptions: evaluate shop %s: %w", shopID, err)
	}
	return &Evaluation{
		State:        s.stateOf(current),
		Subscription: current,
	}, nil
}

// stateOf is total over stored data: only a trial or package row with a
// renewal date strictly in the future grants access, everything else is
// expired.
func (s *service) stateOf(sub *shops.Subscription) State {
	now := s.now().UTC()
	switch sub.Type {
	case shops.SubscriptionTypeTrial:
		if sub.NextRenewalAt == nil {
			s.logger.Warn("trial subscription has no renewal date", "subscription_id", sub.ID.String())
			return StateExpired
		}
		if sub.NextRenewalAt.After(now) {
			return StateTrial
		}
		return StateExpired
	case shops.SubscriptionTypePackage:
		if sub.NextRenewalAt != nil && sub.NextRenewalAt.After(now) {
			return StateActive
		}
		return StateExpired
	default:
		s.logger.Warn("unrecognized subscription type",
			"subscription_id", sub.ID.String(),
			"type", sub.Type,
		)
		return StateExpired
	}
}

// AssignTrial appends a trial subscription starting now.
func (s *service) AssignTrial(ctx context.Context, shopID uuid.UUID, trialDays int) (*shops.Subscription, error) {
	if trialDays <= 0 {
		return nil, ErrTrialDaysInvalid
	}
	now := s.now().UTC()
	renewal := now.AddDate(0, 0, trialDays)
	sub := &shops.Subscription{
		ID:            s.newID(),
		ShopID:        shopID,
		Type:          shops.SubscriptionTypeTrial,
		StartsAt:      now,
		NextRenewalAt: &renewal,
		TrialDays:     &trialDays,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	created, err := s.subs.Create(ctx, sub)
	if err != nil {
		return nil, err
	}
	s.logger.Info("trial assigned",
		"shop_id", shopID.String(),
		"trial_days", trialDays,
		"renews_at", renewal.Format(time.RFC3339),
	)
	return created, nil
}

// AssignPackage appends a paid package subscription starting now.
func (s *service) AssignPackage(ctx context.Context, input AssignPackageInput) (*shops.Subscription, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("subscriptions: invalid package input: %w", err)
	}
	now := s.now().UTC()
	renewal, err := s.renewalFor(input, now)
	if err != nil {
		return nil, err
	}
	sub := &shops.Subscription{
		ID:            s.newID(),
		ShopID:        input.ShopID,
		Type:          shops.SubscriptionTypePackage,
		StartsAt:      now,
		NextRenewalAt: &renewal,
		PackageCode:   input.PackageCode,
		BillingPeriod: input.BillingPeriod,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	created, err := s.subs.Create(ctx, sub)
	if err != nil {
		return nil, err
	}
	s.logger.Info("package assigned",
		"shop_id", input.ShopID.String(),
		"package", input.PackageCode,
		"billing_period", input.BillingPeriod,
	)
	return created, nil
}

// ChangeSubscription swaps the shop onto a different package. The history is
// append-only; the previous row simply stops being current.
func (s *service) ChangeSubscription(ctx context.Context, input AssignPackageInput) (*shops.Subscription, error) {
	if _, err := s.subs.GetCurrentByShop(ctx, input.ShopID); err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoCurrentSubscription, input.ShopID)
		}
		return nil, err
	}
	return s.AssignPackage(ctx, input)
}

// LockSubscription forces the current subscription to lapse immediately.
func (s *service) LockSubscription(ctx context.Context, shopID uuid.UUID) (*shops.Subscription, error) {
	current, err := s.subs.GetCurrentByShop(ctx, shopID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoCurrentSubscription, shopID)
		}
		return nil, err
	}
	now := s.now().UTC()
	current.NextRenewalAt = &now
	current.ExpiresAt = &now
	current.UpdatedAt = now
	updated, err := s.subs.Update(ctx, current)
	if err != nil {
		return nil, err
	}
	s.logger.Info("subscription locked", "shop_id", shopID.String())
	return updated, nil
}

func (s *service) renewalFor(input AssignPackageInput, now time.Time) (time.Time, error) {
	if input.RenewsAt != nil {
		return input.RenewsAt.UTC(), nil
	}
	switch input.BillingPeriod {
	case BillingPeriodMonthly:
		return now.AddDate(0, 1, 0), nil
	case BillingPeriodYearly:
		return now.AddDate(1, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrBillingPeriodInvalid, input.BillingPeriod)
	}
}

func isNotFound(err error) bool {
	var notFound *shops.NotFoundError
	return errors.As(err, &notFound)
}
