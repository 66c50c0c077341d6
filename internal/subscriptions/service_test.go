package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-storefront/internal/shops"
)

var evalTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (Service, shops.SubscriptionRepository) {
	t.Helper()
	repo := shops.NewMemorySubscriptionRepository()
	next := 0
	svc := NewService(repo,
		WithClock(func() time.Time { return evalTime }),
		WithIDGenerator(func() uuid.UUID {
			next++
			return uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", next))
		}),
	)
	return svc, repo
}

func seed(t *testing.T, repo shops.SubscriptionRepository, sub *shops.Subscription) *shops.Subscription {
	t.Helper()
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	created, err := repo.Create(context.Background(), sub)
	if err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
	return created
}

func TestEvaluateNoSubscriptionIsExpired(t *testing.T) {
	svc, _ := newTestService(t)

	eval, err := svc.Evaluate(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if eval.State != StateExpired {
		t.Fatalf("expected expired, got %q", eval.State)
	}
	if eval.Subscription != nil {
		t.Fatalf("expected nil subscription, got %+v", eval.Subscription)
	}
	if eval.State.Entitled() {
		t.Fatal("expired must not be entitled")
	}
}

func TestEvaluateTrialStates(t *testing.T) {
	shopID := uuid.New()
	future := evalTime.Add(5 * 24 * time.Hour)
	past := evalTime.Add(-24 * time.Hour)

	cases := []struct {
		name string
		sub  shops.Subscription
		want State
	}{
		{
			name: "trial renewing in five days",
			sub:  shops.Subscription{Type: shops.SubscriptionTypeTrial, NextRenewalAt: &future},
			want: StateTrial,
		},
		{
			name: "trial lapsed yesterday",
			sub:  shops.Subscription{Type: shops.SubscriptionTypeTrial, NextRenewalAt: &past},
			want: StateExpired,
		},
		{
			name: "trial renewal exactly now",
			sub:  shops.Subscription{Type: shops.SubscriptionTypeTrial, NextRenewalAt: &evalTime},
			want: StateExpired,
		},
		{
			// trial_days is bookkeeping only; without a renewal date the
			// trial never grants access.
			name: "trial with only trial days recorded",
			sub: shops.Subscription{
				Type:      shops.SubscriptionTypeTrial,
				StartsAt:  evalTime.Add(-2 * 24 * time.Hour),
				TrialDays: intPtr(7),
			},
			want: StateExpired,
		},
		{
			name: "trial without any end marker",
			sub:  shops.Subscription{Type: shops.SubscriptionTypeTrial},
			want: StateExpired,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo := newTestService(t)
			sub := tc.sub
			sub.ShopID = shopID
			sub.StartsAt = defaultStart(sub.StartsAt)
			seed(t, repo, &sub)

			eval, err := svc.Evaluate(context.Background(), shopID)
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if eval.State != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, eval.State)
			}
		})
	}
}

func TestEvaluatePackageStates(t *testing.T) {
	shopID := uuid.New()
	future := evalTime.Add(30 * 24 * time.Hour)

	cases := []struct {
		name string
		sub  shops.Subscription
		want State
	}{
		{
			name: "package renewing next month",
			sub:  shops.Subscription{Type: shops.SubscriptionTypePackage, NextRenewalAt: &future},
			want: StateActive,
		},
		{
			name: "package without renewal date",
			sub:  shops.Subscription{Type: shops.SubscriptionTypePackage},
			want: StateExpired,
		},
		{
			name: "unrecognized type",
			sub:  shops.Subscription{Type: "lifetime", NextRenewalAt: &future},
			want: StateExpired,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo := newTestService(t)
			sub := tc.sub
			sub.ShopID = shopID
			sub.StartsAt = defaultStart(sub.StartsAt)
			seed(t, repo, &sub)

			eval, err := svc.Evaluate(context.Background(), shopID)
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if eval.State != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, eval.State)
			}
		})
	}
}

func TestEvaluateUsesMostRecentSubscription(t *testing.T) {
	svc, repo := newTestService(t)
	shopID := uuid.New()

	old := evalTime.Add(-60 * 24 * time.Hour)
	seed(t, repo, &shops.Subscription{
		ShopID:    shopID,
		Type:      shops.SubscriptionTypeTrial,
		StartsAt:  old,
		CreatedAt: old,
		TrialDays: intPtr(14),
	})

	// The package row starts before the trial did but was created after
	// it; creation order decides which row is current.
	renewal := evalTime.Add(20 * 24 * time.Hour)
	seed(t, repo, &shops.Subscription{
		ShopID:        shopID,
		Type:          shops.SubscriptionTypePackage,
		StartsAt:      evalTime.Add(-90 * 24 * time.Hour),
		CreatedAt:     evalTime.Add(-5 * 24 * time.Hour),
		NextRenewalAt: &renewal,
		PackageCode:   "starter",
	})

	eval, err := svc.Evaluate(context.Background(), shopID)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if eval.State != StateActive {
		t.Fatalf("expected active from latest row, got %q", eval.State)
	}
	if eval.Subscription == nil || eval.Subscription.PackageCode != "starter" {
		t.Fatalf("expected starter package, got %+v", eval.Subscription)
	}
}

func TestAssignTrial(t *testing.T) {
	svc, _ := newTestService(t)
	shopID := uuid.New()

	sub, err := svc.AssignTrial(context.Background(), shopID, 7)
	if err != nil {
		t.Fatalf("assign trial: %v", err)
	}
	if sub.Type != shops.SubscriptionTypeTrial || sub.TrialDays == nil || *sub.TrialDays != 7 {
		t.Fatalf("unexpected trial row: %+v", sub)
	}
	want := evalTime.AddDate(0, 0, 7)
	if sub.NextRenewalAt == nil || !sub.NextRenewalAt.Equal(want) {
		t.Fatalf("expected renewal %v, got %v", want, sub.NextRenewalAt)
	}

	eval, err := svc.Evaluate(context.Background(), shopID)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if eval.State != StateTrial {
		t.Fatalf("fresh trial should evaluate to trial, got %q", eval.State)
	}

	if _, err := svc.AssignTrial(context.Background(), shopID, 0); !errors.Is(err, ErrTrialDaysInvalid) {
		t.Fatalf("expected ErrTrialDaysInvalid, got %v", err)
	}
}

func TestAssignPackageComputesRenewal(t *testing.T) {
	svc, _ := newTestService(t)
	shopID := uuid.New()

	sub, err := svc.AssignPackage(context.Background(), AssignPackageInput{
		ShopID:        shopID,
		PackageCode:   "growth",
		BillingPeriod: BillingPeriodMonthly,
	})
	if err != nil {
		t.Fatalf("assign package: %v", err)
	}
	want := evalTime.AddDate(0, 1, 0)
	if sub.NextRenewalAt == nil || !sub.NextRenewalAt.Equal(want) {
		t.Fatalf("expected monthly renewal %v, got %v", want, sub.NextRenewalAt)
	}

	_, err = svc.AssignPackage(context.Background(), AssignPackageInput{
		ShopID:        shopID,
		PackageCode:   "growth",
		BillingPeriod: "weekly",
	})
	if err == nil {
		t.Fatal("expected invalid billing period to fail")
	}
}

func TestChangeSubscriptionRequiresCurrent(t *testing.T) {
	svc, _ := newTestService(t)
	shopID := uuid.New()

	_, err := svc.ChangeSubscription(context.Background(), AssignPackageInput{
		ShopID:        shopID,
		PackageCode:   "growth",
		BillingPeriod: BillingPeriodYearly,
	})
	if !errors.Is(err, ErrNoCurrentSubscription) {
		t.Fatalf("expected ErrNoCurrentSubscription, got %v", err)
	}

	if _, err := svc.AssignTrial(context.Background(), shopID, 14); err != nil {
		t.Fatalf("assign trial: %v", err)
	}
	sub, err := svc.ChangeSubscription(context.Background(), AssignPackageInput{
		ShopID:        shopID,
		PackageCode:   "growth",
		BillingPeriod: BillingPeriodYearly,
	})
	if err != nil {
		t.Fatalf("change subscription: %v", err)
	}
	if sub.Type != shops.SubscriptionTypePackage || sub.PackageCode != "growth" {
		t.Fatalf("unexpected subscription: %+v", sub)
	}
}

func TestLockSubscriptionForcesExpiry(t *testing.T) {
	svc, _ := newTestService(t)
	shopID := uuid.New()

	if _, err := svc.AssignTrial(context.Background(), shopID, 14); err != nil {
		t.Fatalf("assign trial: %v", err)
	}
	if _, err := svc.LockSubscription(context.Background(), shopID); err != nil {
		t.Fatalf("lock: %v", err)
	}

	eval, err := svc.Evaluate(context.Background(), shopID)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if eval.State != StateExpired {
		t.Fatalf("locked subscription should be expired, got %q", eval.State)
	}
}

func defaultStart(t time.Time) time.Time {
	if t.IsZero() {
		return evalTime.Add(-24 * time.Hour)
	}
	return t
}

func intPtr(v int) *int {
	return &v
}
