package subscription

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/planbridge/pkg/logger"
)

// Outcome reports what Reconcile did with an event.
type Outcome string

const (
	// OutcomeApplied means one merge was written to the store.
	OutcomeApplied Outcome = "applied"
	// OutcomeSkipped means the event was recognized but lacked a user id.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeIgnored means the event type is not reconciled.
	OutcomeIgnored Outcome = "ignored"
)

// Reconciler turns verified billing events into entitlement merges.
// It never reads the stored record; every change is a single Merge call.
type Reconciler struct {
	catalog  *Catalog
	prices   *PriceResolver
	store    EntitlementStore
	provider BillingProvider
	logger   *slog.Logger
	now      func() time.Time
}

// ReconcilerOption configures a Reconciler.
type ReconcilerOption func(*Reconciler)

// WithClock overrides the time source used for updatedAt.
func WithClock(now func() time.Time) ReconcilerOption {
	return func(r *Reconciler) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLogger sets the logger for soft failures.
func WithLogger(l *slog.Logger) ReconcilerOption {
	return func(r *Reconciler) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithProvider enables subscription lookups to fill in the billing-period end
// on checkout events, which do not carry it.
func WithProvider(p BillingProvider) ReconcilerOption {
	return func(r *Reconciler) {
		r.provider = p
	}
}

// NewReconciler creates a Reconciler.
func NewReconciler(catalog *Catalog, prices *PriceResolver, store EntitlementStore, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		catalog: catalog,
		prices:  prices,
		store:   store,
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile applies the event to the user's entitlement record.
// Soft failures (no user id, unknown plan, failed subscription lookup) are
// logged and never returned. The only error is a failed store write,
// wrapped with ErrStoreWriteFailed.
func (r *Reconciler) Reconcile(ctx context.Context, event *WebhookEvent) (Outcome, error) {
	if event == nil {
		return OutcomeIgnored, nil
	}

	var (
		update EntitlementUpdate
		ok     bool
	)
	switch event.Type {
	case EventCheckoutCompleted:
		update, ok = r.checkoutCompleted(ctx, event)
	case EventSubscriptionUpdated:
		update, ok = r.subscriptionUpdated(ctx, event)
	case EventSubscriptionDeleted:
		update, ok = r.subscriptionDeleted(ctx, event)
	default:
		r.logger.DebugContext(ctx, "ignoring billing event",
			logger.EventID(event.ID),
			logger.EventType(event.ProviderEvent),
			logger.Component("reconciler"),
		)
		return OutcomeIgnored, nil
	}

	userID := MetadataValue(event.Object, MetadataUserID)
	if !ok || userID == "" {
		r.logger.WarnContext(ctx, "billing event has no user id in metadata, skipping",
			logger.EventID(event.ID),
			logger.EventType(event.ProviderEvent),
			logger.Component("reconciler"),
		)
		return OutcomeSkipped, nil
	}

	if err := r.store.Merge(ctx, userID, update); err != nil {
		return OutcomeApplied, errors.Join(ErrStoreWriteFailed, err)
	}

	attrs := []any{
		logger.UserID(userID),
		logger.EventID(event.ID),
		logger.EventType(event.ProviderEvent),
		logger.Component("reconciler"),
	}
	if update.Plan != nil {
		attrs = append(attrs, logger.PlanID(*update.Plan))
	}
	if update.SubscriptionStatus != nil {
		attrs = append(attrs, logger.SubscriptionStatus(string(*update.SubscriptionStatus)))
	}
	r.logger.InfoContext(ctx, "entitlements reconciled", attrs...)

	return OutcomeApplied, nil
}

func (r *Reconciler) checkoutCompleted(ctx context.Context, event *WebhookEvent) (EntitlementUpdate, bool) {
	obj := event.Object
	if MetadataValue(obj, MetadataUserID) == "" {
		return EntitlementUpdate{}, false
	}

	priceID, strategy := ExtractPriceID(obj, CheckoutPriceStrategies)
	plan := r.resolvePlan(ctx, event, priceID, strategy)

	status := StatusActive
	update := EntitlementUpdate{
		Plan:               &plan.ID,
		PlanName:           &plan.Name,
		SubscriptionStatus: &status,
		FeatureLimits:      FeatureLimits(plan),
		ResetUsageHistory:  true,
		UpdatedAt:          r.now(),
	}

	subscriptionID, _ := stringAt(obj, "subscription")
	if subscriptionID == "" {
		subscriptionID, _ = stringAt(obj, "subscription", "id")
	}
	if subscriptionID != "" {
		update.SubscriptionID = &subscriptionID
	}

	if end, ok := unixTimeAt(obj, "subscription", "current_period_end"); ok {
		update.SubscriptionEndDate = &end
	} else if end := r.fetchPeriodEnd(ctx, event, subscriptionID); end != nil {
		update.SubscriptionEndDate = end
	}

	return update, true
}

func (r *Reconciler) subscriptionUpdated(ctx context.Context, event *WebhookEvent) (EntitlementUpdate, bool) {
	obj := event.Object
	if MetadataValue(obj, MetadataUserID) == "" {
		return EntitlementUpdate{}, false
	}

	raw, _ := stringAt(obj, "status")
	status := SubscriptionStatus(raw)
	update := EntitlementUpdate{
		SubscriptionStatus: &status,
		UpdatedAt:          r.now(),
	}
	if id, ok := stringAt(obj, "id"); ok {
		update.SubscriptionID = &id
	}
	if end, ok := unixTimeAt(obj, "current_period_end"); ok {
		update.SubscriptionEndDate = &end
	}

	switch {
	case status == StatusActive:
		priceID, strategy := ExtractPriceID(obj, SubscriptionPriceStrategies)
		plan := r.resolvePlan(ctx, event, priceID, strategy)
		r.assignPlan(&update, plan)
	case status.RevokesEntitlements():
		r.assignPlan(&update, r.catalog.GetPlanByID(FallbackPlanID))
	}

	return update, true
}

func (r *Reconciler) subscriptionDeleted(_ context.Context, event *WebhookEvent) (EntitlementUpdate, bool) {
	obj := event.Object
	if MetadataValue(obj, MetadataUserID) == "" {
		return EntitlementUpdate{}, false
	}

	status := StatusCanceled
	update := EntitlementUpdate{
		SubscriptionStatus: &status,
		UpdatedAt:          r.now(),
	}
	r.assignPlan(&update, r.catalog.GetPlanByID(FallbackPlanID))

	if id, ok := stringAt(obj, "id"); ok {
		update.SubscriptionID = &id
	}
	if end, ok := unixTimeAt(obj, "current_period_end"); ok {
		update.SubscriptionEndDate = &end
	} else if end, ok := unixTimeAt(obj, "ended_at"); ok {
		update.SubscriptionEndDate = &end
	}

	return update, true
}

func (r *Reconciler) assignPlan(update *EntitlementUpdate, plan Plan) {
	update.Plan = &plan.ID
	update.PlanName = &plan.Name
	update.FeatureLimits = FeatureLimits(plan)
}

// resolvePlan maps the candidate price to a catalog plan. Unknown plan ids
// fall back to the catalog default.
func (r *Reconciler) resolvePlan(ctx context.Context, event *WebhookEvent, priceID, strategy string) Plan {
	metadataPlanID := MetadataValue(event.Object, MetadataPlanID)
	planID := r.prices.ResolvePlanID(priceID, metadataPlanID)

	plan, ok := r.catalog.Lookup(planID)
	if !ok {
		plan = r.catalog.GetPlanByID(planID)
		r.logger.WarnContext(ctx, "unknown plan id, falling back to default plan",
			logger.EventID(event.ID),
			logger.PlanID(planID),
			slog.String("fallback_plan", plan.ID),
			logger.Component("reconciler"),
		)
	}

	r.logger.DebugContext(ctx, "resolved plan for billing event",
		logger.EventID(event.ID),
		logger.PriceID(priceID),
		slog.String("price_strategy", strategy),
		logger.PlanID(plan.ID),
		logger.Component("reconciler"),
	)
	return plan
}

func (r *Reconciler) fetchPeriodEnd(ctx context.Context, event *WebhookEvent, subscriptionID string) *time.Time {
	if r.provider == nil || subscriptionID == "" {
		return nil
	}

	sub, err := r.provider.GetSubscription(ctx, subscriptionID)
	if err != nil {
		r.logger.WarnContext(ctx, "failed to fetch subscription, period end not recorded",
			logger.EventID(event.ID),
			logger.SubscriptionID(subscriptionID),
			logger.Error(err),
			logger.Component("reconciler"),
		)
		return nil
	}
	if sub == nil || sub.CurrentPeriodEnd == nil {
		return nil
	}
	end := sub.CurrentPeriodEnd.UTC()
	return &end
}

func unixTimeAt(obj map[string]any, path ...any) (time.Time, bool) {
	sec, ok := int64At(obj, path...)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(sec, 0).UTC(), true
}
