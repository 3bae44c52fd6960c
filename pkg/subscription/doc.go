// Package subscription maps billing provider events to per-user plan
// entitlements.
//
// # Components
//
//   - Catalog: the read-only set of plans and their feature limits. Lookups
//     by unknown id resolve to the first-declared plan (GetPlanByID).
//   - PriceResolver: provider price id to plan id, with the event's metadata
//     plan id and FallbackPlanID as successive fallbacks.
//   - PriceStrategy lists: where to look for a price id in checkout and
//     subscription payloads, in precedence order.
//   - FeatureLimits: flattens a plan into the map persisted on the user record.
//   - Reconciler: turns one verified WebhookEvent into one EntitlementStore.Merge.
//   - BillingProvider / StripeProvider: hosted checkout, billing portal,
//     webhook verification and subscription lookup.
//
// # Reconciliation
//
//	checkout completed      plan from price, status active, usage history reset
//	subscription updated    status always; plan only when active,
//	                        free plan when canceled, unpaid or incomplete_expired
//	subscription deleted    free plan, status canceled
//
// Events without a user id in metadata are skipped without a write. Every
// write is a merge of the fields it sets, so redelivered events converge on
// the same record. Events delivered out of order are not detected.
//
// # Usage
//
//	catalog := subscription.MustNewCatalog(subscription.DefaultPlans...)
//	prices, err := subscription.NewPriceResolver(catalog, subscription.DefaultPriceMapping)
//	if err != nil {
//		return err
//	}
//	provider := subscription.NewStripeProvider(stripeCfg)
//	reconciler := subscription.NewReconciler(catalog, prices, store,
//		subscription.WithProvider(provider),
//		subscription.WithLogger(log),
//	)
//
//	event, err := provider.ParseWebhook(ctx, payload, r.Header.Get("Stripe-Signature"))
//	if err != nil {
//		return err // 400
//	}
//	outcome, err := reconciler.Reconcile(ctx, event)
//
// # Limits
//
// Limit is an int64 count with Unlimited (-1) as the only negative value.
// It is persisted as the string "unlimited" or the integer itself.
package subscription
