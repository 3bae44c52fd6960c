// Package billing exposes the HTTP surface of the entitlement service:
// hosted checkout and customer portal sessions for the frontend, and the
// Stripe webhook that reconciles each user's plan.
//
// Endpoints mounted by Router:
//
//	POST /create-checkout-session         {planId, planName, priceId, userId, userEmail?} -> {url}
//	POST /create-customer-portal-session  {customerId, returnUrl} -> {url}
//	POST /stripe-webhook                  raw signed event -> {received: true}
//	GET  /healthz, /readyz
//
// The session endpoints answer 400 {"error":"Missing required fields"} before
// any provider call, 500 with the provider's message when Stripe rejects the
// request, and 500 "Missing environment variables" when the API key or the
// frontend URL is not configured. CORS applies to these two routes only.
//
// The webhook answers 400 "Webhook Error: <reason>" when the signature does
// not verify, and 500 only when the entitlement write fails, so Stripe
// redelivers. Every other outcome, including events without a user id and
// unhandled event types, is acknowledged with 200.
//
// MongoStore persists entitlements as one document per user with a single
// upserting $set. RedisDeduper optionally remembers event ids; a claim is
// released when reconciliation fails.
package billing
