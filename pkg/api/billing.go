package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/watchparty/cli/pkg/client"
	"github.com/watchparty/cli/pkg/logger"
)

// BillingAPI covers plans, subscriptions and payments
type BillingAPI struct {
	c *client.Client
}

// Plans lists the subscription plans
func (b *BillingAPI) Plans(ctx context.Context) (*Page[Plan], error) {
	logger.Debug("Fetching plans")
	return get[Page[Plan]](ctx, b.c, "/v2/billing/plans/", nil)
}

// Subscription returns the user's current subscription
func (b *BillingAPI) Subscription(ctx context.Context) (*Subscription, error) {
	logger.Debug("Fetching subscription")
	return get[Subscription](ctx, b.c, "/v2/billing/subscription/", nil)
}

// Subscribe starts a subscription on a plan
func (b *BillingAPI) Subscribe(ctx context.Context, planID, paymentMethodID, promoCode string) (*Subscription, error) {
	logger.Debug("Subscribing", "plan_id", planID)
	body := map[string]string{"plan_id": planID}
	if paymentMethodID != "" {
		body["payment_method_id"] = paymentMethodID
	}
	if promoCode != "" {
		body["promo_code"] = promoCode
	}
	return send[Subscription](ctx, b.c, http.MethodPost, "/v2/billing/subscribe/", body)
}

// Cancel cancels the subscription at the end of the period
func (b *BillingAPI) Cancel(ctx context.Context) (*Message, error) {
	logger.Debug("Cancelling subscription")
	return send[Message](ctx, b.c, http.MethodPost, "/v2/billing/subscription/cancel/", nil)
}

// Reactivate undoes a pending cancellation
func (b *BillingAPI) Reactivate(ctx context.Context) (*Message, error) {
	logger.Debug("Reactivating subscription")
	return send[Message](ctx, b.c, http.MethodPost, "/v2/billing/subscription/resume/", nil)
}

// History lists past payments
func (b *BillingAPI) History(ctx context.Context, opts ListOptions) (*Page[Payment], error) {
	logger.Debug("Fetching billing history")
	return get[Page[Payment]](ctx, b.c, "/v2/billing/history/", opts.params())
}

// InvoiceURL returns the download link of an invoice
func (b *BillingAPI) InvoiceURL(ctx context.Context, paymentID string) (*ExportResult, error) {
	logger.Debug("Fetching invoice", "payment_id", paymentID)
	return get[ExportResult](ctx, b.c, fmt.Sprintf("/v2/billing/invoices/%s/download/", url.PathEscape(paymentID)), nil)
}

// UpdatePaymentMethod replaces the default payment method
func (b *BillingAPI) UpdatePaymentMethod(ctx context.Context, paymentMethodID string) (*Message, error) {
	logger.Debug("Updating payment method")
	return send[Message](ctx, b.c, http.MethodPost, "/v2/billing/payment-methods/", map[string]string{"payment_method_id": paymentMethodID})
}
