package service

import (
	"context"
	"fmt"

	"github.com/watchparty/cli/pkg/api"
	clierrors "github.com/watchparty/cli/pkg/errors"
	"github.com/watchparty/cli/pkg/formatter"
	"github.com/watchparty/cli/pkg/output"
)

// BillingService manages the premium subscription
type BillingService struct {
	env *Env
}

// NewBillingService creates a new billing service
func NewBillingService(env *Env) *BillingService {
	return &BillingService{env: env}
}

// Plans lists available plans
func (s *BillingService) Plans(ctx context.Context) error {
	var page *api.Page[api.Plan]
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		page, err = s.env.API.Billing.Plans(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to list plans: %w", err)
	}
	return s.env.Out.PrintList("Plans", page.Results, formatter.Plans(page.Results), "No plans available.")
}

// Subscription shows the current subscription
func (s *BillingService) Subscription(ctx context.Context) error {
	var sub *api.Subscription
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		sub, err = s.env.API.Billing.Subscription(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get subscription: %w", err)
	}
	return s.env.Out.PrintRecord("Subscription", sub, formatter.Subscription(sub))
}

// Subscribe starts a subscription on planID
func (s *BillingService) Subscribe(ctx context.Context, planID, paymentMethodID, promoCode string) error {
	if planID == "" {
		return clierrors.ValidationError("plan", "is required")
	}
	var sub *api.Subscription
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		sub, err = s.env.API.Billing.Subscribe(ctx, planID, paymentMethodID, promoCode)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	s.env.Out.Success("Subscribed.")
	return s.env.Out.PrintRecord("Subscription", sub, formatter.Subscription(sub))
}

// Cancel cancels at the end of the billing period after confirmation
func (s *BillingService) Cancel(ctx context.Context, force bool) error {
	ok, err := s.env.confirm(force, "Cancel your subscription at the end of the billing period?")
	if err != nil || !ok {
		return err
	}
	var msg *api.Message
	err = s.env.call(ctx, func(ctx context.Context) error {
		var err error
		msg, err = s.env.API.Billing.Cancel(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to cancel subscription: %w", err)
	}
	s.env.Out.Success("%s", messageOr(msg, "Subscription will end with the current period."))
	return nil
}

// Reactivate undoes a pending cancellation
func (s *BillingService) Reactivate(ctx context.Context) error {
	var msg *api.Message
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		msg, err = s.env.API.Billing.Reactivate(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to reactivate subscription: %w", err)
	}
	s.env.Out.Success("%s", messageOr(msg, "Subscription reactivated."))
	return nil
}

// History lists past payments
func (s *BillingService) History(ctx context.Context) error {
	var page *api.Page[api.Payment]
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		page, err = s.env.API.Billing.History(ctx, api.ListOptions{})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get billing history: %w", err)
	}
	return s.env.Out.PrintList("Payments", page.Results, formatter.Payments(page.Results), "No payments yet.")
}

// Invoice prints the download link of a payment's invoice
func (s *BillingService) Invoice(ctx context.Context, paymentID string) error {
	var res *api.ExportResult
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.env.API.Billing.InvoiceURL(ctx, paymentID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get invoice: %w", err)
	}
	return s.env.Out.PrintRecord("Invoice", res, []output.Field{
		{Key: "Download", Value: res.DownloadURL},
		{Key: "Expires", Value: formatter.Timestamp(res.ExpiresAt)},
	})
}

// UpdatePaymentMethod switches the card on file
func (s *BillingService) UpdatePaymentMethod(ctx context.Context, paymentMethodID string) error {
	if paymentMethodID == "" {
		return clierrors.ValidationError("payment_method", "is required")
	}
	var msg *api.Message
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		msg, err = s.env.API.Billing.UpdatePaymentMethod(ctx, paymentMethodID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to update payment method: %w", err)
	}
	s.env.Out.Success("%s", messageOr(msg, "Payment method updated."))
	return nil
}

// StoreService browses and buys store items
type StoreService struct {
	env *Env
}

// NewStoreService creates a new store service
func NewStoreService(env *Env) *StoreService {
	return &StoreService{env: env}
}

// Items lists store items, optionally in one category
func (s *StoreService) Items(ctx context.Context, category string) error {
	var page *api.Page[api.StoreItem]
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		page, err = s.env.API.Store.Items(ctx, category, api.ListOptions{})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to list store items: %w", err)
	}
	return s.env.Out.PrintList("Store", page.Results, formatter.StoreItems(page.Results), "Nothing for sale right now.")
}

// Buy purchases quantity of an item after confirmation
func (s *StoreService) Buy(ctx context.Context, itemID string, quantity int, force bool) error {
	if quantity < 1 {
		return clierrors.ValidationError("quantity", "must be at least 1")
	}
	ok, err := s.env.confirm(force, "Buy %d of item %s?", quantity, itemID)
	if err != nil || !ok {
		return err
	}

	var p *api.Purchase
	err = s.env.call(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.env.API.Store.Purchase(ctx, itemID, quantity)
		return err
	})
	if err != nil {
		return fmt.Errorf("purchase failed: %w", err)
	}
	name := itemID
	if p.Item != nil {
		name = p.Item.Name
	}
	s.env.Out.Success("Purchased %s.", name)
	return nil
}

// Purchases lists what the user has bought
func (s *StoreService) Purchases(ctx context.Context) error {
	var page *api.Page[api.Purchase]
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		page, err = s.env.API.Store.Purchases(ctx, api.ListOptions{})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to list purchases: %w", err)
	}

	t := output.Table{Headers: []string{"ID", "ITEM", "QTY", "DATE"}}
	for _, p := range page.Results {
		item := "-"
		if p.Item != nil {
			item = p.Item.Name
		}
		t.Rows = append(t.Rows, []string{string(p.ID), item, fmt.Sprint(p.Quantity), formatter.Timestamp(p.PurchasedAt)})
	}
	return s.env.Out.PrintList("Purchases", page.Results, t, "No purchases yet.")
}
