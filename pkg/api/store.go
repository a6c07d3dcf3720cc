package api

import (
	"context"
	"net/http"

	"github.com/watchparty/cli/pkg/client"
	"github.com/watchparty/cli/pkg/logger"
)

// StoreAPI covers the virtual item store
type StoreAPI struct {
	c *client.Client
}

// Items lists store items, optionally in one category
func (s *StoreAPI) Items(ctx context.Context, category string, opts ListOptions) (*Page[StoreItem], error) {
	logger.Debug("Fetching store items", "category", category)
	return get[Page[StoreItem]](ctx, s.c, "/v2/store/items/", merge(opts.params(), client.Params{
		"category": client.NonZero(category),
	}))
}

// Purchase buys quantity of an item
func (s *StoreAPI) Purchase(ctx context.Context, itemID string, quantity int) (*Purchase, error) {
	logger.Debug("Purchasing item", "item_id", itemID, "quantity", quantity)
	if quantity < 1 {
		quantity = 1
	}
	return send[Purchase](ctx, s.c, http.MethodPost, "/v2/store/purchase/", map[string]interface{}{
		"item_id":  itemID,
		"quantity": quantity,
	})
}

// Purchases lists items the user bought
func (s *StoreAPI) Purchases(ctx context.Context, opts ListOptions) (*Page[Purchase], error) {
	logger.Debug("Fetching purchases")
	return get[Page[Purchase]](ctx, s.c, "/v2/store/purchases/", opts.params())
}
